// Package telegram is the chat surface: a report photo in, an analysis with tab buttons out.
package telegram

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/web"
)

// Bot is the subset of *tgbotapi.BotAPI the router uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// HealthCheck reports whether a dependency is usable; /health runs them all.
type HealthCheck func(ctx context.Context) error

type Router struct {
	Bot       Bot
	Svc       *app.Service
	Sessions  *app.Sessions
	MaxUpload int64
	Engine    string
	Checks    map[string]HealthCheck
	HTTP      *http.Client
	Log       *zap.Logger
}

// SessionKey is the session key for a chat.
func SessionKey(chatID int64) string { return "tg:" + strconv.FormatInt(chatID, 10) }

func (r *Router) session(ctx context.Context, chatID int64) *app.Session {
	return r.Sessions.Get(ctx, SessionKey(chatID))
}

func (r *Router) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// HandleUpdate dispatches one update. It blocks for the duration of an analysis, so callers
// run it on its own goroutine.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, *upd.CallbackQuery)
		return
	}
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	switch {
	case msg.IsCommand():
		r.HandleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		r.acceptPhoto(ctx, msg)
	case msg.Document != nil:
		r.acceptDocument(ctx, msg)
	case strings.TrimSpace(msg.Text) != "":
		r.handleText(ctx, msg)
	}
}

func (r *Router) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	sess := r.session(ctx, cid)
	lang := sess.State().Lang
	switch msg.Command() {
	case "start":
		r.send(cid, i18n.T(lang, i18n.BotStart))
	case "health":
		r.send(cid, r.health(ctx))
	case "lang":
		st := r.Svc.ToggleLang(sess)
		if st.Current != nil {
			r.sendState(cid, sess)
			return
		}
		r.send(cid, i18n.T(st.Lang, i18n.BotStart))
	case "history":
		h := sess.History()
		if h.Len() == 0 {
			r.send(cid, i18n.T(lang, i18n.HistoryEmpty))
			return
		}
		m := tgbotapi.NewMessage(cid, i18n.T(lang, i18n.RecentReports))
		m.ReplyMarkup = historyKeyboard(h.Items(), lang)
		r.sendMessage(m)
	default:
		r.send(cid, i18n.T(lang, i18n.BotUnknownCmd))
	}
}

func (r *Router) health(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	var b strings.Builder
	b.WriteString("✅ OK")
	if r.Engine != "" {
		b.WriteString(" (engine: " + r.Engine + ")")
	}
	for name, check := range r.Checks {
		if err := check(ctx); err != nil {
			b.WriteString("\n❌ " + name + ": " + err.Error())
		}
	}
	return b.String()
}

// handleText runs a doctor search when the chat is on the Doctors tab.
func (r *Router) handleText(ctx context.Context, msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	sess := r.session(ctx, cid)
	st := sess.State()
	if st.Screen != app.ScreenResult || st.Tab != app.TabDoctors || !looksLikePincode(msg.Text) {
		r.send(cid, i18n.T(st.Lang, i18n.BotStart))
		return
	}
	if _, err := r.Svc.FindDoctors(ctx, sess, msg.Text); err != nil {
		if errors.Is(err, app.ErrPincodeTooShort) {
			r.send(cid, i18n.T(st.Lang, i18n.PincodeTooShort))
			return
		}
		r.log().Warn("doctor search rejected", zap.Error(err))
		r.send(cid, i18n.T(st.Lang, i18n.BotStart))
		return
	}
	r.sendState(cid, sess)
}

func looksLikePincode(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != ' ' && c != '-' {
			return false
		}
	}
	return true
}

// sendState posts the session's current screen as a new message.
func (r *Router) sendState(chatID int64, sess *app.Session) {
	text, kb := r.render(sess)
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	m.DisableWebPagePreview = true
	if kb != nil {
		m.ReplyMarkup = *kb
	}
	r.sendMessage(m)
}

// editState rewrites an earlier result message in place.
func (r *Router) editState(chatID int64, msgID int, sess *app.Session) {
	text, kb := r.render(sess)
	var edit tgbotapi.EditMessageTextConfig
	if kb != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, *kb)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, msgID, text)
	}
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if _, err := r.Bot.Send(edit); err != nil {
		r.log().Warn("edit message", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (r *Router) render(sess *app.Session) (string, *tgbotapi.InlineKeyboardMarkup) {
	st := sess.State()
	v := web.Build(st, sess.History().Items(), "", time.Now().UTC())
	if v.Result == nil {
		return i18n.T(st.Lang, i18n.BotStart), nil
	}
	kb := resultKeyboard(st)
	return renderResult(v), &kb
}

func (r *Router) send(chatID int64, text string) {
	r.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendMessage(m tgbotapi.MessageConfig) {
	if _, err := r.Bot.Send(m); err != nil {
		r.log().Warn("send message", zap.Int64("chat", m.ChatID), zap.Error(err))
	}
}
