package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
)

// Callback data. Telegram caps it at 64 bytes; a history id is a 36-byte UUID.
const (
	cbTab     = "tab:"
	cbHistory = "hist:"
	cbLang    = "lang"
	cbNew     = "new"
)

func (r *Router) handleCallback(ctx context.Context, cb tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.log().Debug("callback ack", zap.Error(err))
	}
	if cb.Message == nil {
		return
	}
	cid, msgID := cb.Message.Chat.ID, cb.Message.MessageID
	sess := r.session(ctx, cid)

	switch data := cb.Data; {
	case strings.HasPrefix(data, cbTab):
		tab, err := app.ParseTab(strings.TrimPrefix(data, cbTab))
		if err != nil {
			return
		}
		st := r.Svc.SetTab(sess, tab)
		r.editState(cid, msgID, sess)
		if tab == app.TabDoctors && st.Current != nil && !st.DoctorsSearched {
			r.send(cid, i18n.T(st.Lang, i18n.BotPinHint))
		}
	case data == cbLang:
		r.Svc.ToggleLang(sess)
		r.editState(cid, msgID, sess)
	case data == cbNew:
		st := r.Svc.Reset(sess)
		r.clearKeyboard(cid, msgID)
		r.send(cid, i18n.T(st.Lang, i18n.BotStart))
	case strings.HasPrefix(data, cbHistory):
		_, err := r.Svc.SelectHistory(sess, strings.TrimPrefix(data, cbHistory))
		if err != nil {
			lang := sess.State().Lang
			if errors.Is(err, app.ErrBusy) {
				r.send(cid, i18n.T(lang, i18n.ErrBusy))
				return
			}
			r.send(cid, i18n.T(lang, i18n.HistoryEmpty))
			return
		}
		r.sendState(cid, sess)
	}
}

func (r *Router) clearKeyboard(chatID int64, msgID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := r.Bot.Send(edit); err != nil {
		r.log().Debug("clear keyboard", zap.Error(err))
	}
}
