package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/intake"
)

func (r *Router) acceptPhoto(ctx context.Context, msg *tgbotapi.Message) {
	// the last size is the largest
	ph := msg.Photo[len(msg.Photo)-1]
	r.analyze(ctx, msg.Chat.ID, ph.FileID, "image/jpeg")
}

func (r *Router) acceptDocument(ctx context.Context, msg *tgbotapi.Message) {
	doc := msg.Document
	mime := strings.ToLower(strings.TrimSpace(doc.MimeType))
	if mime != "" && !strings.HasPrefix(mime, "image/") {
		lang := r.session(ctx, msg.Chat.ID).State().Lang
		r.send(msg.Chat.ID, i18n.T(lang, i18n.BotNotImage))
		return
	}
	r.analyze(ctx, msg.Chat.ID, doc.FileID, mime)
}

func (r *Router) analyze(ctx context.Context, chatID int64, fileID, mime string) {
	sess := r.session(ctx, chatID)
	lang := sess.State().Lang
	r.send(chatID, "⏳ "+i18n.T(lang, i18n.Analyzing))

	out, err := r.Svc.Analyze(ctx, sess, func() (intake.Upload, error) {
		return r.download(ctx, fileID, mime)
	})
	if err != nil {
		lang = sess.State().Lang
		var fre *intake.FileReadError
		switch {
		case errors.Is(err, app.ErrBusy):
			r.send(chatID, i18n.T(lang, i18n.ErrBusy))
		case errors.As(err, &fre):
			r.send(chatID, i18n.T(lang, i18n.ErrFileRead))
		default:
			r.send(chatID, i18n.T(lang, i18n.ErrAnalysisFailed))
		}
		return
	}
	if !out.Applied {
		// reset while analyzing: the report is in /history, the chat moved on
		return
	}
	r.sendState(chatID, sess)
}

func (r *Router) download(ctx context.Context, fileID, mime string) (intake.Upload, error) {
	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return intake.Upload{}, &intake.FileReadError{Err: redactToken(err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return intake.Upload{}, &intake.FileReadError{Err: redactToken(err)}
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return intake.Upload{}, &intake.FileReadError{Err: redactToken(err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.log().Warn("telegram file download", zap.Int("status", resp.StatusCode))
		return intake.Upload{}, &intake.FileReadError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(b))}
	}
	return intake.Read(resp.Body, mime, r.MaxUpload)
}

func (r *Router) httpClient() *http.Client {
	if r.HTTP != nil {
		return r.HTTP
	}
	return &http.Client{Timeout: 60 * time.Second}
}

// Bot API and file URLs carry the token as bot<id>:<secret>.
var tokenInURL = regexp.MustCompile(`bot\d+:[A-Za-z0-9_-]+`)

// redactToken strips the bot token from err's message so it can be logged.
func redactToken(err error) error {
	msg := err.Error()
	clean := tokenInURL.ReplaceAllString(msg, "bot<redacted>")
	if clean == msg {
		return err
	}
	return errors.New(clean)
}
