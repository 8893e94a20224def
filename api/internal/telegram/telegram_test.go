package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/intake"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/web"
)

const chatID = 42

const cbcJSON = `{"testType":"CBC","overallResult":"Abnormal","riskLevel":"Moderate","healthScore":62,
"summary_en":"Hemoglobin is low.","summary_hi":"हीमोग्लोबिन कम है।","possibleDiagnosis":"Anemia",
"requiredSpecialist":"Hematologist","advice_en":["Eat iron-rich food"],
"parameters":[{"name":"Hemoglobin","value":"10.2","unit":"g/dL","referenceRange":"13.5-17.5","status":"Low"},
{"name":"LDL","value":"90","unit":"mg/dL","referenceRange":"<100","status":"Normal"}]}`

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileURL  string
	fileErr  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFileDirectURL(fileID string) (string, error) {
	if b.fileErr != nil {
		return "", b.fileErr
	}
	return b.fileURL + "/" + fileID, nil
}

// last returns the text and markup of the most recent message or edit.
func (b *fakeBot) last(t *testing.T) (string, any) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.sent)
	switch m := b.sent[len(b.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return m.Text, m.ReplyMarkup
	case tgbotapi.EditMessageTextConfig:
		return m.Text, m.ReplyMarkup
	default:
		t.Fatalf("unexpected %T", m)
	}
	return "", nil
}

type fakeEngine struct {
	mu          sync.Mutex
	text        string
	err         error
	doctors     string
	doctorCalls int
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake" }
func (f *fakeEngine) Analyze(context.Context, ai.Image) (string, error) {
	return f.text, f.err
}
func (f *fakeEngine) SuggestDoctors(context.Context, string, string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doctorCalls++
	return f.doctors, nil
}

func newRouter(t *testing.T, eng ai.Engine) (*Router, *fakeBot) {
	t.Helper()
	files := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("\xff\xd8\xff\xe0jpegdata"))
	}))
	t.Cleanup(files.Close)

	bot := &fakeBot{fileURL: files.URL}
	return &Router{
		Bot:       bot,
		Svc:       app.NewService(ai.NewClient(eng, nil), app.Options{}, nil),
		Sessions:  app.NewSessions(history.NewMemoryStore(), i18n.English, nil),
		MaxUpload: 1 << 20,
		Engine:    "fake",
	}, bot
}

func chat() *tgbotapi.Chat { return &tgbotapi.Chat{ID: chatID} }

func photo(fileID string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:  chat(),
		Photo: []tgbotapi.PhotoSize{{FileID: "thumb"}, {FileID: fileID}},
	}}
}

func command(text string) tgbotapi.Update {
	name := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     chat(),
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func text(s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{Chat: chat(), Text: s}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: chat()},
	}}
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "tg:42", SessionKey(42))
	assert.Equal(t, "tg:-100123", SessionKey(-100123))
}

func TestPhotoAnalysis(t *testing.T) {
	r, bot := newRouter(t, &fakeEngine{text: cbcJSON})
	ctx := context.Background()

	r.HandleUpdate(ctx, photo("big"))
	body, markup := bot.last(t)
	assert.Contains(t, body, "CBC")
	assert.Contains(t, body, "Hemoglobin is low.")
	assert.Contains(t, body, "1. Eat iron-rich food")

	kb, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "• Analysis Summary", kb.InlineKeyboard[0][0].Text)
	require.NotNil(t, kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "tab:details", *kb.InlineKeyboard[0][1].CallbackData)

	sess := r.Sessions.Get(ctx, SessionKey(chatID))
	assert.Equal(t, 1, sess.History().Len())

	r.HandleUpdate(ctx, callback("tab:details"))
	body, _ = bot.last(t)
	assert.Equal(t, 1, strings.Count(body, "⚠️"))
	assert.Contains(t, body, "(&lt;100)")
	assert.Len(t, bot.requests, 1, "callback acknowledged")
}

func TestPhotoAnalysis_Failures(t *testing.T) {
	t.Run("service", func(t *testing.T) {
		r, bot := newRouter(t, &fakeEngine{err: errors.New("boom")})
		r.HandleUpdate(context.Background(), photo("big"))
		body, _ := bot.last(t)
		assert.Equal(t, i18n.T(i18n.English, i18n.ErrAnalysisFailed), body)
	})
	t.Run("download", func(t *testing.T) {
		r, bot := newRouter(t, &fakeEngine{text: cbcJSON})
		r.HandleUpdate(context.Background(), photo("missing"))
		body, _ := bot.last(t)
		assert.Equal(t, i18n.T(i18n.English, i18n.ErrFileRead), body)
		assert.Zero(t, r.Sessions.Get(context.Background(), SessionKey(chatID)).History().Len())
	})
	t.Run("not an image", func(t *testing.T) {
		r, bot := newRouter(t, &fakeEngine{text: cbcJSON})
		r.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
			Chat:     chat(),
			Document: &tgbotapi.Document{FileID: "doc", MimeType: "application/pdf"},
		}})
		body, _ := bot.last(t)
		assert.Equal(t, i18n.T(i18n.English, i18n.BotNotImage), body)
	})
}

func TestDownloadErrorsHideToken(t *testing.T) {
	const token = "123456:AAE-secret_Token"
	r, bot := newRouter(t, &fakeEngine{text: cbcJSON})

	gone := httptest.NewServer(http.NotFoundHandler())
	gone.Close()
	bot.fileURL = gone.URL + "/file/bot" + token

	_, err := r.download(context.Background(), "photos/file_1.jpg", "image/jpeg")
	require.Error(t, err)
	var fre *intake.FileReadError
	assert.ErrorAs(t, err, &fre)
	assert.NotContains(t, err.Error(), token)
	assert.Contains(t, err.Error(), "bot<redacted>")

	bot.fileErr = fmt.Errorf(`Get "https://api.telegram.org/bot%s/getFile": dial tcp: i/o timeout`, token)
	_, err = r.download(context.Background(), "photos/file_1.jpg", "image/jpeg")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), token)
}

func TestDoctorSearchByText(t *testing.T) {
	eng := &fakeEngine{text: cbcJSON, doctors: `[{"name":"Dr. Asha Verma","specialization":"Hematologist","hospital":"City Care","address":"MG Road","distance":"1 km","rating":4.5}]`}
	r, bot := newRouter(t, eng)
	ctx := context.Background()
	r.HandleUpdate(ctx, photo("big"))

	// not on the Doctors tab yet: digits are not a search
	r.HandleUpdate(ctx, text("110001"))
	assert.Zero(t, eng.doctorCalls)

	r.HandleUpdate(ctx, callback("tab:doctors"))
	body, _ := bot.last(t)
	assert.Equal(t, i18n.T(i18n.English, i18n.BotPinHint), body)

	r.HandleUpdate(ctx, text("1100"))
	body, _ = bot.last(t)
	assert.Equal(t, "Pincode must have 6 digits.", body)
	assert.Zero(t, eng.doctorCalls)

	r.HandleUpdate(ctx, text("110 001"))
	assert.Equal(t, 1, eng.doctorCalls)
	body, _ = bot.last(t)
	assert.Contains(t, body, "Dr. Asha Verma")
	assert.Contains(t, body, "query=Dr.+Asha+Verma+MG+Road")
}

func TestHistoryCommand(t *testing.T) {
	r, bot := newRouter(t, &fakeEngine{text: cbcJSON})
	ctx := context.Background()

	r.HandleUpdate(ctx, command("/history"))
	body, _ := bot.last(t)
	assert.Equal(t, "No reports yet.", body)

	r.HandleUpdate(ctx, photo("big"))
	r.HandleUpdate(ctx, callback("new"))
	body, _ = bot.last(t)
	assert.Equal(t, i18n.T(i18n.English, i18n.BotStart), body)

	r.HandleUpdate(ctx, command("/history"))
	_, markup := bot.last(t)
	kb, ok := markup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 1)
	data := *kb.InlineKeyboard[0][0].CallbackData
	require.True(t, strings.HasPrefix(data, "hist:"))
	assert.LessOrEqual(t, len(data), 64)

	r.HandleUpdate(ctx, callback(data))
	body, _ = bot.last(t)
	assert.Contains(t, body, "CBC")
}

func TestCommands(t *testing.T) {
	r, bot := newRouter(t, &fakeEngine{text: cbcJSON})
	ctx := context.Background()
	r.Checks = map[string]HealthCheck{"history": func(context.Context) error { return errors.New("down") }}

	r.HandleUpdate(ctx, command("/health"))
	body, _ := bot.last(t)
	assert.Contains(t, body, "✅ OK (engine: fake)")
	assert.Contains(t, body, "❌ history: down")

	r.HandleUpdate(ctx, command("/lang"))
	body, _ = bot.last(t)
	assert.Equal(t, i18n.T(i18n.Hindi, i18n.BotStart), body)

	r.HandleUpdate(ctx, command("/nope"))
	body, _ = bot.last(t)
	assert.Equal(t, i18n.T(i18n.Hindi, i18n.BotUnknownCmd), body)
}

func TestRenderResult_Truncates(t *testing.T) {
	a, err := report.DecodeWire(cbcJSON)
	require.NoError(t, err)
	for i := 0; i < 300; i++ {
		a.Parameters = append(a.Parameters, report.Parameter{Name: "Marker", Value: "1", Status: report.StatusHigh})
	}
	st, gen, err := app.Initial(i18n.English).BeginAnalysis()
	require.NoError(t, err)
	st, _ = st.AnalysisSucceeded(gen, a, "x")
	st = st.SetTab(app.TabDetails)

	out := renderResult(web.Build(st, nil, "", time.Now()))
	assert.LessOrEqual(t, len([]rune(out)), maxMessageRunes+2)
	assert.True(t, strings.HasSuffix(out, "…"))
}
