package web

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/httpserver"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

const cbcJSON = `{"testType":"CBC","overallResult":"Abnormal","riskLevel":"Moderate","healthScore":62,
"summary_en":"Hemoglobin is low.","summary_hi":"हीमोग्लोबिन कम है।","possibleDiagnosis":"Anemia",
"requiredSpecialist":"Hematologist","advice_en":["Eat iron-rich food","Repeat CBC"],
"parameters":[{"name":"Hemoglobin","value":"10.2","unit":"g/dL","referenceRange":"13.5-17.5","status":"Low"},
{"name":"WBC","value":"7400","unit":"/uL","referenceRange":"4000-11000","status":"Normal"}]}`

const cardioJSON = `{"testType":"Lipid Profile","overallResult":"Abnormal","riskLevel":"Critical","healthScore":35,
"summary_en":"LDL is very high.","summary_hi":"एलडीएल बहुत अधिक है।","possibleDiagnosis":"Hyperlipidemia",
"requiredSpecialist":"Cardiologist","parameters":[{"name":"LDL","value":"210","unit":"mg/dL","referenceRange":"<100","status":"Critical"}]}`

const sessionID = "0190a6f4-3b5c-7d2e-8f00-112233445566"

func decode(t *testing.T, s string) report.Analysis {
	t.Helper()
	a, err := report.DecodeWire(s)
	require.NoError(t, err)
	return a
}

func showing(t *testing.T, a report.Analysis, lang i18n.Lang) app.State {
	t.Helper()
	st, gen, err := app.Initial(lang).BeginAnalysis()
	require.NoError(t, err)
	st, ok := st.AnalysisSucceeded(gen, a, "id-1")
	require.True(t, ok)
	return st
}

func TestBuild_CBCScenario(t *testing.T) {
	st := showing(t, decode(t, cbcJSON), i18n.English)
	v := Build(st, nil, "", time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC))

	require.NotNil(t, v.Result)
	r := v.Result
	assert.Equal(t, "CBC", r.TestType)
	assert.Equal(t, report.RiskModerate, r.RiskLevel)
	assert.Equal(t, 62, r.Score)
	assert.True(t, r.ScoreGood)
	assert.Equal(t, i18n.T(i18n.English, i18n.Patient), r.Patient)
	assert.Equal(t, "04 Mar 2026", r.Date)
	require.Len(t, r.Rows, 2)

	var flagged []string
	for _, row := range r.Rows {
		if row.Flagged {
			flagged = append(flagged, row.Name)
		}
	}
	assert.Equal(t, []string{"Hemoglobin"}, flagged)
	assert.Equal(t, "Hematologist", r.Specialist, "specialist is prefilled before any search")
	assert.False(t, r.Doctors.Searched)
	assert.Equal(t, []string{"Eat iron-rich food", "Repeat CBC"}, r.Advice)
}

func TestBuild_ScoreClamp(t *testing.T) {
	for in, want := range map[int]int{-5: 0, 0: 0, 50: 50, 100: 100, 140: 100} {
		a := decode(t, cbcJSON)
		a.HealthScore = in
		v := Build(showing(t, a, i18n.English), nil, "", time.Now())
		assert.Equal(t, want, v.Result.Score, "score %d", in)
	}
	assert.False(t, Build(showing(t, decode(t, cardioJSON), i18n.English), nil, "", time.Now()).Result.ScoreGood)
}

func TestBuild_LanguageOnlyChangesDisplay(t *testing.T) {
	a := decode(t, cbcJSON)
	st := showing(t, a, i18n.English)
	en := Build(st, nil, "", time.Now())
	hi := Build(st.ToggleLang(), nil, "", time.Now())

	assert.Equal(t, "Hemoglobin is low.", en.Result.Summary)
	assert.Equal(t, "हीमोग्लोबिन कम है।", hi.Result.Summary)
	assert.Equal(t, "hi-IN", hi.SpeechLocale)
	assert.Equal(t, "Anemia", hi.Result.Diagnosis, "missing Hindi diagnosis falls back to English")
	assert.Equal(t, a, *st.ToggleLang().Current)
}

func TestBuild_EmptyDoctorSearch(t *testing.T) {
	st := showing(t, decode(t, cardioJSON), i18n.English)
	st, specialist, gen, err := st.BeginDoctorSearch("110001")
	require.NoError(t, err)
	assert.Equal(t, "Cardiologist", specialist)
	st, ok := st.DoctorsFound(gen, "110001", []report.Doctor{})
	require.True(t, ok)

	d := Build(st, nil, "", time.Now()).Result.Doctors
	assert.True(t, d.Searched)
	assert.Empty(t, d.Cards)
	u, err := url.Parse(d.FallbackURL)
	require.NoError(t, err)
	assert.Equal(t, "Cardiologist near 110001", u.Query().Get("query"))
	assert.Contains(t, d.FallbackText, "Cardiologist")
	assert.Contains(t, d.FallbackText, "110001")
}

func TestBuild_HistoryHiddenWhileAnalyzing(t *testing.T) {
	items := []history.Item{{ID: "a", Date: time.Now(), Analysis: decode(t, cbcJSON)}}

	v := Build(app.Initial(i18n.English), items, "", time.Now())
	require.Len(t, v.History, 1)
	assert.Equal(t, "CBC", v.History[0].Title)
	assert.False(t, v.History[0].Normal)

	busy, _, err := app.Initial(i18n.English).BeginAnalysis()
	require.NoError(t, err)
	assert.Empty(t, Build(busy, items, "", time.Now()).History)
}

func TestBuild_ErrorBanner(t *testing.T) {
	st, gen, err := app.Initial(i18n.Hindi).BeginAnalysis()
	require.NoError(t, err)
	st, _ = st.AnalysisFailed(gen, app.FailureAnalysis)

	v := Build(st, nil, "", time.Now())
	assert.Equal(t, i18n.T(i18n.Hindi, i18n.ErrAnalysisFailed), v.Error)
	assert.Nil(t, v.Result)

	v = Build(app.Initial(i18n.English), nil, i18n.PincodeTooShort, time.Now())
	assert.Equal(t, "Pincode must have 6 digits.", v.Error)
}

type fakeEngine struct {
	text    string
	err     error
	doctors string
	calls   int
}

func (f *fakeEngine) Name() string     { return "fake" }
func (f *fakeEngine) GetModel() string { return "fake" }
func (f *fakeEngine) Analyze(context.Context, ai.Image) (string, error) {
	return f.text, f.err
}
func (f *fakeEngine) SuggestDoctors(context.Context, string, string) (string, error) {
	f.calls++
	return f.doctors, nil
}

func newServer(t *testing.T, engine ai.Engine) http.Handler {
	t.Helper()
	svc := app.NewService(ai.NewClient(engine, nil), app.Options{}, nil)
	sessions := app.NewSessions(history.NewMemoryStore(), i18n.English, nil)
	w, err := New(svc, sessions, 1<<20, nil)
	require.NoError(t, err)
	r := mux.NewRouter()
	w.Register(r, nil)
	return httpserver.Sessions(r)
}

func send(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set(httpserver.SessionHeader, sessionID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, h http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "report.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n0000"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return send(h, req)
}

func page(t *testing.T, h http.Handler, query string) string {
	t.Helper()
	rec := send(h, httptest.NewRequest(http.MethodGet, "/"+query, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func post(h http.Handler, path, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return send(h, req)
}

func TestPage_Upload(t *testing.T) {
	h := newServer(t, &fakeEngine{text: cbcJSON})

	body := page(t, h, "")
	assert.Contains(t, body, `action="/upload"`)
	assert.Contains(t, body, `accept="image/*"`)
	assert.NotContains(t, body, "Recent Reports")

	rec := upload(t, h)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	body = page(t, h, "")
	assert.Contains(t, body, "CBC")
	assert.Contains(t, body, "Moderate")
	assert.Contains(t, body, `stroke-dasharray="62, 100"`)
	assert.Contains(t, body, `data-locale="en-US"`)
	assert.Contains(t, body, "speechSynthesis.cancel()")

	require.Equal(t, http.StatusSeeOther, post(h, "/tab/details", "").Code)
	body = page(t, h, "")
	assert.Equal(t, 1, strings.Count(body, `class="flagged"`))

	require.Equal(t, http.StatusSeeOther, post(h, "/reset", "").Code)
	body = page(t, h, "")
	assert.Contains(t, body, "Recent Reports")
	assert.Contains(t, body, `action="/upload"`)
}

func TestPage_AnalysisFailure(t *testing.T) {
	h := newServer(t, &fakeEngine{err: errors.New("boom")})

	require.Equal(t, http.StatusSeeOther, upload(t, h).Code)
	body := page(t, h, "")
	assert.Contains(t, body, "Failed to analyze report.")
	assert.NotContains(t, body, "Recent Reports")
	assert.NotContains(t, body, "stroke-dasharray")
}

func TestPage_DoctorSearch(t *testing.T) {
	eng := &fakeEngine{text: cardioJSON, doctors: "[]"}
	h := newServer(t, eng)
	require.Equal(t, http.StatusSeeOther, upload(t, h).Code)

	rec := post(h, "/doctors", "pincode=1100")
	assert.Equal(t, "/?e=pincode", rec.Header().Get("Location"))
	assert.Zero(t, eng.calls)
	assert.Contains(t, page(t, h, "?e=pincode"), "Pincode must have 6 digits.")

	rec = post(h, "/doctors", "pincode=110001")
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 1, eng.calls)

	body := page(t, h, "")
	assert.Contains(t, body, "No direct recommendations found in simulation.")
	assert.Contains(t, body, "query=Cardiologist+near+110001")
}

func TestPage_LangToggle(t *testing.T) {
	h := newServer(t, &fakeEngine{text: cbcJSON})
	require.Equal(t, http.StatusSeeOther, post(h, "/lang", "").Code)
	body := page(t, h, "")
	assert.Contains(t, body, `lang="hi"`)
	assert.Contains(t, body, "रिपोर्ट अपलोड करें")
}

func TestPage_UnknownHistory(t *testing.T) {
	h := newServer(t, &fakeEngine{text: cbcJSON})
	rec := post(h, "/history/missing", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, page(t, h, ""), `action="/upload"`)
}
