// Package web serves the server-rendered UI. Every action is a form post that redirects back to "/".
package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/httpserver"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/intake"
)

//go:embed templates/*.html
var templates embed.FS

// errParam carries a one-shot banner for errors the session state does not keep.
const errParam = "e"

var errKeys = map[string]i18n.Key{
	"busy":    i18n.ErrBusy,
	"pincode": i18n.PincodeTooShort,
}

type Web struct {
	svc       *app.Service
	sessions  *app.Sessions
	maxUpload int64
	tmpl      *template.Template
	log       *zap.Logger
	now       func() time.Time
}

func New(svc *app.Service, sessions *app.Sessions, maxUpload int64, log *zap.Logger) (*Web, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Web{svc: svc, sessions: sessions, maxUpload: maxUpload, tmpl: tmpl, log: log, now: time.Now}, nil
}

// Register mounts the UI on r. limit wraps the routes that call the AI service.
func (w *Web) Register(r *mux.Router, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	r.HandleFunc("/", w.Index).Methods(http.MethodGet)
	r.Handle("/upload", limit(http.HandlerFunc(w.Upload))).Methods(http.MethodPost)
	r.Handle("/doctors", limit(http.HandlerFunc(w.Doctors))).Methods(http.MethodPost)
	r.HandleFunc("/reset", w.Reset).Methods(http.MethodPost)
	r.HandleFunc("/lang", w.Lang).Methods(http.MethodPost)
	r.HandleFunc("/tab/{tab}", w.Tab).Methods(http.MethodPost)
	r.HandleFunc("/history/{id}", w.History).Methods(http.MethodPost)
}

func (w *Web) session(r *http.Request) *app.Session {
	return w.sessions.Get(r.Context(), httpserver.SessionKey(r.Context()))
}

func back(rw http.ResponseWriter, r *http.Request, errCode string) {
	target := "/"
	if errCode != "" {
		target += "?" + errParam + "=" + errCode
	}
	http.Redirect(rw, r, target, http.StatusSeeOther)
}

func (w *Web) Index(rw http.ResponseWriter, r *http.Request) {
	sess := w.session(r)
	v := Build(sess.State(), sess.History().Items(), errKeys[r.URL.Query().Get(errParam)], w.now())

	// render to a buffer so a template error never leaves a half-written page
	var buf bytes.Buffer
	if err := w.tmpl.ExecuteTemplate(&buf, "page.html", v); err != nil {
		w.log.Error("render page", zap.Error(err))
		http.Error(rw, "render failed", http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(rw)
}

// Upload analyzes the posted file. Failures are already on the session as a banner.
func (w *Web) Upload(rw http.ResponseWriter, r *http.Request) {
	_, err := w.svc.Analyze(r.Context(), w.session(r), func() (intake.Upload, error) {
		return intake.FromRequest(r, w.maxUpload)
	})
	if errors.Is(err, app.ErrBusy) {
		back(rw, r, "busy")
		return
	}
	back(rw, r, "")
}

func (w *Web) Doctors(rw http.ResponseWriter, r *http.Request) {
	_, err := w.svc.FindDoctors(r.Context(), w.session(r), r.FormValue("pincode"))
	if errors.Is(err, app.ErrPincodeTooShort) {
		back(rw, r, "pincode")
		return
	}
	back(rw, r, "")
}

func (w *Web) Reset(rw http.ResponseWriter, r *http.Request) {
	w.svc.Reset(w.session(r))
	back(rw, r, "")
}

func (w *Web) Lang(rw http.ResponseWriter, r *http.Request) {
	w.svc.ToggleLang(w.session(r))
	back(rw, r, "")
}

func (w *Web) Tab(rw http.ResponseWriter, r *http.Request) {
	if tab, err := app.ParseTab(mux.Vars(r)["tab"]); err == nil {
		w.svc.SetTab(w.session(r), tab)
	}
	back(rw, r, "")
}

func (w *Web) History(rw http.ResponseWriter, r *http.Request) {
	_, err := w.svc.SelectHistory(w.session(r), mux.Vars(r)["id"])
	if errors.Is(err, app.ErrBusy) {
		back(rw, r, "busy")
		return
	}
	back(rw, r, "")
}
