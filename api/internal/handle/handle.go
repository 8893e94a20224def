// Package handle serves the JSON API under /api/v1.
package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/ai"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/httpserver"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/intake"
)

type Handle struct {
	svc       *app.Service
	sessions  *app.Sessions
	maxUpload int64
	log       *zap.Logger
}

func New(svc *app.Service, sessions *app.Sessions, maxUpload int64, log *zap.Logger) *Handle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handle{svc: svc, sessions: sessions, maxUpload: maxUpload, log: log}
}

func (h *Handle) session(r *http.Request) *app.Session {
	return h.sessions.Get(r.Context(), httpserver.SessionKey(r.Context()))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody carries the localized message in both languages so clients can switch freely.
type errorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Message map[string]string `json:"message,omitempty"`
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg, Code: "bad_request"})
}

func bilingual(key i18n.Key) map[string]string {
	return map[string]string{
		string(i18n.English): i18n.T(i18n.English, key),
		string(i18n.Hindi):   i18n.T(i18n.Hindi, key),
	}
}

// writeError maps the domain errors onto HTTP statuses.
func (h *Handle) writeError(w http.ResponseWriter, err error) {
	var fre *intake.FileReadError
	switch {
	case errors.Is(err, app.ErrBusy):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "busy", Message: bilingual(i18n.ErrBusy)})
	case errors.As(err, &fre):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "file_read", Message: bilingual(i18n.ErrFileRead)})
	case errors.Is(err, app.ErrPincodeTooShort):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Code: "pincode", Message: bilingual(i18n.PincodeTooShort)})
	case errors.Is(err, app.ErrNoResult):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Code: "no_result"})
	case errors.Is(err, app.ErrUnknownTab):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Code: "tab"})
	case errors.Is(err, history.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "history item not found", Code: "not_found"})
	case ai.IsAnalysisFailure(err):
		// the cause stays in the logs; clients only get the generic message
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "analysis failed", Code: "analysis", Message: bilingual(i18n.ErrAnalysisFailed)})
	default:
		h.log.Error("unhandled api error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Code: "internal"})
	}
}
