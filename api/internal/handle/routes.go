package handle

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register mounts the API on r. limit wraps the endpoints that call the AI service.
func (h *Handle) Register(r *mux.Router, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	r.Handle("/analyze", limit(http.HandlerFunc(h.Analyze))).Methods(http.MethodPost)
	r.Handle("/doctors", limit(http.HandlerFunc(h.Doctors))).Methods(http.MethodPost)
	r.HandleFunc("/history", h.History).Methods(http.MethodGet)
	r.HandleFunc("/history/{id}", h.HistoryItem).Methods(http.MethodGet)
	r.HandleFunc("/state", h.State).Methods(http.MethodGet)
	r.HandleFunc("/reset", h.Reset).Methods(http.MethodPost)
	r.HandleFunc("/lang", h.Lang).Methods(http.MethodPost)
	r.HandleFunc("/tab/{tab}", h.Tab).Methods(http.MethodPost)
}
