package handle

import (
	"net/http"
	"time"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/intake"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

type analyzeResp struct {
	ID       string          `json:"id"`
	Date     time.Time       `json:"date"`
	Analysis report.Analysis `json:"analysis"`
	// Displayed is false when the session was reset while the call was running.
	Displayed bool `json:"displayed"`
}

// Analyze accepts multipart "file", a JSON {image, mimeType} body or a raw image body.
func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	out, err := h.svc.Analyze(r.Context(), sess, func() (intake.Upload, error) {
		return intake.FromRequest(r, h.maxUpload)
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResp{
		ID:        out.Item.ID,
		Date:      out.Item.Date,
		Analysis:  out.Analysis,
		Displayed: out.Applied,
	})
}

func (h *Handle) History(w http.ResponseWriter, r *http.Request) {
	items := h.session(r).History().Items()
	if items == nil {
		items = []history.Item{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
