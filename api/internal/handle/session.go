package handle

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

type doctorsReq struct {
	Pincode string `json:"pincode"`
}

type doctorsResp struct {
	Specialist string          `json:"specialist"`
	Pincode    string          `json:"pincode"`
	Doctors    []report.Doctor `json:"doctors"`
	MapURL     string          `json:"mapUrl"`
	Simulated  bool            `json:"simulated"`
}

// Doctors searches for the recommended specialist of the analysis on screen.
func (h *Handle) Doctors(w http.ResponseWriter, r *http.Request) {
	var req doctorsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "bad json: "+err.Error())
		return
	}
	sess := h.session(r)
	docs, err := h.svc.FindDoctors(r.Context(), sess, req.Pincode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	st := sess.State()
	specialist := ""
	if st.Current != nil {
		specialist = st.Current.Specialist.Get(i18n.English)
	}
	writeJSON(w, http.StatusOK, doctorsResp{
		Specialist: specialist,
		Pincode:    st.Pincode,
		Doctors:    docs,
		MapURL:     app.SpecialistMapURL(specialist, st.Pincode),
		Simulated:  true,
	})
}

func (h *Handle) HistoryItem(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	st, err := h.svc.SelectHistory(sess, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handle) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session(r).State())
}

func (h *Handle) Reset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reset(h.session(r)))
}

type langReq struct {
	Lang string `json:"lang"`
}

// Lang sets the display language; an empty body toggles it.
func (h *Handle) Lang(w http.ResponseWriter, r *http.Request) {
	var req langReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "bad json: "+err.Error())
			return
		}
	}
	sess := h.session(r)
	if req.Lang == "" {
		writeJSON(w, http.StatusOK, h.svc.ToggleLang(sess))
		return
	}
	l := i18n.Lang(req.Lang)
	if !l.Valid() {
		badRequest(w, "lang must be en or hi")
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SetLang(sess, l))
}

func (h *Handle) Tab(w http.ResponseWriter, r *http.Request) {
	tab, err := app.ParseTab(mux.Vars(r)["tab"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.SetTab(h.session(r), tab))
}
