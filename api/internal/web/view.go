package web

import (
	"strconv"
	"strings"
	"time"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/app"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
)

const dateLayout = "02 Jan 2006"

// View is everything the page template needs; built without I/O so it can be tested directly.
type View struct {
	Lang         i18n.Lang
	LangLabel    string
	SpeechLocale string
	Screen       app.Screen
	Error        string
	History      []Card
	Features     []Feature
	Result       *ResultView
}

// T looks up a UI string in the page language.
func (v View) T(key string) string { return i18n.T(v.Lang, i18n.Key(key)) }

type Card struct {
	ID        string
	Date      string
	Title     string
	Diagnosis string
	Normal    bool
}

type Feature struct {
	Icon, Title, Desc string
}

type ResultView struct {
	Patient    string
	TestType   string
	Date       string
	RiskLevel  report.RiskLevel
	RiskClass  string
	Diagnosis  string
	Score      int
	ScoreGood  bool
	Summary    string
	Advice     []string
	Tab        app.Tab
	Tabs       []TabLink
	Rows       []Row
	Specialist string
	Doctors    DoctorsView
}

type TabLink struct {
	Tab    app.Tab
	Label  string
	Active bool
}

type Row struct {
	Name           string
	Interpretation string
	Value          string
	Unit           string
	Range          string
	Status         report.Status
	StatusClass    string
	Flagged        bool
}

type DoctorsView struct {
	Pincode  string
	Searched bool
	Cards    []DoctorCard
	// FallbackURL and FallbackText are set when a search came back empty.
	FallbackURL  string
	FallbackText string
}

type DoctorCard struct {
	report.Doctor
	Rating string
	MapURL string
}

// Build turns a session's state and history into the page model. errKey, when set, overrides
// the state's failure banner. now dates a result whose report carries no date.
func Build(st app.State, items []history.Item, errKey i18n.Key, now time.Time) View {
	lang := st.Lang
	v := View{
		Lang:         lang,
		LangLabel:    lang.Label(),
		SpeechLocale: lang.SpeechLocale(),
		Screen:       st.Screen,
		Error:        st.Failure.Message(lang),
		Features: []Feature{
			{Icon: "🔍", Title: i18n.T(lang, i18n.FeatureOCRTitle), Desc: i18n.T(lang, i18n.FeatureOCRDesc)},
			{Icon: "🏥", Title: i18n.T(lang, i18n.FeatureDoctorsTitle), Desc: i18n.T(lang, i18n.FeatureDoctorsDesc)},
			{Icon: "🛡️", Title: i18n.T(lang, i18n.FeatureRiskTitle), Desc: i18n.T(lang, i18n.FeatureRiskDesc)},
		},
	}
	if errKey != "" {
		v.Error = i18n.T(lang, errKey)
	}
	if st.Screen != app.ScreenAnalyzing {
		for _, it := range items {
			v.History = append(v.History, card(it, lang))
		}
	}
	if st.Screen == app.ScreenResult && st.Current != nil {
		date := now
		for _, it := range items {
			if it.ID == st.CurrentID {
				date = it.Date
				break
			}
		}
		v.Result = result(st, date)
	}
	return v
}

func card(it history.Item, lang i18n.Lang) Card {
	title := it.Analysis.TestType
	if title == "" {
		title = i18n.T(lang, i18n.MedicalReport)
	}
	return Card{
		ID:        it.ID,
		Date:      it.Date.Format(dateLayout),
		Title:     title,
		Diagnosis: it.Analysis.Diagnosis.Get(lang),
		Normal:    it.Analysis.OverallResult == report.ResultNormal,
	}
}

func result(st app.State, date time.Time) *ResultView {
	a, lang := st.Current, st.Lang
	score := ClampScore(a.HealthScore)
	rv := &ResultView{
		Patient:    a.PatientName,
		TestType:   a.TestType,
		Date:       a.ReportDate,
		RiskLevel:  a.RiskLevel,
		RiskClass:  riskClass(a.RiskLevel),
		Diagnosis:  a.Diagnosis.Get(lang),
		Score:      score,
		ScoreGood:  score > 50,
		Summary:    a.Summary.Get(lang),
		Advice:     a.Advice.Get(lang),
		Tab:        st.Tab,
		Specialist: st.RecommendedSpecialist(),
	}
	if rv.Patient == "" || rv.Patient == report.UnknownPatient {
		rv.Patient = i18n.T(lang, i18n.Patient)
	}
	if rv.Date == "" {
		rv.Date = date.Format(dateLayout)
	}
	for _, t := range app.Tabs {
		rv.Tabs = append(rv.Tabs, TabLink{Tab: t, Label: tabLabel(t, lang), Active: t == st.Tab})
	}
	for _, p := range a.Parameters {
		rv.Rows = append(rv.Rows, Row{
			Name:           p.Name,
			Interpretation: p.Interpretation.Get(lang),
			Value:          p.Value,
			Unit:           p.Unit,
			Range:          p.ReferenceRange,
			Status:         p.Status,
			StatusClass:    statusClass(p.Status),
			Flagged:        p.Status.Abnormal(),
		})
	}

	dv := DoctorsView{Pincode: st.Pincode, Searched: st.DoctorsSearched}
	for _, d := range st.Doctors {
		dv.Cards = append(dv.Cards, DoctorCard{
			Doctor: d,
			Rating: strconv.FormatFloat(d.Rating, 'f', -1, 64),
			MapURL: app.DoctorMapURL(d),
		})
	}
	if dv.Searched && len(dv.Cards) == 0 {
		// the link searches the English name; the label stays localized
		dv.FallbackURL = app.SpecialistMapURL(a.Specialist.Get(i18n.English), st.Pincode)
		dv.FallbackText = strings.Join([]string{
			i18n.T(lang, i18n.ClickMap), rv.Specialist, i18n.T(lang, i18n.Near), st.Pincode,
		}, " ")
	}
	rv.Doctors = dv
	return rv
}

// ClampScore bounds a health score for display.
func ClampScore(s int) int {
	return min(max(s, 0), 100)
}

func tabLabel(t app.Tab, lang i18n.Lang) string {
	switch t {
	case app.TabDetails:
		return i18n.T(lang, i18n.TabDetails)
	case app.TabDoctors:
		return i18n.T(lang, i18n.TabDoctors)
	}
	return i18n.T(lang, i18n.TabSummary)
}

func riskClass(r report.RiskLevel) string {
	switch r {
	case report.RiskCritical:
		return "risk-critical"
	case report.RiskModerate:
		return "risk-moderate"
	}
	return "risk-safe"
}

func statusClass(s report.Status) string {
	switch s {
	case report.StatusNormal:
		return "status-normal"
	case report.StatusCritical:
		return "status-critical"
	}
	return "status-warning"
}
