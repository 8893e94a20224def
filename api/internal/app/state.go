// Package app holds the per-client presentation state and the service that drives it.
package app

import (
	"errors"
	"strings"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/util"
)

const PincodeLength = 6

var (
	// ErrBusy rejects a second intake (or history selection) while an analysis is in flight.
	ErrBusy = errors.New("analysis already in progress")
	// ErrPincodeTooShort rejects a doctor search before any service call.
	ErrPincodeTooShort = errors.New("pincode must have 6 digits")
	// ErrNoResult means there is no analysis on screen to act on.
	ErrNoResult = errors.New("no analysis on screen")

	ErrUnknownTab = errors.New("unknown tab")
)

type Screen string

const (
	ScreenUpload    Screen = "upload"
	ScreenAnalyzing Screen = "analyzing"
	ScreenResult    Screen = "result"
)

type Tab string

const (
	TabSummary Tab = "summary"
	TabDetails Tab = "details"
	TabDoctors Tab = "doctors"
)

var Tabs = []Tab{TabSummary, TabDetails, TabDoctors}

func ParseTab(s string) (Tab, error) {
	switch t := Tab(strings.ToLower(strings.TrimSpace(s))); t {
	case TabSummary, TabDetails, TabDoctors:
		return t, nil
	}
	return "", ErrUnknownTab
}

// Failure is the kind of the last failed intake, shown as a banner on the upload screen.
type Failure string

const (
	FailureNone     Failure = ""
	FailureFileRead Failure = "file_read"
	FailureAnalysis Failure = "analysis"
)

// Message is the localized banner text for f.
func (f Failure) Message(lang i18n.Lang) string {
	switch f {
	case FailureFileRead:
		return i18n.T(lang, i18n.ErrFileRead)
	case FailureAnalysis:
		return i18n.T(lang, i18n.ErrAnalysisFailed)
	}
	return ""
}

// State is one client's screen. Transitions are pure: they return a new State and never
// mutate the receiver.
type State struct {
	Screen Screen    `json:"screen"`
	Tab    Tab       `json:"tab"`
	Lang   i18n.Lang `json:"lang"`

	Current   *report.Analysis `json:"current,omitempty"`
	CurrentID string           `json:"currentId,omitempty"`
	Failure   Failure          `json:"failure,omitempty"`

	Pincode         string          `json:"pincode"`
	Searching       bool            `json:"searching"`
	DoctorsSearched bool            `json:"doctorsSearched"`
	Doctors         []report.Doctor `json:"doctors"`

	// Generation changes whenever a pending call's result must no longer apply.
	Generation uint64 `json:"generation"`
}

func Initial(lang i18n.Lang) State {
	if !lang.Valid() {
		lang = i18n.Default
	}
	return State{Screen: ScreenUpload, Tab: TabSummary, Lang: lang, Doctors: []report.Doctor{}}
}

// clearResult drops the displayed analysis and everything derived from it.
func (s State) clearResult() State {
	s.Current = nil
	s.CurrentID = ""
	s.Tab = TabSummary
	s.Pincode = ""
	s.Searching = false
	s.DoctorsSearched = false
	s.Doctors = []report.Doctor{}
	return s
}

// BeginAnalysis moves to Analyzing. The returned generation identifies this attempt.
func (s State) BeginAnalysis() (State, uint64, error) {
	if s.Screen == ScreenAnalyzing {
		return s, 0, ErrBusy
	}
	s = s.clearResult()
	s.Screen = ScreenAnalyzing
	s.Failure = FailureNone
	s.Generation++
	return s, s.Generation, nil
}

// AnalysisSucceeded shows a. It reports false when the attempt is stale (reset meanwhile).
func (s State) AnalysisSucceeded(gen uint64, a report.Analysis, id string) (State, bool) {
	if gen != s.Generation || s.Screen != ScreenAnalyzing {
		return s, false
	}
	s = s.clearResult()
	s.Screen = ScreenResult
	s.Current = &a
	s.CurrentID = id
	return s, true
}

// AnalysisFailed returns to Upload with the failure banner set.
func (s State) AnalysisFailed(gen uint64, f Failure) (State, bool) {
	if gen != s.Generation || s.Screen != ScreenAnalyzing {
		return s, false
	}
	s = s.clearResult()
	s.Screen = ScreenUpload
	s.Failure = f
	return s, true
}

// Reset returns to Upload. A pending analysis keeps running but will not replace the screen.
func (s State) Reset() State {
	s = s.clearResult()
	s.Screen = ScreenUpload
	s.Failure = FailureNone
	s.Generation++
	return s
}

func (s State) SetLang(l i18n.Lang) State {
	if l.Valid() {
		s.Lang = l
	}
	return s
}

func (s State) ToggleLang() State { return s.SetLang(s.Lang.Toggle()) }

// SetTab switches the result tab. Switching to Doctors never searches by itself.
func (s State) SetTab(t Tab) State {
	s.Tab = t
	return s
}

// SelectHistory shows a stored analysis.
func (s State) SelectHistory(id string, a report.Analysis) (State, error) {
	if s.Screen == ScreenAnalyzing {
		return s, ErrBusy
	}
	s = s.clearResult()
	s.Screen = ScreenResult
	s.Failure = FailureNone
	s.Current = &a
	s.CurrentID = id
	s.Generation++
	return s, nil
}

// SetPincode keeps digits only, at most six.
func (s State) SetPincode(raw string) State {
	s.Pincode = util.DigitsOnly(raw, PincodeLength)
	return s
}

// BeginDoctorSearch validates the pincode and returns the English specialist to search for.
func (s State) BeginDoctorSearch(raw string) (State, string, uint64, error) {
	s = s.SetPincode(raw)
	if s.Screen != ScreenResult || s.Current == nil {
		return s, "", 0, ErrNoResult
	}
	if len(s.Pincode) < PincodeLength {
		return s, "", 0, ErrPincodeTooShort
	}
	s.Tab = TabDoctors
	s.Searching = true
	return s, s.Current.Specialist.Get(i18n.English), s.Generation, nil
}

// DoctorsFound stores the search result unless the screen moved on meanwhile.
func (s State) DoctorsFound(gen uint64, pincode string, docs []report.Doctor) (State, bool) {
	if gen != s.Generation || s.Screen != ScreenResult || s.Pincode != pincode {
		return s, false
	}
	if docs == nil {
		docs = []report.Doctor{}
	}
	s.Searching = false
	s.DoctorsSearched = true
	s.Doctors = docs
	return s, true
}

// RecommendedSpecialist is the localized specialist shown before any search.
func (s State) RecommendedSpecialist() string {
	if s.Current == nil {
		return ""
	}
	return s.Current.Specialist.Get(s.Lang)
}

// clone copies the slices so callers outside the session lock cannot race on them.
func (s State) clone() State {
	s.Doctors = append([]report.Doctor{}, s.Doctors...)
	return s
}
