// Package report holds the domain shape of one analyzed lab report and the codec for the
// external service's JSON.
package report

import (
	"strings"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
)

const UnknownPatient = "Unknown"

type Result string

const (
	ResultNormal   Result = "Normal"
	ResultAbnormal Result = "Abnormal"
)

type RiskLevel string

const (
	RiskSafe     RiskLevel = "Safe"
	RiskModerate RiskLevel = "Moderate"
	RiskCritical RiskLevel = "Critical"
)

type Status string

const (
	StatusNormal   Status = "Normal"
	StatusLow      Status = "Low"
	StatusHigh     Status = "High"
	StatusCritical Status = "Critical"
)

// Severity is the visual classification of a parameter row.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Status) Severity() Severity {
	switch s {
	case StatusNormal:
		return SeverityNormal
	case StatusCritical:
		return SeverityCritical
	default:
		return SeverityWarning
	}
}

func (s Status) Abnormal() bool { return s != StatusNormal }

// Text is one narrative field indexed by language.
type Text map[i18n.Lang]string

// Get returns the text in lang, or the English text when lang is missing or blank.
func (t Text) Get(lang i18n.Lang) string {
	if s := strings.TrimSpace(t[lang]); s != "" {
		return t[lang]
	}
	return t[i18n.English]
}

// TextList is an ordered list field (advice) indexed by language.
type TextList map[i18n.Lang][]string

func (t TextList) Get(lang i18n.Lang) []string {
	if l := t[lang]; len(l) > 0 {
		return l
	}
	return t[i18n.English]
}

type Parameter struct {
	Name           string `json:"name"`
	Value          string `json:"value"`
	Unit           string `json:"unit"`
	ReferenceRange string `json:"referenceRange"`
	Status         Status `json:"status"`
	Interpretation Text   `json:"interpretation"`
}

// Analysis is the structured result of one analysis call. It is built once and never mutated.
type Analysis struct {
	PatientName   string      `json:"patientName"`
	ReportDate    string      `json:"reportDate,omitempty"`
	TestType      string      `json:"testType"`
	OverallResult Result      `json:"overallResult"`
	RiskLevel     RiskLevel   `json:"riskLevel"`
	HealthScore   int         `json:"healthScore"`
	Summary       Text        `json:"summary"`
	Advice        TextList    `json:"advice"`
	Diagnosis     Text        `json:"diagnosis"`
	Specialist    Text        `json:"specialist"`
	Parameters    []Parameter `json:"parameters"`
}

// AbnormalCount is the number of parameters whose status is not Normal.
func (a Analysis) AbnormalCount() int {
	n := 0
	for _, p := range a.Parameters {
		if p.Status.Abnormal() {
			n++
		}
	}
	return n
}

// Consistent reports whether overallResult agrees with the parameter statuses.
// The service produces both; callers only log a mismatch.
func (a Analysis) Consistent() bool {
	if len(a.Parameters) == 0 {
		return true
	}
	if a.OverallResult == ResultNormal {
		return a.AbnormalCount() == 0
	}
	return true
}

// Doctor is one simulated recommendation; the data is representative, not a real directory.
type Doctor struct {
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Hospital       string  `json:"hospital"`
	Address        string  `json:"address"`
	Distance       string  `json:"distance"`
	Rating         float64 `json:"rating"`
}
