package report

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
)

// wireAnalysis is the flat JSON the vision model is asked to produce.
type wireAnalysis struct {
	PatientName          string          `json:"patientName,omitempty"`
	ReportDate           string          `json:"reportDate,omitempty"`
	TestType             string          `json:"testType"`
	OverallResult        string          `json:"overallResult"`
	RiskLevel            string          `json:"riskLevel"`
	HealthScore          *float64        `json:"healthScore"`
	SummaryEN            string          `json:"summary_en"`
	SummaryHI            string          `json:"summary_hi"`
	PossibleDiagnosis    string          `json:"possibleDiagnosis"`
	PossibleDiagnosisHI  string          `json:"possibleDiagnosis_hi,omitempty"`
	AdviceEN             []string        `json:"advice_en"`
	AdviceHI             []string        `json:"advice_hi"`
	RequiredSpecialist   string          `json:"requiredSpecialist"`
	RequiredSpecialistHI string          `json:"requiredSpecialist_hi,omitempty"`
	Parameters           []wireParameter `json:"parameters"`
}

type wireParameter struct {
	Name             string `json:"name"`
	Value            string `json:"value"`
	Unit             string `json:"unit"`
	ReferenceRange   string `json:"referenceRange"`
	Status           string `json:"status"`
	Interpretation   string `json:"interpretation,omitempty"`
	InterpretationHI string `json:"interpretation_hi,omitempty"`
}

// DecodeWire parses the model's JSON text into an Analysis and validates it.
// A syntax error is returned as is; schema violations come back as *ValidationError.
func DecodeWire(text string) (Analysis, error) {
	var w wireAnalysis
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return Analysis{}, err
	}
	if err := w.validate(); err != nil {
		return Analysis{}, err
	}
	return w.toAnalysis(), nil
}

func (w wireAnalysis) toAnalysis() Analysis {
	a := Analysis{
		PatientName:   strings.TrimSpace(w.PatientName),
		ReportDate:    strings.TrimSpace(w.ReportDate),
		TestType:      strings.TrimSpace(w.TestType),
		OverallResult: Result(canonical(w.OverallResult, string(ResultNormal), string(ResultAbnormal))),
		RiskLevel:     RiskLevel(canonical(w.RiskLevel, string(RiskSafe), string(RiskModerate), string(RiskCritical))),
		HealthScore:   int(math.Round(*w.HealthScore)),
		Summary:       texts(w.SummaryEN, w.SummaryHI),
		Advice:        TextList{},
		Diagnosis:     texts(w.PossibleDiagnosis, w.PossibleDiagnosisHI),
		Specialist:    texts(w.RequiredSpecialist, w.RequiredSpecialistHI),
		Parameters:    make([]Parameter, 0, len(w.Parameters)),
	}
	if a.PatientName == "" {
		a.PatientName = UnknownPatient
	}
	if len(w.AdviceEN) > 0 {
		a.Advice[i18n.English] = w.AdviceEN
	}
	if len(w.AdviceHI) > 0 {
		a.Advice[i18n.Hindi] = w.AdviceHI
	}
	for _, p := range w.Parameters {
		a.Parameters = append(a.Parameters, Parameter{
			Name:           strings.TrimSpace(p.Name),
			Value:          strings.TrimSpace(p.Value),
			Unit:           strings.TrimSpace(p.Unit),
			ReferenceRange: strings.TrimSpace(p.ReferenceRange),
			Status:         Status(canonical(p.Status, string(StatusNormal), string(StatusLow), string(StatusHigh), string(StatusCritical))),
			Interpretation: texts(p.Interpretation, p.InterpretationHI),
		})
	}
	return a
}

// EncodeWire renders a in the flat shape the model produces. The stub engine and tests use it.
func EncodeWire(a Analysis) ([]byte, error) {
	score := float64(a.HealthScore)
	w := wireAnalysis{
		PatientName:          a.PatientName,
		ReportDate:           a.ReportDate,
		TestType:             a.TestType,
		OverallResult:        string(a.OverallResult),
		RiskLevel:            string(a.RiskLevel),
		HealthScore:          &score,
		SummaryEN:            a.Summary[i18n.English],
		SummaryHI:            a.Summary[i18n.Hindi],
		PossibleDiagnosis:    a.Diagnosis[i18n.English],
		PossibleDiagnosisHI:  a.Diagnosis[i18n.Hindi],
		AdviceEN:             a.Advice[i18n.English],
		AdviceHI:             a.Advice[i18n.Hindi],
		RequiredSpecialist:   a.Specialist[i18n.English],
		RequiredSpecialistHI: a.Specialist[i18n.Hindi],
		Parameters:           make([]wireParameter, 0, len(a.Parameters)),
	}
	for _, p := range a.Parameters {
		w.Parameters = append(w.Parameters, wireParameter{
			Name:             p.Name,
			Value:            p.Value,
			Unit:             p.Unit,
			ReferenceRange:   p.ReferenceRange,
			Status:           string(p.Status),
			Interpretation:   p.Interpretation[i18n.English],
			InterpretationHI: p.Interpretation[i18n.Hindi],
		})
	}
	return json.Marshal(w)
}

// DecodeDoctors parses the doctor-suggestion array. Entries without a name are dropped.
func DecodeDoctors(text string) ([]Doctor, error) {
	var ds []Doctor
	if err := json.Unmarshal([]byte(text), &ds); err != nil {
		return nil, err
	}
	out := make([]Doctor, 0, len(ds))
	for _, d := range ds {
		if strings.TrimSpace(d.Name) == "" {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func texts(en, hi string) Text {
	t := Text{}
	if s := strings.TrimSpace(en); s != "" {
		t[i18n.English] = s
	}
	if s := strings.TrimSpace(hi); s != "" {
		t[i18n.Hindi] = s
	}
	return t
}

// canonical maps s onto one of allowed ignoring case; unknown values are returned trimmed.
func canonical(s string, allowed ...string) string {
	s = strings.TrimSpace(s)
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return a
		}
	}
	return s
}
