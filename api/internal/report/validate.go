package report

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError reports the first field of a model response that breaks the output schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (w wireAnalysis) validate() error {
	required := []struct{ field, value string }{
		{"testType", w.TestType},
		{"summary_en", w.SummaryEN},
		{"summary_hi", w.SummaryHI},
		{"requiredSpecialist", w.RequiredSpecialist},
		{"possibleDiagnosis", w.PossibleDiagnosis},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return invalid(r.field, "required")
		}
	}
	if !oneOf(w.OverallResult, string(ResultNormal), string(ResultAbnormal)) {
		return invalid("overallResult", fmt.Sprintf("unexpected value %q", w.OverallResult))
	}
	if !oneOf(w.RiskLevel, string(RiskSafe), string(RiskModerate), string(RiskCritical)) {
		return invalid("riskLevel", fmt.Sprintf("unexpected value %q", w.RiskLevel))
	}
	if w.HealthScore == nil {
		return invalid("healthScore", "required")
	}
	if s := *w.HealthScore; math.IsNaN(s) || s < 0 || s > 100 {
		return invalid("healthScore", fmt.Sprintf("%v out of range 0-100", s))
	}
	if w.Parameters == nil {
		return invalid("parameters", "required")
	}
	for i, p := range w.Parameters {
		field := fmt.Sprintf("parameters[%d]", i)
		if strings.TrimSpace(p.Name) == "" {
			return invalid(field+".name", "required")
		}
		if strings.TrimSpace(p.Value) == "" {
			return invalid(field+".value", "required")
		}
		if !oneOf(p.Status, string(StatusNormal), string(StatusLow), string(StatusHigh), string(StatusCritical)) {
			return invalid(field+".status", fmt.Sprintf("unexpected value %q", p.Status))
		}
	}
	return nil
}

func oneOf(s string, allowed ...string) bool {
	s = strings.TrimSpace(s)
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return true
		}
	}
	return false
}
