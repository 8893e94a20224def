package ai

import (
	"fmt"
	"strings"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/report"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/util"
)

// DecodeAnalysis turns the model text into an Analysis. The text is opaque: it is trimmed,
// unfenced, parsed and validated, and nothing partial is ever returned.
func DecodeAnalysis(text string) (report.Analysis, error) {
	text = util.StripCodeFences(strings.TrimSpace(text))
	if text == "" {
		return report.Analysis{}, ErrEmptyResponse
	}
	a, err := report.DecodeWire(text)
	if err != nil {
		return report.Analysis{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return a, nil
}

// DecodeDoctors parses the doctor array text.
func DecodeDoctors(text string) ([]report.Doctor, error) {
	text = util.StripCodeFences(strings.TrimSpace(text))
	if text == "" {
		return nil, ErrEmptyResponse
	}
	ds, err := report.DecodeDoctors(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return ds, nil
}
