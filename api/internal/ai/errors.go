package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse means the service answered without any text.
	ErrEmptyResponse = errors.New("empty response")
	// ErrParse means the text was not valid JSON or broke the output schema.
	ErrParse = errors.New("bad JSON")
)

// ServiceError is a transport or service-side failure: quota, auth, network, blocked prompt.
type ServiceError struct {
	Engine string
	Err    error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: service error: %v", e.Engine, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsAnalysisFailure reports whether err belongs to the analysis failure taxonomy.
func IsAnalysisFailure(err error) bool {
	var se *ServiceError
	return errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrParse) || errors.As(err, &se)
}

// outcome is the metrics label for err.
func outcome(err error) string {
	var se *ServiceError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.As(err, &se):
		return "service"
	default:
		return "failed"
	}
}
