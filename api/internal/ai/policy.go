package ai

import "errors"

// strict runs call once and propagates any failure. Errors outside the known taxonomy are
// classified as service errors of engine.
func strict[T any](engine string, call func() (T, error)) (T, error) {
	v, err := call()
	if err == nil {
		return v, nil
	}
	var zero T
	var se *ServiceError
	if errors.Is(err, ErrEmptyResponse) || errors.Is(err, ErrParse) || errors.As(err, &se) {
		return zero, err
	}
	return zero, &ServiceError{Engine: engine, Err: err}
}

// bestEffort runs call once and degrades any failure to fallback. onErr sees the dropped error.
func bestEffort[T any](fallback T, call func() (T, error), onErr func(error)) T {
	v, err := call()
	if err != nil {
		if onErr != nil {
			onErr(err)
		}
		return fallback
	}
	return v
}
