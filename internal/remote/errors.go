package remote

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStatus marks a non-2xx answer
	ErrStatus = errors.New("unexpected status")
	// ErrDecode marks a body that could not be parsed
	ErrDecode = errors.New("invalid response body")
	// ErrCanceled marks a request abandoned by its caller
	ErrCanceled = errors.New("request canceled")
)

// StatusError describes a non-2xx answer from the API
type StatusError struct {
	Code    int
	Path    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %d", e.Path, e.Code)
}

// Unwrap lets errors.Is(err, ErrStatus) match
func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// IsCanceled reports whether err is a cancellation rather than a failure
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// IsUnauthorized reports a 401 or 403 answer
func IsUnauthorized(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == 401 || se.Code == 403
	}
	return false
}
