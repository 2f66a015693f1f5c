package common

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthTimeout means no identity appeared within the wait deadline.
	ErrAuthTimeout = errors.New("authentication timeout")

	// ErrUnsupportedPlatform means a share target is not in the platform whitelist.
	ErrUnsupportedPlatform = errors.New("unsupported share platform")

	// ErrShareCancelled means the user dismissed the native share surface.
	// Callers treat this as a normal outcome, not a failure.
	ErrShareCancelled = errors.New("share cancelled by user")
)

// ValidationError reports missing or malformed user input. It is surfaced
// to the user directly and never reaches the network layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a user-input validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HTTPError is a non-2xx backend response, carrying the status code and
// whatever message the server supplied in its JSON error body.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP error! status: %d, Message: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP error! status: %d (%s)", e.StatusCode, e.Status)
}
