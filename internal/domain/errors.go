package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidResume marks input-shape failures caught before layout.
	ErrInvalidResume = errors.New("invalid resume")
	// ErrJobNotFound is returned by job stores for unknown ids.
	ErrJobNotFound = errors.New("render job not found")
	// ErrJobStoreDisabled is returned when no database is configured.
	ErrJobStoreDisabled = errors.New("render job store is not configured")
	// ErrUnknownBackend is returned for canvas names no factory knows.
	ErrUnknownBackend = errors.New("unknown render backend")
)

// Render error codes.
const (
	ErrCodeFontLoad = "FONT_LOAD"
	ErrCodeCanvas   = "CANVAS"
	ErrCodeOutput   = "OUTPUT"
)

// RenderError is a fatal resource failure while producing a document.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

// IsRenderError reports whether err carries a *RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
