package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the reason a document could not be turned into text
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidPath
	ErrorTypeNotFound
	ErrorTypeNotPDF
	ErrorTypeEmptyFile
	ErrorTypeTooLarge
	ErrorTypeEncrypted
	ErrorTypeUnreadable
	ErrorTypeNoTextLayer
)

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeInvalidPath:
		return "INVALID_PATH"
	case ErrorTypeNotFound:
		return "NOT_FOUND"
	case ErrorTypeNotPDF:
		return "NOT_PDF"
	case ErrorTypeEmptyFile:
		return "EMPTY_FILE"
	case ErrorTypeTooLarge:
		return "TOO_LARGE"
	case ErrorTypeEncrypted:
		return "ENCRYPTED"
	case ErrorTypeUnreadable:
		return "UNREADABLE"
	case ErrorTypeNoTextLayer:
		return "NO_TEXT_LAYER"
	default:
		return "UNKNOWN"
	}
}

// ExtractionError is a document-level failure. Callers turn it into an empty
// result plus a diagnostic instead of aborting the run.
type ExtractionError struct {
	Type ErrorType `json:"type"`
	Path string    `json:"path,omitempty"`
	Err  error     `json:"-"`
}

// New creates an ExtractionError for path.
func New(errorType ErrorType, path string, err error) *ExtractionError {
	return &ExtractionError{Type: errorType, Path: path, Err: err}
}

// Newf creates an ExtractionError with a formatted cause.
func Newf(errorType ErrorType, path, format string, args ...any) *ExtractionError {
	return New(errorType, path, fmt.Errorf(format, args...))
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("[%s]", e.Type)
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is matches another ExtractionError by type, so sentinel comparisons such as
// errors.Is(err, &ExtractionError{Type: ErrorTypeEncrypted}) work.
func (e *ExtractionError) Is(target error) bool {
	var t *ExtractionError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var e *ExtractionError
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}
