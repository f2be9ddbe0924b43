package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure the user can see
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindValidation      Kind = "validation"
	KindTranscription   Kind = "transcription"
	KindUnsupportedFile Kind = "unsupported_file"
	KindConflict        Kind = "conflict"
	KindInternal        Kind = "internal"
)

// Error is a user-facing error with a kind and an optional cause.
// Message is shown as-is; the cause is only reachable through Unwrap.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind that unwraps to cause
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on kind and message
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// HTTPStatus returns the status code the API answers with
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConfiguration:
		return http.StatusServiceUnavailable
	case KindUnsupportedFile:
		return http.StatusUnsupportedMediaType
	case KindConflict:
		return http.StatusConflict
	case KindTranscription:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine readable code used in JSON error bodies
func (e *Error) Code() string {
	switch e.Kind {
	case KindValidation:
		return "ERR_VALIDATION"
	case KindConfiguration:
		return "ERR_CONFIGURATION"
	case KindUnsupportedFile:
		return "ERR_UNSUPPORTED_FILE"
	case KindConflict:
		return "ERR_CONFLICT"
	case KindTranscription:
		return "ERR_TRANSCRIPTION"
	default:
		return "ERR_INTERNAL"
	}
}

// KindOf returns the kind of err, or KindInternal for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns err as *Error, wrapping foreign errors as internal
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(KindInternal, err, err.Error())
}
