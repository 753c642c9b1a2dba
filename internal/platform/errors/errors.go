// Package errors is the classified error type shared by the predictor, the API and the CLI.
// Import it as perr
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing error class carried in API envelopes.
// Values are part of the wire format; append new codes at the end
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodePanic is for panics recovered by middleware
	ErrorCodePanic

	// ErrorCodeUnavailable is for a model that is not loaded or failed to load
	ErrorCodeUnavailable

	// ErrorCodeValidation is for rejected input such as an empty comment
	ErrorCodeValidation

	// ErrorCodeJSON is for request bodies that are not the expected JSON
	ErrorCodeJSON

	// ErrorCodeArtifact is for model, tokenizer or keyword artifacts that are missing or incompatible
	ErrorCodeArtifact

	// ErrorCodeInference is for classifier runs that fail after a successful load
	ErrorCodeInference
)

// HTTPStatusCode turns an ErrorCode into an http status code
func HTTPStatusCode(c ErrorCode) int {
	switch c {
	case ErrorCodeValidation, ErrorCodeJSON:
		return http.StatusBadRequest
	case ErrorCodeUnavailable, ErrorCodeArtifact:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a machine code next to a message safe to show API clients.
// The wrapped cause stays server side: it shows up in Error() and logs, never on the wire
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

// Unwrap exposes the cause to errors.Is and errors.As
func (e *Error) Unwrap() error { return e.cause }

// Code is the class of e
func (e *Error) Code() ErrorCode { return e.code }

// Field names the request field at fault, "" when none
func (e *Error) Field() string { return e.field }

// ToWire is the client view of e. The cause is dropped
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom converts any error into a Wire payload. Foreign errors become Unknown with a
// generic message so their text never reaches a client
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: "internal error"}
}

// CodeOf reports the class of the first *Error in err's chain; Unknown otherwise
func CodeOf(err error) ErrorCode {
	e, ok := As(err)
	if !ok {
		return ErrorCodeUnknown
	}
	return e.code
}

// IsCode is CodeOf(err) == code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// As finds the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// WithField returns a copy of err tagged with the request field at fault.
// Errors from outside this package come back untouched
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	tagged := *e
	tagged.field = field
	return &tagged
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap classifies cause. msg is what clients see; cause only reaches logs
func Wrap(cause error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: cause}
}

func Wrapf(cause error, code ErrorCode, format string, a ...any) error {
	return Wrap(cause, code, fmt.Sprintf(format, a...))
}

// Shorthands, one per class

func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }
func Artifactf(format string, a ...any) error { return Newf(ErrorCodeArtifact, format, a...) }
func Inferencef(format string, a ...any) error { return Newf(ErrorCodeInference, format, a...) }
func JSONErrf(format string, a ...any) error { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error { return Newf(ErrorCodePanic, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }

// HTTP maps err to the response status and envelope payload
func HTTP(err error) (int, Wire) {
	if err == nil {
		return http.StatusOK, Wire{}
	}
	return HTTPStatusCode(CodeOf(err)), WireFrom(err)
}
