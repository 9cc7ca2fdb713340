package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a client-facing failure: an HTTP status, a stable machine code and the cause.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Newf builds an Error whose cause is a formatted message.
func Newf(status int, code string, format string, args ...any) *Error {
	return &Error{Status: status, Code: code, Err: fmt.Errorf(format, args...)}
}

func BadRequest(code, msg string) *Error {
	return Newf(http.StatusBadRequest, code, "%s", msg)
}

func NotFound(code, msg string) *Error {
	return Newf(http.StatusNotFound, code, "%s", msg)
}

func Forbidden(code, msg string) *Error {
	return Newf(http.StatusForbidden, code, "%s", msg)
}

func Conflict(code, msg string) *Error {
	return Newf(http.StatusConflict, code, "%s", msg)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae, true
	}
	return nil, false
}
