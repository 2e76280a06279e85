// Package apperr is the error taxonomy of the scheduling/attendance core.
// Services return these typed values; controllers map them to HTTP at the
// boundary. Nothing here is fatal to the process.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindConflict          // scheduling double-booking
	KindStateTransition   // illegal session transition
	KindAuthorization     // actor lacks role/ownership
	KindNotFound          // referenced entity does not exist
	KindPrecondition      // missing image, missing reason, date window, ...
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error        { return New(KindConflict, msg) }
func StateTransition(msg string) *Error { return New(KindStateTransition, msg) }
func Authorization(msg string) *Error   { return New(KindAuthorization, msg) }
func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func Precondition(msg string) *Error    { return New(KindPrecondition, msg) }

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from any error chain; plain errors count as
// internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindConflict:
		return http.StatusConflict
	case KindStateTransition:
		return http.StatusUnprocessableEntity
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindPrecondition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
