package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the HTTP layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindInvalidToken Kind = "invalid_token"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUpstream     Kind = "upstream"
	KindInternal     Kind = "internal"
)

var statusByKind = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindInvalidToken: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusConflict,
	KindUpstream:     http.StatusBadGateway,
	KindInternal:     http.StatusInternalServerError,
}

// Error is a classified application error. Message is safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Validation(msg string, details any) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func InvalidToken(msg string) *Error { return New(KindInvalidToken, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }

// KindOf returns the kind of the first *Error in err's chain, Internal otherwise.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps a kind to its HTTP status; unmapped kinds are 500.
func Status(kind Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}
