package services

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a failure that is safe to report to the caller.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

// HTTPStatus maps the kind onto its response status.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a user-facing failure. Message is shown to the client verbatim.
// Anything that is not an *Error is reported as a generic 500.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func validationErr(msg string) error   { return &Error{Kind: KindValidation, Message: msg} }
func unauthorizedErr(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func forbiddenErr(msg string) error    { return &Error{Kind: KindForbidden, Message: msg} }
func notFoundErr(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }
func conflictErr(msg string) error     { return &Error{Kind: KindConflict, Message: msg} }
func unavailableErr(msg string) error  { return &Error{Kind: KindUnavailable, Message: msg} }

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}
