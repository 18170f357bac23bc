// Package apperr contains the error kinds the application can return to
// clients and how each of them maps onto an HTTP status code
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	NotAuthenticated
	NotAuthorized
	Forbidden
	NotFound
	Conflict
	TooManyRequests
	UpstreamFailure
)

// Error is an error that is safe to show to a client. The wrapped error
// is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind and message so that a wrapped copy
// of a sentinel still satisfies errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Kind == e.Kind && t.Message == e.Message
}

func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

// Upstream wraps a failure of an external collaborator (object store, mail
// server) so it reaches the client as a generic 500
func Upstream(msg string, err error) *Error {
	return &Error{Kind: UpstreamFailure, Message: msg, Err: err}
}

// Wrap attaches a cause to a sentinel without changing how it matches
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message, Err: err}
}

var (
	ErrDuplicateEmail     = New(Conflict, "User already exists")
	ErrInvalidOTP         = New(Validation, "Invalid OTP")
	ErrInvalidCredentials = New(Validation, "Invalid credentials")
	ErrNotVerified        = New(Validation, "Please verify your email first")
	ErrAccountDisabled    = New(Forbidden, "This account has been deactivated")
	ErrOTPCooldown        = New(TooManyRequests, "Please wait before requesting another OTP")

	ErrNotAuthenticated = New(NotAuthenticated, "Not authorized, no token")
	ErrTokenInvalid     = New(NotAuthenticated, "Not authorized, token failed")
	ErrTokenExpired     = New(NotAuthenticated, "Authorization token expired. Please log in again")
	ErrNotAuthorized    = New(NotAuthorized, "Not authorized")
	ErrAdminOnly        = New(Forbidden, "Not authorized as an admin")

	ErrUserNotFound    = New(NotFound, "User not found")
	ErrMediaNotFound   = New(NotFound, "Media not found")
	ErrNoMediaFound    = New(NotFound, "No media found")
	ErrContactNotFound = New(NotFound, "Message not found")
)

// Status returns the HTTP status code for err. Anything that isn't an
// *Error is treated as internal.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case Validation, Conflict:
		return http.StatusBadRequest
	case NotAuthenticated, NotAuthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case TooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text a client may see for err
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == Internal || e.Kind == UpstreamFailure {
		return "Internal server error"
	}

	return e.Message
}
