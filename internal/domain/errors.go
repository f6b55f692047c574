package domain

import "errors"

// ErrKind classifies service errors so the HTTP layer can map them to a status
// code without inspecting messages.
type ErrKind string

const (
	KindValidation     ErrKind = "invalid_request"
	KindAuthentication ErrKind = "invalid_credentials"
	KindNotFound       ErrKind = "not_found"
	KindPersistence    ErrKind = "persistence_error"
)

// Error is the service-level error type. Two errors match under errors.Is when
// their kinds are equal, so sentinels below double as kind probes.
type Error struct {
	Kind    ErrKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError builds a classified error.
func NewError(kind ErrKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an underlying error while keeping it in the chain.
func Wrap(kind ErrKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

var (
	// ErrInvalidCredentials is returned for every authentication failure.
	// The message must not reveal which check failed.
	ErrInvalidCredentials = NewError(KindAuthentication, "incorrect email or password")

	// ErrInvalidToken covers bad signature, expiry, wrong kind, and revocation.
	ErrInvalidToken = NewError(KindAuthentication, "invalid or expired token")

	ErrUserNotFound     = NewError(KindNotFound, "user not found")
	ErrCategoryNotFound = NewError(KindNotFound, "category not found")
)

// KindOf extracts the kind from an error chain, or "" for unclassified errors.
func KindOf(err error) ErrKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
