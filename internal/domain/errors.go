package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. The HTTP layer maps each kind to one status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindReference
	KindRateLimited
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindReference:
		return "reference"
	case KindRateLimited:
		return "rate_limited"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is the tagged error returned by services and repositories.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values that carry the same kind and message, so wrapped
// copies of a sentinel still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrNoFieldsProvided        = &Error{Kind: KindValidation, Message: "at least one field must be provided for update"}
	ErrInvalidIdentifierFormat = &Error{Kind: KindValidation, Field: "id", Message: "invalid identifier format"}

	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrBoardNotFound      = &Error{Kind: KindNotFound, Message: "Board not found"}
	ErrTaskNotFound       = &Error{Kind: KindNotFound, Message: "Task not found"}
	ErrMembershipNotFound = &Error{Kind: KindNotFound, Message: "Membership not found"}

	ErrAlreadyMember = &Error{Kind: KindConflict, Message: "User is already a member of this board"}
	ErrLastMember    = &Error{Kind: KindConflict, Message: "Cannot remove the last member of a board; delete the board instead"}

	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Field: "password", Message: "Invalid password"}

	ErrRateLimited = &Error{Kind: KindRateLimited, Message: "Too many requests, please try again later."}
)

// Validation builds a field-specific validation error.
func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness collision on field.
func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

// Reference reports a reference to an entity that does not exist.
func Reference(field, message string) *Error {
	return &Error{Kind: KindReference, Field: field, Message: message}
}

// Internal wraps an unexpected failure. The message never reaches clients.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
