package common

import "fmt"

// Error pairs one of the sentinel kinds above with a short message that is
// safe to show to API callers.
type Error struct {
	Kind    error
	Message string
}

// NewError returns an *Error of the given kind.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error {
	return e.Kind
}
