package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrForbidden   = errors.New("forbidden")
	ErrConflict    = errors.New("conflict")
)

// Error carries the kind of failure, the operation that produced it and an
// optional user-facing message.
type Error struct {
	Kind    error
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool { return target == e.Kind }

// Validation reports malformed caller input. It is raised before any store call.
func Validation(op, message string) error {
	return &Error{Kind: ErrValidation, Op: op, Message: message}
}

// NotFound reports a referenced row that does not exist.
func NotFound(op, message string) error {
	return &Error{Kind: ErrNotFound, Op: op, Message: message}
}

// Persistence wraps a failed store read or write. A nil err yields nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	return &Error{Kind: ErrPersistence, Op: op, Err: err}
}

func Forbidden(op, message string) error {
	return &Error{Kind: ErrForbidden, Op: op, Message: message}
}

func Conflict(op, message string) error {
	return &Error{Kind: ErrConflict, Op: op, Message: message}
}

// PublicMessage returns the message meant for API clients.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Kind == ErrPersistence {
			return "Internal server error"
		}
		if ae.Message != "" {
			return ae.Message
		}
		return ae.Kind.Error()
	}
	return "Internal server error"
}
