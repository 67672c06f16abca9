// Package apperrors holds the error taxonomy shared by services and handlers.
// Services wrap one of the sentinels with a short user-facing message; the
// HTTP layer picks the status code with errors.Is.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an unknown patient, area or movement.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation indicates a missing or malformed field; nothing was written.
	ErrValidation = errors.New("validation error")
	// ErrConflict indicates a duplicate charge, an immutable record or a save already in progress.
	ErrConflict = errors.New("conflict")
)

// Error carries the localized message shown to the user and the sentinel kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// Message returns the user-facing text of err, or "" when err is not one of ours.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}
