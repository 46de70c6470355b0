package domain

import (
	"errors"
	"strconv"
)

var (
	ErrInvalidWeekDay       = errors.New("invalid week day")
	ErrInvalidLessonDetails = errors.New("invalid lesson details")
	ErrInvalidClock         = errors.New("invalid clock time")
	ErrInvalidOffset        = errors.New("invalid timezone offset")
	ErrInvalidSelection     = errors.New("invalid selection")
	ErrNotFound             = errors.New("not found")
)

// ValidationError describes user input that was rejected. It unwraps to one of
// the sentinel errors above.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ErrorKind maps an error to a stable label for logs.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidSelection):
		return "validation"
	}
	return "persistence"
}

func quote(s string) string { return strconv.Quote(s) }
