package fetch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownSourceType is returned when no strategy is registered for a
	// source's type.
	ErrUnknownSourceType = errors.New("unknown source type")

	// ErrMissingHeaders is returned when a CSV payload lacks a required column.
	ErrMissingHeaders = errors.New("missing required headers")
)

// Error describes a failed fetch. It is the single user-visible message for
// a failed load.
type Error struct {
	Source     string
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("fetch")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}
