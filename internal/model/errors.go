package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoPayer is returned when a claim has neither medical insurance nor a public expense.
var ErrNoPayer = errors.New("no insurer and no public expense attached")

// FormatError reports a malformed identifier such as an insurer number or facility code.
type FormatError struct {
	Field string
	Value string
	Rule  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format: %s %q: %s", e.Field, e.Value, e.Rule)
}

// MissingFieldError reports a required field that is absent.
type MissingFieldError struct {
	Field  string
	Detail string
}

func (e *MissingFieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("missing required field %s", e.Field)
	}
	return fmt.Sprintf("missing required field %s (%s)", e.Field, e.Detail)
}

// EncodingError reports text that cannot be represented in the target encoding.
type EncodingError struct {
	Text string
	Rune rune
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Rune != 0 {
		return fmt.Sprintf("encoding: %q cannot be represented (in %q)", e.Rune, e.Text)
	}
	return fmt.Sprintf("encoding: %q: %v", e.Text, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ValidationError aggregates every defect found during pre-flight checks.
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d validation problem(s)", e.Subject, len(e.Problems))
	for _, p := range e.Problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}
