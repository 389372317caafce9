package normalize

import (
	"strings"
	"time"

	"golang.org/x/text/width"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Date formats accepted in claim input files.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"20060102",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ParseDate attempts to parse a date string in multiple common formats.
// Returns nil if the input is empty or unparseable.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return &t
		}
	}
	return nil
}

// requireDate parses a mandatory date and reports a FormatError naming field
// when it is missing or malformed.
func requireDate(field, s string) (time.Time, error) {
	t := ParseDate(s)
	if t == nil {
		return time.Time{}, &model.FormatError{Field: field, Value: s, Rule: "must be a date (YYYY-MM-DD)"}
	}
	return *t, nil
}

// optionalDate parses an optional date; an empty value yields nil, a
// malformed one a FormatError.
func optionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := requireDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Clock normalizes "9:05" and "0905" to "09:05". Empty input stays empty.
func Clock(s string) (string, error) {
	s = width.Narrow.String(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	layout := "15:04"
	if !strings.Contains(s, ":") {
		layout = "1504"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return "", &model.FormatError{Field: "time", Value: s, Rule: "must be HH:MM"}
	}
	return t.Format("15:04"), nil
}
