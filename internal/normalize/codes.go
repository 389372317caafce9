package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// Digits folds full-width digits to ASCII and strips everything that is not a
// digit (hyphens, spaces). Insurer, recipient and facility numbers go through
// this before they are checked for length.
func Digits(v string) string {
	s := width.Narrow.String(strings.TrimSpace(v))
	return nonDigit.ReplaceAllString(s, "")
}

// NormalizeCode trims whitespace, folds full-width characters to ASCII and
// uppercases. Returns "" when nothing remains.
func NormalizeCode(v string) string {
	s := width.Narrow.String(strings.TrimSpace(v))
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
