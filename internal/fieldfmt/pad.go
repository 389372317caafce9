package fieldfmt

import (
	"strconv"
	"strings"
)

// PadLeft right-aligns value in a field of width characters, filling with pad.
// Values longer than width are truncated to their first width characters.
func PadLeft(value string, width int, pad rune) string {
	r := []rune(value)
	if len(r) >= width {
		return string(r[:width])
	}
	return strings.Repeat(string(pad), width-len(r)) + value
}

// PadRight left-aligns value in a field of width characters, filling with pad.
// Values longer than width are truncated to their first width characters.
func PadRight(value string, width int, pad rune) string {
	r := []rune(value)
	if len(r) >= width {
		return string(r[:width])
	}
	return value + strings.Repeat(string(pad), width-len(r))
}

// ZeroPad formats n as a zero-filled decimal of the given width.
func ZeroPad(n int64, width int) string {
	return PadLeft(strconv.FormatInt(n, 10), width, '0')
}

// Int formats n as a plain decimal.
func Int(n int64) string {
	return strconv.FormatInt(n, 10)
}

// IsDigits reports whether s is non-empty and consists only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
