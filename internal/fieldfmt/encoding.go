// Package fieldfmt provides the encoding-safe field primitives shared by the
// claim record builders: Shift_JIS conversion, byte-width truncation, padding,
// date formatting and CSV line/file assembly.
package fieldfmt

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/model"
)

// Encode converts UTF-8 text to Shift_JIS. Characters with no Shift_JIS
// representation fail with *model.EncodingError instead of being dropped.
func Encode(text string) ([]byte, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(text))
	if err != nil {
		return nil, encodingError(text, err)
	}
	return out, nil
}

// Decode converts Shift_JIS bytes back to UTF-8.
func Decode(data []byte) (string, error) {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ByteLen returns the length of text once encoded.
func ByteLen(text string) (int, error) {
	n := 0
	for _, r := range text {
		w, err := runeWidth(r)
		if err != nil {
			return 0, encodingError(text, err)
		}
		n += w
	}
	return n, nil
}

// TruncateToByteWidth returns the longest prefix of text whose encoded length
// fits in maxBytes. It grows the result one character at a time and stops
// before the character that would overflow, so a multi-byte character is
// never split.
func TruncateToByteWidth(text string, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		return "", nil
	}
	var b strings.Builder
	width := 0
	for _, r := range text {
		w, err := runeWidth(r)
		if err != nil {
			return "", encodingError(text, err)
		}
		if width+w > maxBytes {
			break
		}
		width += w
		b.WriteRune(r)
	}
	return b.String(), nil
}

// Text sanitizes a free-text field and truncates it to maxBytes. Line breaks
// become spaces and the field separator is replaced by its full-width form.
func Text(text string, maxBytes int) (string, error) {
	return TruncateToByteWidth(sanitize(text), maxBytes)
}

var fieldReplacer = strings.NewReplacer(
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
	FieldSeparator, "，",
)

func sanitize(text string) string {
	return strings.TrimSpace(fieldReplacer.Replace(text))
}

func runeWidth(r rune) (int, error) {
	if r < utf8.RuneSelf {
		return 1, nil
	}
	out, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), string(r))
	if err != nil {
		return 0, err
	}
	return len(out), nil
}

// encodingError pinpoints the first character of text that cannot be encoded.
func encodingError(text string, err error) error {
	for _, r := range text {
		if r < utf8.RuneSelf {
			continue
		}
		if _, _, rerr := transform.String(japanese.ShiftJIS.NewEncoder(), string(r)); rerr != nil {
			return &model.EncodingError{Text: text, Rune: r, Err: rerr}
		}
	}
	return &model.EncodingError{Text: text, Err: err}
}
