package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var multiSpace = regexp.MustCompile(`[\s　]+`)

// Name trims the input and collapses runs of half- or full-width spaces into
// one ASCII space.
func Name(v string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(v), " ")
}

// Kana composes half-width katakana (and their separate voicing marks) into
// full-width katakana, e.g. "ﾔﾏﾀﾞ" -> "ヤマダ".
func Kana(v string) string {
	return Name(norm.NFKC.String(v))
}
