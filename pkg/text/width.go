package text

import (
	"unicode"

	"github.com/mattn/go-runewidth"
)

// RuneWidth returns the number of terminal columns a single code point
// occupies: 0 for combining and format marks, 2 for East-Asian wide and
// fullwidth characters, 1 for everything else. Control characters count
// as 1 because the renderer replaces them with spaces.
func RuneWidth(r rune) int {
	if r < 0x80 {
		return 1
	}
	if unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me, unicode.Cf) {
		return 0
	}
	if runewidth.RuneWidth(r) == 2 {
		return 2
	}
	return 1
}

// StringWidth returns the display width of a string in terminal columns.
//
// The result is the sum of per-code-point widths; extended grapheme
// clusters (emoji with modifiers and joiners) are not collapsed, because
// most terminals don't collapse them either. ASCII strings take a fast
// path where the width simply equals the length.
func StringWidth(s string) int {
	if isASCII(s) {
		return len(s)
	}
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
