package text

import (
	"strings"
	"testing"

	"github.com/odvcencio/weft/pkg/style"
)

func lineStrings(lines []*Text) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func assertLines(t *testing.T, got []*Text, want ...string) {
	t.Helper()
	gotS := lineStrings(got)
	if len(gotS) != len(want) {
		t.Fatalf("got %d lines %q, want %d lines %q", len(gotS), gotS, len(want), want)
	}
	for i := range want {
		if gotS[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, gotS[i], want[i])
		}
	}
}

func TestWrapBasic(t *testing.T) {
	assertLines(t,
		Plain("hello world!").Wrap(15, WrapDefaults()),
		"hello world!")

	assertLines(t,
		Plain("hello world! this will wrap").Wrap(15, WrapDefaults()),
		"hello world!", "this will wrap")
}

func TestWrapCollapsesSpaces(t *testing.T) {
	assertLines(t, Plain("a   b").Wrap(10, WrapDefaults()), "a b")

	opts := WrapDefaults()
	opts.PreserveSpaces = true
	assertLines(t, Plain("a   b").Wrap(10, opts), "a   b")
	assertLines(t, Plain("a\tb").Wrap(10, opts), "a b")
}

func TestWrapExplicitNewlines(t *testing.T) {
	lines := Plain("one\ntwo").Wrap(10, WrapDefaults())
	assertLines(t, lines, "one", "two")
	if lines[0].ExplicitNewline() != "\n" {
		t.Errorf("line 0 newline = %q, want \\n", lines[0].ExplicitNewline())
	}
	if lines[1].ExplicitNewline() != "" {
		t.Errorf("line 1 newline = %q, want empty", lines[1].ExplicitNewline())
	}

	// A trailing newline yields a trailing empty line.
	assertLines(t, Plain("one\n").Wrap(10, WrapDefaults()), "one", "")

	// Without newline preservation the newline collapses into a space.
	opts := WrapDefaults()
	opts.PreserveNewlines = false
	assertLines(t, Plain("one\ntwo").Wrap(10, opts), "one two")

	// CRLF is consumed as a single sequence.
	lines = Plain("a\r\nb").Wrap(10, WrapDefaults())
	assertLines(t, lines, "a", "b")
	if lines[0].ExplicitNewline() != "\r\n" {
		t.Errorf("newline = %q, want \\r\\n", lines[0].ExplicitNewline())
	}
}

func TestWrapHyphenatedWords(t *testing.T) {
	assertLines(t,
		Plain("self-contained").Wrap(10, WrapDefaults()),
		"self-", "contained")

	// An em-dash written as two hyphens splits off on its own.
	assertLines(t,
		Plain("yes--no").Wrap(5, WrapDefaults()),
		"yes--", "no")
}

func TestWrapBreaksLongWords(t *testing.T) {
	assertLines(t,
		Plain("extraordinary").Wrap(6, WrapDefaults()),
		"extrao", "rdinar", "y")

	opts := WrapDefaults()
	opts.BreakLongWords = false
	assertLines(t, Plain("extraordinary").Wrap(6, opts), "extraordinary")
}

func TestWrapOverflow(t *testing.T) {
	opts := WrapDefaults()
	opts.BreakLongWords = false
	opts.Overflow = "…"

	assertLines(t, Plain("extraordinary").Wrap(6, opts), "extra…")

	// When the head fills the line exactly, the marker replaces the last
	// column instead of stacking past the width.
	assertLines(t, Plain("abcdefgh").Wrap(4, opts), "abc…")
}

func TestWrapNoWrapRelocatesWholeRegion(t *testing.T) {
	x := Plain("xxxx ")
	x.StartNoWrap()
	x.Append("long nowrap")
	x.EndNoWrap()

	assertLines(t, x.Wrap(12, WrapDefaults()), "xxxx", "long nowrap")

	// A region that fits in place stays in place.
	y := Plain("a ")
	y.StartNoWrap()
	y.Append("b c")
	y.EndNoWrap()
	assertLines(t, y.Wrap(12, WrapDefaults()), "a b c")
}

func TestWrapNoWrapHardBreak(t *testing.T) {
	x := New()
	x.StartNoWrap()
	x.Append("aaaa bbbb cccc")
	x.EndNoWrap()

	// Without permission the region overflows unbroken.
	assertLines(t, x.Wrap(6, WrapDefaults()), "aaaa bbbb cccc")

	opts := WrapDefaults()
	opts.BreakLongNoWrapWords = true
	assertLines(t, x.Clone().Wrap(6, opts), "aaaa b", "bbb cc", "cc")
}

func TestWrapIndents(t *testing.T) {
	opts := WrapDefaults()
	opts.Indent = Plain("> ")
	opts.ContinuationIndent = Plain("  ")
	assertLines(t,
		Plain("hello world").Wrap(8, opts),
		"> hello", "  world")

	// A single indent applies to all lines.
	opts = WrapDefaults()
	opts.Indent = Plain("* ")
	assertLines(t,
		Plain("hello world").Wrap(8, opts),
		"* hello", "* world")
}

func TestWrapKeepsIndentationAfterExplicitNewline(t *testing.T) {
	assertLines(t,
		Plain("line:\n    code here").Wrap(20, WrapDefaults()),
		"line:", "    code here")
}

func TestWrapColorsSurviveLineBreaks(t *testing.T) {
	x := Styled("red text that wraps", style.Fore(style.Red))
	lines := x.Wrap(10, WrapDefaults())
	for i, l := range lines {
		if l.ActiveColor() != style.Fore(style.Red) {
			t.Errorf("line %d lost active color: %+v", i, l.ActiveColor())
		}
		if !strings.HasPrefix(l.SGR(style.ColorSupportAnsi16), "\x1b[0;31m") {
			t.Errorf("line %d does not start with the carried color: %q",
				i, l.SGR(style.ColorSupportAnsi16))
		}
	}
}

func TestWrapLineWidthProperty(t *testing.T) {
	inputs := []string{
		"the quick brown fox jumps over the lazy dog",
		"a bb ccc dddd eeeee ffffff ggggggg",
		"word-with-many-hyphenated-parts and more text",
		"日本語のテキストも折り返します and mixed ascii",
	}
	for _, in := range inputs {
		for _, width := range []int{5, 10, 17, 80} {
			for _, l := range Plain(in).Wrap(width, WrapDefaults()) {
				if l.Width() > width {
					t.Errorf("wrap(%q, %d): line %q has width %d",
						in, width, l.String(), l.Width())
				}
			}
		}
	}
}

func TestWrapRejoinProperty(t *testing.T) {
	inputs := []string{
		"the quick brown fox jumps over the lazy dog",
		"multi\nline input\nwith newlines",
		"spaced    out    words",
	}
	for _, in := range inputs {
		// Widths at least as large as the longest word, so greedy packing
		// never has to hard-break anything.
		for _, width := range []int{9, 12, 40} {
			var joined strings.Builder
			for _, l := range Plain(in).Wrap(width, WrapDefaults()) {
				joined.WriteString(l.String())
				if nl := l.ExplicitNewline(); nl != "" {
					joined.WriteString(nl)
				} else {
					joined.WriteString(" ")
				}
			}
			got := strings.Fields(joined.String())
			want := strings.Fields(in)
			if len(got) != len(want) {
				t.Fatalf("wrap(%q, %d): rejoined %q, want words %q", in, width, got, want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("wrap(%q, %d): word %d = %q, want %q", in, width, i, got[i], want[i])
				}
			}
		}
	}
}

func TestWrapNoWrapUnbrokenProperty(t *testing.T) {
	for _, width := range []int{8, 10, 15} {
		x := Plain("aa bb cc ")
		x.StartNoWrap()
		x.Append("k l m") // width 5, always fits on its own line
		x.EndNoWrap()

		found := false
		for _, l := range x.Wrap(width, WrapDefaults()) {
			if strings.Contains(l.String(), "k l m") {
				found = true
			}
		}
		if !found {
			t.Errorf("width %d: no-wrap region was broken: %q",
				width, lineStrings(x.Clone().Wrap(width, WrapDefaults())))
		}
	}
}
