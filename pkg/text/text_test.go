package text

import (
	"testing"

	"github.com/odvcencio/weft/pkg/style"
)

func TestStringWidth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"ascii", "hello", 5},
		{"empty", "", 0},
		{"combining mark is zero width", "é", 1},
		{"east asian wide", "日本", 4},
		{"mixed", "go日", 4},
		{"zero width joiner", "a‍b", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringWidth(tt.in); got != tt.want {
				t.Errorf("StringWidth(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextWidthMatchesStringWidth(t *testing.T) {
	x := New()
	x.AppendColor(style.Fore(style.Red))
	x.Append("héllo ")
	x.AppendColor(style.None)
	x.Append("世界")
	if got, want := x.Width(), StringWidth("héllo 世界"); got != want {
		t.Errorf("Width() = %d, want %d", got, want)
	}
	if got, want := x.Len(), len("héllo 世界"); got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestAppendElidesEqualColors(t *testing.T) {
	a := Styled("x", style.Fore(style.Red))
	a.AppendText(Styled("y", style.Fore(style.Red)))
	if got, want := a.SGR(style.ColorSupportAnsi16), "\x1b[0;31mxy\x1b[0m"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	b := Styled("x", style.Fore(style.Red))
	b.AppendText(Styled("y", style.Fore(style.Green)))
	if got, want := b.SGR(style.ColorSupportAnsi16), "\x1b[0;31mx\x1b[0;32my\x1b[0m"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLazyMarkers(t *testing.T) {
	x := New()
	x.AppendColor(style.Fore(style.Red))
	x.AppendColor(style.Fore(style.Green))
	x.Append("a")
	// Only the last color before the run materializes.
	if got, want := x.SGR(style.ColorSupportAnsi16), "\x1b[0;32ma\x1b[0m"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	y := New()
	y.AppendColor(style.Fore(style.Red))
	if len(y.parts) != 0 {
		t.Errorf("marker with no following run materialized: %d parts", len(y.parts))
	}
}

func TestEmptyNoWrapElided(t *testing.T) {
	x := Plain("a")
	x.StartNoWrap()
	x.EndNoWrap()
	x.Append("b")
	for _, p := range x.parts {
		if p.kind == partNoWrapStart || p.kind == partNoWrapEnd {
			t.Fatal("empty no-wrap region was not elided")
		}
	}
}

func TestAppendTextDoesNotLeakState(t *testing.T) {
	other := New()
	other.AppendColor(style.Fore(style.Green))
	other.Append("inner")
	other.StartNoWrap()
	other.Append("nw")

	x := Styled("outer", style.Fore(style.Red))
	x.AppendText(other)
	x.Append("after")

	// The unterminated no-wrap region must be closed at the join.
	depth := 0
	for _, p := range x.parts {
		switch p.kind {
		case partNoWrapStart:
			depth++
		case partNoWrapEnd:
			depth--
		}
	}
	if depth != 0 {
		t.Errorf("unbalanced no-wrap markers after AppendText: depth %d", depth)
	}
	if x.String() != "outerinnernwafter" {
		t.Errorf("content = %q", x.String())
	}
}

func TestSGRLinks(t *testing.T) {
	x := New()
	x.AppendLink("https://example.com")
	x.Append("docs")
	x.AppendLink("")
	x.Append("!")

	want := "\x1b]8;;https://example.com\x1b\\\x1b[0mdocs\x1b]8;;\x1b\\!"
	if got := x.SGR(style.ColorSupportAnsi16); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := x.SGR(style.ColorSupportNone); got != "docs!" {
		t.Errorf("plain fallback = %q", got)
	}
}

func TestWithBaseColor(t *testing.T) {
	x := Styled("x", style.Fore(style.Red))
	out := x.WithBaseColor(style.Back(style.Blue))
	want := style.Combine(style.Back(style.Blue), style.Fore(style.Red))
	if out.ActiveColor() != want {
		t.Errorf("active color = %+v, want %+v", out.ActiveColor(), want)
	}
	if out.String() != "x" {
		t.Errorf("content = %q", out.String())
	}
}

func TestIndent(t *testing.T) {
	x := Plain("a\nb\nc")
	out := x.Indent(Plain("> "), Plain("  "))
	if got, want := out.String(), "> a\n  b\n  c"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Single indent applies to every line.
	out = Plain("a\nb").Indent(Plain("* "), nil)
	if got, want := out.String(), "* a\n* b"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClone(t *testing.T) {
	x := Styled("abc", style.Fore(style.Red))
	y := x.Clone()
	y.Append("def")
	if x.String() != "abc" {
		t.Errorf("clone mutation leaked into original: %q", x.String())
	}
	if y.String() != "abcdef" {
		t.Errorf("clone = %q", y.String())
	}
}
