// Package text implements the toolkit's rich-text value type: an ordered
// sequence of text runs annotated with colors, hyperlinks, and no-wrap
// regions, plus a terminal-aware word-wrapping engine.
package text

import (
	"strings"

	"github.com/odvcencio/weft/pkg/style"
)

type partKind uint8

const (
	partText partKind = iota
	partColor
	partLink
	partNoWrapStart
	partNoWrapEnd
)

// part is one element of a rich-text sequence: a text run, a color marker,
// a link marker (empty target ends the link), or a no-wrap boundary.
type part struct {
	kind  partKind
	text  string
	color style.Color
	link  string
}

// Text is a string with colors, hyperlinks, and no-wrap regions.
//
// Each color marker applies to the runs after it, until the next marker.
// Link markers work the same way; a marker with an empty target ends the
// active link. Mutation methods work in place; once a Text has been handed
// to a renderer it must not be mutated further - use Clone first.
//
// The following invariants hold for the part sequence:
//
//   - a color marker always precedes the first text run;
//   - there are no empty runs;
//   - no two adjacent color markers are equal, and between any two color
//     markers there is at least one run (same for link markers);
//   - no-wrap markers form a balanced bracket sequence, except possibly a
//     trailing unmatched start; regions never nest and never enclose an
//     empty sequence.
type Text struct {
	parts []part

	activeColor style.Color
	lastColor   *style.Color
	activeLink  string
	lastLink    *string

	length   int
	width    int
	widthOK  bool
	inNoWrap bool

	// newline holds the newline sequence that terminated this line when it
	// was produced by Wrap; empty for wrap-induced breaks.
	newline string
}

// New creates an empty Text.
func New() *Text {
	return &Text{}
}

// Plain creates a Text holding a single uncolored run.
func Plain(s string) *Text {
	t := New()
	t.Append(s)
	return t
}

// Styled creates a Text holding a single colored run.
func Styled(s string, c style.Color) *Text {
	t := New()
	t.AppendColor(c)
	t.Append(s)
	return t
}

// Clone returns a deep copy of the text.
func (t *Text) Clone() *Text {
	out := *t
	out.parts = make([]part, len(t.parts))
	copy(out.parts, t.parts)
	if t.lastColor != nil {
		c := *t.lastColor
		out.lastColor = &c
	}
	if t.lastLink != nil {
		l := *t.lastLink
		out.lastLink = &l
	}
	return &out
}

// Len returns the text length in bytes, ignoring all markers.
func (t *Text) Len() int {
	return t.length
}

// IsEmpty reports whether the text contains no runs.
func (t *Text) IsEmpty() bool {
	return t.length == 0
}

// Width returns the display width of the text. See StringWidth.
func (t *Text) Width() int {
	if !t.widthOK {
		w := 0
		for _, p := range t.parts {
			if p.kind == partText {
				w += StringWidth(p.text)
			}
		}
		t.width = w
		t.widthOK = true
	}
	return t.width
}

// ActiveColor returns the last color appended to the text.
func (t *Text) ActiveColor() style.Color {
	return t.activeColor
}

// ActiveLink returns the last link target appended to the text, or ""
// if no link is active.
func (t *Text) ActiveLink() string {
	return t.activeLink
}

// ExplicitNewline returns the newline sequence that terminated this line
// when it was produced by Wrap. An empty result means the line was broken
// by wrapping, not by a literal newline in the source.
func (t *Text) ExplicitNewline() string {
	return t.newline
}

// AppendColor appends a color marker. The operation is lazy: the marker
// materializes only if a non-empty run is appended after it.
func (t *Text) AppendColor(c style.Color) *Text {
	t.activeColor = c
	return t
}

// AppendLink appends a link marker. An empty target ends the active link.
// Like colors, link markers materialize lazily.
func (t *Text) AppendLink(target string) *Text {
	t.activeLink = target
	return t
}

// Append appends a plain run, inheriting the active color and link.
func (t *Text) Append(s string) *Text {
	if s == "" {
		return t
	}
	if t.lastLink == nil && t.activeLink != "" || t.lastLink != nil && *t.lastLink != t.activeLink {
		link := t.activeLink
		t.parts = append(t.parts, part{kind: partLink, link: link})
		t.lastLink = &link
	}
	if t.lastColor == nil || *t.lastColor != t.activeColor {
		color := t.activeColor
		t.parts = append(t.parts, part{kind: partColor, color: color})
		t.lastColor = &color
	}
	t.parts = append(t.parts, part{kind: partText, text: s})
	t.length += len(s)
	t.widthOK = false
	return t
}

// StartNoWrap opens a no-wrap region. Runs inside the region are not
// wrapped on spaces; they may be hard-broken if the wrap options permit.
// Whitespace and newlines inside the region are always preserved.
func (t *Text) StartNoWrap() *Text {
	if t.inNoWrap {
		return t
	}
	t.inNoWrap = true
	t.parts = append(t.parts, part{kind: partNoWrapStart})
	return t
}

// EndNoWrap closes the current no-wrap region. Empty regions are elided.
func (t *Text) EndNoWrap() *Text {
	if !t.inNoWrap {
		return t
	}
	if n := len(t.parts); n > 0 && t.parts[n-1].kind == partNoWrapStart {
		t.parts = t.parts[:n-1]
	} else {
		t.parts = append(t.parts, part{kind: partNoWrapEnd})
	}
	t.inNoWrap = false
	return t
}

// AppendText appends another rich text. The appended text keeps its own
// colors and links: it neither picks up the receiver's active state nor
// leaks its internal state past its own end. Its leading color marker is
// elided when equal to the receiver's last materialized color. An
// unterminated no-wrap region in the appended text is terminated.
func (t *Text) AppendText(other *Text) *Text {
	if other == nil || len(other.parts) == 0 {
		return t
	}

	parts := other.parts
	skip := -1
	for i, p := range parts {
		if p.kind == partNoWrapStart || p.kind == partNoWrapEnd {
			continue
		}
		if p.kind == partColor && t.lastColor != nil && p.color == *t.lastColor {
			// Leading color equals our last one; dropping it changes nothing.
			skip = i
		}
		break
	}

	if t.inNoWrap {
		// Already inside a no-wrap region; inner markers are redundant.
		for i, p := range parts {
			if i == skip || p.kind == partNoWrapStart || p.kind == partNoWrapEnd {
				continue
			}
			t.parts = append(t.parts, p)
		}
	} else {
		for i, p := range parts {
			if i == skip {
				continue
			}
			t.parts = append(t.parts, p)
		}
		if other.inNoWrap {
			t.inNoWrap = true
			t.EndNoWrap()
		}
	}

	if other.lastColor != nil {
		c := *other.lastColor
		t.lastColor = &c
	}
	if other.lastLink != nil {
		l := *other.lastLink
		t.lastLink = &l
	}
	t.length += other.length
	t.widthOK = false
	return t
}

// Runs calls fn for each text run together with the color and link active
// at that run. fn returning false stops the iteration.
func (t *Text) Runs(fn func(run string, c style.Color, link string) bool) {
	var cur style.Color
	link := ""
	for _, p := range t.parts {
		switch p.kind {
		case partColor:
			cur = p.color
		case partLink:
			link = p.link
		case partText:
			if !fn(p.text, cur, link) {
				return
			}
		}
	}
}

// splitAt splits the part sequence at index i, rebuilding both halves so
// that all invariants hold. The right half inherits the receiver's active
// color and link.
func (t *Text) splitAt(i int) (*Text, *Text) {
	l, r := New(), New()
	l.appendRaw(t.parts[:i])
	r.activeColor = l.activeColor
	r.activeLink = l.activeLink
	r.inNoWrap = l.inNoWrap
	r.appendRaw(t.parts[i:])
	r.activeColor = t.activeColor
	r.activeLink = t.activeLink
	return l, r
}

// appendRaw replays raw parts through the mutation API.
func (t *Text) appendRaw(parts []part) {
	for _, p := range parts {
		switch p.kind {
		case partText:
			t.Append(p.text)
		case partColor:
			t.AppendColor(p.color)
		case partLink:
			t.AppendLink(p.link)
		case partNoWrapStart:
			t.StartNoWrap()
		case partNoWrapEnd:
			t.EndNoWrap()
		}
	}
}

// WithBaseColor applies base "under" every color in the text: each color
// marker becomes Combine(base, color). Returns the receiver unchanged if
// base sets nothing.
func (t *Text) WithBaseColor(base style.Color) *Text {
	if base.IsNone() {
		return t
	}
	out := New()
	for _, p := range t.parts {
		if p.kind == partColor {
			out.AppendColor(style.Combine(base, p.color))
		} else {
			out.appendRaw([]part{p})
		}
	}
	out.activeColor = style.Combine(base, t.activeColor)
	if t.lastColor != nil {
		c := style.Combine(base, *t.lastColor)
		out.lastColor = &c
	}
	out.newline = t.newline
	return out
}

// String returns the plain text content with all markers stripped.
func (t *Text) String() string {
	var sb strings.Builder
	sb.Grow(t.length)
	for _, p := range t.parts {
		if p.kind == partText {
			sb.WriteString(p.text)
		}
	}
	return sb.String()
}

// SGR flattens the text into a single string with all colors rendered as
// SGR sequences and links as OSC 8 sequences, suitable for writing to a
// terminal directly (outside the canvas pipeline). With no color support,
// only the plain runs are returned.
func (t *Text) SGR(sup style.ColorSupport) string {
	var sb strings.Builder
	if sup == style.ColorSupportNone {
		for _, p := range t.parts {
			if p.kind == partText {
				sb.WriteString(p.text)
			}
		}
		return sb.String()
	}

	linkOpen := false
	colorSet := false
	for _, p := range t.parts {
		switch p.kind {
		case partText:
			sb.WriteString(p.text)
		case partColor:
			sb.WriteString(p.color.Code(sup))
			colorSet = !p.color.IsNone()
		case partLink:
			if p.link == "" {
				if linkOpen {
					sb.WriteString("\x1b]8;;\x1b\\")
					linkOpen = false
				}
			} else {
				sb.WriteString("\x1b]8;;")
				sb.WriteString(p.link)
				sb.WriteString("\x1b\\")
				linkOpen = true
			}
		}
	}
	if linkOpen {
		sb.WriteString("\x1b]8;;\x1b\\")
	}
	if colorSet {
		sb.WriteString(style.None.Code(sup))
	}
	return sb.String()
}

// Indent prepends first to the first physical line of the text and cont to
// every following one, re-splitting runs on embedded newline sequences so
// each physical line receives its own indent. Returns a new Text.
func (t *Text) Indent(first, cont *Text) *Text {
	if first == nil {
		first = New()
	}
	if cont == nil {
		cont = first
	}
	if first.IsEmpty() && cont.IsEmpty() {
		return t
	}

	out := New()
	indent := first
	needsIndent := true
	for _, p := range t.parts {
		if p.kind != partText {
			out.appendRaw([]part{p})
			continue
		}
		for _, line := range splitKeepNewlines(p.text) {
			if line == "" {
				continue
			}
			if needsIndent {
				out.AppendText(indent)
				indent = cont
			}
			out.Append(line)
			needsIndent = endsWithNewline(line)
		}
	}
	return out
}

// Spaces creates a Text of n spaces, handy for indents.
func Spaces(n int) *Text {
	if n <= 0 {
		return New()
	}
	return Plain(strings.Repeat(" ", n))
}

func endsWithNewline(s string) bool {
	switch s[len(s)-1] {
	case '\n', '\r', '\v':
		return true
	}
	return false
}
