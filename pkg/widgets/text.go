package widgets

import (
	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
	"github.com/odvcencio/weft/pkg/widget"
)

// Text prints word-wrapped rich text. The wrap is recomputed only when
// the frame width changes.
type Text struct {
	text  *text.Text
	color style.Color

	wrapped      []*text.Text
	wrappedWidth int
}

// NewText creates a paragraph widget. Pass style.None to keep the
// text's own colors.
func NewText(t *text.Text, color style.Color) *Text {
	return &Text{text: t, color: color}
}

// SetText replaces the displayed text and invalidates the cached wrap.
func (t *Text) SetText(txt *text.Text) {
	t.text = txt
	t.wrapped = nil
}

func (t *Text) Layout(c *canvas.Canvas) (int, int) {
	if t.wrapped == nil || t.wrappedWidth != c.Width() {
		t.wrappedWidth = c.Width()
		t.wrapped = t.text.Wrap(t.wrappedWidth, text.WrapDefaults())
	}
	return len(t.wrapped), len(t.wrapped)
}

func (t *Text) Draw(c *canvas.Canvas) {
	if !t.color.IsNone() {
		c.SetColor(t.color)
	}
	c.WriteLines(t.wrapped, 0)
}

func (t *Text) HandleEvent(input.Event) (widget.Outcome, error) {
	return widget.Outcome{}, nil
}
