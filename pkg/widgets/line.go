// Package widgets provides ready-made client widgets built on the
// widget runtime: static lines and paragraphs, a line editor, an option
// grid, and a progress bar.
package widgets

import (
	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
	"github.com/odvcencio/weft/pkg/widget"
)

// Line prints a single line of rich text, clipped to the frame width.
type Line struct {
	line  *text.Text
	color style.Color
}

// NewLine creates a line widget. Pass style.None to keep the text's own
// colors.
func NewLine(line *text.Text, color style.Color) *Line {
	return &Line{line: line, color: color}
}

// SetText replaces the displayed line.
func (l *Line) SetText(line *text.Text) {
	l.line = line
}

func (l *Line) Layout(*canvas.Canvas) (int, int) {
	return 1, 1
}

func (l *Line) Draw(c *canvas.Canvas) {
	if !l.color.IsNone() {
		c.SetColor(l.color)
	}
	c.Write(l.line, 0)
}

func (l *Line) HandleEvent(input.Event) (widget.Outcome, error) {
	return widget.Outcome{}, nil
}
