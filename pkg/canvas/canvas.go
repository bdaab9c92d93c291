// Package canvas implements a double-buffered terminal cell grid with
// clipped drawing frames and a diff-based renderer that emits minimal
// escape sequences.
package canvas

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
)

// Cell is one terminal position. Glyph holds a full grapheme cluster and
// may carry combining marks; an empty glyph marks the continuation half of
// a wide rune. Code is the resolved SGR sequence, Link the hyperlink
// target (empty for none).
type Cell struct {
	Glyph string
	Code  string
	Link  string
}

// Canvas is a terminal-sized cell grid with a virtual cursor and a stack
// of clipping frames.
//
// The drawing cycle is Prepare, any number of writes, Render. Prepare
// clears the working buffer; Render diffs it against what was rendered
// last time and sends only the changes, as one buffered write. Finalize
// erases everything and returns the cursor to the top-left corner.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	out  io.Writer
	size func() (width, height int)
	sup  style.ColorSupport
	log  *slog.Logger

	// Drawing frame and virtual cursor. Cursor coordinates are relative
	// to the frame origin.
	frameX, frameY int
	frameW, frameH int
	curX, curY     int
	curColor       style.Color
	curLink        string

	width, height  int
	finalX, finalY int
	cells          [][]Cell
	prev           [][]Cell

	fullRedraw bool
	termX      int
	termY      int
	termCode   string
	termLink   string
	maxTermY   int
	buf        bytes.Buffer

	noneCode string

	renders    int
	totalBytes int
}

// New creates a canvas writing to out. size is queried on every Prepare,
// so the canvas follows live terminal resizes.
func New(out io.Writer, size func() (int, int), sup style.ColorSupport) *Canvas {
	return &Canvas{
		out:      out,
		size:     size,
		sup:      sup,
		noneCode: style.None.Code(sup),
		termCode: style.None.Code(sup),
	}
}

// SetLogger installs a debug logger. Render statistics are logged at
// debug level; a nil logger disables them.
func (c *Canvas) SetLogger(log *slog.Logger) {
	c.log = log
}

// Width returns the width of the current frame.
func (c *Canvas) Width() int { return c.frameW }

// Height returns the height of the current frame.
func (c *Canvas) Height() int { return c.frameH }

// Prepare clears the working buffer and resizes it to the live terminal
// size. A size change, or fullRedraw, forces the next Render to repaint
// everything instead of diffing.
func (c *Canvas) Prepare(fullRedraw bool) {
	width, height := c.size()

	fullRedraw = fullRedraw || c.width != width || c.height != height

	c.frameX, c.frameY = 0, 0
	c.frameW, c.frameH = width, height
	c.curX, c.curY = 0, 0
	c.curColor = style.None
	c.curLink = ""

	c.width, c.height = width, height
	c.finalX, c.finalY = 0, 0
	if fullRedraw {
		c.maxTermY = 0
		c.prev = c.emptyCells()
	} else {
		c.prev = c.cells
	}
	c.cells = c.emptyCells()

	c.fullRedraw = fullRedraw
}

func (c *Canvas) emptyCells() [][]Cell {
	rows := make([][]Cell, c.height)
	for y := range rows {
		row := make([]Cell, c.width)
		for x := range row {
			row[x] = Cell{Glyph: " ", Code: c.noneCode}
		}
		rows[y] = row
	}
	return rows
}

// PushFrame narrows the drawing frame to a sub-rectangle at (x, y),
// relative to the current frame. Negative width or height means "extend
// to the current frame's edge". The cursor and color are reset; the
// returned restore func reinstates the enclosing frame's state and must
// be called (normally deferred) on every exit path.
func (c *Canvas) PushFrame(x, y, width, height int) (restore func()) {
	prevX, prevY := c.frameX, c.frameY
	prevW, prevH := c.frameW, c.frameH
	prevCurX, prevCurY := c.curX, c.curY
	prevColor := c.curColor
	prevLink := c.curLink

	c.frameX += x
	c.frameY += y
	if width >= 0 {
		c.frameW = width
	} else {
		c.frameW -= x
	}
	if c.frameW < 0 {
		c.frameW = 0
	}
	if height >= 0 {
		c.frameH = height
	} else {
		c.frameH -= y
	}
	if c.frameH < 0 {
		c.frameH = 0
	}
	c.curX, c.curY = 0, 0
	c.curColor = style.None
	c.curLink = ""

	return func() {
		c.frameX, c.frameY = prevX, prevY
		c.frameW, c.frameH = prevW, prevH
		c.curX, c.curY = prevCurX, prevCurY
		c.curColor = prevColor
		c.curLink = prevLink
	}
}

// WithFrame runs fn inside a pushed frame, restoring the enclosing frame
// even if fn panics.
func (c *Canvas) WithFrame(x, y, width, height int, fn func()) {
	defer c.PushFrame(x, y, width, height)()
	fn()
}

// SetPos sets the cursor position within the current frame.
func (c *Canvas) SetPos(x, y int) {
	c.curX, c.curY = x, y
}

// MovePos moves the cursor by the given amounts.
func (c *Canvas) MovePos(dx, dy int) {
	c.curX += dx
	c.curY += dy
}

// NewLine moves the cursor to the start of the next line in the frame.
func (c *Canvas) NewLine() {
	c.curX = 0
	c.curY++
}

// SetFinalPos sets where the real cursor should end up after Render,
// in current frame coordinates. Defaults to the top-left corner.
func (c *Canvas) SetFinalPos(x, y int) {
	c.finalX = x + c.frameX
	c.finalY = y + c.frameY
}

// SetColor sets the color applied to subsequent writes. Colors carried by
// the written text override it field by field.
func (c *Canvas) SetColor(col style.Color) {
	c.curColor = col
}

// ResetColor restores the terminal's default color.
func (c *Canvas) ResetColor() {
	c.curColor = style.None
}

// SetLink sets the hyperlink target applied to subsequent writes; empty
// ends the link. Link markers inside the written text take precedence.
func (c *Canvas) SetLink(url string) {
	c.curLink = url
}

// WriteString writes a plain string at the cursor. See Write.
func (c *Canvas) WriteString(s string) {
	c.Write(text.Plain(s), 0)
}

// Write projects a rich text at the cursor, clipped to the frame and the
// canvas. maxWidth > 0 additionally limits the projected width; unlike
// slicing the text it accounts for double-width glyphs. Whitespace and
// control characters become single spaces. Wide glyphs occupy two cells
// with an empty continuation glyph; a wide glyph cut by a clip boundary
// is blanked instead of shown half. The cursor advances past the placed
// cells only; columns clipped away do not move it.
func (c *Canvas) Write(t *text.Text, maxWidth int) {
	y := c.frameY + c.curY
	yTop := max(0, c.frameY)
	yBot := min(c.height, c.frameY+c.frameH)
	if y < yTop || y >= yBot {
		return
	}

	sBegin := 0
	x := c.frameX + c.curX
	xLeft := max(0, c.frameX)
	xRight := min(c.width, c.frameX+c.frameW)
	if x < xLeft {
		sBegin = xLeft - x
		x = xLeft
	} else if x >= xRight {
		return
	}

	sEnd := sBegin + xRight - x
	if maxWidth > 0 && maxWidth < sEnd {
		sEnd = maxWidth
	}

	cells := make([]Cell, 0, sEnd-sBegin)
	i := 0

	t.Runs(func(run string, col style.Color, link string) bool {
		code := style.Combine(c.curColor, col).Code(c.sup)
		if link == "" {
			link = c.curLink
		}
		gr := uniseg.NewGraphemes(run)
		for gr.Next() {
			if i >= sEnd {
				return false
			}
			g := gr.Str()
			if r, size := utf8.DecodeRuneInString(g); size == len(g) &&
				(unicode.IsSpace(r) || unicode.IsControl(r)) {
				g = " "
			}
			switch w := text.StringWidth(g); {
			case w >= 2:
				if i >= sBegin && i+1 < sEnd {
					cells = append(cells,
						Cell{Glyph: g, Code: code, Link: link},
						Cell{Glyph: "", Code: code, Link: link})
				} else if i+1 >= sBegin {
					cells = append(cells, Cell{Glyph: " ", Code: code, Link: link})
				}
				i += 2
			case w == 1:
				if i >= sBegin {
					cells = append(cells, Cell{Glyph: g, Code: code, Link: link})
				}
				i++
			default:
				// Zero-width cluster with no base; nothing to place.
			}
		}
		return true
	})

	copy(c.cells[y][x:], cells)
	c.curX = x + len(cells) - c.frameX
}

// WriteLines writes each line with Write, moving one row down after every
// line and returning to the horizontal position the first line started at.
func (c *Canvas) WriteLines(lines []*text.Text, maxWidth int) {
	x := c.curX
	for i, line := range lines {
		if i > 0 {
			c.curX = x
			c.curY++
		}
		c.Write(line, maxWidth)
	}
}

// Render diffs the working buffer against the previously rendered one and
// sends the changes to the output as a single write. Cells are visited
// left to right, top to bottom; cursor motion is emitted only when the
// position changes, color codes only when they differ from the last code
// sent, and link transitions only when the target changes. Vertical motion
// onto a row never rendered before uses literal newlines so the terminal
// scrolls; otherwise relative motion sequences are used.
func (c *Canvas) Render() error {
	if c.fullRedraw {
		c.moveTermCursor(0, 0, nil, true)
		c.buf.WriteString("\x1b[J")
	}

	// Set when a skipped (unchanged) cell leaves the terminal's SGR or
	// link state visibly out of sync, which forbids the short "reprint a
	// few cells" motion optimization.
	pendingChanges := false

	for y := 0; y < c.height; y++ {
		row := c.cells[y]
		prow := c.prev[y]

		for x := 0; x < c.width; x++ {
			cell := row[x]
			if cell == prow[x] {
				if !pendingChanges {
					// A differing color only shows on a space when it
					// carries an underline or a background (";4" catches
					// both SGR 4 and 40..48).
					pendingChanges = cell.Link != c.termLink ||
						(cell.Code != c.termCode &&
							(cell.Glyph != " " ||
								strings.Contains(cell.Code, ";4") ||
								strings.Contains(c.termCode, ";4")))
				}
				continue
			}

			c.moveTermCursor(x, y, row, pendingChanges)
			if cell.Link != c.termLink {
				c.writeLink(cell.Link)
			}
			if cell.Code != c.termCode {
				c.buf.WriteString(cell.Code)
				c.termCode = cell.Code
			}
			c.buf.WriteString(cell.Glyph)
			c.termX++
			pendingChanges = false
		}
	}

	if c.termLink != "" {
		c.writeLink("")
	}

	finalX := max(0, min(c.width-1, c.finalX))
	finalY := max(0, min(c.height-1, c.finalY))
	c.moveTermCursor(finalX, finalY, nil, true)

	out := c.buf.Bytes()
	_, err := c.out.Write(out)
	c.buf.Reset()

	c.renders++
	c.totalBytes += len(out)
	if c.log != nil {
		c.log.Debug("render",
			"n", c.renders, "bytes", len(out), "total", c.totalBytes)
	}
	return err
}

// Finalize erases everything rendered so far, resets the color, and
// leaves the cursor at the start of the erased region. It must run on
// every exit path so later output lands on a clean terminal.
func (c *Canvas) Finalize() error {
	c.Prepare(true)

	c.moveTermCursor(0, 0, nil, true)
	c.buf.WriteString("\x1b[J")
	if c.termLink != "" {
		c.writeLink("")
	}
	c.buf.WriteString(c.noneCode)
	c.termCode = c.noneCode

	_, err := c.out.Write(c.buf.Bytes())
	c.buf.Reset()
	return err
}

// moveTermCursor emits motion from the tracked terminal cursor to (x, y).
// Moving down onto a row the renderer has never reached uses literal
// newlines: relative motion below the scroll region would be clamped by
// the terminal, newlines scroll it instead. Short rightward moves reprint
// the skipped cells from row when that is safe and cheaper than a CSI
// sequence.
func (c *Canvas) moveTermCursor(x, y int, row []Cell, pendingChanges bool) {
	dy := y - c.termY
	switch {
	case dy > 0 && (dy <= 4 || y > c.maxTermY):
		for k := 0; k < dy; k++ {
			c.buf.WriteByte('\n')
		}
		c.termX = 0
	case dy > 4:
		fmt.Fprintf(&c.buf, "\x1b[%dB", dy)
	case dy < 0:
		fmt.Fprintf(&c.buf, "\x1b[%dA", -dy)
	}
	c.termY = y
	if y > c.maxTermY {
		c.maxTermY = y
	}

	dx := x - c.termX
	switch {
	case dx > 0 && dx <= 4 && !pendingChanges && row != nil:
		for _, cell := range row[c.termX:x] {
			c.buf.WriteString(cell.Glyph)
		}
	case dx > 0:
		fmt.Fprintf(&c.buf, "\x1b[%dC", dx)
	case dx < 0:
		fmt.Fprintf(&c.buf, "\x1b[%dD", -dx)
	}
	c.termX = x
}

func (c *Canvas) writeLink(url string) {
	c.buf.WriteString("\x1b]8;;")
	c.buf.WriteString(url)
	c.buf.WriteString("\x1b\\")
	c.termLink = url
}
