package canvas

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
)

func testCanvas(w, h int, sup style.ColorSupport) (*Canvas, *bytes.Buffer) {
	var buf bytes.Buffer
	c := New(&buf, func() (int, int) { return w, h }, sup)
	return c, &buf
}

func rowString(c *Canvas, y int) string {
	var sb bytes.Buffer
	for _, cell := range c.cells[y] {
		sb.WriteString(cell.Glyph)
	}
	return sb.String()
}

func TestFirstRenderClearsAndPaints(t *testing.T) {
	c, buf := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)
	c.WriteString("hi")
	require.NoError(t, c.Render())

	// Full redraw (fresh canvas), the two glyphs, cursor back to origin.
	assert.Equal(t, "\x1b[Jhi\x1b[2D", buf.String())
}

func TestSecondRenderDiffsMinimally(t *testing.T) {
	c, buf := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)
	c.WriteString("hi")
	require.NoError(t, c.Render())
	buf.Reset()

	c.Prepare(false)
	c.WriteString("ha")
	require.NoError(t, c.Render())

	// Only the second cell changed. Moving right by one reprints the
	// unchanged "h" instead of emitting a motion sequence.
	assert.Equal(t, "ha\x1b[2D", buf.String())
}

func TestUnchangedFrameRendersNothing(t *testing.T) {
	c, buf := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)
	c.WriteString("hi")
	require.NoError(t, c.Render())
	buf.Reset()

	c.Prepare(false)
	c.WriteString("hi")
	require.NoError(t, c.Render())
	assert.Empty(t, buf.String())
}

func TestVerticalMotionUsesNewlinesForUnseenRows(t *testing.T) {
	c, buf := testCanvas(10, 8, style.ColorSupportNone)
	c.Prepare(false)
	c.SetPos(0, 6)
	c.WriteString("x")
	require.NoError(t, c.Render())

	// Row 6 was never rendered before: the canvas must scroll with
	// literal newlines, not a relative move that the terminal would clamp.
	assert.Equal(t, "\x1b[J\n\n\n\n\n\nx\x1b[6A\x1b[1D", buf.String())
	buf.Reset()

	// The row has been seen now; a long downward move uses CSI B.
	c.Prepare(false)
	c.SetPos(0, 6)
	c.WriteString("y")
	require.NoError(t, c.Render())
	assert.Equal(t, "\x1b[6By\x1b[6A\x1b[1D", buf.String())
}

func TestShortDownwardMotionUsesNewlines(t *testing.T) {
	c, buf := testCanvas(10, 4, style.ColorSupportNone)
	c.Prepare(false)
	c.SetPos(0, 2)
	c.WriteString("x")
	require.NoError(t, c.Render())
	buf.Reset()

	c.Prepare(false)
	c.SetPos(0, 2)
	c.WriteString("x")
	c.SetPos(0, 1)
	c.WriteString("y")
	require.NoError(t, c.Render())

	// Down by one from the origin, even onto a seen row, stays a newline.
	assert.Equal(t, "\ny\x1b[1A\x1b[1D", buf.String())
}

func TestColorCodesEmittedOnlyOnChange(t *testing.T) {
	c, buf := testCanvas(10, 2, style.ColorSupportAnsi16)
	c.Prepare(false)
	c.Write(text.Styled("rr", style.Fore(style.Red)), 0)
	c.Write(text.Plain("p"), 0)
	require.NoError(t, c.Render())

	out := buf.String()
	assert.Equal(t, 1, bytes.Count([]byte(out), []byte("\x1b[0;31m")),
		"the red code must be emitted once for the whole run")
	assert.Contains(t, out, "\x1b[0;31mrr")
	assert.Contains(t, out, "\x1b[0mp")
}

func TestSetColorCombinesWithTextColors(t *testing.T) {
	c, _ := testCanvas(10, 2, style.ColorSupportAnsi16)
	c.Prepare(false)
	c.SetColor(style.Back(style.Blue))
	c.Write(text.Styled("x", style.Fore(style.Red)), 0)

	want := style.Combine(style.Back(style.Blue), style.Fore(style.Red)).
		Code(style.ColorSupportAnsi16)
	assert.Equal(t, want, c.cells[0][0].Code)
}

func TestLinkTransitions(t *testing.T) {
	c, buf := testCanvas(10, 2, style.ColorSupportAnsi16)
	c.Prepare(false)
	x := text.New()
	x.AppendLink("https://example.com")
	x.Append("l")
	c.Write(x, 0)
	require.NoError(t, c.Render())

	out := buf.String()
	assert.Contains(t, out, "\x1b]8;;https://example.com\x1b\\")
	// The link is closed before the render ends.
	assert.Contains(t, out, "\x1b]8;;\x1b\\")
}

func TestWideGlyphs(t *testing.T) {
	c, _ := testCanvas(6, 1, style.ColorSupportNone)
	c.Prepare(false)
	c.WriteString("日")

	assert.Equal(t, "日", c.cells[0][0].Glyph)
	assert.Equal(t, "", c.cells[0][1].Glyph, "continuation cell is empty")
	assert.Equal(t, 2, c.curX)
}

func TestWideGlyphBlankedAtClipBoundary(t *testing.T) {
	c, _ := testCanvas(4, 1, style.ColorSupportNone)
	c.Prepare(false)
	c.SetPos(3, 0)
	c.WriteString("日")

	assert.Equal(t, " ", c.cells[0][3].Glyph, "half a wide glyph must be blanked")
}

func TestWriteMaxWidth(t *testing.T) {
	c, _ := testCanvas(10, 1, style.ColorSupportNone)
	c.Prepare(false)
	c.Write(text.Plain("日日"), 3)

	// Second glyph does not fit into three columns and is blanked. The
	// continuation cell after 日 holds an empty glyph, so the row reads as
	// the glyph plus eight spaces.
	assert.Equal(t, "日        ", rowString(c, 0))
}

func TestWriteAdvancesCursorPastPlacedCellsOnly(t *testing.T) {
	c, _ := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)

	// Text clipped at the canvas edge: the cursor stops at the edge, not
	// at the text's full width.
	c.Write(text.Plain("abcdefghij klmno"), 0)
	assert.Equal(t, 10, c.curX)

	c.SetPos(0, 1)
	c.Write(text.Plain("abcdef"), 3)
	assert.Equal(t, 3, c.curX)
}

func TestControlAndWhitespaceBecomeSpaces(t *testing.T) {
	c, _ := testCanvas(10, 1, style.ColorSupportNone)
	c.Prepare(false)
	c.WriteString("a\tb\x01c")
	assert.Equal(t, "a b c     ", rowString(c, 0))
}

func TestFrameClipsAndRestores(t *testing.T) {
	c, _ := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)
	c.SetPos(1, 0)
	c.SetColor(style.Fore(style.Red))

	restore := c.PushFrame(2, 1, 4, 1)
	assert.Equal(t, 4, c.Width())
	assert.Equal(t, 1, c.Height())
	assert.Equal(t, 0, c.curX, "cursor resets on frame entry")
	assert.Equal(t, style.None, c.curColor, "color resets on frame entry")

	c.WriteString("abcdef")
	restore()

	assert.Equal(t, "  abcd    ", rowString(c, 1), "writes clip at the frame edge")
	assert.Equal(t, 1, c.curX, "cursor restored on frame exit")
	assert.Equal(t, style.Fore(style.Red), c.curColor, "color restored on frame exit")
}

func TestFrameNegativeSizeExtendsToEdge(t *testing.T) {
	c, _ := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)
	defer c.PushFrame(4, 1, -1, -1)()
	assert.Equal(t, 6, c.Width())
	assert.Equal(t, 2, c.Height())
}

func TestWithFrameRestoresOnPanic(t *testing.T) {
	c, _ := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)

	func() {
		defer func() { _ = recover() }()
		c.WithFrame(2, 2, 4, 1, func() {
			panic("boom")
		})
	}()

	assert.Equal(t, 10, c.Width(), "enclosing frame restored after panic")
	assert.Equal(t, 3, c.Height())
}

func TestWriteLines(t *testing.T) {
	c, _ := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)
	c.WriteString("> ")
	c.WriteLines([]*text.Text{text.Plain("aa"), text.Plain("bb")}, 0)

	assert.Equal(t, "> aa      ", rowString(c, 0))
	assert.Equal(t, "  bb      ", rowString(c, 1), "lines align under the first")
}

func TestResizeForcesFullRedraw(t *testing.T) {
	w := 10
	var buf bytes.Buffer
	c := New(&buf, func() (int, int) { return w, 3 }, style.ColorSupportNone)

	c.Prepare(false)
	c.WriteString("hi")
	require.NoError(t, c.Render())
	buf.Reset()

	w = 12
	c.Prepare(false)
	c.WriteString("hi")
	require.NoError(t, c.Render())
	assert.Contains(t, buf.String(), "\x1b[J", "size change repaints from scratch")
}

func TestFinalizeErasesAndResets(t *testing.T) {
	c, buf := testCanvas(10, 3, style.ColorSupportAnsi16)
	c.Prepare(false)
	c.SetPos(0, 1)
	c.Write(text.Styled("x", style.Fore(style.Red)), 0)
	require.NoError(t, c.Render())
	buf.Reset()

	require.NoError(t, c.Finalize())
	assert.Equal(t, "\x1b[J\x1b[0m", buf.String())
}

func TestSetFinalPos(t *testing.T) {
	c, buf := testCanvas(10, 3, style.ColorSupportNone)
	c.Prepare(false)
	c.WriteString("ab")
	c.SetFinalPos(2, 0)
	require.NoError(t, c.Render())

	// Cursor is already at column 2 after writing; no trailing motion.
	assert.Equal(t, "\x1b[Jab", buf.String())
}
