package widget

import (
	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
)

// HelpEntry describes one action for the help overlay: the events that
// trigger it and a short description.
type HelpEntry struct {
	Keys []input.Event
	Text string
}

// HelpColumn groups entries stacked vertically in the overlay.
type HelpColumn []HelpEntry

// HelpProvider is implemented by widgets that publish their keybindings
// for the help overlay. The table is static, supplied by the widget
// author.
type HelpProvider interface {
	HelpColumns() []HelpColumn
}

// Help renders keybinding columns side by side. The run loop shows it as
// an overlay; widgets can also embed it directly.
type Help struct {
	columns []HelpColumn
}

// NewHelp creates a help widget over the given columns.
func NewHelp(columns []HelpColumn) *Help {
	return &Help{columns: columns}
}

func (h *Help) rows() int {
	rows := 0
	for _, col := range h.columns {
		if len(col) > rows {
			rows = len(col)
		}
	}
	return rows
}

// Layout reports a fixed height: one row per longest column.
func (h *Help) Layout(*canvas.Canvas) (int, int) {
	rows := h.rows()
	return rows, rows
}

// Draw renders the columns left to right with a three-column gutter.
// Key names are highlighted, descriptions use the default color.
func (h *Help) Draw(c *canvas.Canvas) {
	keyColor := style.Fore(style.Cyan)

	x := 0
	for _, col := range h.columns {
		width := 0
		for row, entry := range col {
			line := text.New()
			line.AppendColor(keyColor)
			for i, ev := range entry.Keys {
				if i > 0 {
					line.Append("/")
				}
				line.Append(ev.String())
			}
			line.AppendColor(style.None)
			if entry.Text != "" {
				if len(entry.Keys) > 0 {
					line.Append(" ")
				}
				line.Append(entry.Text)
			}
			if w := line.Width(); w > width {
				width = w
			}

			c.SetPos(x, row)
			c.Write(line, 0)
		}
		x += width + 3
	}
}

// HandleEvent ignores everything; the run loop owns the overlay toggle.
func (h *Help) HandleEvent(input.Event) (Outcome, error) {
	return Outcome{}, nil
}
