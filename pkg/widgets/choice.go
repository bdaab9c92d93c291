package widgets

import (
	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
	"github.com/odvcencio/weft/pkg/widget"
)

const (
	minColumnWidth = 14
	columnGap      = 2
)

// Option is one entry in a Choice grid.
type Option struct {
	// Value is handed to the run loop when the option is accepted.
	Value any
	// Label is shown in the grid.
	Label string
	// Comment is shown dimmed in brackets after the label, space
	// permitting.
	Comment string
}

// Choice lets the user pick one option from a multi-column grid.
// Options flow down each column; when they don't all fit the
// negotiated height, the grid pages and the cursor's page is shown.
// Enter stops the run loop with the selected option's Value.
type Choice struct {
	options    []Option
	idx        int
	decoration string

	colWidth int
	rows     int
	cols     int

	keys *widget.KeyMap
}

// NewChoice creates a grid over the given options with the cursor on
// the first one.
func NewChoice(options []Option) *Choice {
	ch := &Choice{options: options, decoration: ">"}
	ch.colWidth = minColumnWidth
	for _, o := range options {
		if w := ch.optionWidth(o); w > ch.colWidth {
			ch.colWidth = w
		}
	}
	ch.keys = widget.NewKeyMap().
		Bind(ch.prev, keyEv(input.KeyUp), input.RuneEvent('k'), keyEv(input.KeyShiftTab)).
		Bind(ch.next, keyEv(input.KeyDown), input.RuneEvent('j'), keyEv(input.KeyTab)).
		Bind(ch.prevColumn, keyEv(input.KeyLeft), input.RuneEvent('h')).
		Bind(ch.nextColumn, keyEv(input.KeyRight), input.RuneEvent('l')).
		Bind(ch.prevPage, keyEv(input.KeyPageUp)).
		Bind(ch.nextPage, keyEv(input.KeyPageDown)).
		Bind(ch.first, keyEv(input.KeyHome)).
		Bind(ch.last, keyEv(input.KeyEnd)).
		Bind(ch.enter, keyEv(input.KeyEnter))
	return ch
}

// Index returns the cursor position.
func (ch *Choice) Index() int { return ch.idx }

// SetIndex moves the cursor, wrapping around the option count.
func (ch *Choice) SetIndex(idx int) {
	if len(ch.options) > 0 {
		ch.idx = ((idx % len(ch.options)) + len(ch.options)) % len(ch.options)
	}
}

func (ch *Choice) optionWidth(o Option) int {
	w := columnGap + text.StringWidth(ch.decoration) + 1 + text.StringWidth(o.Label)
	if o.Comment != "" {
		w += 3 + text.StringWidth(o.Comment)
	}
	return w
}

func (ch *Choice) pageSize() int { return ch.rows * ch.cols }

func (ch *Choice) Layout(c *canvas.Canvas) (int, int) {
	ch.colWidth = max(1, min(ch.colWidth, c.Width()))
	ch.cols = max(1, c.Width()/ch.colWidth)
	ch.rows = max(1, (len(ch.options)+ch.cols-1)/ch.cols)
	return 1, ch.rows
}

func (ch *Choice) Draw(c *canvas.Canvas) {
	ch.rows = min(ch.rows, c.Height())
	if ch.rows < 1 {
		return
	}

	pageSize := ch.pageSize()
	pageStart := ch.idx - ch.idx%pageSize
	page := ch.options[pageStart:min(pageStart+pageSize, len(ch.options))]

	for i, o := range page {
		c.SetPos(i/ch.rows*ch.colWidth, i%ch.rows)
		ch.drawOption(c, o, pageStart+i == ch.idx)
	}
}

func (ch *Choice) drawOption(c *canvas.Canvas, o Option, active bool) {
	width := ch.colWidth - columnGap
	line := text.New()
	if active {
		line.AppendColor(style.Fore(style.Magenta)).
			Append(ch.decoration).
			AppendColor(style.Combine(style.Fore(style.Magenta), style.Bold)).
			Append(" ")
	} else {
		line.Append(text.Spaces(text.StringWidth(ch.decoration) + 1).String())
	}
	line.Append(o.Label)
	if o.Comment != "" && text.StringWidth(line.String())+3+text.StringWidth(o.Comment) <= width {
		line.AppendColor(style.Dim).
			Append(" [").
			Append(o.Comment).
			Append("]")
	}
	c.Write(line, width)
}

func (ch *Choice) HandleEvent(ev input.Event) (widget.Outcome, error) {
	if len(ch.options) == 0 {
		return widget.Outcome{}, nil
	}
	return ch.keys.Handle(ev)
}

// HelpColumns publishes the grid's bindings for the help overlay.
func (ch *Choice) HelpColumns() []widget.HelpColumn {
	return []widget.HelpColumn{
		{
			{Keys: []input.Event{keyEv(input.KeyUp), keyEv(input.KeyDown), keyEv(input.KeyLeft), keyEv(input.KeyRight)}, Text: "choose option"},
			{Keys: []input.Event{keyEv(input.KeyPageUp), keyEv(input.KeyPageDown)}, Text: "page"},
		},
		{
			{Keys: []input.Event{keyEv(input.KeyEnter)}, Text: "accept"},
		},
	}
}

func (ch *Choice) prev(input.Event) (widget.Outcome, error) {
	ch.SetIndex(ch.idx - 1)
	return widget.Outcome{}, nil
}

func (ch *Choice) next(input.Event) (widget.Outcome, error) {
	ch.SetIndex(ch.idx + 1)
	return widget.Outcome{}, nil
}

// prevColumn and nextColumn move by one column, treating the grid as if
// the last column were padded to a full row count, so the cursor wraps
// around the short tail instead of jumping past it.
func (ch *Choice) prevColumn(input.Event) (widget.Outcome, error) {
	ch.moveColumn(-1)
	return widget.Outcome{}, nil
}

func (ch *Choice) nextColumn(input.Event) (widget.Outcome, error) {
	ch.moveColumn(1)
	return widget.Outcome{}, nil
}

func (ch *Choice) moveColumn(dir int) {
	if ch.rows < 1 {
		return
	}
	padded := ch.rows * ((len(ch.options) + ch.rows - 1) / ch.rows)
	idx := ((ch.idx+dir*ch.rows)%padded + padded) % padded
	if idx >= len(ch.options) {
		idx = len(ch.options) - 1
	}
	ch.idx = idx
}

func (ch *Choice) prevPage(input.Event) (widget.Outcome, error) {
	if ps := ch.pageSize(); ps > 0 {
		idx := ch.idx - ch.idx%ps - 1
		if idx < 0 {
			idx = len(ch.options) - 1
		}
		ch.idx = idx
	}
	return widget.Outcome{}, nil
}

func (ch *Choice) nextPage(input.Event) (widget.Outcome, error) {
	if ps := ch.pageSize(); ps > 0 {
		idx := ch.idx - ch.idx%ps + ps
		if idx >= len(ch.options) {
			idx = 0
		}
		ch.idx = idx
	}
	return widget.Outcome{}, nil
}

func (ch *Choice) first(input.Event) (widget.Outcome, error) {
	ch.idx = 0
	return widget.Outcome{}, nil
}

func (ch *Choice) last(input.Event) (widget.Outcome, error) {
	ch.idx = len(ch.options) - 1
	return widget.Outcome{}, nil
}

func (ch *Choice) enter(input.Event) (widget.Outcome, error) {
	return widget.Stop(ch.options[ch.idx].Value), nil
}
