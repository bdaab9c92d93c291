package widgets

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
	"github.com/odvcencio/weft/pkg/widget"
)

// Snapshot is one immutable progress report.
type Snapshot struct {
	Label   string
	Current float64
	Total   float64
	Done    bool
}

// Progress renders a bar with a percentage and a label. Workers on
// other goroutines publish state with Set; the widget reads the latest
// snapshot once per draw, so a report is never torn across fields.
type Progress struct {
	snap atomic.Pointer[Snapshot]
}

// NewProgress creates an empty bar.
func NewProgress() *Progress {
	p := &Progress{}
	p.snap.Store(&Snapshot{})
	return p
}

// Set publishes a new snapshot. Safe to call from any goroutine.
func (p *Progress) Set(s Snapshot) {
	p.snap.Store(&s)
}

// Done reports whether the latest snapshot is final.
func (p *Progress) Done() bool {
	return p.snap.Load().Done
}

func (p *Progress) Layout(*canvas.Canvas) (int, int) {
	return 1, 1
}

func (p *Progress) Draw(c *canvas.Canvas) {
	s := p.snap.Load()

	fraction := 0.0
	if s.Total > 0 {
		fraction = s.Current / s.Total
	}
	fraction = max(0, min(1, fraction))

	// "[" bar "] 100%" plus an optional " label".
	barWidth := c.Width() - 7
	label := s.Label
	if label != "" {
		if lw := text.StringWidth(label) + 1; barWidth-lw >= 10 {
			barWidth -= lw
		} else {
			label = ""
		}
	}
	if barWidth < 1 {
		return
	}
	filled := int(fraction*float64(barWidth) + 0.5)

	line := text.New().
		Append("[").
		AppendColor(style.Fore(style.Cyan)).
		Append(strings.Repeat("█", filled)).
		AppendColor(style.Dim).
		Append(strings.Repeat("╌", barWidth-filled)).
		AppendColor(style.None).
		Append(fmt.Sprintf("] %3d%%", int(fraction*100+0.5)))
	if label != "" {
		line.Append(" ").
			AppendColor(style.Dim).
			Append(label)
	}
	c.Write(line, c.Width())
}

func (p *Progress) HandleEvent(input.Event) (widget.Outcome, error) {
	return widget.Outcome{}, nil
}
