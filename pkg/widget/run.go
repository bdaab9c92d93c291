package widget

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/term"
)

// ErrInterrupted is returned by Run when the user presses the interrupt
// key. The terminal is already restored when it surfaces.
var ErrInterrupted = errors.New("widget: interrupted")

// Reserved keys handled by the run loop itself, never dispatched to the
// widget.
var (
	keyHelp      = input.KeyEvent(input.KeyF1)
	keyRedraw    = input.Event{Key: input.KeyRune, Rune: 'l', Ctrl: true}
	keyInterrupt = input.Event{Key: input.KeyRune, Rune: 'c', Ctrl: true}
)

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	log *slog.Logger
}

// WithLogger routes debug diagnostics (render stats, decoded events) to
// l. The run loop never logs to the controlled terminal.
func WithLogger(l *slog.Logger) RunOption {
	return func(cfg *runConfig) { cfg.log = l }
}

// Run displays w and processes input until an event handler reports a
// result, which is asserted to T.
//
// Each tick lays the widget out, clamps the negotiated height into the
// returned range (and under the terminal height), draws into a frame of
// that height, renders the diff, and blocks on the next event. F1
// toggles the help overlay, Ctrl+L forces a full repaint, Ctrl+C
// interrupts; everything else goes to the widget. Raw mode, bracketed
// paste, and the rendered region are unwound on every exit path, error
// or not, so callers always get their terminal back.
func Run[T any](t *term.Terminal, w Widget, opts ...RunOption) (T, error) {
	var zero T
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	restore, err := t.MakeRaw()
	if err != nil {
		return zero, err
	}
	defer restore()

	if err := t.EnableBracketedPaste(); err != nil {
		return zero, err
	}
	defer t.DisableBracketedPaste()

	c := canvas.New(t.Out, t.Size, t.Caps.Colors)
	c.SetLogger(cfg.log)
	defer c.Finalize()

	var resized atomic.Bool
	stopResize := t.NotifyResize(func() { resized.Store(true) })
	defer stopResize()

	dec := t.Events()

	helpVisible := false
	fullRedraw := false

	for {
		c.Prepare(fullRedraw || resized.Swap(false))
		fullRedraw = false

		drawn := w
		if helpVisible {
			drawn = NewHelp(helpColumns(w))
		}

		minH, maxH := drawn.Layout(c)
		if maxH < minH {
			return zero, fmt.Errorf("widget: layout returned max %d < min %d", maxH, minH)
		}
		height := min(maxH, c.Height()-1)
		height = max(height, minH)

		c.SetFinalPos(0, height)
		c.WithFrame(0, 0, -1, height, func() {
			drawn.Draw(c)
		})

		if err := c.Render(); err != nil {
			return zero, err
		}

		ev, err := dec.ReadEvent()
		if err != nil {
			return zero, err
		}
		if cfg.log != nil {
			cfg.log.Debug("event", "ev", ev.String())
		}

		switch ev {
		case keyHelp:
			helpVisible = !helpVisible
			continue
		case keyRedraw:
			fullRedraw = true
			continue
		case keyInterrupt:
			return zero, ErrInterrupted
		}

		out, err := w.HandleEvent(ev)
		if err != nil {
			return zero, err
		}
		if !out.Done {
			continue
		}
		if out.Value == nil {
			return zero, nil
		}
		v, ok := out.Value.(T)
		if !ok {
			return zero, fmt.Errorf("widget: result is %T, want %T", out.Value, zero)
		}
		return v, nil
	}
}

// helpColumns collects the widget's published bindings and appends the
// run loop's own reserved keys.
func helpColumns(w Widget) []HelpColumn {
	var cols []HelpColumn
	if hp, ok := w.(HelpProvider); ok {
		cols = hp.HelpColumns()
	}
	return append(cols, HelpColumn{
		{Keys: []input.Event{keyHelp}, Text: "close help"},
		{Keys: []input.Event{keyRedraw}, Text: "redraw"},
		{Keys: []input.Event{keyInterrupt}, Text: "interrupt"},
	})
}
