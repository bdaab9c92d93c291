// Package term owns the process's relationship with the controlling
// terminal: capability detection, the raw-mode guard, size queries,
// resize notifications, and the handful of mode-switching sequences the
// toolkit emits (alternate buffer, bracketed paste, cursor visibility).
package term

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	xterm "golang.org/x/term"

	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/style"
)

// ErrNotInteractive is returned when the input stream cannot enter raw
// mode because it is not attached to a terminal.
var ErrNotInteractive = errors.New("term: stream is not an interactive terminal")

// Terminal bundles the input/output streams with their detected
// capabilities.
type Terminal struct {
	In   *os.File
	Out  *os.File
	Caps Capabilities

	decodeOnce sync.Once
	decoder    *input.Decoder
}

// Option overrides a detected capability.
type Option func(*Terminal)

// WithColors forces the color support level, overriding detection.
func WithColors(sup style.ColorSupport) Option {
	return func(t *Terminal) { t.Caps.Colors = sup }
}

// WithUnicode forces the unicode-output flag.
func WithUnicode(on bool) Option {
	return func(t *Terminal) { t.Caps.Unicode = on }
}

// Open detects capabilities for the given streams and applies overrides.
// Passing nil uses stdin/stdout.
func Open(in, out *os.File, opts ...Option) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	t := &Terminal{In: in, Out: out, Caps: Detect(in, out)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// MakeRaw switches the input terminal into raw mode and returns the
// restore func. The caller must run restore on every exit path; widget
// runtimes defer it around their run loop.
func (t *Terminal) MakeRaw() (restore func() error, err error) {
	if !t.Caps.InteractiveIn || !t.Caps.InteractiveOut {
		return nil, ErrNotInteractive
	}
	fd := int(t.In.Fd())
	state, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("term: enter raw mode: %w", err)
	}
	// MakeRaw also disables output post-processing, leaving "\n" as a
	// bare line feed. The renderer moves the cursor down with literal
	// newlines and assumes column zero afterwards, so put the LF to
	// CRLF translation back.
	if err := keepOutputTranslation(fd); err != nil {
		xterm.Restore(fd, state)
		return nil, fmt.Errorf("term: enter raw mode: %w", err)
	}
	return func() error {
		return xterm.Restore(fd, state)
	}, nil
}

// Events returns the decoder over the terminal's input stream. The
// decoder and its reader pump are created once per Terminal and shared
// by every run loop on it: the pump keeps a read pending on the stream,
// so a fresh pump per run would swallow bytes typed for the next one.
func (t *Terminal) Events() *input.Decoder {
	t.decodeOnce.Do(func() {
		t.decoder = input.NewDecoder(input.NewReaderSource(t.In))
	})
	return t.decoder
}

// Size returns the terminal size in columns and rows, falling back to
// 80x24 when the output is not a terminal.
func (t *Terminal) Size() (width, height int) {
	w, h, err := xterm.GetSize(int(t.Out.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// EnterAltScreen switches to the alternate screen buffer.
func (t *Terminal) EnterAltScreen() error {
	return t.write("\x1b[?1049h")
}

// ExitAltScreen returns to the normal screen buffer.
func (t *Terminal) ExitAltScreen() error {
	return t.write("\x1b[?1049l")
}

// EnableBracketedPaste asks the terminal to wrap pasted text in the
// CSI 200~ / CSI 201~ markers the decoder understands.
func (t *Terminal) EnableBracketedPaste() error {
	return t.write("\x1b[?2004h")
}

// DisableBracketedPaste turns bracketed paste back off.
func (t *Terminal) DisableBracketedPaste() error {
	return t.write("\x1b[?2004l")
}

// HideCursor makes the cursor invisible while widgets redraw.
func (t *Terminal) HideCursor() error {
	return t.write("\x1b[?25l")
}

// ShowCursor makes the cursor visible again.
func (t *Terminal) ShowCursor() error {
	return t.write("\x1b[?25h")
}

// Bell rings the terminal bell.
func (t *Terminal) Bell() error {
	return t.write("\a")
}

func (t *Terminal) write(s string) error {
	_, err := io.WriteString(t.Out, s)
	return err
}
