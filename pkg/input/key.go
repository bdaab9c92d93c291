// Package input decodes a raw terminal byte stream into keyboard and
// paste events. The decoder is a pull-based state machine: ReadEvent
// consumes bytes until it has a complete event, blocking mid-sequence
// when the stream pauses, so events always come out in the exact order
// their terminating byte arrived.
package input

import "strings"

// Key identifies a named key. KeyRune means the event carries a literal
// character in Event.Rune.
type Key uint8

const (
	KeyRune Key = iota
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyShiftTab
	KeySpace
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyPaste
)

var keyNames = [...]string{
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyEscape:    "esc",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyShiftTab:  "shift+tab",
	KeySpace:     "space",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyInsert:    "insert",
	KeyDelete:    "delete",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdn",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
	KeyPaste:     "paste",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// Event is one decoded input unit: a named key or a literal character,
// with modifier flags, or a bracketed-paste payload.
//
// Events are comparable and can be used as map keys for keybinding
// tables; paste events carry their payload and are matched by Key only.
type Event struct {
	Key   Key
	Rune  rune
	Ctrl  bool
	Alt   bool
	Shift bool
	Paste string
}

// KeyEvent is shorthand for an unmodified named-key event.
func KeyEvent(k Key) Event { return Event{Key: k} }

// RuneEvent is shorthand for an unmodified character event.
func RuneEvent(r rune) Event { return Event{Key: KeyRune, Rune: r} }

// String renders the event in a compact "ctrl+alt+x" form, suitable for
// help screens.
func (e Event) String() string {
	var sb strings.Builder
	if e.Ctrl {
		sb.WriteString("ctrl+")
	}
	if e.Alt {
		sb.WriteString("alt+")
	}
	if e.Shift && e.Key != KeyShiftTab {
		sb.WriteString("shift+")
	}
	if e.Key == KeyRune {
		sb.WriteRune(e.Rune)
	} else {
		sb.WriteString(e.Key.String())
	}
	return sb.String()
}
