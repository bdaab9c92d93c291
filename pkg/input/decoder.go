package input

import (
	"bytes"
	"strconv"
	"time"
	"unicode/utf8"
)

// escapeTimeout is how long the decoder waits after a lone ESC byte
// before deciding it was the Escape key rather than a sequence start.
const escapeTimeout = 50 * time.Millisecond

// csiLetters dispatches CSI and SS3 final letters.
var csiLetters = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'F': KeyEnd,
	'H': KeyHome,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'Z': KeyShiftTab,
}

// csiTilde dispatches the legacy "CSI n ~" function-key form. Code 200
// opens a bracketed paste and is handled separately.
var csiTilde = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

const pasteStart = 200

var pasteEnd = []byte("\x1b[201~")

// Decoder turns a raw byte stream into events. It is synchronous and not
// safe for concurrent use.
type Decoder struct {
	src        ByteSource
	escTimeout time.Duration
}

// NewDecoder creates a decoder over src.
func NewDecoder(src ByteSource) *Decoder {
	return &Decoder{src: src, escTimeout: escapeTimeout}
}

// ReadEvent blocks until the next complete event. Unrecognized or
// response-only sequences (mouse reports, device attributes, DCS/OSC
// strings) are consumed and skipped; decoding resumes at the next byte.
// A sequence cut off mid-way blocks for more input instead of emitting a
// malformed event; the stream error (io.EOF included) is returned once
// no complete event can ever form.
func (d *Decoder) ReadEvent() (Event, error) {
	for {
		b, err := d.src.Next()
		if err != nil {
			return Event{}, err
		}

		var (
			ev Event
			ok bool
		)
		switch b {
		case 0x1b:
			ev, ok, err = d.decodeEscape(false)
		case 0x90, 0x9d: // 8-bit DCS / OSC
			err = d.skipString()
		default:
			ev, ok, err = d.decodeByte(b, false)
		}
		if err != nil {
			return Event{}, err
		}
		if ok {
			return ev, nil
		}
	}
}

// decodeEscape handles everything after an ESC byte. alt is set when at
// least one extra ESC already preceded this one.
func (d *Decoder) decodeEscape(alt bool) (Event, bool, error) {
	b, ok, err := d.src.NextTimeout(d.escTimeout)
	if err != nil || !ok {
		// Nothing followed: a standalone Escape press. A stream error is
		// reported by the next ReadEvent call.
		return Event{Key: KeyEscape, Alt: alt}, true, nil
	}

	switch b {
	case 0x1b:
		// Repeated ESC before a sequence: Alt modifier heuristic.
		return d.decodeEscape(true)
	case '[':
		return d.decodeCSI(alt)
	case 'O':
		return d.decodeSS3(alt)
	case 'N':
		// SS2 shifts exactly one character; consume and drop it.
		_, err := d.src.Next()
		return Event{}, false, err
	case 'P', ']', 'X', '^', '_':
		// DCS / OSC / SOS / PM / APC: discard up to the terminator.
		return Event{}, false, d.skipString()
	default:
		ev, ok, err := d.decodeByte(b, true)
		return ev, ok, err
	}
}

// decodeCSI accumulates parameter bytes until a final byte in 0x40..0x7E
// and dispatches on it.
func (d *Decoder) decodeCSI(alt bool) (Event, bool, error) {
	var params []byte
	var final byte
	for {
		b, err := d.src.Next()
		if err != nil {
			return Event{}, false, err
		}
		if b >= 0x40 && b <= 0x7e {
			final = b
			break
		}
		params = append(params, b)
	}

	nums, numeric := parseParams(params)
	if !numeric {
		// Mouse reports, private-mode responses and the like.
		return Event{}, false, nil
	}

	var shift, altMod, ctrl bool
	if len(nums) >= 2 {
		// Second parameter is a modifier bitmask biased by one.
		m := nums[1] - 1
		shift = m&1 != 0
		altMod = m&2 != 0
		ctrl = m&4 != 0
	}
	alt = alt || altMod

	first := 1
	if len(nums) >= 1 {
		first = nums[0]
	}

	switch final {
	case '~':
		if first == pasteStart {
			return d.readPaste()
		}
		key, known := csiTilde[first]
		if !known {
			return Event{}, false, nil
		}
		return Event{Key: key, Ctrl: ctrl, Alt: alt, Shift: shift}, true, nil
	case 'u':
		// Extended keyboard protocol: first parameter is a code point.
		if first <= 0 || first > utf8.MaxRune {
			return Event{}, false, nil
		}
		return Event{Key: KeyRune, Rune: rune(first), Ctrl: ctrl, Alt: alt, Shift: shift}, true, nil
	default:
		key, known := csiLetters[final]
		if !known {
			return Event{}, false, nil
		}
		return Event{Key: key, Ctrl: ctrl, Alt: alt, Shift: shift}, true, nil
	}
}

func (d *Decoder) decodeSS3(alt bool) (Event, bool, error) {
	b, err := d.src.Next()
	if err != nil {
		return Event{}, false, err
	}
	key, known := csiLetters[b]
	if !known {
		return Event{}, false, nil
	}
	return Event{Key: key, Alt: alt}, true, nil
}

// readPaste consumes raw input verbatim until the paste end marker and
// emits a single event carrying the unmodified payload.
func (d *Decoder) readPaste() (Event, bool, error) {
	var payload []byte
	for {
		b, err := d.src.Next()
		if err != nil {
			return Event{}, false, err
		}
		payload = append(payload, b)
		if bytes.HasSuffix(payload, pasteEnd) {
			return Event{
				Key:   KeyPaste,
				Paste: string(payload[:len(payload)-len(pasteEnd)]),
			}, true, nil
		}
	}
}

// decodeByte classifies a byte outside any escape sequence, assembling
// UTF-8 continuations as needed.
func (d *Decoder) decodeByte(b byte, alt bool) (Event, bool, error) {
	switch {
	case b == 0x7f:
		return Event{Key: KeyBackspace, Alt: alt}, true, nil
	case b == '\t':
		return Event{Key: KeyTab, Alt: alt}, true, nil
	case b == '\r' || b == '\n':
		return Event{Key: KeyEnter, Alt: alt}, true, nil
	case b == 0x00:
		return Event{Key: KeySpace, Ctrl: true, Alt: alt}, true, nil
	case b <= 0x1a:
		return Event{Key: KeyRune, Rune: rune('a' + b - 1), Ctrl: true, Alt: alt}, true, nil
	case b >= 0x1c && b <= 0x1f:
		return Event{Key: KeyRune, Rune: rune("\\]^_"[b-0x1c]), Ctrl: true, Alt: alt}, true, nil
	case b < 0x80:
		return Event{Key: KeyRune, Rune: rune(b), Alt: alt}, true, nil
	default:
		return d.decodeUTF8(b, alt)
	}
}

func (d *Decoder) decodeUTF8(b byte, alt bool) (Event, bool, error) {
	var n int
	switch {
	case b&0xe0 == 0xc0:
		n = 2
	case b&0xf0 == 0xe0:
		n = 3
	case b&0xf8 == 0xf0:
		n = 4
	default:
		// Stray continuation or invalid lead byte.
		return Event{}, false, nil
	}

	buf := [4]byte{b}
	for i := 1; i < n; i++ {
		c, err := d.src.Next()
		if err != nil {
			return Event{}, false, err
		}
		buf[i] = c
	}

	r, _ := utf8.DecodeRune(buf[:n])
	if r == utf8.RuneError {
		return Event{}, false, nil
	}
	return Event{Key: KeyRune, Rune: r, Alt: alt}, true, nil
}

// skipString consumes a DCS/OSC-style string sequence up to its
// terminator (ST, its 8-bit form, or BEL).
func (d *Decoder) skipString() error {
	for {
		b, err := d.src.Next()
		if err != nil {
			return err
		}
		switch b {
		case 0x07, 0x9c:
			return nil
		case 0x1b:
			c, err := d.src.Next()
			if err != nil {
				return err
			}
			if c == '\\' {
				return nil
			}
		}
	}
}

func parseParams(params []byte) ([]int, bool) {
	if len(params) == 0 {
		return nil, true
	}
	fields := bytes.Split(params, []byte{';'})
	nums := make([]int, len(fields))
	for i, f := range fields {
		if len(f) == 0 {
			nums[i] = 1
			continue
		}
		n, err := strconv.Atoi(string(f))
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}
