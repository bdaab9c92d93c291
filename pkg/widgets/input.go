package widgets

import (
	"unicode"

	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
	"github.com/odvcencio/weft/pkg/style"
	"github.com/odvcencio/weft/pkg/text"
	"github.com/odvcencio/weft/pkg/widget"
)

func keyEv(k input.Key) input.Event { return input.Event{Key: k} }
func ctrlRune(r rune) input.Event {
	return input.Event{Key: input.KeyRune, Rune: r, Ctrl: true}
}
func altRune(r rune) input.Event {
	return input.Event{Key: input.KeyRune, Rune: r, Alt: true}
}
func altKey(k input.Key) input.Event { return input.Event{Key: k, Alt: true} }

// Input is a single-line editor. Enter stops the run loop with the
// entered string; readline-style motions and kill operations are bound
// alongside the arrow keys. Long content scrolls horizontally so the
// cursor stays visible.
type Input struct {
	prompt      string
	placeholder string

	buf    []rune
	cursor int
	scroll int

	keys *widget.KeyMap
}

// NewInput creates an editor. The prompt is drawn before the content;
// the placeholder shows dimmed while the content is empty.
func NewInput(prompt, placeholder string) *Input {
	i := &Input{prompt: prompt, placeholder: placeholder}
	i.keys = widget.NewKeyMap().
		Bind(i.left, keyEv(input.KeyLeft), ctrlRune('b')).
		Bind(i.right, keyEv(input.KeyRight), ctrlRune('f')).
		Bind(i.home, keyEv(input.KeyHome), ctrlRune('a')).
		Bind(i.end, keyEv(input.KeyEnd), ctrlRune('e')).
		Bind(i.wordLeft, altKey(input.KeyLeft), altRune('b')).
		Bind(i.wordRight, altKey(input.KeyRight), altRune('f')).
		Bind(i.backspace, keyEv(input.KeyBackspace), ctrlRune('h')).
		Bind(i.delete, keyEv(input.KeyDelete), ctrlRune('d')).
		Bind(i.killWordBack, ctrlRune('w'), altKey(input.KeyBackspace)).
		Bind(i.killWordForward, altRune('d')).
		Bind(i.killToEnd, ctrlRune('k')).
		Bind(i.killToStart, ctrlRune('u')).
		Bind(i.enter, keyEv(input.KeyEnter)).
		Bind(i.paste, keyEv(input.KeyPaste)).
		Default(i.typed)
	return i
}

// Text returns the current content.
func (i *Input) Text() string { return string(i.buf) }

// SetText replaces the content and moves the cursor to the end.
func (i *Input) SetText(s string) {
	i.buf = []rune(s)
	i.cursor = len(i.buf)
}

func (i *Input) Layout(*canvas.Canvas) (int, int) {
	return 1, 1
}

func (i *Input) Draw(c *canvas.Canvas) {
	x := 0
	if i.prompt != "" {
		c.SetPos(0, 0)
		c.Write(text.Styled(i.prompt, style.Fore(style.Magenta)), 0)
		x = text.StringWidth(i.prompt) + 1
	}
	avail := c.Width() - x
	if avail < 2 {
		return
	}

	// Keep the cursor inside the visible window, leaving one column for
	// the cursor cell itself.
	if i.cursor < i.scroll {
		i.scroll = i.cursor
	}
	for i.scroll < i.cursor && text.StringWidth(string(i.buf[i.scroll:i.cursor])) > avail-1 {
		i.scroll++
	}

	c.SetPos(x, 0)
	if len(i.buf) == 0 && i.placeholder != "" {
		c.Write(text.Styled(i.placeholder, style.Dim), avail)
	} else {
		c.Write(text.Plain(string(i.buf[i.scroll:])), avail)
	}

	c.SetFinalPos(x+text.StringWidth(string(i.buf[i.scroll:i.cursor])), 0)
}

func (i *Input) HandleEvent(ev input.Event) (widget.Outcome, error) {
	return i.keys.Handle(ev)
}

// HelpColumns publishes the editor's bindings for the help overlay.
func (i *Input) HelpColumns() []widget.HelpColumn {
	return []widget.HelpColumn{
		{
			{Keys: []input.Event{keyEv(input.KeyLeft), keyEv(input.KeyRight)}, Text: "move"},
			{Keys: []input.Event{altKey(input.KeyLeft), altKey(input.KeyRight)}, Text: "move by word"},
			{Keys: []input.Event{keyEv(input.KeyHome), keyEv(input.KeyEnd)}, Text: "line start/end"},
		},
		{
			{Keys: []input.Event{ctrlRune('w')}, Text: "delete word"},
			{Keys: []input.Event{ctrlRune('u'), ctrlRune('k')}, Text: "delete to start/end"},
			{Keys: []input.Event{keyEv(input.KeyEnter)}, Text: "accept"},
		},
	}
}

func (i *Input) left(input.Event) (widget.Outcome, error) {
	if i.cursor > 0 {
		i.cursor--
	}
	return widget.Outcome{}, nil
}

func (i *Input) right(input.Event) (widget.Outcome, error) {
	if i.cursor < len(i.buf) {
		i.cursor++
	}
	return widget.Outcome{}, nil
}

func (i *Input) home(input.Event) (widget.Outcome, error) {
	i.cursor = 0
	return widget.Outcome{}, nil
}

func (i *Input) end(input.Event) (widget.Outcome, error) {
	i.cursor = len(i.buf)
	return widget.Outcome{}, nil
}

func (i *Input) wordLeft(input.Event) (widget.Outcome, error) {
	i.cursor = i.prevWord()
	return widget.Outcome{}, nil
}

func (i *Input) wordRight(input.Event) (widget.Outcome, error) {
	i.cursor = i.nextWord()
	return widget.Outcome{}, nil
}

func (i *Input) backspace(input.Event) (widget.Outcome, error) {
	if i.cursor > 0 {
		i.remove(i.cursor-1, i.cursor)
	}
	return widget.Outcome{}, nil
}

func (i *Input) delete(input.Event) (widget.Outcome, error) {
	if i.cursor < len(i.buf) {
		i.buf = append(i.buf[:i.cursor], i.buf[i.cursor+1:]...)
	}
	return widget.Outcome{}, nil
}

func (i *Input) killWordBack(input.Event) (widget.Outcome, error) {
	i.remove(i.prevWord(), i.cursor)
	return widget.Outcome{}, nil
}

func (i *Input) killWordForward(input.Event) (widget.Outcome, error) {
	i.buf = append(i.buf[:i.cursor], i.buf[i.nextWord():]...)
	return widget.Outcome{}, nil
}

func (i *Input) killToEnd(input.Event) (widget.Outcome, error) {
	i.buf = i.buf[:i.cursor]
	return widget.Outcome{}, nil
}

func (i *Input) killToStart(input.Event) (widget.Outcome, error) {
	i.remove(0, i.cursor)
	return widget.Outcome{}, nil
}

func (i *Input) enter(input.Event) (widget.Outcome, error) {
	return widget.Stop(string(i.buf)), nil
}

func (i *Input) paste(ev input.Event) (widget.Outcome, error) {
	i.insert(ev.Paste)
	return widget.Outcome{}, nil
}

func (i *Input) typed(ev input.Event) (widget.Outcome, error) {
	if ev.Key == input.KeyRune && !ev.Ctrl && !ev.Alt {
		i.insert(string(ev.Rune))
	}
	return widget.Outcome{}, nil
}

// insert splices s at the cursor. Newlines and tabs become spaces, any
// other control runes are dropped; pasted text never breaks the single
// line.
func (i *Input) insert(s string) {
	var runes []rune
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			runes = append(runes, ' ')
		case unicode.IsControl(r):
		default:
			runes = append(runes, r)
		}
	}
	if len(runes) == 0 {
		return
	}
	i.buf = append(i.buf[:i.cursor], append(runes, i.buf[i.cursor:]...)...)
	i.cursor += len(runes)
}

// remove deletes buf[from:to] and puts the cursor at from.
func (i *Input) remove(from, to int) {
	i.buf = append(i.buf[:from], i.buf[to:]...)
	i.cursor = from
}

func (i *Input) prevWord() int {
	pos := i.cursor
	for pos > 0 && !isWordRune(i.buf[pos-1]) {
		pos--
	}
	for pos > 0 && isWordRune(i.buf[pos-1]) {
		pos--
	}
	return pos
}

func (i *Input) nextWord() int {
	pos := i.cursor
	for pos < len(i.buf) && !isWordRune(i.buf[pos]) {
		pos++
	}
	for pos < len(i.buf) && isWordRune(i.buf[pos]) {
		pos++
	}
	return pos
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
