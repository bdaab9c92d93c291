package text

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// WrapOptions control the Wrap algorithm.
type WrapOptions struct {
	// PreserveSpaces keeps runs of whitespace instead of collapsing them
	// into a single space.
	PreserveSpaces bool

	// PreserveNewlines breaks lines on newline sequences, recording the
	// sequence in the produced line's ExplicitNewline tag. When false,
	// newline sequences are treated as single spaces. A vertical tab
	// always breaks the line regardless of this setting.
	PreserveNewlines bool

	// BreakLongWords hard-breaks words that don't fit on a line of their
	// own at the width boundary.
	BreakLongWords bool

	// BreakLongNoWrapWords permits hard-breaking inside no-wrap regions
	// that don't fit on a line of their own.
	BreakLongNoWrapWords bool

	// Overflow, when non-empty, truncates lines that can't fit and appends
	// this glyph instead of breaking. The glyph should be one column wide.
	Overflow string

	// Indent is prepended to the first produced line.
	Indent *Text

	// ContinuationIndent is prepended to every following line; nil means
	// use Indent.
	ContinuationIndent *Text
}

// WrapDefaults returns the options used for ordinary prose wrapping.
func WrapDefaults() WrapOptions {
	return WrapOptions{PreserveNewlines: true, BreakLongWords: true}
}

// Wrap splits the text into lines of at most width columns.
//
// The text is split into word and separator tokens, honoring hyphenated
// and punctuation-attached boundaries. Tokens are packed greedily. A
// no-wrap region that does not fit is first relocated whole onto the next
// line; only if it still does not fit (and the options permit) is it
// hard-broken. Each produced line carries the newline sequence that
// terminated it, empty for wrap-induced breaks.
func (t *Text) Wrap(width int, opts WrapOptions) []*Text {
	w := newWrapper(width, opts)
	return w.run(t)
}

type wrapper struct {
	width int
	opts  WrapOptions

	indent *Text
	cont   *Text

	lines []*Text

	line             *Text
	lineWidth        int
	atLineStart      bool
	hasOverflow      bool
	needSpace        bool
	nowrapStart      int // part index where the open no-wrap region begins; -1 if none
	nowrapStartWidth int
	nowrapAddedSpace bool
}

func newWrapper(width int, opts WrapOptions) *wrapper {
	w := &wrapper{
		width:       width,
		opts:        opts,
		indent:      opts.Indent,
		cont:        opts.ContinuationIndent,
		atLineStart: true,
		nowrapStart: -1,
	}
	if w.indent == nil {
		w.indent = New()
	}
	if w.cont == nil {
		w.cont = w.indent
	}
	w.line = New()
	if !w.indent.IsEmpty() {
		w.line.AppendText(w.indent)
	}
	w.lineWidth = w.indent.Width()
	return w
}

func (w *wrapper) run(t *Text) []*Text {
	nowrap := false

	for _, p := range t.parts {
		switch p.kind {
		case partColor:
			w.flushPendingSpace()
			w.line.AppendColor(p.color)
			continue
		case partLink:
			w.flushPendingSpace()
			w.line.AppendLink(p.link)
			continue
		case partNoWrapStart:
			if nowrap {
				continue
			}
			if w.needSpace && w.lineWidth+1 < w.width {
				w.appendWord(" ", 1)
				w.nowrapAddedSpace = true
			} else {
				w.nowrapAddedSpace = false
			}
			w.needSpace = false
			if w.atLineStart {
				w.nowrapStart = -1
				w.nowrapStartWidth = 0
			} else {
				w.nowrapStart = len(w.line.parts)
				w.nowrapStartWidth = w.lineWidth
			}
			nowrap = true
			continue
		case partNoWrapEnd:
			nowrap = false
			w.nowrapStart = -1
			w.nowrapStartWidth = 0
			w.nowrapAddedSpace = false
			continue
		}

		var words []string
		if nowrap {
			words = splitKeepNewlines(p.text)
		} else {
			words = splitTokens(p.text)
		}

		for _, word := range words {
			if word == "" {
				continue
			}

			if isNewlineToken(word) {
				if nowrap || w.opts.PreserveNewlines || word[0] == '\v' {
					w.flushLine(word)
					continue
				}
				// Treat the newline sequence as a single space.
				word = " "
			}

			isspace := isSpaceToken(word)
			if isspace {
				switch {
				case nowrap, w.opts.PreserveSpaces:
					word = replaceSpaces(word)
				case w.atLineStart && (len(w.lines) == 0 || w.lines[len(w.lines)-1].newline != ""):
					// Indentation after an explicit newline is kept even
					// when spaces are collapsed.
					word = replaceSpaces(word)
				default:
					w.needSpace = true
					continue
				}
			}

			wordWidth := StringWidth(word)

			if w.tryFitWord(word, wordWidth) {
				continue
			}

			if w.nowrapStart >= 0 {
				// Relocate the entire no-wrap region onto a fresh line
				// before attempting any mid-region break.
				w.flushLinePart()
				if w.tryFitWord(word, wordWidth) {
					continue
				}
			}

			if !w.atLineStart && !nowrap && !isspace {
				w.flushLine("")
			}

			if (nowrap && w.opts.BreakLongNoWrapWords) ||
				(!nowrap && (w.opts.BreakLongWords || isspace)) {
				w.appendWordWithBreaks(word, wordWidth)
			} else {
				w.appendWord(word, wordWidth)
			}
		}
	}

	if !w.line.IsEmpty() || len(w.lines) == 0 || w.lines[len(w.lines)-1].newline != "" {
		w.flushLine("")
	}

	return w.lines
}

// flushPendingSpace makes sure whitespace collapsed before a marker is
// flushed. If it doesn't fit, it is simply dropped: the line will be
// wrapped soon anyway.
func (w *wrapper) flushPendingSpace() {
	if w.needSpace && w.lineWidth+1 < w.width {
		w.appendWord(" ", 1)
	}
	w.needSpace = false
}

func (w *wrapper) flushLine(explicitNewline string) {
	w.line.newline = explicitNewline
	w.lines = append(w.lines, w.line)

	prevColor := w.line.activeColor
	prevLink := w.line.activeLink

	w.line = New()
	w.line.activeColor = prevColor
	w.line.activeLink = prevLink
	if !w.cont.IsEmpty() {
		w.line.AppendText(w.cont)
	}

	w.lineWidth = w.cont.Width()
	w.atLineStart = true
	w.hasOverflow = false
	w.needSpace = false
	w.nowrapStart = -1
	w.nowrapStartWidth = 0
	w.nowrapAddedSpace = false
}

// flushLinePart breaks the line right before the open no-wrap region and
// carries the region over to the next line.
func (w *wrapper) flushLinePart() {
	head, tail := w.line.splitAt(w.nowrapStart)
	tailWidth := w.lineWidth - w.nowrapStartWidth

	if w.nowrapAddedSpace {
		if n := len(head.parts); n > 0 && head.parts[n-1].kind == partText && head.parts[n-1].text == " " {
			// Remove the space that was flushed before the region.
			head.parts = head.parts[:n-1]
			head.length--
			head.widthOK = false
		}
	}

	w.line = head
	w.flushLine("")
	w.line.AppendText(tail)
	w.line.AppendColor(tail.activeColor)
	w.line.AppendLink(tail.activeLink)
	w.lineWidth += tailWidth
}

func (w *wrapper) tryFitWord(word string, wordWidth int) bool {
	space := 0
	if w.needSpace {
		space = 1
	}
	if w.lineWidth+wordWidth+space > w.width {
		return false
	}
	if w.needSpace {
		w.appendWord(" ", 1)
		w.needSpace = false
	}
	w.appendWord(word, wordWidth)
	return true
}

func (w *wrapper) appendWord(word string, wordWidth int) {
	if w.opts.Overflow != "" && w.lineWidth+wordWidth > w.width {
		headLen, headWidth := 0, 0
		for _, c := range word {
			cw := RuneWidth(c)
			if w.lineWidth+headWidth+cw > w.width {
				break
			}
			headLen += utf8.RuneLen(c)
			headWidth += cw
		}
		if headLen > 0 {
			w.line.Append(word[:headLen])
			w.atLineStart = false
			w.hasOverflow = false
			w.lineWidth += headWidth
		}
		w.addOverflow()
		return
	}

	w.line.Append(word)
	w.lineWidth += wordWidth
	w.hasOverflow = false
	w.atLineStart = false
}

// addOverflow appends the overflow glyph, reusing a marker already present
// at the end of the line instead of stacking a second one.
func (w *wrapper) addOverflow() {
	if w.hasOverflow {
		return
	}

	if w.lineWidth+1 <= w.width {
		w.line.Append(w.opts.Overflow)
		w.lineWidth++
		w.atLineStart = false
		w.hasOverflow = true
		return
	}

	if w.atLineStart {
		return
	}

	// No room left: replace the last column of the last run.
	for i := len(w.line.parts) - 1; i >= 0; i-- {
		p := &w.line.parts[i]
		if p.kind != partText {
			continue
		}
		_, sz := utf8.DecodeLastRuneInString(p.text)
		w.line.length += len(w.opts.Overflow) - sz
		w.line.widthOK = false
		p.text = p.text[:len(p.text)-sz] + w.opts.Overflow
		w.hasOverflow = true
		return
	}
}

func (w *wrapper) appendWordWithBreaks(word string, wordWidth int) {
	for w.lineWidth+wordWidth > w.width {
		headLen, headWidth := 0, 0
		for _, c := range word {
			cw := RuneWidth(c)
			if w.lineWidth+headWidth+cw > w.width {
				break
			}
			headLen += utf8.RuneLen(c)
			headWidth += cw
		}

		if w.atLineStart && headLen == 0 {
			if w.opts.Overflow != "" {
				return
			}
			// Take at least one rune to guarantee progress.
			_, sz := utf8.DecodeRuneInString(word)
			headLen = sz
			headWidth += StringWidth(word[:sz])
		}

		w.appendWord(word[:headLen], headWidth)
		word = word[headLen:]
		wordWidth -= headWidth
		w.flushLine("")
	}

	if word != "" {
		w.appendWord(word, wordWidth)
	}
}

// newlineSeqLen returns the length of the newline sequence starting at
// s[i], or 0. Recognized sequences: \v\r\n, \v\r, \v\n, \v, \r\n, \r, \n.
func newlineSeqLen(s string, i int) int {
	switch s[i] {
	case '\v':
		if i+1 < len(s) && s[i+1] == '\r' {
			if i+2 < len(s) && s[i+2] == '\n' {
				return 3
			}
			return 2
		}
		if i+1 < len(s) && s[i+1] == '\n' {
			return 2
		}
		return 1
	case '\r':
		if i+1 < len(s) && s[i+1] == '\n' {
			return 2
		}
		return 1
	case '\n':
		return 1
	}
	return 0
}

func isNewlineToken(s string) bool {
	switch s[0] {
	case '\v', '\r', '\n':
		return true
	}
	return false
}

func isSpaceToken(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

var spaceReplacer = strings.NewReplacer(
	"\r", " ", "\n", " ", "\t", " ", "\v", " ", "\b", " ", "\f", " ",
)

func replaceSpaces(s string) string {
	return spaceReplacer.Replace(s)
}

// splitKeepNewlines splits only at newline sequences, returning each
// sequence as its own token. Used inside no-wrap regions, where everything
// between newlines counts as one indivisible word.
func splitKeepNewlines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); {
		if n := newlineSeqLen(s, i); n > 0 {
			if i > start {
				out = append(out, s[start:i])
			}
			out = append(out, s[i:i+n])
			i += n
			start = i
			continue
		}
		i++
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// splitTokens splits a run into newline sequences, whitespace runs, and
// words. Words are further split at hyphenation boundaries.
func splitTokens(s string) []string {
	var out []string
	i := 0
	for i < len(s) {
		if n := newlineSeqLen(s, i); n > 0 {
			out = append(out, s[i:i+n])
			i += n
			continue
		}
		if isInlineSpace(s[i]) {
			start := i
			for i < len(s) && isInlineSpace(s[i]) {
				i++
			}
			out = append(out, s[start:i])
			continue
		}
		start := i
		for i < len(s) && !isInlineSpace(s[i]) && newlineSeqLen(s, i) == 0 {
			_, sz := utf8.DecodeRuneInString(s[i:])
			i += sz
		}
		out = append(out, splitWord(s[start:i])...)
	}
	return out
}

func isInlineSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\b', '\f':
		return true
	}
	return false
}

// splitWord breaks a whitespace-free chunk at hyphenation boundaries:
// after a hyphen in a hyphenated word, and around an em-dash written as
// two or more hyphens between words.
func splitWord(w string) []string {
	runes := []rune(w)
	var out []string
	start := 0
	i := 0
	for i < len(runes) {
		if runes[i] != '-' {
			i++
			continue
		}

		j := i
		for j < len(runes) && runes[j] == '-' {
			j++
		}

		if j-i >= 2 {
			// Em-dash: split it off when attached to words on both sides.
			if i > start && isWordRune(runes[i-1]) && j < len(runes) && isWordRune(runes[j]) {
				out = append(out, string(runes[start:i]), string(runes[i:j]))
				start = j
			}
			i = j
			continue
		}

		if hyphenBreakOK(runes, i) {
			out = append(out, string(runes[start:i+1]))
			start = i + 1
		}
		i++
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	if len(out) == 0 {
		return []string{w}
	}
	return out
}

// hyphenBreakOK mirrors the classic textwrap rule: break after a hyphen
// that follows two letters (or letter-hyphen-letter) and precedes at least
// two more letters, possibly separated by one more hyphen.
func hyphenBreakOK(runes []rune, i int) bool {
	behind := (i >= 2 && unicode.IsLetter(runes[i-1]) && unicode.IsLetter(runes[i-2])) ||
		(i >= 3 && unicode.IsLetter(runes[i-1]) && runes[i-2] == '-' && unicode.IsLetter(runes[i-3]))
	if !behind {
		return false
	}
	if i+2 > len(runes)-1 {
		return false
	}
	if !unicode.IsLetter(runes[i+1]) {
		return false
	}
	if runes[i+2] == '-' {
		return i+3 < len(runes) && unicode.IsLetter(runes[i+3])
	}
	return unicode.IsLetter(runes[i+2])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
