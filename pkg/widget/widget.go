// Package widget implements the interactive run loop: widgets declare a
// height range, draw themselves onto a canvas frame, and handle decoded
// input events until one of them produces a result.
package widget

import (
	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
)

// Widget is one interactive console element.
//
// Layout runs before every Draw and reports the height range the widget
// can occupy at the canvas frame's current width; Draw must only use a
// height within the pair it just returned (the runtime sizes the frame
// accordingly). Returning maxH < minH is a programming error and fails
// the run loudly. Widgets always take the frame's full width.
type Widget interface {
	Layout(c *canvas.Canvas) (minH, maxH int)
	Draw(c *canvas.Canvas)
	HandleEvent(ev input.Event) (Outcome, error)
}

// Outcome is what an event handler produced. Done stops the run loop
// and hands Value to the caller.
type Outcome struct {
	Done  bool
	Value any
}

// Stop is shorthand for a run-terminating outcome.
func Stop(value any) Outcome {
	return Outcome{Done: true, Value: value}
}

// Handler processes one event inside a KeyMap.
type Handler func(ev input.Event) (Outcome, error)

// KeyMap is a static binding table built once per widget: an exact event
// lookup with a default-handler fallback. Paste events match on the key
// alone; the payload is delivered to the handler untouched.
type KeyMap struct {
	bindings map[input.Event]Handler
	fallback Handler
}

// NewKeyMap creates an empty table.
func NewKeyMap() *KeyMap {
	return &KeyMap{bindings: make(map[input.Event]Handler)}
}

// Bind registers fn for each of the given events. Later binds win.
func (m *KeyMap) Bind(fn Handler, events ...input.Event) *KeyMap {
	for _, ev := range events {
		m.bindings[ev] = fn
	}
	return m
}

// Default registers the fallback for events with no exact binding.
func (m *KeyMap) Default(fn Handler) *KeyMap {
	m.fallback = fn
	return m
}

// Handle dispatches ev: exact lookup first, then the fallback. With
// neither, the event is ignored.
func (m *KeyMap) Handle(ev input.Event) (Outcome, error) {
	lookup := ev
	lookup.Paste = ""
	if fn, ok := m.bindings[lookup]; ok {
		return fn(ev)
	}
	if m.fallback != nil {
		return m.fallback(ev)
	}
	return Outcome{}, nil
}
