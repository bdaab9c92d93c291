package widget

import (
	"fmt"
	"math"

	"github.com/odvcencio/weft/pkg/canvas"
	"github.com/odvcencio/weft/pkg/input"
)

// VerticalLayout stacks widgets on top of each other and negotiates
// vertical space between them.
//
// Given the children's (min, max) height pairs and the available height
// h, every child gets its minimum plus a share of the slack proportional
// to its own flexibility: scale is 0 when h is at or below the total
// minimum, 1 at or above the total maximum, and linear in between. The
// running fractional boundary between children is rounded, not the
// individual sizes; rounding sizes independently would accumulate a gap
// or an overlap across many children.
type VerticalLayout struct {
	children []Widget
	receiver int

	layouts    [][2]int
	minH, maxH int
}

// NewVerticalLayout stacks the given widgets. No child receives events
// until AddReceiver or HandleEvent configuration says otherwise.
func NewVerticalLayout(children ...Widget) *VerticalLayout {
	return &VerticalLayout{children: children, receiver: -1}
}

// Add appends a widget to the bottom of the stack.
func (v *VerticalLayout) Add(w Widget) *VerticalLayout {
	v.children = append(v.children, w)
	return v
}

// AddReceiver appends a widget and routes all events to it. Only the
// last widget added this way receives events.
func (v *VerticalLayout) AddReceiver(w Widget) *VerticalLayout {
	v.receiver = len(v.children)
	v.children = append(v.children, w)
	return v
}

// Layout lays out every child and reports the stack's combined range.
func (v *VerticalLayout) Layout(c *canvas.Canvas) (int, int) {
	v.layouts = v.layouts[:0]
	v.minH, v.maxH = 0, 0
	for _, child := range v.children {
		minH, maxH := child.Layout(c)
		if maxH < minH {
			panic(fmt.Sprintf("widget: layout returned max %d < min %d", maxH, minH))
		}
		v.layouts = append(v.layouts, [2]int{minH, maxH})
		v.minH += minH
		v.maxH += maxH
	}
	return v.minH, v.maxH
}

// Draw draws every child into its negotiated slice of the frame. Layout
// must have run first.
func (v *VerticalLayout) Draw(c *canvas.Canvas) {
	if len(v.layouts) != len(v.children) {
		panic("widget: VerticalLayout.Draw called before Layout")
	}

	height := c.Height()
	var scale float64
	switch {
	case height <= v.minH:
		scale = 0
	case height >= v.maxH:
		scale = 1
	default:
		scale = float64(height-v.minH) / float64(v.maxH-v.minH)
	}

	y := 0.0
	top := 0
	for i, child := range v.children {
		minH, maxH := v.layouts[i][0], v.layouts[i][1]
		y += float64(minH) + scale*float64(maxH-minH)

		// Round the cumulative boundary; half-to-even keeps long stacks
		// from drifting in one direction.
		bottom := int(math.RoundToEven(y))

		c.WithFrame(0, top, -1, bottom-top, func() {
			child.Draw(c)
		})
		top = bottom
	}
}

// HandleEvent forwards the event to the configured receiver, if any.
func (v *VerticalLayout) HandleEvent(ev input.Event) (Outcome, error) {
	if v.receiver >= 0 && v.receiver < len(v.children) {
		return v.children[v.receiver].HandleEvent(ev)
	}
	return Outcome{}, nil
}
