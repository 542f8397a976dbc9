// Package tooltip models the hover label as a two-state machine.
//
// The machine is pure: Transition maps a state and a pointer event to the
// next state and never touches a rendering surface. The HTML page replays the
// same transitions in the browser.
package tooltip

import (
	"github.com/sells-group/choropleth-cli/internal/choropleth"
	"github.com/sells-group/choropleth-cli/internal/model"
)

// Offsets of the label from the pointer, in pixels.
const (
	OffsetX = 10
	OffsetY = -10
)

// State is the tooltip as displayed. The zero value is Hidden.
type State struct {
	Visible   bool
	Text      string
	Education string // value exported as data-education
	Left      float64
	Top       float64
}

// Event is a pointer event on a county shape.
type Event interface{ isEvent() }

// MouseOver enters a shape.
type MouseOver struct{ Shade model.Shade }

// MouseMove moves within a shape.
type MouseMove struct{ PageX, PageY float64 }

// MouseOut leaves a shape.
type MouseOut struct{}

func (MouseOver) isEvent() {}
func (MouseMove) isEvent() {}
func (MouseOut) isEvent()  {}

// Transition returns the state after ev.
//
//	Hidden  --mouseover--> Visible (text and rate from the shade)
//	Visible --mousemove--> Visible (repositioned)
//	any     --mouseout---> Hidden
//
// A mousemove while Hidden leaves the state unchanged.
func Transition(s State, ev Event) State {
	switch e := ev.(type) {
	case MouseOver:
		s.Visible = true
		s.Text = choropleth.Label(e.Shade)
		s.Education = choropleth.FormatRate(e.Shade.Rate)
		return s
	case MouseMove:
		if !s.Visible {
			return s
		}
		s.Left = e.PageX + OffsetX
		s.Top = e.PageY + OffsetY
		return s
	case MouseOut:
		s.Visible = false
		return s
	default:
		return s
	}
}

// Run folds a sequence of events from the hidden state.
func Run(events ...Event) State {
	var s State
	for _, ev := range events {
		s = Transition(s, ev)
	}
	return s
}
