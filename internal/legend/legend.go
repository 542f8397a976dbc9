// Package legend lays out the color key drawn above the map.
package legend

import (
	"strconv"

	"github.com/sells-group/choropleth-cli/internal/scale"
)

// Options holds the fixed legend geometry.
type Options struct {
	OffsetY      float64
	SwatchHeight float64
	TickSize     float64
	Caption      string
}

// Swatch is one colored rectangle of the key.
type Swatch struct {
	X     float64
	Width float64
	Color string
	Lo    float64
	Hi    float64
}

// Tick is one axis mark under the swatches.
type Tick struct {
	X     float64
	Label string
}

// Legend is the laid-out key, in coordinates relative to its group.
type Legend struct {
	OffsetY      float64
	SwatchHeight float64
	TickSize     float64
	Caption      string
	CaptionX     float64
	CaptionY     float64
	Swatches     []Swatch
	Ticks        []Tick
}

// Layout places one swatch per color step and one tick per breakpoint. Step
// extents are clamped to the position scale's domain so the open first and
// last steps stop at its ends.
func Layout(s *scale.Scales, opts Options) Legend {
	l := Legend{
		OffsetY:      opts.OffsetY,
		SwatchHeight: opts.SwatchHeight,
		TickSize:     opts.TickSize,
		Caption:      opts.Caption,
		CaptionX:     s.Position.Range[0],
		CaptionY:     -6,
	}

	for i, color := range s.Color.Range {
		lo, hi := s.Color.Bucket(i)
		lo, hi = s.Position.Clamp(lo), s.Position.Clamp(hi)
		x0, x1 := s.Position.Apply(lo), s.Position.Apply(hi)
		l.Swatches = append(l.Swatches, Swatch{
			X:     x0,
			Width: x1 - x0,
			Color: color,
			Lo:    lo,
			Hi:    hi,
		})
	}

	for _, v := range s.Color.Domain {
		l.Ticks = append(l.Ticks, Tick{X: s.Position.Apply(v), Label: TickLabel(v)})
	}
	return l
}

// TickLabel renders a breakpoint as a whole percentage.
func TickLabel(v float64) string {
	return strconv.FormatFloat(scale.RoundHalfUp(v), 'f', 0, 64) + "%"
}
