// Package scale builds the color and legend-position scales of the map.
package scale

import (
	"math"

	"github.com/rotisserie/eris"
)

// Buckets is the number of breakpoints of a non-degenerate color scale.
const Buckets = PaletteSize - 1

// ErrEmptyDomain is returned when no finite rate is available.
var ErrEmptyDomain = eris.New("scale: no finite rates to build a domain from")

// Scales bundles the scales derived from one dataset.
type Scales struct {
	Color    *Threshold
	Position *Linear
	Min      float64
	Max      float64
	Step     float64
}

// Degenerate reports whether the domain collapsed to a single value.
func (s *Scales) Degenerate() bool { return !(s.Step > 0) }

// Extent returns the smallest and largest finite rate.
func Extent(rates []float64) (lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range rates {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		lo = math.Min(lo, r)
		hi = math.Max(hi, r)
	}
	if lo > hi {
		return 0, 0, ErrEmptyDomain
	}
	return lo, hi, nil
}

// Breakpoints returns n evenly spaced values starting at lo, stepping by
// (hi-lo)/n, all strictly below hi. When the step is not positive and finite
// the result is the single breakpoint lo.
func Breakpoints(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{lo}
	}
	step := (hi - lo) / float64(n)
	if !(step > 0) || math.IsInf(step, 0) {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

// Build derives the color scale from rates and palette, and the legend
// position scale mapping [0, max] onto legendRange.
func Build(rates []float64, palette Palette, legendRange [2]float64) (*Scales, error) {
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	lo, hi, err := Extent(rates)
	if err != nil {
		return nil, err
	}

	s := &Scales{
		Min:  lo,
		Max:  hi,
		Step: (hi - lo) / Buckets,
		Position: &Linear{
			Domain: [2]float64{0, hi},
			Range:  legendRange,
			Round:  true,
		},
	}

	domain := Breakpoints(lo, hi, Buckets)
	colors := append([]string(nil), palette.Colors...)
	if len(domain) != Buckets {
		s.Step = 0
		colors = []string{palette.Colors[0], palette.Colors[len(palette.Colors)-1]}
	}
	s.Color = &Threshold{Domain: domain, Range: colors}
	return s, nil
}
