package scale

import "math"

// Linear maps Domain onto Range proportionally.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
	Round  bool
}

// Apply maps v. A zero-width domain maps everything to the range midpoint.
func (l *Linear) Apply(v float64) float64 {
	d := l.Domain[1] - l.Domain[0]
	t := 0.5
	if d != 0 {
		t = (v - l.Domain[0]) / d
	}
	out := l.Range[0] + t*(l.Range[1]-l.Range[0])
	if l.Round {
		return RoundHalfUp(out)
	}
	return out
}

// Clamp limits v to the domain.
func (l *Linear) Clamp(v float64) float64 {
	lo, hi := l.Domain[0], l.Domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// RoundHalfUp rounds .5 toward +Inf, matching browser Math.round.
func RoundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
