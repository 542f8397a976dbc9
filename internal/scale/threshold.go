package scale

import (
	"math"
	"sort"
)

// Threshold maps a continuous value onto len(Domain)+1 discrete colors. A
// value v gets Range[i] where i is the number of breakpoints <= v.
type Threshold struct {
	Domain []float64
	Range  []string
}

// Color returns the color for v. NaN maps to the first color.
func (t *Threshold) Color(v float64) string {
	if len(t.Range) == 0 {
		return ""
	}
	if math.IsNaN(v) {
		return t.Range[0]
	}
	i := sort.Search(len(t.Domain), func(k int) bool { return t.Domain[k] > v })
	if i >= len(t.Range) {
		i = len(t.Range) - 1
	}
	return t.Range[i]
}

// Steps returns the number of color steps.
func (t *Threshold) Steps() int { return len(t.Range) }

// Bucket returns the extent [lo, hi) covered by step i. The open ends of the
// first and last step are -Inf and +Inf.
func (t *Threshold) Bucket(i int) (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if i > 0 && i-1 < len(t.Domain) {
		lo = t.Domain[i-1]
	}
	if i < len(t.Domain) {
		hi = t.Domain[i]
	}
	return lo, hi
}

// InvertExtent returns the extent of the first step painted with color.
func (t *Threshold) InvertExtent(color string) (lo, hi float64, ok bool) {
	for i, c := range t.Range {
		if c == color {
			lo, hi = t.Bucket(i)
			return lo, hi, true
		}
	}
	return math.NaN(), math.NaN(), false
}
