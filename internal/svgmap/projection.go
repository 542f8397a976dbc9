package svgmap

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Projection maps planar topology coordinates onto the canvas.
type Projection interface {
	Project(x, y float64) (float64, float64)
}

// Identity passes coordinates through unchanged. The counties topology is
// already projected to a 975x610 canvas, so this is the default.
type Identity struct{}

// Project implements Projection.
func (Identity) Project(x, y float64) (float64, float64) { return x, y }

// ScaleTranslate applies a uniform scale followed by a translation. FlipY
// negates the y scale so north-up input (lon/lat) lands y-down on the canvas.
type ScaleTranslate struct {
	K     float64
	TX    float64
	TY    float64
	FlipY bool
}

// Project implements Projection.
func (p ScaleTranslate) Project(x, y float64) (float64, float64) {
	if p.FlipY {
		return p.K*x + p.TX, p.TY - p.K*y
	}
	return p.K*x + p.TX, p.K*y + p.TY
}

// Fit returns the ScaleTranslate that centers bounds inside a width x height
// canvas at the largest scale that keeps it fully visible. With flipY the
// largest y lands at the top of the canvas. Empty or zero-size bounds yield
// the identity transform.
func Fit(bounds *geom.Bounds, width, height float64, flipY bool) ScaleTranslate {
	if bounds == nil || bounds.IsEmpty() {
		return ScaleTranslate{K: 1}
	}
	minX, minY := bounds.Min(0), bounds.Min(1)
	maxX, maxY := bounds.Max(0), bounds.Max(1)
	dx, dy := maxX-minX, maxY-minY
	if !(dx > 0) && !(dy > 0) {
		return ScaleTranslate{K: 1}
	}

	k := math.Inf(1)
	if dx > 0 {
		k = width / dx
	}
	if dy > 0 {
		k = math.Min(k, height/dy)
	}
	p := ScaleTranslate{
		K:  k,
		TX: (width - k*(minX+maxX)) / 2,
		TY: (height - k*(minY+maxY)) / 2,
	}
	if flipY {
		p.FlipY = true
		p.TY = (height + k*(minY+maxY)) / 2
	}
	return p
}
