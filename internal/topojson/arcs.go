package topojson

import (
	"github.com/rotisserie/eris"
)

// arcIndex resolves a possibly-negative arc reference to its slot in Arcs.
func (t *Topology) arcIndex(i int) (int, error) {
	j := i
	if i < 0 {
		j = ^i
	}
	if j >= len(t.Arcs) {
		return 0, eris.Errorf("topojson: arc %d out of range (%d arcs)", i, len(t.Arcs))
	}
	return j, nil
}

// decodedArcs returns every arc in absolute coordinates. Quantized topologies
// store arcs delta-encoded; positions are accumulated then mapped through the
// transform. The result is cached on the topology.
func (t *Topology) decodedArcs() [][][2]float64 {
	if t.decoded != nil {
		return t.decoded
	}
	out := make([][][2]float64, len(t.Arcs))
	for i, arc := range t.Arcs {
		pts := make([][2]float64, 0, len(arc))
		var x, y float64
		for _, p := range arc {
			if len(p) < 2 {
				continue
			}
			if t.Transform == nil {
				pts = append(pts, [2]float64{p[0], p[1]})
				continue
			}
			x += p[0]
			y += p[1]
			pts = append(pts, t.transformPoint(x, y))
		}
		out[i] = pts
	}
	t.decoded = out
	return out
}

// position maps a single quantized position (points are not delta-encoded).
func (t *Topology) position(p []float64) ([2]float64, error) {
	if len(p) < 2 {
		return [2]float64{}, eris.New("topojson: position needs two values")
	}
	if t.Transform == nil {
		return [2]float64{p[0], p[1]}, nil
	}
	return t.transformPoint(p[0], p[1]), nil
}

func (t *Topology) transformPoint(x, y float64) [2]float64 {
	return [2]float64{
		x*t.Transform.Scale[0] + t.Transform.Translate[0],
		y*t.Transform.Scale[1] + t.Transform.Translate[1],
	}
}

// appendArc appends arc i to points. The last point already present is the
// first point of the next arc, so it is dropped before appending.
func (t *Topology) appendArc(points [][2]float64, i int) ([][2]float64, error) {
	j, err := t.arcIndex(i)
	if err != nil {
		return nil, err
	}
	if len(points) > 0 {
		points = points[:len(points)-1]
	}
	arc := t.decodedArcs()[j]
	if i >= 0 {
		return append(points, arc...), nil
	}
	for k := len(arc) - 1; k >= 0; k-- {
		points = append(points, arc[k])
	}
	return points, nil
}

// line stitches arcs into one open line of at least two points.
func (t *Topology) line(arcs []int) ([][2]float64, error) {
	var points [][2]float64
	for _, i := range arcs {
		var err error
		if points, err = t.appendArc(points, i); err != nil {
			return nil, err
		}
	}
	if len(points) == 1 {
		points = append(points, points[0])
	}
	return points, nil
}

// ring stitches arcs into a closed ring of at least four points.
func (t *Topology) ring(arcs []int) ([][2]float64, error) {
	points, err := t.line(arcs)
	if err != nil {
		return nil, err
	}
	for len(points) > 0 && len(points) < 4 {
		points = append(points, points[0])
	}
	return points, nil
}
