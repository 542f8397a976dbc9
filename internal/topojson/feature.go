package topojson

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Feature is one geometry object converted to a go-geom geometry.
type Feature struct {
	ID         int
	RawID      string
	HasID      bool
	Properties map[string]any
	Geometry   geom.T // nil for null geometries
}

// Feature converts obj into features. A GeometryCollection yields one feature
// per member; any other object yields a single feature.
func (t *Topology) Feature(obj *Object) ([]Feature, error) {
	if obj == nil {
		return nil, eris.New("topojson: nil object")
	}
	if obj.Type != TypeGeometryCollection {
		f, err := t.feature(obj)
		if err != nil {
			return nil, err
		}
		return []Feature{f}, nil
	}

	features := make([]Feature, 0, len(obj.Geometries))
	for i, g := range obj.Geometries {
		f, err := t.feature(g)
		if err != nil {
			return nil, eris.Wrapf(err, "topojson: geometry %d", i)
		}
		features = append(features, f)
	}
	return features, nil
}

func (t *Topology) feature(o *Object) (Feature, error) {
	g, err := t.Geometry(o)
	if err != nil {
		return Feature{}, err
	}
	id, ok := o.IDInt()
	return Feature{
		ID:         id,
		RawID:      o.IDString(),
		HasID:      ok,
		Properties: o.Properties,
		Geometry:   g,
	}, nil
}

// Geometry converts a single non-collection object to a go-geom geometry.
// Null or empty objects return nil.
func (t *Topology) Geometry(o *Object) (geom.T, error) {
	switch o.Type {
	case TypePoint:
		var c []float64
		if err := o.decodeCoordinates(&c); err != nil {
			return nil, err
		}
		p, err := t.position(c)
		if err != nil {
			return nil, err
		}
		return geom.NewPointFlat(geom.XY, []float64{p[0], p[1]}), nil

	case TypeMultiPoint:
		var cs [][]float64
		if err := o.decodeCoordinates(&cs); err != nil {
			return nil, err
		}
		flat := make([]float64, 0, len(cs)*2)
		for _, c := range cs {
			p, err := t.position(c)
			if err != nil {
				return nil, err
			}
			flat = append(flat, p[0], p[1])
		}
		return geom.NewMultiPointFlat(geom.XY, flat), nil

	case TypeLineString:
		var arcs []int
		if err := o.decodeArcs(&arcs); err != nil {
			return nil, err
		}
		pts, err := t.line(arcs)
		if err != nil {
			return nil, err
		}
		return geom.NewLineStringFlat(geom.XY, flatCoords(pts)), nil

	case TypeMultiLineString:
		var lines [][]int
		if err := o.decodeArcs(&lines); err != nil {
			return nil, err
		}
		mls := geom.NewMultiLineString(geom.XY)
		for _, arcs := range lines {
			pts, err := t.line(arcs)
			if err != nil {
				return nil, err
			}
			if err := mls.Push(geom.NewLineStringFlat(geom.XY, flatCoords(pts))); err != nil {
				return nil, eris.Wrap(err, "topojson: push linestring")
			}
		}
		return mls, nil

	case TypePolygon:
		var rings [][]int
		if err := o.decodeArcs(&rings); err != nil {
			return nil, err
		}
		return t.polygon(rings)

	case TypeMultiPolygon:
		var polys [][][]int
		if err := o.decodeArcs(&polys); err != nil {
			return nil, err
		}
		mp := geom.NewMultiPolygon(geom.XY)
		for i, rings := range polys {
			poly, err := t.polygon(rings)
			if err != nil {
				return nil, err
			}
			if err := mp.Push(poly); err != nil {
				zap.L().Debug("topojson: skipping malformed polygon part", zap.Int("part", i), zap.Error(err))
				continue
			}
		}
		return mp, nil

	case "", "null":
		return nil, nil

	default:
		return nil, eris.Errorf("topojson: unsupported geometry type %q", o.Type)
	}
}

func (t *Topology) polygon(rings [][]int) (*geom.Polygon, error) {
	poly := geom.NewPolygon(geom.XY)
	for i, arcs := range rings {
		pts, err := t.ring(arcs)
		if err != nil {
			return nil, err
		}
		if len(pts) == 0 {
			continue
		}
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flatCoords(pts))); err != nil {
			zap.L().Debug("topojson: skipping malformed ring", zap.Int("ring", i), zap.Error(err))
			continue
		}
	}
	return poly, nil
}

// flatCoords converts points to flat coordinate pairs for go-geom.
func flatCoords(points [][2]float64) []float64 {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p[0], p[1])
	}
	return flat
}
