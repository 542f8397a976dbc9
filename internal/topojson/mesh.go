package topojson

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// MeshFilter decides whether an arc shared by geometries a and b is kept. For
// an arc used by a single geometry a and b are the same object.
type MeshFilter func(a, b *Object) bool

// Interior keeps arcs that separate two distinct geometries, dropping the
// outer boundary of the collection.
func Interior(a, b *Object) bool { return a != b }

type arcUse struct {
	ref  int
	geom *Object
}

// Mesh returns the arcs of obj as a MultiLineString, each arc emitted once.
// With a nil filter every arc is kept; otherwise filter receives the first and
// last geometry referencing the arc.
func (t *Topology) Mesh(obj *Object, filter MeshFilter) (*geom.MultiLineString, error) {
	if obj == nil {
		return nil, eris.New("topojson: nil object")
	}

	uses := make(map[int][]arcUse)
	var order []int
	record := func(ref int, g *Object) error {
		j, err := t.arcIndex(ref)
		if err != nil {
			return err
		}
		if _, seen := uses[j]; !seen {
			order = append(order, j)
		}
		uses[j] = append(uses[j], arcUse{ref: ref, geom: g})
		return nil
	}
	if err := t.collectArcs(obj, record); err != nil {
		return nil, err
	}

	mls := geom.NewMultiLineString(geom.XY)
	for _, j := range order {
		u := uses[j]
		if filter != nil && !filter(u[0].geom, u[len(u)-1].geom) {
			continue
		}
		pts, err := t.appendArc(nil, u[0].ref)
		if err != nil {
			return nil, err
		}
		if len(pts) < 2 {
			continue
		}
		if err := mls.Push(geom.NewLineStringFlat(geom.XY, flatCoords(pts))); err != nil {
			return nil, eris.Wrap(err, "topojson: push mesh arc")
		}
	}
	return mls, nil
}

// collectArcs walks obj and reports every arc reference along with the
// geometry that owns it. Rings of one polygon share the owning geometry.
func (t *Topology) collectArcs(o *Object, record func(ref int, g *Object) error) error {
	if o.Type == TypeGeometryCollection {
		for _, g := range o.Geometries {
			if g == nil {
				continue
			}
			if err := t.collectArcs(g, record); err != nil {
				return err
			}
		}
		return nil
	}
	refs, err := o.arcRefs()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := record(ref, o); err != nil {
			return err
		}
	}
	return nil
}
