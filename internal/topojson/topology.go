// Package topojson decodes TopoJSON topologies into go-geom geometries.
//
// A topology stores shared boundaries once as arcs; geometry objects refer to
// arcs by index (negative indexes, encoded as ^i, walk the arc backwards).
// Feature rebuilds one polygon or line per object and Mesh extracts boundary
// lines filtered by the objects that share them.
package topojson

import (
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
)

// Geometry object types.
const (
	TypeTopology           = "Topology"
	TypeGeometryCollection = "GeometryCollection"
	TypePoint              = "Point"
	TypeMultiPoint         = "MultiPoint"
	TypeLineString         = "LineString"
	TypeMultiLineString    = "MultiLineString"
	TypePolygon            = "Polygon"
	TypeMultiPolygon       = "MultiPolygon"
)

// Transform holds the quantization parameters of a topology.
type Transform struct {
	Scale     [2]float64 `json:"scale"`
	Translate [2]float64 `json:"translate"`
}

// Topology is a decoded TopoJSON document.
type Topology struct {
	Type      string             `json:"type"`
	BBox      []float64          `json:"bbox,omitempty"`
	Transform *Transform         `json:"transform,omitempty"`
	Arcs      [][][]float64      `json:"arcs"`
	Objects   map[string]*Object `json:"objects"`

	decoded [][][2]float64
}

// Object is a TopoJSON geometry object. Arcs and Coordinates stay raw until
// the object type says how deep they nest.
type Object struct {
	Type        string          `json:"type"`
	ID          json.RawMessage `json:"id,omitempty"`
	Properties  map[string]any  `json:"properties,omitempty"`
	Arcs        json.RawMessage `json:"arcs,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  []*Object       `json:"geometries,omitempty"`
}

// Object returns the named object collection.
func (t *Topology) Object(name string) (*Object, error) {
	obj, ok := t.Objects[name]
	if !ok || obj == nil {
		return nil, eris.Errorf("topojson: object %q not found", name)
	}
	return obj, nil
}

// Validate checks the document type and that every arc reference is in range.
func (t *Topology) Validate() error {
	if t.Type != TypeTopology {
		return eris.Errorf("topojson: expected type %q, got %q", TypeTopology, t.Type)
	}
	for name, obj := range t.Objects {
		if err := t.validateObject(obj); err != nil {
			return eris.Wrapf(err, "topojson: object %q", name)
		}
	}
	return nil
}

func (t *Topology) validateObject(o *Object) error {
	if o == nil {
		return nil
	}
	if o.Type == TypeGeometryCollection {
		for _, g := range o.Geometries {
			if err := t.validateObject(g); err != nil {
				return err
			}
		}
		return nil
	}
	refs, err := o.arcRefs()
	if err != nil {
		return err
	}
	for _, i := range refs {
		if _, err := t.arcIndex(i); err != nil {
			return err
		}
	}
	return nil
}

// IDInt returns the object id as an integer. String ids such as "01001" are
// parsed; ok is false when the id is missing or not numeric.
func (o *Object) IDInt() (int, bool) {
	raw := o.IDString()
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, false
		}
		return int(f), true
	}
	return n, true
}

// IDString returns the object id as written, without JSON quoting.
func (o *Object) IDString() string {
	if len(o.ID) == 0 || string(o.ID) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(o.ID, &s); err == nil {
		return s
	}
	return string(o.ID)
}

// arcRefs flattens every arc index the object references.
func (o *Object) arcRefs() ([]int, error) {
	var refs []int
	switch o.Type {
	case TypeLineString:
		var a []int
		if err := o.decodeArcs(&a); err != nil {
			return nil, err
		}
		refs = append(refs, a...)
	case TypeMultiLineString, TypePolygon:
		var a [][]int
		if err := o.decodeArcs(&a); err != nil {
			return nil, err
		}
		for _, l := range a {
			refs = append(refs, l...)
		}
	case TypeMultiPolygon:
		var a [][][]int
		if err := o.decodeArcs(&a); err != nil {
			return nil, err
		}
		for _, p := range a {
			for _, l := range p {
				refs = append(refs, l...)
			}
		}
	}
	return refs, nil
}

func (o *Object) decodeArcs(dst any) error {
	if len(o.Arcs) == 0 {
		return nil
	}
	if err := json.Unmarshal(o.Arcs, dst); err != nil {
		return eris.Wrapf(err, "topojson: decode arcs of %s", o.Type)
	}
	return nil
}

func (o *Object) decodeCoordinates(dst any) error {
	if len(o.Coordinates) == 0 {
		return nil
	}
	if err := json.Unmarshal(o.Coordinates, dst); err != nil {
		return eris.Wrapf(err, "topojson: decode coordinates of %s", o.Type)
	}
	return nil
}
