package export

import (
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"

	"github.com/sells-group/choropleth-cli/internal/model"
)

// Shapefile attribute columns, in order.
var (
	shapeFieldNames = []string{"GEOID", "FIPS", "STATE", "NAME", "RATE", "COLOR", "MATCHED"}
	shapeFields     = []shp.Field{
		shp.StringField("GEOID", 5),
		shp.NumberField("FIPS", 6),
		shp.StringField("STATE", 2),
		shp.StringField("NAME", 64),
		shp.FloatField("RATE", 12, 4),
		shp.StringField("COLOR", 7),
		shp.NumberField("MATCHED", 1),
	}
)

// WriteShapefile writes one polygon per county to path (.shp, plus the
// sibling .shx and .dbf). Features without polygon geometry are written as
// null shapes so rows stay aligned with the attribute table.
func WriteShapefile(path string, shades []model.Shade) error {
	if !strings.EqualFold(filepath.Ext(path), ".shp") {
		path += ".shp"
	}

	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return eris.Wrap(err, "export: create shapefile")
	}
	defer w.Close()

	if err := w.SetFields(shapeFields); err != nil {
		return eris.Wrap(err, "export: set shapefile fields")
	}

	rows := Rows(shades)
	for i, s := range shades {
		idx := int(w.Write(toShape(s.Feature.Geometry)))
		r := rows[i]
		matched := 0
		if r.Matched {
			matched = 1
		}
		values := []any{r.GEOID, r.FIPS, r.State, r.Name, r.Rate, r.Color, matched}
		for field, v := range values {
			if err := w.WriteAttribute(idx, field, v); err != nil {
				return eris.Wrapf(err, "export: write attribute %s", shapeFieldNames[field])
			}
		}
	}
	return nil
}

// toShape converts polygonal geometry to a shapefile polygon with one part
// per ring. Outer rings are written clockwise and holes counter-clockwise.
func toShape(g geom.T) shp.Shape {
	var polys []*geom.Polygon
	switch g := g.(type) {
	case *geom.Polygon:
		polys = append(polys, g)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			polys = append(polys, g.Polygon(i))
		}
	default:
		if g != nil {
			zap.L().Debug("export: non-polygonal geometry written as null shape")
		}
		return &shp.Null{}
	}

	var parts [][]shp.Point
	for _, p := range polys {
		for i := 0; i < p.NumLinearRings(); i++ {
			parts = append(parts, ringPart(p.LinearRing(i), i == 0))
		}
	}
	if len(parts) == 0 {
		return &shp.Null{}
	}

	poly := shp.Polygon(*shp.NewPolyLine(parts))
	return &poly
}

// ringPart converts ring to shapefile points, reversing it when its winding
// does not match its role.
func ringPart(ring *geom.LinearRing, outer bool) []shp.Point {
	coords := ring.Coords()
	part := make([]shp.Point, 0, len(coords))
	for _, c := range coords {
		part = append(part, shp.Point{X: c.X(), Y: c.Y()})
	}
	if len(coords) < 4 {
		return part
	}
	if xy.IsRingCounterClockwise(ring.Layout(), ring.FlatCoords()) == outer {
		for i, j := 0, len(part)-1; i < j; i, j = i+1, j-1 {
			part[i], part[j] = part[j], part[i]
		}
	}
	return part
}
