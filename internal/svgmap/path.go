package svgmap

import (
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// PointRadius is the radius of the circle drawn for point geometries.
const PointRadius = 4.5

// PathGenerator turns geometries into SVG path data.
type PathGenerator struct {
	Projection Projection
	// Precision is the number of decimals kept per coordinate. Negative
	// keeps full precision.
	Precision int
}

// NewPathGenerator returns a generator over p. A nil projection is identity.
func NewPathGenerator(p Projection, precision int) *PathGenerator {
	if p == nil {
		p = Identity{}
	}
	return &PathGenerator{Projection: p, Precision: precision}
}

// Path returns the path data for g, or "" when g is nil or empty.
// Polygon rings are closed with Z and drop their repeated closing point.
func (pg *PathGenerator) Path(g geom.T) string {
	var b strings.Builder
	pg.write(&b, g)
	return b.String()
}

func (pg *PathGenerator) write(b *strings.Builder, g geom.T) {
	switch g := g.(type) {
	case *geom.Point:
		if len(g.FlatCoords()) == 0 {
			return
		}
		pg.point(b, g.Coords())
	case *geom.MultiPoint:
		for i := 0; i < g.NumPoints(); i++ {
			pg.write(b, g.Point(i))
		}
	case *geom.LineString:
		pg.line(b, g.Coords(), false)
	case *geom.MultiLineString:
		for i := 0; i < g.NumLineStrings(); i++ {
			pg.line(b, g.LineString(i).Coords(), false)
		}
	case *geom.Polygon:
		pg.polygon(b, g)
	case *geom.MultiPolygon:
		for i := 0; i < g.NumPolygons(); i++ {
			pg.polygon(b, g.Polygon(i))
		}
	case *geom.GeometryCollection:
		for _, child := range g.Geoms() {
			pg.write(b, child)
		}
	}
}

func (pg *PathGenerator) polygon(b *strings.Builder, p *geom.Polygon) {
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).Coords()
		if n := len(coords); n > 1 && coords[0].X() == coords[n-1].X() && coords[0].Y() == coords[n-1].Y() {
			coords = coords[:n-1]
		}
		pg.line(b, coords, true)
	}
}

func (pg *PathGenerator) line(b *strings.Builder, coords []geom.Coord, closed bool) {
	if len(coords) == 0 {
		return
	}
	for i, c := range coords {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		pg.xy(b, c)
	}
	if closed {
		b.WriteByte('Z')
	}
}

func (pg *PathGenerator) point(b *strings.Builder, c geom.Coord) {
	r := pg.format(PointRadius)
	d := pg.format(2 * PointRadius)
	b.WriteByte('M')
	pg.xy(b, c)
	b.WriteString("m0," + r)
	b.WriteString("a" + r + "," + r + " 0 1,1 0,-" + d)
	b.WriteString("a" + r + "," + r + " 0 1,1 0," + d)
	b.WriteByte('Z')
}

func (pg *PathGenerator) xy(b *strings.Builder, c geom.Coord) {
	x, y := pg.Projection.Project(c.X(), c.Y())
	b.WriteString(pg.format(x))
	b.WriteByte(',')
	b.WriteString(pg.format(y))
}

func (pg *PathGenerator) format(v float64) string {
	return formatNumber(v, pg.Precision)
}

// formatNumber rounds v to precision decimals and trims trailing zeros.
func formatNumber(v float64, precision int) string {
	if precision >= 0 {
		pow := math.Pow10(precision)
		v = math.Round(v*pow) / pow
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
