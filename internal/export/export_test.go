package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/choropleth-cli/internal/model"
	"github.com/sells-group/choropleth-cli/internal/topojson"
)

func square(x0, y0, x1, y1 float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{x0, y0, x1, y0, x1, y1, x0, y1, x0, y0}, []int{10})
}

func testShades() []model.Shade {
	rec := &model.CountyRecord{FIPS: 1001, State: "AL", AreaName: "Autauga County", BachelorsOrHigher: 21.9}
	return []model.Shade{
		{
			Feature: topojson.Feature{ID: 1001, HasID: true, Geometry: square(0, 0, 1, 1)},
			FIPS:    1001, Rate: 21.9, Matched: true, Record: rec, Color: "#4292c6",
		},
		{
			Feature: topojson.Feature{ID: 56045, HasID: true, Geometry: square(1, 0, 2, 1)},
			FIPS:    56045, Color: "#f7fbff",
		},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"xlsx": FormatXLSX, "SHP": FormatShapefile, "geojson": FormatGeoJSON, "json": FormatGeoJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("kml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRows(t *testing.T) {
	rows := Rows(testShades())
	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		GEOID: "01001", FIPS: 1001, StateFP: "01", CountyFP: "001",
		State: "AL", Name: "Autauga County", Rate: 21.9, Color: "#4292c6", Matched: true,
		Label: "Autauga County, AL: 21.9%",
	}, rows[0])
	assert.Equal(t, "56045", rows[1].GEOID)
	assert.False(t, rows[1].Matched)
	assert.Equal(t, "No data", rows[1].Label)
	assert.Empty(t, rows[1].Name)
}

func TestRows_FeatureWithoutID(t *testing.T) {
	rows := Rows([]model.Shade{{Feature: topojson.Feature{RawID: "x"}}})
	assert.Empty(t, rows[0].GEOID)
}

func clockwise(pts []shp.Point) bool {
	var area float64
	for i := 0; i+1 < len(pts); i++ {
		area += pts[i].X*pts[i+1].Y - pts[i+1].X*pts[i].Y
	}
	return area < 0
}

func TestToShape_NormalizesWinding(t *testing.T) {
	// Counter-clockwise shell with a clockwise hole.
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 4, 0, 4, 4, 0, 4, 0, 0,
		1, 1, 1, 3, 3, 3, 3, 1, 1, 1,
	}, []int{10, 20})

	shape, ok := toShape(poly).(*shp.Polygon)
	require.True(t, ok)
	require.Equal(t, []int32{0, 5}, shape.Parts)

	shell, hole := shape.Points[:5], shape.Points[5:]
	assert.True(t, clockwise(shell))
	assert.False(t, clockwise(hole))
	assert.Equal(t, shell[0], shell[4])
	assert.Equal(t, hole[0], hole[4])

	// Already ESRI-ordered rings are kept as they are.
	cw := geom.NewPolygonFlat(geom.XY, []float64{0, 0, 0, 4, 4, 4, 4, 0, 0, 0}, []int{10})
	shape, ok = toShape(cw).(*shp.Polygon)
	require.True(t, ok)
	assert.Equal(t, shp.Point{X: 0, Y: 4}, shape.Points[1])
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.xlsx")
	require.NoError(t, Write(FormatXLSX, path, testShades()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "GEOID", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "01001", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Autauga County", sheet.Rows[1].Cells[5].String())
	assert.Equal(t, "#4292c6", sheet.Rows[1].Cells[7].String())
	assert.Equal(t, "56045", sheet.Rows[2].Cells[0].String())
}

func TestWriteShapefile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(FormatShapefile, filepath.Join(dir, "counties"), testShades()))

	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		_, err := os.Stat(filepath.Join(dir, "counties"+ext))
		require.NoError(t, err, ext)
	}

	r, err := shp.Open(filepath.Join(dir, "counties.shp"))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	require.True(t, r.Next())
	_, shape := r.Shape()
	poly, ok := shape.(*shp.Polygon)
	require.True(t, ok)
	assert.Equal(t, int32(1), poly.NumParts)
	assert.Len(t, poly.Points, 5)
	assert.Equal(t, "01001", strings.TrimSpace(r.Attribute(0)))
	assert.Equal(t, "AL", strings.TrimSpace(r.Attribute(2)))
	assert.Equal(t, "#4292c6", strings.TrimSpace(r.Attribute(5)))
	assert.Equal(t, "1", strings.TrimSpace(r.Attribute(6)))

	require.True(t, r.Next())
	assert.Equal(t, "56045", strings.TrimSpace(r.Attribute(0)))
	assert.Equal(t, "0", strings.TrimSpace(r.Attribute(6)))
	assert.False(t, r.Next())
}

func TestToShape(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(square(0, 0, 1, 1)))
	require.NoError(t, mp.Push(square(2, 2, 3, 3)))

	poly, ok := toShape(mp).(*shp.Polygon)
	require.True(t, ok)
	assert.Equal(t, int32(2), poly.NumParts)
	assert.Equal(t, []int32{0, 5}, poly.Parts)

	_, isNull := toShape(nil).(*shp.Null)
	assert.True(t, isNull)
	_, isNull = toShape(geom.NewPointFlat(geom.XY, []float64{1, 2})).(*shp.Null)
	assert.True(t, isNull)
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, testShades()))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			ID         string         `json:"id"`
			Geometry   map[string]any `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)

	first := doc.Features[0]
	assert.Equal(t, "1001", first.ID)
	assert.Equal(t, "Polygon", first.Geometry["type"])
	assert.Equal(t, "01001", first.Properties["geoid"])
	assert.Equal(t, 21.9, first.Properties["bachelorsOrHigher"])
	assert.Equal(t, true, first.Properties["matched"])
	assert.Equal(t, "No data", doc.Features[1].Properties["label"])
}

func TestWrite_GeoJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counties.geojson")
	require.NoError(t, Write(FormatGeoJSON, path, testShades()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(Format("kml"), filepath.Join(t.TempDir(), "x"), nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.svg")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("boom")
	})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteFileAtomic_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.svg")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteFilesAtomic_StagingFailureTouchesNoTarget(t *testing.T) {
	dir := t.TempDir()
	svg := filepath.Join(dir, "map.svg")
	require.NoError(t, os.WriteFile(svg, []byte("old"), 0o644))

	err := WriteFilesAtomic([]File{
		{Path: svg, Write: func(w io.Writer) error {
			_, err := w.Write([]byte("new"))
			return err
		}},
		{Path: filepath.Join(dir, "missing", "page.html"), Write: func(w io.Writer) error {
			_, err := w.Write([]byte("<html>"))
			return err
		}},
	})
	require.Error(t, err)

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "map.svg", entries[0].Name())
}

func TestWriteFilesAtomic_WritesAll(t *testing.T) {
	dir := t.TempDir()
	paths := []string{filepath.Join(dir, "a.svg"), filepath.Join(dir, "b.html")}
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		body := filepath.Base(p)
		files = append(files, File{Path: p, Write: func(w io.Writer) error {
			_, err := io.WriteString(w, body)
			return err
		}})
	}
	require.NoError(t, WriteFilesAtomic(files))

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Equal(t, filepath.Base(p), string(data))
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
