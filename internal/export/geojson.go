package export

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/choropleth-cli/internal/model"
)

// FeatureCollection converts shades into a GeoJSON feature collection with
// the export row as properties.
func FeatureCollection(shades []model.Shade) *geojson.FeatureCollection {
	rows := Rows(shades)
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(shades))}
	for i, s := range shades {
		r := rows[i]
		f := &geojson.Feature{
			Geometry: s.Feature.Geometry,
			Properties: map[string]any{
				"geoid":             r.GEOID,
				"fips":              r.FIPS,
				"state":             r.State,
				"area_name":         r.Name,
				"bachelorsOrHigher": r.Rate,
				"color":             r.Color,
				"matched":           r.Matched,
				"label":             r.Label,
			},
		}
		if s.Feature.HasID {
			f.ID = strconv.Itoa(s.FIPS)
		} else {
			f.ID = s.Feature.RawID
		}
		fc.Features = append(fc.Features, f)
	}
	return fc
}

// WriteGeoJSON encodes the feature collection to w.
func WriteGeoJSON(w io.Writer, shades []model.Shade) error {
	data, err := json.Marshal(FeatureCollection(shades))
	if err != nil {
		return eris.Wrap(err, "export: encode geojson")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "export: write geojson")
	}
	return nil
}
