package model

import "github.com/sells-group/choropleth-cli/internal/topojson"

// CountyRecord is one row of the educational-attainment dataset.
type CountyRecord struct {
	FIPS              int     `json:"fips"`
	State             string  `json:"state"`
	AreaName          string  `json:"area_name"`
	BachelorsOrHigher float64 `json:"bachelorsOrHigher"`
}

// Shade is the join result for one county shape. Rate is the value behind
// Color and every rendered label.
type Shade struct {
	Feature topojson.Feature
	FIPS    int
	Color   string
	Rate    float64
	Matched bool
	Record  *CountyRecord // nil when unmatched
}
