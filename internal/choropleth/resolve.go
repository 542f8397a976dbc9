// Package choropleth joins county shapes to education records and resolves
// each shape's fill color.
package choropleth

import (
	"strconv"

	"github.com/sells-group/choropleth-cli/internal/model"
	"github.com/sells-group/choropleth-cli/internal/topojson"
)

// NoDataRate is the rate assigned to shapes without a matching record. The
// fill color and the exported rate attribute both derive from it.
const NoDataRate = 0.0

// NoDataLabel is the hover label of shapes without a matching record.
const NoDataLabel = "No data"

// ColorFunc maps a rate to a fill color.
type ColorFunc func(rate float64) string

// Resolve builds one Shade per feature. Matched features carry the record's
// rate exactly as loaded; unmatched ones carry NoDataRate. The result depends
// only on its inputs.
func Resolve(features []topojson.Feature, index map[int]*model.CountyRecord, color ColorFunc) []model.Shade {
	shades := make([]model.Shade, len(features))
	for i, f := range features {
		s := model.Shade{Feature: f, FIPS: f.ID, Rate: NoDataRate}
		if rec, ok := index[f.ID]; ok && f.HasID {
			s.Matched = true
			s.Record = rec
			s.Rate = rec.BachelorsOrHigher
		}
		s.Color = color(s.Rate)
		shades[i] = s
	}
	return shades
}

// Label returns the hover text for a shade.
func Label(s model.Shade) string {
	if !s.Matched {
		return NoDataLabel
	}
	pct := FormatRate(s.Rate) + "%"
	if s.Record == nil || s.Record.AreaName == "" {
		return pct
	}
	if s.Record.State == "" {
		return s.Record.AreaName + ": " + pct
	}
	return s.Record.AreaName + ", " + s.Record.State + ": " + pct
}

// FormatRate renders a rate with the shortest exact decimal form.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// Summary counts matched and unmatched shades.
type Summary struct {
	Total     int
	Matched   int
	Unmatched int
}

// Summarize tallies shades.
func Summarize(shades []model.Shade) Summary {
	s := Summary{Total: len(shades)}
	for _, sh := range shades {
		if sh.Matched {
			s.Matched++
		} else {
			s.Unmatched++
		}
	}
	return s
}
