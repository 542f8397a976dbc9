package dataset

import (
	"context"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/choropleth-cli/internal/fetcher"
	"github.com/sells-group/choropleth-cli/internal/model"
)

// Format is the encoding of the education table.
type Format string

// Supported education table formats.
const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Column names shared by every format.
const (
	colFIPS      = "fips"
	colState     = "state"
	colAreaName  = "area_name"
	colBachelors = "bachelorsOrHigher"
)

// ParseFormat validates a configured format name. "" and "auto" select
// detection from the source extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, "auto":
		return FormatAuto, nil
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", eris.Errorf("dataset: unknown format %q", s)
	}
}

// DetectFormat picks a format from the source's file extension, defaulting
// to JSON.
func DetectFormat(source string) Format {
	p := source
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".csv":
		return FormatCSV
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatJSON
	}
}

func decodeRecords(ctx context.Context, r io.Reader, format Format) ([]model.CountyRecord, error) {
	switch format {
	case FormatCSV:
		t, err := fetcher.ReadCSVTable(ctx, r)
		if err != nil {
			return nil, err
		}
		return recordsFromTable(t)
	case FormatXLSX:
		t, err := fetcher.ReadXLSXTable(r)
		if err != nil {
			return nil, err
		}
		return recordsFromTable(t)
	default:
		return fetcher.CollectJSONArray[model.CountyRecord](ctx, r)
	}
}

// recordsFromTable maps named columns onto records. fips and
// bachelorsOrHigher are required; state and area_name are optional.
func recordsFromTable(t *fetcher.Table) ([]model.CountyRecord, error) {
	fipsCol, rateCol := t.Column(colFIPS), t.Column(colBachelors)
	if fipsCol < 0 || rateCol < 0 {
		return nil, eris.Errorf("dataset: table needs %q and %q columns, got %v", colFIPS, colBachelors, t.Header)
	}
	stateCol, nameCol := t.Column(colState), t.Column(colAreaName)

	records := make([]model.CountyRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		if blank(row) {
			continue
		}
		code, err := strconv.Atoi(cell(row, fipsCol))
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: row %d: fips", i+2)
		}
		rate, err := strconv.ParseFloat(cell(row, rateCol), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: row %d: %s", i+2, colBachelors)
		}
		records = append(records, model.CountyRecord{
			FIPS:              code,
			State:             cell(row, stateCol),
			AreaName:          cell(row, nameCol),
			BachelorsOrHigher: rate,
		})
	}
	return records, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
