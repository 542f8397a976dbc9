// Package export writes the resolved county shading as tabular and GIS files.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/choropleth-cli/internal/choropleth"
	"github.com/sells-group/choropleth-cli/internal/fips"
	"github.com/sells-group/choropleth-cli/internal/model"
)

// Format names an export encoding.
type Format string

// Supported formats.
const (
	FormatXLSX      Format = "xlsx"
	FormatShapefile Format = "shp"
	FormatGeoJSON   Format = "geojson"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = eris.New("export: unknown format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatShapefile, FormatGeoJSON:
		return f, nil
	case "json":
		return FormatGeoJSON, nil
	default:
		return "", eris.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Row is one county as written to every format.
type Row struct {
	GEOID    string
	FIPS     int
	StateFP  string
	CountyFP string
	State    string
	Name     string
	Rate     float64
	Color    string
	Matched  bool
	Label    string
}

// Rows flattens shades into export rows, in shade order.
func Rows(shades []model.Shade) []Row {
	rows := make([]Row, 0, len(shades))
	for _, s := range shades {
		r := Row{
			FIPS:    s.FIPS,
			Rate:    s.Rate,
			Color:   s.Color,
			Matched: s.Matched,
			Label:   choropleth.Label(s),
		}
		if s.Feature.HasID {
			r.GEOID = fips.GEOID(s.FIPS)
			r.StateFP = fips.State(s.FIPS)
			r.CountyFP = fips.County(s.FIPS)
		}
		if s.Record != nil {
			r.State = s.Record.State
			r.Name = s.Record.AreaName
		}
		rows = append(rows, r)
	}
	return rows
}

// Write exports shades to path in the given format.
func Write(format Format, path string, shades []model.Shade) error {
	log := zap.L().With(zap.String("component", "export"), zap.String("format", string(format)), zap.String("path", path))

	var err error
	switch format {
	case FormatXLSX:
		err = WriteXLSX(path, Rows(shades))
	case FormatShapefile:
		err = WriteShapefile(path, shades)
	case FormatGeoJSON:
		err = WriteFileAtomic(path, func(w io.Writer) error { return WriteGeoJSON(w, shades) })
	default:
		return eris.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err != nil {
		return err
	}

	log.Info("export written", zap.Int("counties", len(shades)))
	return nil
}

// WriteFileAtomic writes through a temp file in the target directory and
// renames it into place. Nothing is left at path when write fails.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	return WriteFilesAtomic([]File{{Path: path, Write: write}})
}

// File is one output of WriteFilesAtomic.
type File struct {
	Path  string
	Write func(w io.Writer) error
}

// WriteFilesAtomic stages every file in a temp file next to its target and
// renames them into place only after all of them were written. When staging
// any file fails, no target is touched.
func WriteFilesAtomic(files []File) error {
	staged := make([]string, 0, len(files))
	defer func() {
		for _, name := range staged {
			_ = os.Remove(name)
		}
	}()

	for _, f := range files {
		name, err := stage(f)
		if err != nil {
			return eris.Wrapf(err, "export: stage %s", f.Path)
		}
		staged = append(staged, name)
	}

	for i, f := range files {
		if err := os.Rename(staged[i], f.Path); err != nil {
			staged = staged[i:]
			return eris.Wrap(err, "export: rename into place")
		}
	}
	staged = nil
	return nil
}

// stage writes f to a temp file in its target directory and returns its name.
func stage(f File) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return "", eris.Wrap(err, "export: create temp file")
	}
	name := tmp.Name()

	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", eris.Wrap(err, "export: chmod temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", eris.Wrap(err, "export: close temp file")
	}
	return name, nil
}
