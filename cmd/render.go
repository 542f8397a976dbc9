package main

import (
	"bytes"
	"image/color"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/choropleth-cli/internal/export"
	"github.com/sells-group/choropleth-cli/internal/page"
	"github.com/sells-group/choropleth-cli/internal/pipeline"
	"github.com/sells-group/choropleth-cli/internal/raster"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the choropleth map",
	Long:  "Fetches both datasets, builds the scales and legend, and writes the map as SVG. Optionally also writes an interactive HTML page and a PNG raster. Every output is rendered and staged next to its target before any of them replaces an existing file, so a render or staging failure leaves existing files untouched.",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "map.svg", "SVG output path")
	renderCmd.Flags().String("html", "", "also write an interactive HTML page to this path")
	renderCmd.Flags().String("png", "", "also write a PNG raster to this path")
	renderCmd.Flags().Int("png-width", 0, "PNG width in pixels (default: map width)")
	rootCmd.AddCommand(renderCmd)
}

// renderTargets names the output paths of one render.
type renderTargets struct {
	SVG      string
	HTML     string
	PNG      string
	PNGWidth int
}

type renderedFile struct {
	path string
	data []byte
}

func runRender(cmd *cobra.Command, _ []string) error {
	var t renderTargets
	t.SVG, _ = cmd.Flags().GetString("out")
	t.HTML, _ = cmd.Flags().GetString("html")
	t.PNG, _ = cmd.Flags().GetString("png")
	t.PNGWidth, _ = cmd.Flags().GetInt("png-width")

	res, err := newPipeline().Run(cmd.Context())
	if err != nil {
		return err
	}

	files, err := renderFiles(res, t)
	if err != nil {
		return err
	}
	outs := make([]export.File, 0, len(files))
	for _, f := range files {
		data := f.data
		outs = append(outs, export.File{Path: f.path, Write: func(w io.Writer) error {
			_, werr := w.Write(data)
			return werr
		}})
	}
	if err := export.WriteFilesAtomic(outs); err != nil {
		return err
	}
	for _, f := range files {
		zap.L().Info("render: wrote output", zap.String("path", f.path), zap.Int("bytes", len(f.data)))
	}

	printer.Fprintf(cmd.OutOrStdout(), "Rendered %d counties (%d matched, %d without data) to %s\n",
		res.Summary.Total, res.Summary.Matched, res.Summary.Unmatched, t.SVG)
	return nil
}

// renderFiles serializes every requested output in memory.
func renderFiles(res *pipeline.Result, t renderTargets) ([]renderedFile, error) {
	svg := res.Document.Render()
	files := []renderedFile{{path: t.SVG, data: svg}}

	if t.HTML != "" {
		var buf bytes.Buffer
		if err := page.Render(&buf, page.Page{Title: res.Document.Title, SVG: svg}); err != nil {
			return nil, err
		}
		files = append(files, renderedFile{path: t.HTML, data: buf.Bytes()})
	}

	if t.PNG != "" {
		w, h := int(res.Document.Width), int(res.Document.Height)
		if t.PNGWidth > 0 && w > 0 {
			h = h * t.PNGWidth / w
			w = t.PNGWidth
		}
		var buf bytes.Buffer
		if err := raster.WritePNG(&buf, svg, raster.Options{Width: w, Height: h, Background: color.White}); err != nil {
			return nil, err
		}
		files = append(files, renderedFile{path: t.PNG, data: buf.Bytes()})
	}
	return files, nil
}
