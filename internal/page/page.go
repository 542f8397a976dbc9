// Package page wraps the rendered map in an interactive HTML page.
package page

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/choropleth-cli/internal/tooltip"
)

//go:embed page.html.tmpl
var pageTemplate string

var tmpl = template.Must(template.New("page").Parse(pageTemplate))

// Page is the data bound into the HTML template.
type Page struct {
	Title string
	SVG   []byte
}

type view struct {
	Title   string
	SVG     template.HTML
	OffsetX int
	OffsetY int
}

// Render writes the page. The SVG is trusted output of svgmap and is
// embedded verbatim.
func Render(w io.Writer, p Page) error {
	v := view{
		Title:   p.Title,
		SVG:     template.HTML(p.SVG), //nolint:gosec // generated by svgmap
		OffsetX: tooltip.OffsetX,
		OffsetY: tooltip.OffsetY,
	}
	if err := tmpl.Execute(w, v); err != nil {
		return eris.Wrap(err, "page: render")
	}
	return nil
}
