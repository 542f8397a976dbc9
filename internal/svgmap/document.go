// Package svgmap writes the choropleth as a standalone SVG document.
package svgmap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/choropleth-cli/internal/choropleth"
	"github.com/sells-group/choropleth-cli/internal/legend"
	"github.com/sells-group/choropleth-cli/internal/model"
)

// Options controls the canvas.
type Options struct {
	Width     float64
	Height    float64
	Title     string
	Precision int
}

// County is one shaded county path.
type County struct {
	D         string
	FIPS      string
	Education string
	Fill      string
	Label     string
}

// Document is the fully resolved map, ready to serialize.
type Document struct {
	Width    float64
	Height   float64
	Title    string
	TitleX   float64
	TitleY   float64
	Legend   legend.Legend
	Counties []County
	States   string
}

// New assembles a document from resolved shades and the state border mesh.
func New(opts Options, lg legend.Legend, shades []model.Shade, borders *geom.MultiLineString, pg *PathGenerator) *Document {
	doc := &Document{
		Width:    opts.Width,
		Height:   opts.Height,
		Title:    opts.Title,
		TitleX:   opts.Width / 3,
		TitleY:   20,
		Legend:   lg,
		Counties: make([]County, 0, len(shades)),
	}
	for _, s := range shades {
		doc.Counties = append(doc.Counties, County{
			D:         pg.Path(s.Feature.Geometry),
			FIPS:      fipsAttr(s),
			Education: choropleth.FormatRate(s.Rate),
			Fill:      s.Color,
			Label:     choropleth.Label(s),
		})
	}
	if borders != nil {
		doc.States = pg.Path(borders)
	}
	return doc
}

func fipsAttr(s model.Shade) string {
	if s.Feature.HasID {
		return strconv.Itoa(s.FIPS)
	}
	return s.Feature.RawID
}

// Render serializes the document.
func (d *Document) Render() []byte {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %[1]s %[2]s">`,
		num(d.Width), num(d.Height))
	buf.WriteString(`<style>.county:hover{opacity:.8}</style>`)
	fmt.Fprintf(buf, `<text x="%s" y="%s" id="title">%s</text>`, num(d.TitleX), num(d.TitleY), escapeText(d.Title))
	d.writeLegend(buf)
	d.writeCounties(buf)
	if d.States != "" {
		fmt.Fprintf(buf, `<path class="states" fill="none" stroke="#fff" stroke-linejoin="round" d="%s"/>`, d.States)
	}
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Render())
	return int64(n), err
}

func (d *Document) writeLegend(buf *bytes.Buffer) {
	lg := d.Legend
	fmt.Fprintf(buf, `<g class="key" id="legend" transform="translate(0,%s)">`, num(lg.OffsetY))
	for _, s := range lg.Swatches {
		fmt.Fprintf(buf, `<rect height="%s" x="%s" width="%s" fill="%s"/>`,
			num(lg.SwatchHeight), num(s.X), num(s.Width), escapeText(s.Color))
	}
	fmt.Fprintf(buf, `<text class="caption" x="%s" y="%s" fill="#000" text-anchor="start" font-weight="bold" id="description">%s</text>`,
		num(lg.CaptionX), num(lg.CaptionY), escapeText(lg.Caption))
	buf.WriteString(`<g fill="none" font-size="10" font-family="sans-serif" text-anchor="middle">`)
	for _, t := range lg.Ticks {
		fmt.Fprintf(buf, `<g class="tick" transform="translate(%s,0)"><line stroke="#000" y2="%s"/><text fill="#000" y="%s" dy="0.71em">%s</text></g>`,
			num(t.X), num(lg.TickSize), num(lg.TickSize+3), escapeText(t.Label))
	}
	buf.WriteString(`</g></g>`)
}

func (d *Document) writeCounties(buf *bytes.Buffer) {
	buf.WriteString(`<g class="counties">`)
	for _, c := range d.Counties {
		fmt.Fprintf(buf, `<path class="county" fill="%s" d="%s" data-fips="%s" data-education="%s"><title>%s</title></path>`,
			escapeText(c.Fill), c.D, escapeText(c.FIPS), escapeText(c.Education), escapeText(c.Label))
	}
	buf.WriteString(`</g>`)
}

func num(v float64) string { return formatNumber(v, -1) }

func escapeText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
