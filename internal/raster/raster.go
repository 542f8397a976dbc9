// Package raster renders the SVG map to PNG.
//
// Text elements (title, legend labels) are not rasterized.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/rotisserie/eris"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Options sizes the output image. Zero dimensions fall back to the SVG
// viewBox.
type Options struct {
	Width      int
	Height     int
	Background color.Color
}

// Rasterize draws svg into an RGBA image.
func Rasterize(svg []byte, opts Options) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, eris.Wrap(err, "raster: parse svg")
	}

	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = int(icon.ViewBox.W), int(icon.ViewBox.H)
	}
	if w <= 0 || h <= 0 {
		return nil, eris.Errorf("raster: invalid size %dx%d", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if opts.Background != nil {
		draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// WritePNG rasterizes svg and encodes it as PNG.
func WritePNG(w io.Writer, svg []byte, opts Options) error {
	img, err := Rasterize(svg, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return eris.Wrap(err, "raster: encode png")
	}
	return nil
}
