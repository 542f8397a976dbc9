package scale

import (
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// PaletteSize is the number of colors a choropleth palette carries.
const PaletteSize = 9

// Palette is a sequential color ramp ordered low to high.
type Palette struct {
	Name   string   `yaml:"name"`
	Colors []string `yaml:"colors"`
}

// Blues is the 9-class ColorBrewer Blues ramp.
var Blues = Palette{
	Name: "blues",
	Colors: []string{
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b",
	},
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks the palette has PaletteSize hex colors.
func (p Palette) Validate() error {
	if len(p.Colors) != PaletteSize {
		return eris.Errorf("scale: palette %q has %d colors, want %d", p.Name, len(p.Colors), PaletteSize)
	}
	for _, c := range p.Colors {
		if !hexColor.MatchString(c) {
			return eris.Errorf("scale: palette %q has invalid color %q", p.Name, c)
		}
	}
	return nil
}

// LoadPalette reads a palette from a YAML file of the form
//
//	palette:
//	  name: greens
//	  colors: ["#f7fcf5", ...]
func LoadPalette(path string) (Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Palette{}, eris.Wrapf(err, "scale: read palette %s", path)
	}

	var wrapper struct {
		Palette Palette `yaml:"palette"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Palette{}, eris.Wrap(err, "scale: parse palette")
	}

	p := wrapper.Palette
	if p.Name == "" {
		p.Name = path
	}
	if err := p.Validate(); err != nil {
		return Palette{}, err
	}
	return p, nil
}
