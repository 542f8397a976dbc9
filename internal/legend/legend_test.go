package legend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/choropleth-cli/internal/scale"
)

var opts = Options{OffsetY: 40, SwatchHeight: 8, TickSize: 13, Caption: "caption"}

func TestLayout_TwoRecordScenario(t *testing.T) {
	s, err := scale.Build([]float64{10, 90}, scale.Blues, [2]float64{600, 860})
	require.NoError(t, err)

	l := Layout(s, opts)
	require.Len(t, l.Swatches, 9)
	require.Len(t, l.Ticks, 8)

	first := l.Swatches[0]
	assert.Equal(t, 600.0, first.X)
	assert.Equal(t, 29.0, first.Width)
	assert.Equal(t, scale.Blues.Colors[0], first.Color)
	assert.Equal(t, 0.0, first.Lo)

	last := l.Swatches[8]
	assert.Equal(t, 831.0, last.X)
	assert.Equal(t, 29.0, last.Width)
	assert.Equal(t, 90.0, last.Hi)

	// Swatches tile the key without gaps.
	for i := 1; i < len(l.Swatches); i++ {
		prev := l.Swatches[i-1]
		assert.Equal(t, prev.X+prev.Width, l.Swatches[i].X)
	}

	assert.Equal(t, "10%", l.Ticks[0].Label)
	assert.Equal(t, 629.0, l.Ticks[0].X)
	assert.Equal(t, "80%", l.Ticks[7].Label)

	assert.Equal(t, 600.0, l.CaptionX)
	assert.Equal(t, -6.0, l.CaptionY)
	assert.Equal(t, "caption", l.Caption)
}

func TestLayout_Degenerate(t *testing.T) {
	s, err := scale.Build([]float64{20, 20}, scale.Blues, [2]float64{600, 860})
	require.NoError(t, err)

	l := Layout(s, opts)
	require.Len(t, l.Swatches, 2)
	require.Len(t, l.Ticks, 1)
	assert.Equal(t, "20%", l.Ticks[0].Label)
	assert.Equal(t, 860.0, l.Swatches[1].X)
	assert.Equal(t, 0.0, l.Swatches[1].Width)
}

func TestTickLabel(t *testing.T) {
	assert.Equal(t, "13%", TickLabel(12.5))
	assert.Equal(t, "12%", TickLabel(12.49))
	assert.Equal(t, "0%", TickLabel(0.2))
}
