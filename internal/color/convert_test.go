package color_test

import (
	"testing"

	"bennypowers.dev/lupls/internal/color"
	"github.com/mazznoer/csscolorparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCSS(t *testing.T) {
	tests := []struct {
		input string
		hex   string
		rgb   string
		hsl   string
		hwb   string
	}{
		{"red", "#ff0000", "rgb(255, 0, 0)", "hsl(0, 100%, 50%)", "hwb(0 0% 0%)"},
		{"#00ff00", "#00ff00", "rgb(0, 255, 0)", "hsl(120, 100%, 50%)", "hwb(120 0% 0%)"},
		{"rgba(0, 0, 255, 0.5)", "#0000ff80", "rgba(0, 0, 255, 0.5)", "hsla(240, 100%, 50%, 0.5)", "hwb(240 0% 0% / 0.5)"},
		{"#808080", "#808080", "rgb(128, 128, 128)", "hsl(0, 0%, 50.2%)", "hwb(0 50.2% 49.8%)"},
		{"hsl(16, 100%, 60%)", "#ff6933", "rgb(255, 105, 51)", "hsl(16, 100%, 60%)", "hwb(16 20% 0%)"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, err := csscolorparser.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.hex, color.ToCSS(c, color.FormatHex))
			assert.Equal(t, tt.rgb, color.ToCSS(c, color.FormatRGB))
			assert.Equal(t, tt.hsl, color.ToCSS(c, color.FormatHSL))
			assert.Equal(t, tt.hwb, color.ToCSS(c, color.FormatHWB))
		})
	}
}

func TestPresentations(t *testing.T) {
	got := color.Presentations(csscolorparser.Color{R: 1, A: 1})
	assert.Equal(t, []string{"#ff0000", "rgb(255, 0, 0)", "hsl(0, 100%, 50%)", "hwb(0 0% 0%)"}, got)
}

func TestToCSSClampsOutOfRange(t *testing.T) {
	c := csscolorparser.Color{R: 1.2, G: -0.1, B: 0, A: 1}
	assert.Equal(t, "#ff0000", color.ToCSS(c, color.FormatHex))
}
