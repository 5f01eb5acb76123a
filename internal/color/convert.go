// Package color formats parsed colors in the notations CSS accepts.
package color

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mazznoer/csscolorparser"
)

// Format is a CSS color notation.
type Format string

const (
	FormatHex Format = "hex"
	FormatRGB Format = "rgb"
	FormatHSL Format = "hsl"
	FormatHWB Format = "hwb"
)

// Formats lists the notations Presentations produces, in order.
var Formats = []Format{FormatHex, FormatRGB, FormatHSL, FormatHWB}

// ToCSS formats c in the given notation. Translucent colors use the alpha
// form of each notation.
func ToCSS(c csscolorparser.Color, f Format) string {
	c = clamp(c)
	opaque := c.A >= 0.999
	switch f {
	case FormatRGB:
		r, g, b := channel(c.R), channel(c.G), channel(c.B)
		if opaque {
			return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
		}
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, num(c.A, 2))
	case FormatHSL:
		h, s, l := toHSL(c)
		if opaque {
			return fmt.Sprintf("hsl(%s, %s%%, %s%%)", num(h, 1), num(s*100, 1), num(l*100, 1))
		}
		return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", num(h, 1), num(s*100, 1), num(l*100, 1), num(c.A, 2))
	case FormatHWB:
		h, _, _ := toHSL(c)
		w := math.Min(c.R, math.Min(c.G, c.B))
		bl := 1 - math.Max(c.R, math.Max(c.G, c.B))
		if opaque {
			return fmt.Sprintf("hwb(%s %s%% %s%%)", num(h, 1), num(w*100, 1), num(bl*100, 1))
		}
		return fmt.Sprintf("hwb(%s %s%% %s%% / %s)", num(h, 1), num(w*100, 1), num(bl*100, 1), num(c.A, 2))
	default:
		hex := fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
		if !opaque {
			hex += fmt.Sprintf("%02x", channel(c.A))
		}
		return hex
	}
}

// Presentations formats c in every notation of Formats.
func Presentations(c csscolorparser.Color) []string {
	out := make([]string, 0, len(Formats))
	for _, f := range Formats {
		out = append(out, ToCSS(c, f))
	}
	return out
}

func clamp(c csscolorparser.Color) csscolorparser.Color {
	unit := func(v float64) float64 { return math.Max(0, math.Min(1, v)) }
	return csscolorparser.Color{R: unit(c.R), G: unit(c.G), B: unit(c.B), A: unit(c.A)}
}

func channel(v float64) int {
	return int(math.Round(v * 255))
}

// num rounds v to places decimals and drops trailing zeros.
func num(v float64, places int) string {
	scale := math.Pow(10, float64(places))
	return strconv.FormatFloat(math.Round(v*scale)/scale, 'f', -1, 64)
}

// toHSL returns hue in degrees, saturation and lightness in [0, 1].
func toHSL(c csscolorparser.Color) (h, s, l float64) {
	maxC := math.Max(c.R, math.Max(c.G, c.B))
	minC := math.Min(c.R, math.Min(c.G, c.B))
	l = (maxC + minC) / 2
	d := maxC - minC
	if d == 0 {
		return 0, 0, l
	}
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}
	switch maxC {
	case c.R:
		h = (c.G - c.B) / d
		if c.G < c.B {
			h += 6
		}
	case c.G:
		h = (c.B-c.R)/d + 2
	default:
		h = (c.R-c.G)/d + 4
	}
	return h * 60, s, l
}
