// Package colour provides utility functions for color manipulation and analysis.
package colour

import (
	"math"
)

var (
	light  = RGB{R: 0xFD, G: 0xF6, B: 0xE3}
	dark   = RGB{R: 0x00, G: 0x2B, B: 0x36}
	accent = RGB{R: 0xDC, G: 0x32, B: 0x2F}
)

// Light is the text colour drawn on dark swatches.
func Light() RGB { return light }

// Dark is the text colour drawn on light swatches.
func Dark() RGB { return dark }

// Accent is the highlight colour used for headers.
func Accent() RGB { return accent }

// Midpoint is the centre of the [0,255] scale shared by perceived brightness
// and HSL lightness.
const Midpoint = 127.5

// HSL holds hue in degrees [0,360) with saturation and lightness scaled to
// [0,255], so lightness shares its midpoint with PerceivedBrightness.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// ToHSL converts RGB to HSL with S and L on the [0,255] scale.
func ToHSL(rgb RGB) HSL {
	h, s, l := rgbToHSL(rgb)
	return HSL{H: h, S: s * 255, L: l * 255}
}

// rgbToHSL converts RGB to HSL colour space.
// Returns hue (0-360), saturation (0-1), lightness (0-1).
func rgbToHSL(rgb RGB) (h, s, l float64) {
	r := float64(rgb.R) / 255.0
	g := float64(rgb.G) / 255.0
	b := float64(rgb.B) / 255.0

	maxVal := math.Max(r, math.Max(g, b))
	minVal := math.Min(r, math.Min(g, b))
	delta := maxVal - minVal

	l = (maxVal + minVal) / 2.0

	if delta == 0 {
		return 0, 0, l
	}

	if l < 0.5 {
		s = delta / (maxVal + minVal)
	} else {
		s = delta / (2.0 - maxVal - minVal)
	}

	switch maxVal {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	case b:
		h = (r-g)/delta + 4
	}

	h *= 60
	if h >= 360 {
		h -= 360
	}
	return h, s, l
}

// PerceivedBrightness returns the HSP brightness of a colour on [0,255].
// See https://alienryderflex.com/hsp.html.
func PerceivedBrightness(rgb RGB) float64 {
	r := float64(rgb.R)
	g := float64(rgb.G)
	b := float64(rgb.B)
	return math.Sqrt(0.299*r*r + 0.587*g*g + 0.114*b*b)
}

// ContrastText returns the text colour to draw on top of rgb: Light on
// colours perceived as dark, Dark otherwise.
func ContrastText(rgb RGB) RGB {
	return textFor(PerceivedBrightness(rgb))
}

func textFor(hsp float64) RGB {
	if hsp <= Midpoint {
		return light
	}
	return dark
}
