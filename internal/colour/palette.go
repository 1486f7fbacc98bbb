// Package colour classifies extracted colour clusters for display.
//
// Everything in this package is a pure function of its input and safe for
// concurrent use.
package colour

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as an uppercase hex string (e.g., "#1A2B3C").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// ToRGB converts a color.Color to RGB.
func ToRGB(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	// RGBA returns values in the range [0, 65535], convert to [0, 255]
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// ParseHex parses "#RRGGBB" or "RRGGBB" in either case.
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Cluster is one dominant colour reported by an extraction engine.
type Cluster struct {
	RGB RGB `json:"rgb"`

	// Size is the relative prevalence of the cluster. Units are engine
	// defined but comparable within one session.
	Size float64 `json:"size"`
}

// ClassifiedColour is a Cluster enriched with derived display fields.
type ClassifiedColour struct {
	Cluster

	Hex        string `json:"hex"`
	HSL        HSL    `json:"hsl"`
	TextColour string `json:"text_colour"`
	Name       string `json:"name"`

	// Key identifies the colour within a session's event stream.
	Key string `json:"key"`
}

// Classify derives the display fields for a cluster.
func Classify(c Cluster, key string) ClassifiedColour {
	return ClassifiedColour{
		Cluster:    c,
		Hex:        c.RGB.Hex(),
		HSL:        ToHSL(c.RGB),
		TextColour: ContrastText(c.RGB).Hex(),
		Name:       c.RGB.Name(),
		Key:        key,
	}
}
