package colour

import (
	"math"
	"testing"
)

func TestToHSL(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want HSL
	}{
		{name: "black", rgb: RGB{}, want: HSL{H: 0, S: 0, L: 0}},
		{name: "white", rgb: RGB{R: 255, G: 255, B: 255}, want: HSL{H: 0, S: 0, L: 255}},
		{name: "red", rgb: RGB{R: 255}, want: HSL{H: 0, S: 255, L: 127.5}},
		{name: "green", rgb: RGB{G: 255}, want: HSL{H: 120, S: 255, L: 127.5}},
		{name: "blue", rgb: RGB{B: 255}, want: HSL{H: 240, S: 255, L: 127.5}},
		{name: "magenta hue wraps below 360", rgb: RGB{R: 255, B: 1}, want: HSL{H: 359.76, S: 255, L: 127.5}},
		{name: "mid gray", rgb: RGB{R: 128, G: 128, B: 128}, want: HSL{H: 0, S: 0, L: 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToHSL(tt.rgb)
			if math.Abs(got.H-tt.want.H) > 0.01 ||
				math.Abs(got.S-tt.want.S) > 0.01 ||
				math.Abs(got.L-tt.want.L) > 0.01 {
				t.Errorf("ToHSL(%v) = %+v, want %+v", tt.rgb, got, tt.want)
			}
			if got.H < 0 || got.H >= 360 {
				t.Errorf("ToHSL(%v).H = %v, want within [0,360)", tt.rgb, got.H)
			}
		})
	}
}

func TestPerceivedBrightness(t *testing.T) {
	if got := PerceivedBrightness(RGB{}); got != 0 {
		t.Errorf("PerceivedBrightness(black) = %v, want 0", got)
	}
	if got := PerceivedBrightness(RGB{R: 255, G: 255, B: 255}); math.Abs(got-255) > 1e-9 {
		t.Errorf("PerceivedBrightness(white) = %v, want 255", got)
	}
	want := math.Sqrt(0.299 * 255 * 255)
	if got := PerceivedBrightness(RGB{R: 255}); got != want {
		t.Errorf("PerceivedBrightness(red) = %v, want %v", got, want)
	}
}

func TestContrastText(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want RGB
	}{
		{name: "white gets dark text", rgb: RGB{R: 255, G: 255, B: 255}, want: Dark()},
		{name: "black gets light text", rgb: RGB{}, want: Light()},
		{name: "gray 127 is dark-perceived", rgb: RGB{R: 127, G: 127, B: 127}, want: Light()},
		{name: "gray 128 is light-perceived", rgb: RGB{R: 128, G: 128, B: 128}, want: Dark()},
		{name: "pure blue is dark-perceived", rgb: RGB{B: 255}, want: Light()},
		{name: "pure yellow is light-perceived", rgb: RGB{R: 255, G: 255}, want: Dark()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContrastText(tt.rgb); got != tt.want {
				t.Errorf("ContrastText(%v) = %v, want %v", tt.rgb, got.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestTextForThreshold(t *testing.T) {
	tests := []struct {
		hsp  float64
		want RGB
	}{
		{hsp: 0, want: Light()},
		{hsp: 127.4999, want: Light()},
		{hsp: 127.5, want: Light()},
		{hsp: 127.5001, want: Dark()},
		{hsp: 255, want: Dark()},
	}

	for _, tt := range tests {
		if got := textFor(tt.hsp); got != tt.want {
			t.Errorf("textFor(%v) = %v, want %v", tt.hsp, got.Hex(), tt.want.Hex())
		}
	}
}

func TestTextColoursAreCopies(t *testing.T) {
	l := Light()
	l.R = 0
	if Light() == l {
		t.Fatal("Light() returned shared state")
	}
	if got := ContrastText(RGB{}); got != Light() {
		t.Errorf("ContrastText(black) = %v, want %v", got, Light())
	}
}
