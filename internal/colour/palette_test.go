package colour

import (
	"image/color"
	"sync"
	"testing"
)

func TestToRGB(t *testing.T) {
	tests := []struct {
		name  string
		color color.Color
		want  RGB
	}{
		{
			name:  "red",
			color: color.RGBA{R: 255, G: 0, B: 0, A: 255},
			want:  RGB{R: 255, G: 0, B: 0},
		},
		{
			name:  "white",
			color: color.RGBA{R: 255, G: 255, B: 255, A: 255},
			want:  RGB{R: 255, G: 255, B: 255},
		},
		{
			name:  "gray16",
			color: color.Gray16{Y: 0x8080},
			want:  RGB{R: 128, G: 128, B: 128},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToRGB(tt.color)
			if got != tt.want {
				t.Errorf("ToRGB() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRGBHex(t *testing.T) {
	tests := []struct {
		name string
		rgb  RGB
		want string
	}{
		{name: "black", rgb: RGB{}, want: "#000000"},
		{name: "white", rgb: RGB{R: 255, G: 255, B: 255}, want: "#FFFFFF"},
		{name: "zero padded", rgb: RGB{R: 1, G: 2, B: 10}, want: "#01020A"},
		{name: "uppercase", rgb: RGB{R: 0xab, G: 0xcd, B: 0xef}, want: "#ABCDEF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rgb.Hex()
			if got != tt.want {
				t.Errorf("Hex() = %q, want %q", got, tt.want)
			}
			if len(got) != 7 {
				t.Errorf("Hex() length = %d, want 7", len(got))
			}
		})
	}
}

func TestRGBHexDeterministic(t *testing.T) {
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 51 {
			rgb := RGB{R: uint8(r), G: uint8(g), B: uint8(255 - r)}
			if a, b := rgb.Hex(), rgb.Hex(); a != b {
				t.Fatalf("Hex() not deterministic for %v: %q vs %q", rgb, a, b)
			}
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    RGB
		wantErr bool
	}{
		{name: "with hash", in: "#FDF6E3", want: Light()},
		{name: "lowercase", in: "002b36", want: Dark()},
		{name: "too short", in: "#FFF", wantErr: true},
		{name: "not hex", in: "#GGGGGG", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseHexRoundTrip(t *testing.T) {
	rgb := RGB{R: 18, G: 52, B: 86}
	got, err := ParseHex(rgb.Hex())
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if got != rgb {
		t.Errorf("ParseHex(Hex()) = %+v, want %+v", got, rgb)
	}
}

func TestClassify(t *testing.T) {
	c := Cluster{RGB: RGB{R: 255, G: 0, B: 0}, Size: 0.25}
	got := Classify(c, "color-1-0")

	if got.Hex != "#FF0000" {
		t.Errorf("Hex = %q, want %q", got.Hex, "#FF0000")
	}
	if got.Name != "Red" {
		t.Errorf("Name = %q, want %q", got.Name, "Red")
	}
	if got.Key != "color-1-0" {
		t.Errorf("Key = %q, want %q", got.Key, "color-1-0")
	}
	if got.Size != 0.25 {
		t.Errorf("Size = %v, want 0.25", got.Size)
	}
	// hsp of pure red is ~139.4, above the midpoint.
	if got.TextColour != Dark().Hex() {
		t.Errorf("TextColour = %q, want %q", got.TextColour, Dark().Hex())
	}
	if got.HSL.H != 0 || got.HSL.S != 255 || got.HSL.L != Midpoint {
		t.Errorf("HSL = %+v, want {0 255 127.5}", got.HSL)
	}
}

func TestClassifyConcurrent(t *testing.T) {
	want := Classify(Cluster{RGB: RGB{R: 12, G: 200, B: 99}, Size: 3}, "k")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := Classify(Cluster{RGB: RGB{R: 12, G: 200, B: 99}, Size: 3}, "k")
			if got != want {
				t.Errorf("Classify() = %+v, want %+v", got, want)
			}
		}()
	}
	wg.Wait()
}
