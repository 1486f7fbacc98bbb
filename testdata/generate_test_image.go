// Test image generator for creating a sample photo for palette extraction
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

func main() {
	// Horizontal bands of decreasing height so cluster sizes differ
	width := 400
	height := 400
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	bands := []struct {
		colour color.RGBA
		height int
	}{
		{color.RGBA{R: 135, G: 190, B: 235, A: 255}, 140}, // Sky
		{color.RGBA{R: 20, G: 60, B: 110, A: 255}, 110},   // Sea
		{color.RGBA{R: 220, G: 180, B: 120, A: 255}, 80},  // Sand
		{color.RGBA{R: 70, G: 120, B: 40, A: 255}, 50},    // Grass
		{color.RGBA{R: 230, G: 60, B: 40, A: 255}, 20},    // Umbrella
	}

	y := 0
	for _, band := range bands {
		end := min(y+band.height, height)
		for ; y < end; y++ {
			for x := range width {
				img.Set(x, y, band.colour)
			}
		}
	}

	// Save the image
	file, err := os.Create("testdata/sample.png")
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		panic(err)
	}

	println("Test image created: testdata/sample.png")
}
