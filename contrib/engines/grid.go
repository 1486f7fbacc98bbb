// grid.go - Grid Average Engine (huepick JSON-stdio Engine Example)
//
// This is an example huepick engine that speaks the json-stdio protocol
// without any huepick packages. It demonstrates:
// - Engine metadata via --plugin-info
// - Reading the extraction request as JSON on stdin
// - Streaming one JSON event per line on stdout
// - Ending with exactly one final event
// - Reporting failures as an error event
//
// The image is cut into a grid of count cells. Every cell is averaged row
// by row and the running averages are streamed after each band of rows.
// The last band produces the final event. Sizes are pixel counts.
//
// Build:
//   go build -o grid grid.go
//
// Plugin Protocol:
//   # Get engine metadata
//   ./grid --plugin-info
//
// Direct Usage:
//   echo '{"image_path":"photo.png","count":4}' | ./grid
//
// Integration with huepick:
//   huepick engines --plugin ./grid
//   huepick extract --plugin ./grid -c 9 photo.png
//
// Event Format:
//   {"palette":[{"r":12,"g":34,"b":56}],"sizes":[100],"final":false}
//   {"msg":"failed to decode image"}

package main

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
)

// PluginInfo represents the metadata returned by --plugin-info
type PluginInfo struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
	PluginProtocol  string `json:"plugin_protocol"`
}

// Request is the extraction request read from stdin
type Request struct {
	ImagePath string `json:"image_path"`
	Count     int    `json:"count"`
}

// RGB is one palette entry
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Event is one line of output
type Event struct {
	Palette []RGB     `json:"palette"`
	Sizes   []float64 `json:"sizes"`
	Final   bool      `json:"final"`
}

// bands is the number of events streamed per run.
const bands = 4

type cell struct {
	r, g, b, n float64
}

func main() {
	// Handle --plugin-info flag
	if len(os.Args) > 1 && os.Args[1] == "--plugin-info" {
		info := PluginInfo{
			Name:            "grid",
			Version:         "1.0.0",
			ProtocolVersion: "0.1.0",
			Description:     "Average colour of each grid cell (example json-stdio engine)",
			PluginProtocol:  "json-stdio",
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	encoder := json.NewEncoder(os.Stdout)
	if err := run(encoder); err != nil {
		if encErr := encoder.Encode(map[string]string{"msg": err.Error()}); encErr != nil {
			fmt.Fprintf(os.Stderr, "Error encoding error event: %v\n", encErr)
		}
		os.Exit(1)
	}
}

func run(encoder *json.Encoder) error {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	if req.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", req.Count)
	}

	f, err := os.Open(req.ImagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return fmt.Errorf("image has no pixels")
	}

	// Near-square grid with at least count cells; only the first count are used.
	cols := int(math.Ceil(math.Sqrt(float64(req.Count))))
	rows := int(math.Ceil(float64(req.Count) / float64(cols)))
	cells := make([]cell, req.Count)

	band := max(bounds.Dy()/bands, 1)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := (y - bounds.Min.Y) * rows / bounds.Dy()
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx := row*cols + (x-bounds.Min.X)*cols/bounds.Dx()
			if idx >= len(cells) {
				continue
			}
			r, g, b, _ := img.At(x, y).RGBA()
			cells[idx].r += float64(r >> 8)
			cells[idx].g += float64(g >> 8)
			cells[idx].b += float64(b >> 8)
			cells[idx].n++
		}

		last := y == bounds.Max.Y-1
		if (y-bounds.Min.Y+1)%band != 0 && !last {
			continue
		}
		if err := encoder.Encode(snapshot(cells, last)); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
	}
	return nil
}

// snapshot averages the cells seen so far.
func snapshot(cells []cell, final bool) Event {
	ev := Event{Final: final}
	for _, c := range cells {
		if c.n == 0 {
			continue
		}
		ev.Palette = append(ev.Palette, RGB{
			R: int(math.Round(c.r / c.n)),
			G: int(math.Round(c.g / c.n)),
			B: int(math.Round(c.b / c.n)),
		})
		ev.Sizes = append(ev.Sizes, c.n)
	}
	if ev.Palette == nil {
		ev.Palette = []RGB{}
	}
	if ev.Sizes == nil {
		ev.Sizes = []float64{}
	}
	return ev
}
