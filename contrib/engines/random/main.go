// random - Random Sampling Engine (huepick Engine Plugin)
//
// Picks random pixels from the image as cluster centres and assigns a
// growing random sample of pixels to the nearest centre. Each round widens
// the sample and is streamed as an improved cluster set; the last round is
// the final one. Fast and rough, useful for trying engine plugins.
//
// Uses the go-plugin RPC protocol.
//
// Build:
//   go build -o huepick-engine-random
//
// Usage:
//   huepick engines --plugin ./huepick-engine-random
//   huepick extract --plugin ./huepick-engine-random photo.jpg
//   huepick extract --plugin ./huepick-engine-random --seed 42 photo.jpg
//
// License: MIT

package main

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	mathrand "math/rand/v2"
	"os"

	"github.com/hashicorp/go-plugin"
	_ "golang.org/x/image/webp"

	engineplugin "github.com/jmylchreest/huepick/pkg/plugin"
)

const (
	// rounds is the number of cluster sets streamed per run.
	rounds = 4

	// samplesPerCluster is how many pixels each round adds per cluster.
	samplesPerCluster = 64
)

// RandomEngine implements the engineplugin.Engine interface.
type RandomEngine struct{}

// Extract samples the image in rounds, emitting one cluster set per round.
func (e *RandomEngine) Extract(ctx context.Context, req engineplugin.Request, emit func(engineplugin.Payload) error) error {
	if req.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", req.Count)
	}

	img, err := loadImage(req.ImagePath)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return fmt.Errorf("image has no pixels")
	}

	seed := req.Seed
	if seed == 0 {
		var randomBytes [8]byte
		if _, err := rand.Read(randomBytes[:]); err == nil {
			seed = binary.LittleEndian.Uint64(randomBytes[:])
		}
	}
	// #nosec G404 -- Using math/rand intentionally for reproducible sampling, not cryptography
	rng := mathrand.New(mathrand.NewPCG(seed, uint64(req.Count)))

	pick := func() engineplugin.PaletteEntry {
		x := bounds.Min.X + rng.IntN(bounds.Dx())
		y := bounds.Min.Y + rng.IntN(bounds.Dy())
		r, g, b, _ := img.At(x, y).RGBA()
		return engineplugin.PaletteEntry{R: int(r >> 8), G: int(g >> 8), B: int(b >> 8)}
	}

	centres := make([]engineplugin.PaletteEntry, req.Count)
	for i := range centres {
		centres[i] = pick()
	}

	sizes := make([]float64, req.Count)
	for round := range rounds {
		if err := ctx.Err(); err != nil {
			return err
		}

		for range samplesPerCluster * req.Count {
			sizes[nearest(pick(), centres)]++
		}

		payload := engineplugin.Payload{
			Palette: append([]engineplugin.PaletteEntry(nil), centres...),
			Sizes:   append([]float64(nil), sizes...),
			Final:   round == rounds-1,
		}
		if err := emit(payload); err != nil {
			return err
		}
	}
	return nil
}

// GetMetadata returns plugin metadata.
func (e *RandomEngine) GetMetadata() engineplugin.PluginInfo {
	return engineplugin.PluginInfo{
		Name:            "random",
		Version:         "0.1.0",
		ProtocolVersion: engineplugin.ProtocolVersion,
		Description:     "Random pixel sampling with nearest-centre assignment",
		PluginProtocol:  string(engineplugin.PluginTypeGoPlugin),
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path) // #nosec G304 - Image path supplied by the host
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func nearest(p engineplugin.PaletteEntry, centres []engineplugin.PaletteEntry) int {
	best, bestDist := 0, -1
	for i, c := range centres {
		dr, dg, db := p.R-c.R, p.G-c.G, p.B-c.B
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func main() {
	// Handle --plugin-info flag
	if len(os.Args) > 1 && os.Args[1] == "--plugin-info" {
		e := &RandomEngine{}
		info := e.GetMetadata()

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(info); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Serve the engine using go-plugin
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: engineplugin.Handshake,
		Plugins: map[string]plugin.Plugin{
			engineplugin.PluginName: &engineplugin.EngineRPC{
				Impl: &RandomEngine{},
			},
		},
	})
}
