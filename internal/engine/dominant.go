package engine

import (
	"context"
	"fmt"

	"github.com/EdlinOrg/prominentcolor"

	"github.com/jmylchreest/huepick/internal/colour"
	"github.com/jmylchreest/huepick/internal/security"
)

// Dominant extracts the most prominent colours in one pass and publishes a
// single final batch. Sizes are pixel counts of the resized image.
type Dominant struct {
	arguments int
	resize    uint
	masks     []prominentcolor.ColorBackgroundMask
}

// NewDominant creates a Dominant engine. Image edges are kept and no
// background colours are masked, so every pixel counts.
func NewDominant() *Dominant {
	return &Dominant{
		arguments: prominentcolor.ArgumentNoCropping,
		resize:    prominentcolor.DefaultSize,
		masks:     []prominentcolor.ColorBackgroundMask{},
	}
}

// Name returns the engine name.
func (e *Dominant) Name() string {
	return string(AlgorithmDominant)
}

// Run implements Engine.
func (e *Dominant) Run(ctx context.Context, job Job, sink Sink) error {
	if err := job.Validate(); err != nil {
		return err
	}

	items, err := prominentcolor.KmeansWithAll(job.Count, job.Image, e.arguments, e.resize, e.masks)
	if err != nil {
		return fmt.Errorf("unable to extract dominant colours: %w", err)
	}

	// Empty centroids come back as black with a zero count.
	clusters := make([]colour.Cluster, 0, len(items))
	for _, item := range items {
		if item.Cnt == 0 {
			continue
		}
		clusters = append(clusters, colour.Cluster{
			RGB: colour.RGB{
				R: security.SafeUint8FromUint32(item.Color.R),
				G: security.SafeUint8FromUint32(item.Color.G),
				B: security.SafeUint8FromUint32(item.Color.B),
			},
			Size: float64(item.Cnt),
		})
	}

	return sink.Data(ctx, PayloadFromClusters(clusters, true))
}
