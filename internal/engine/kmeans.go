package engine

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/huepick/internal/colour"
)

// KMeans clusters an image several times from different random starts.
// Every run that beats the best cost so far is published as a non-final
// batch; the best clusters overall are published last as the final batch.
type KMeans struct {
	maxIterations int
	convergence   float64
	maxSamples    int
	restarts      int
	workers       int
	seed          uint64
}

// NewKMeans creates a KMeans engine.
func NewKMeans(opts Options) *KMeans {
	restarts := opts.Restarts
	if restarts < 1 {
		restarts = DefaultOptions().Restarts
	}
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &KMeans{
		maxIterations: 20,
		convergence:   2.0,
		maxSamples:    2000,
		restarts:      restarts,
		workers:       workers,
		seed:          opts.Seed,
	}
}

// Name returns the engine name.
func (e *KMeans) Name() string {
	return string(AlgorithmKMeans)
}

// point3D represents a point in 3D RGB color space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// result is the outcome of one k-means run.
type result struct {
	run      int
	clusters []colour.Cluster
	cost     float64
}

// better reports whether r should replace best. Ties go to the lower run
// index so the final batch does not depend on scheduling.
func (r result) better(best *result) bool {
	if best == nil {
		return true
	}
	if r.cost != best.cost {
		return r.cost < best.cost
	}
	return r.run < best.run
}

// Run implements Engine.
func (e *KMeans) Run(ctx context.Context, job Job, sink Sink) error {
	if err := job.Validate(); err != nil {
		return err
	}

	points := e.samplePoints(job.Image)
	if len(points) == 0 {
		return fmt.Errorf("no pixels found in image")
	}

	// Fewer distinct colours than requested: report them directly.
	if unique := uniqueClusters(points); len(unique) <= job.Count {
		return sink.Data(ctx, PayloadFromClusters(unique, true))
	}

	seed := e.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	var (
		mu   sync.Mutex
		best *result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for run := range e.restarts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(run)))
			r := e.kmeans(points, job.Count, rng)
			r.run = run

			mu.Lock()
			defer mu.Unlock()
			if !r.better(best) {
				return nil
			}
			best = &r
			return sink.Data(gctx, PayloadFromClusters(r.clusters, false))
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("kmeans: %w", err)
	}

	return sink.Data(ctx, PayloadFromClusters(best.clusters, true))
}

// samplePoints samples pixels from the image.
// For large images, we sample a subset to improve performance.
func (e *KMeans) samplePoints(img image.Image) []point3D {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()

	step := 1
	if totalPixels > e.maxSamples {
		step = max(int(math.Sqrt(float64(totalPixels)/float64(e.maxSamples))), 1)
	}

	points := make([]point3D, 0, min(totalPixels, e.maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			rgb := colour.ToRGB(img.At(x, y))
			points = append(points, point3D{R: float64(rgb.R), G: float64(rgb.G), B: float64(rgb.B)})
			if len(points) >= e.maxSamples {
				return points
			}
		}
	}
	return points
}

// uniqueClusters counts distinct colours, in first-seen order, with sizes as
// fractions of the sample.
func uniqueClusters(points []point3D) []colour.Cluster {
	index := make(map[colour.RGB]int)
	var clusters []colour.Cluster
	for _, p := range points {
		rgb := colour.RGB{R: uint8(p.R), G: uint8(p.G), B: uint8(p.B)}
		i, ok := index[rgb]
		if !ok {
			i = len(clusters)
			index[rgb] = i
			clusters = append(clusters, colour.Cluster{RGB: rgb})
		}
		clusters[i].Size++
	}
	total := float64(len(points))
	for i := range clusters {
		clusters[i].Size /= total
	}
	return clusters
}

// kmeans performs one k-means clustering run on the points.
// Sizes are relative cluster sizes; cost is the summed point-to-centroid distance.
func (e *KMeans) kmeans(points []point3D, k int, rng *rand.Rand) result {
	centroids := e.initializeCentroidsKMeansPlusPlus(points, k, rng)
	assignments := make([]int, len(points))

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// If very few assignments changed (< 1%), we've converged
		if float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		newCentroids := recalculateCentroids(points, assignments, k, rng)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		if totalMovement/float64(k) < e.convergence {
			break
		}
	}

	weights := make([]float64, k)
	cost := 0.0
	for i, assignment := range assignments {
		weights[assignment]++
		cost += points[i].distance(centroids[assignment])
	}

	clusters := make([]colour.Cluster, k)
	total := float64(len(points))
	for i, c := range centroids {
		clusters[i] = colour.Cluster{
			RGB:  colour.RGB{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)},
			Size: weights[i] / total,
		}
	}

	return result{clusters: clusters, cost: cost}
}

func clampChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// initializeCentroidsKMeansPlusPlus initializes centroids using k-means++ algorithm.
// This provides better initial centroids than random selection.
func (e *KMeans) initializeCentroidsKMeansPlusPlus(points []point3D, k int, rng *rand.Rand) []point3D {
	if len(points) == 0 || k == 0 {
		return []point3D{}
	}

	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.IntN(len(points))])

	for len(centroids) < k {
		distances := make([]float64, len(points))
		totalDistance := 0.0

		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				if dist := point.distance(centroid); dist < minDist {
					minDist = dist
				}
			}
			// Square the distance for k-means++
			distances[i] = minDist * minDist
			totalDistance += distances[i]
		}

		if totalDistance == 0 {
			// All points coincide with existing centroids; perturb the last one.
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := rng.Float64() * totalDistance
		cumulative := 0.0
		chosen := len(points) - 1
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0

	for i, centroid := range centroids {
		if dist := point.distance(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// recalculateCentroids recalculates centroid positions based on assigned points.
func recalculateCentroids(points []point3D, assignments []int, k int, rng *rand.Rand) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			centroids[i] = point3D{
				R: sums[i].R / float64(counts[i]),
				G: sums[i].G / float64(counts[i]),
				B: sums[i].B / float64(counts[i]),
			}
		} else {
			// Empty cluster - reinitialize randomly
			centroids[i] = points[rng.IntN(len(points))]
		}
	}

	return centroids
}
