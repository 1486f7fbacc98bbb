package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// Engine produces cluster batches for one image.
type Engine interface {
	// Name returns the engine name used on the command line.
	Name() string

	// Run clusters job and publishes batches to sink, ending with exactly one
	// final batch. It blocks until done; callers run it on its own goroutine.
	Run(ctx context.Context, job Job, sink Sink) error
}

// Sink receives an engine's output for one session.
type Sink interface {
	Data(ctx context.Context, p Payload) error
	Error(ctx context.Context, msg string) error
}

// Job is the opaque image handle a session extracts from.
type Job struct {
	// Path is where the image came from. External engines load it themselves.
	Path string

	// Image is the decoded image for in-process engines. May be nil.
	Image image.Image

	// Count is the number of clusters requested.
	Count int
}

// Validate checks the job for in-process engines.
func (j Job) Validate() error {
	if j.Image == nil {
		return fmt.Errorf("image cannot be nil")
	}
	if j.Count < 1 {
		return fmt.Errorf("color count must be at least 1, got %d", j.Count)
	}
	if j.Count > 256 {
		return fmt.Errorf("color count too large: %d (maximum: 256)", j.Count)
	}
	return nil
}

// Algorithm represents a built-in engine.
type Algorithm string

const (
	// AlgorithmKMeans runs repeated k-means clustering and streams improvements.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmDominant extracts the most dominant colors in a single pass.
	AlgorithmDominant Algorithm = "dominant"
)

// ErrUnknownEngine is returned for an unrecognised algorithm name.
var ErrUnknownEngine = errors.New("unknown engine")

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmKMeans,
		AlgorithmDominant,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// Options configures the built-in engines.
type Options struct {
	// Restarts is the number of independent k-means runs.
	Restarts int

	// Workers bounds concurrent k-means runs. 0 uses GOMAXPROCS.
	Workers int

	// Seed makes k-means deterministic when non-zero.
	Seed uint64
}

// DefaultOptions returns the default engine options.
func DefaultOptions() Options {
	return Options{Restarts: 10}
}

// New creates a built-in engine for alg.
func New(alg Algorithm, opts Options) (Engine, error) {
	switch alg {
	case AlgorithmKMeans:
		return NewKMeans(opts), nil
	case AlgorithmDominant:
		return NewDominant(), nil
	default:
		return nil, fmt.Errorf("%w: %s (valid engines: %v)", ErrUnknownEngine, alg, ValidAlgorithms())
	}
}
