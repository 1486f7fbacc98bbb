// Package config provides huepick configuration with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/huepick/internal/engine"
	"github.com/jmylchreest/huepick/internal/render"
)

// Environment variables read by Builder.WithEnvConfig.
const (
	EnvEngine      = "HUEPICK_ENGINE"
	EnvColours     = "HUEPICK_COLOURS"
	EnvPaletteSize = "HUEPICK_PALETTE_SIZE"
	EnvRestarts    = "HUEPICK_RESTARTS"
	EnvSeed        = "HUEPICK_SEED"
	EnvFormat      = "HUEPICK_FORMAT"
	EnvPlugin      = "HUEPICK_PLUGIN"
	EnvLogLevel    = "HUEPICK_LOG_LEVEL"
)

// Limits accepted by Validate.
const (
	MaxClusters = 256
	MaxRestarts = 1000
)

// Config holds extraction settings.
type Config struct {
	// Engine is the built-in engine name. Ignored when PluginPath is set.
	Engine string

	// Clusters is the number of clusters requested from the engine.
	Clusters int

	// PaletteSize is the number of colours kept after reduction.
	PaletteSize int

	// Restarts is the number of k-means runs.
	Restarts int

	// Seed makes k-means deterministic when non-zero.
	Seed uint64

	// Format is the output format name.
	Format string

	// PluginPath is an external engine executable.
	PluginPath string

	// LogLevel is an hclog level name. Empty leaves the CLI default.
	LogLevel string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Engine:      string(engine.AlgorithmKMeans),
		Clusters:    10,
		PaletteSize: 5,
		Restarts:    engine.DefaultOptions().Restarts,
		Format:      string(render.FormatTerminal),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.PluginPath == "" && !engine.IsValidAlgorithm(engine.Algorithm(c.Engine)) {
		return fmt.Errorf("%w: %q (valid engines: %v)", engine.ErrUnknownEngine, c.Engine, engine.ValidAlgorithms())
	}
	if c.Clusters < 1 || c.Clusters > MaxClusters {
		return fmt.Errorf("colours must be between 1 and %d, got %d", MaxClusters, c.Clusters)
	}
	if c.PaletteSize < 1 {
		return fmt.Errorf("palette size must be at least 1, got %d", c.PaletteSize)
	}
	if c.Restarts < 1 || c.Restarts > MaxRestarts {
		return fmt.Errorf("restarts must be between 1 and %d, got %d", MaxRestarts, c.Restarts)
	}
	if _, err := render.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	return nil
}

// EngineOptions returns the built-in engine options for c.
func (c Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Restarts = c.Restarts
	opts.Seed = c.Seed
	return opts
}

// Builder provides a fluent interface for constructing a Config.
type Builder struct {
	config Config
	useEnv bool
	lookup func(string) (string, bool)
}

// NewBuilder creates a new builder starting from Default.
func NewBuilder() *Builder {
	return &Builder{
		config: Default(),
		lookup: os.LookupEnv,
	}
}

// WithConfig sets the base configuration.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithEnvConfig applies HUEPICK_* environment variables over the base
// configuration.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// Build constructs and validates the configuration.
func (b *Builder) Build() (Config, error) {
	config := b.config

	if b.useEnv {
		if err := b.applyEnv(&config); err != nil {
			return Config{}, err
		}
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func (b *Builder) applyEnv(c *Config) error {
	strs := map[string]*string{
		EnvEngine:   &c.Engine,
		EnvFormat:   &c.Format,
		EnvPlugin:   &c.PluginPath,
		EnvLogLevel: &c.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := b.env(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		EnvColours:     &c.Clusters,
		EnvPaletteSize: &c.PaletteSize,
		EnvRestarts:    &c.Restarts,
	}
	for name, dst := range ints {
		v, ok := b.env(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %q is not an integer", name, v)
		}
		*dst = n
	}

	if v, ok := b.env(EnvSeed); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %q is not an unsigned integer", EnvSeed, v)
		}
		c.Seed = seed
	}
	return nil
}

// env returns a trimmed, non-empty environment value.
func (b *Builder) env(name string) (string, bool) {
	v, ok := b.lookup(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
