package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/huepick/internal/colour"
	"github.com/jmylchreest/huepick/internal/config"
	"github.com/jmylchreest/huepick/internal/engine"
	"github.com/jmylchreest/huepick/internal/engine/external"
	"github.com/jmylchreest/huepick/internal/image"
	"github.com/jmylchreest/huepick/internal/palette"
	"github.com/jmylchreest/huepick/internal/render"
)

// extractOptions holds the extract command flags.
type extractOptions struct {
	colours     int
	paletteSize int
	engine      string
	plugin      string
	restarts    int
	seed        uint64
	format      *formatValue
	timeout     time.Duration
	pick        int
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{format: newFormatValue(render.FormatTerminal)}
	def := config.Default()

	cmd := &cobra.Command{
		Use:   "extract <image|directory>",
		Short: "Extract a colour palette from an image",
		Long: `Extract a colour palette from an image.

The engine streams improving cluster sets while it works. Once it reports
its final clusters they are ranked and the best are printed. Given a
directory, a random image from it is used.

Supported image formats: JPEG, PNG, GIF, WebP

Environment variables (overridden by flags):
  HUEPICK_ENGINE, HUEPICK_COLOURS, HUEPICK_PALETTE_SIZE, HUEPICK_RESTARTS,
  HUEPICK_SEED, HUEPICK_FORMAT, HUEPICK_PLUGIN, HUEPICK_LOG_LEVEL

Examples:
  # Five-colour palette with swatches
  huepick extract photo.jpg

  # Three colours from a random wallpaper, as JSON
  huepick extract -n 3 --format json ~/Pictures/wallpapers

  # Reproducible k-means run
  huepick extract --seed 42 --restarts 20 photo.png

  # Print only the hex of the top colour
  huepick extract --pick 1 photo.png

  # Use an external engine
  huepick extract --plugin ./huepick-engine-random photo.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.colours, "colours", "c", def.Clusters, fmt.Sprintf("number of clusters requested from the engine (1-%d)", config.MaxClusters))
	flags.IntVarP(&opts.paletteSize, "palette-size", "n", def.PaletteSize, "number of colours in the palette")
	flags.StringVarP(&opts.engine, "engine", "e", def.Engine, fmt.Sprintf("built-in engine (%v)", engine.ValidAlgorithms()))
	flags.StringVarP(&opts.plugin, "plugin", "p", "", "external engine executable (overrides --engine)")
	flags.IntVar(&opts.restarts, "restarts", def.Restarts, "number of k-means runs")
	flags.Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible k-means runs (0 for random)")
	flags.VarP(opts.format, "format", "f", fmt.Sprintf("output format (%s)", formatNames()))
	flags.DurationVar(&opts.timeout, "timeout", 0, "give up after this long (0 for no limit)")
	flags.IntVar(&opts.pick, "pick", 0, "print only the hex of the palette colour at this position")

	return cmd
}

// resolveConfig applies changed flags over the environment configuration.
func resolveConfig(cmd *cobra.Command, opts *extractOptions) (config.Config, error) {
	cfg, err := config.NewBuilder().WithEnvConfig().Build()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("colours") {
		cfg.Clusters = opts.colours
	}
	if flags.Changed("palette-size") {
		cfg.PaletteSize = opts.paletteSize
	}
	if flags.Changed("engine") {
		cfg.Engine = opts.engine
	}
	if flags.Changed("plugin") {
		cfg.PluginPath = opts.plugin
	}
	if flags.Changed("restarts") {
		cfg.Restarts = opts.restarts
	}
	if flags.Changed("seed") {
		cfg.Seed = opts.seed
	}
	if flags.Changed("format") {
		cfg.Format = opts.format.String()
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runExtract executes the extract command.
func runExtract(cmd *cobra.Command, opts *extractOptions, path string) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}
	if opts.pick < 0 || opts.pick > cfg.PaletteSize {
		return fmt.Errorf("--pick must be between 1 and the palette size (%d), got %d", cfg.PaletteSize, opts.pick)
	}

	logger := newLogger(cmd, cfg.LogLevel)

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	eng, err := newEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	job, err := newJob(cfg, path, logger)
	if err != nil {
		return err
	}

	var renderer render.Renderer
	pipelineOpts := []palette.Option{
		palette.WithLogger(logger.Named("pipeline")),
		palette.WithMaxColours(cfg.PaletteSize),
	}
	if opts.pick > 0 {
		pipelineOpts = append(pipelineOpts, palette.WithSelectHandler(func(c colour.ClassifiedColour) {
			printLine(cmd.OutOrStdout(), c.Hex)
		}))
	} else {
		format, err := render.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
		renderer, err = render.New(format, cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	var pr palette.Renderer
	if renderer != nil {
		pr = renderer
	}
	pipeline := palette.New(engine.NewBus(), pr, pipelineOpts...)
	defer pipeline.Close()

	if _, err := pipeline.Start(ctx, eng, job); err != nil {
		return fmt.Errorf("failed to start extraction: %w", err)
	}

	view, err := pipeline.Wait(ctx)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if opts.pick > 0 {
		if opts.pick > len(view.Colours) {
			return fmt.Errorf("palette has %d colours, cannot pick colour %d", len(view.Colours), opts.pick)
		}
		if _, err := pipeline.Select(view.Colours[opts.pick-1].Key); err != nil {
			return err
		}
		return nil
	}

	if err := renderer.Err(); err != nil {
		return fmt.Errorf("failed to write palette: %w", err)
	}
	return nil
}

// newEngine creates the external engine when a plugin is configured and the
// built-in one otherwise.
func newEngine(ctx context.Context, cfg config.Config, logger hclog.Logger) (engine.Engine, error) {
	if cfg.PluginPath != "" {
		eng, err := external.New(ctx, cfg.PluginPath,
			external.WithLogger(logger.Named("engine")),
			external.WithSeed(cfg.Seed))
		if err != nil {
			return nil, fmt.Errorf("failed to load engine plugin: %w", err)
		}
		return eng, nil
	}

	eng, err := engine.New(engine.Algorithm(cfg.Engine), cfg.EngineOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, nil
}

// newJob resolves the image. External engines decode it themselves, so it is
// only checked for them.
func newJob(cfg config.Config, path string, logger hclog.Logger) (engine.Job, error) {
	if cfg.PluginPath != "" {
		resolved, err := image.ResolveImagePath(path)
		if err != nil {
			return engine.Job{}, fmt.Errorf("invalid image path: %w", err)
		}
		if err := image.ValidateImagePath(resolved); err != nil {
			return engine.Job{}, fmt.Errorf("invalid image path: %w", err)
		}
		logger.Debug("image resolved", "path", resolved)
		return engine.Job{Path: resolved, Count: cfg.Clusters}, nil
	}

	handle, err := image.NewFileLoader().Open(path)
	if err != nil {
		return engine.Job{}, fmt.Errorf("failed to load image: %w", err)
	}

	bounds := handle.Image.Bounds()
	logger.Debug("image loaded",
		"path", handle.Path,
		"format", handle.Format,
		"width", bounds.Dx(),
		"height", bounds.Dy())

	return engine.Job{Path: handle.Path, Image: handle.Image, Count: cfg.Clusters}, nil
}
