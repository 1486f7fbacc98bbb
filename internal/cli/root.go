// Package cli provides the command-line interface for huepick.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/huepick/internal/version"
)

// NewRootCmd creates the huepick command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "huepick",
		Short: "Pick a colour palette from a photo",
		Long: `huepick extracts a small, visually distinct colour palette from an image.

An extraction engine clusters the image's pixels and streams its progress.
huepick classifies every cluster, waits for the engine's final answer and
reduces it to a palette ranked by saturation, mid-tone lightness and share
of the image.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	// Set version template
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newEnginesCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure. An interrupt
// cancels the running extraction.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger creates the command logger. --verbose and --quiet win over the
// configured level.
func newLogger(cmd *cobra.Command, configured string) hclog.Logger {
	level := hclog.Info
	if configured != "" {
		level = hclog.LevelFromString(configured)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "huepick",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the huepick version, the commit it was built from and the Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printLine(cmd.OutOrStdout(), version.String())
		},
	}
}

func printLine(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, s)
}
