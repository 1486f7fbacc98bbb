package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/huepick/internal/engine"
	"github.com/jmylchreest/huepick/internal/engine/external"
	"github.com/jmylchreest/huepick/internal/render"
)

// engineDescriptions describes the built-in engines.
var engineDescriptions = map[engine.Algorithm]string{
	engine.AlgorithmKMeans:   "Repeated k-means++ clustering. Streams each improved clustering, then the best one.",
	engine.AlgorithmDominant: "Single pass dominant colour extraction. Emits one final clustering.",
}

func newEnginesCmd() *cobra.Command {
	var plugins []string

	cmd := &cobra.Command{
		Use:   "engines",
		Short: "List extraction engines",
		Long: `List the built-in extraction engines.

External engine executables passed with --plugin are queried with
--plugin-info and listed with the protocol they speak.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := render.NewTable([]string{"NAME", "KIND", "VERSION", "DESCRIPTION"})
			table.SetColumnMaxWidth(3, 60)

			for _, alg := range engine.ValidAlgorithms() {
				table.AddRow([]string{string(alg), "built-in", "-", engineDescriptions[alg]})
			}

			logger := newLogger(cmd, "")
			for _, path := range plugins {
				eng, err := external.New(cmd.Context(), path, external.WithLogger(logger.Named("engine")))
				if err != nil {
					return fmt.Errorf("failed to query %s: %w", path, err)
				}
				info := eng.Info()
				version := info.Version
				if version == "" {
					version = "-"
				}
				table.AddRow([]string{eng.Name(), string(eng.Protocol()), version, info.Description})
			}

			_, err := fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&plugins, "plugin", "p", nil, "external engine executable to describe (repeatable)")

	return cmd
}
