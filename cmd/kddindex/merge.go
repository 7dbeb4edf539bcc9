package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/kdd-engine/merge"
	"github.com/c360studio/kdd-engine/store"
)

func newMergeCmd(configPath *string) *cobra.Command {
	var (
		output         string
		failOnConflict bool
	)

	cmd := &cobra.Command{
		Use:   "merge <source-index-dir>...",
		Short: "Merge two or more .kdd-index/ artifact stores into one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := store.Open(output)
			if err != nil {
				return fmt.Errorf("open output store: %w", err)
			}

			sources := make([]*store.FSArtifactStore, 0, len(args))
			for _, dir := range args {
				s, err := store.Open(dir)
				if err != nil {
					return fmt.Errorf("open source %s: %w", dir, err)
				}
				sources = append(sources, s)
			}

			strategy := merge.LastWriteWins
			if failOnConflict {
				strategy = merge.FailOnConflict
			}

			m := merge.New(out)
			result, err := m.Merge(merge.Request{Sources: sources, Strategy: strategy})
			if err != nil {
				return fmt.Errorf("merge: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "request %s: merged %d sources into %s: nodes=%d edges=%d embeddings=%d conflicts=%d level=%s\n",
				result.RequestID, len(sources), output, result.Manifest.Stats.NodeCount, result.Manifest.Stats.EdgeCount,
				result.Manifest.Stats.EmbeddingCount, result.ConflictCount, result.Manifest.IndexLevel)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", ".kdd-index-merged", "output artifact store directory")
	cmd.Flags().BoolVar(&failOnConflict, "fail-on-conflict", false, "reject the merge if any node has conflicting versions across sources")

	return cmd
}
