package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/kdd-engine/container"
	"github.com/c360studio/kdd-engine/index"
)

func newIndexCmd(configPath *string) *cobra.Command {
	var (
		globs     []string
		domainTag string
		enrich    bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Run an incremental index over the repository (full reindex if no prior manifest exists)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			engine, err := container.New(cfg, prometheus.DefaultRegisterer)
			if err != nil {
				return fmt.Errorf("wire engine: %w", err)
			}

			summary, err := engine.Pipeline.IndexIncremental(cmd.Context(), globs, domainTag)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s\n", summary.RunID)
			if summary.FullReindex {
				fmt.Fprintln(cmd.OutOrStdout(), "full reindex (no prior manifest)")
			}
			for _, f := range summary.Files {
				if f.Err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s: %v\n", f.Status, f.Path, f.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", f.Status, f.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "nodes=%d edges=%d embeddings=%d commit=%s level=%s\n",
				summary.Manifest.Stats.NodeCount, summary.Manifest.Stats.EdgeCount,
				summary.Manifest.Stats.EmbeddingCount, summary.Manifest.GitCommit, summary.Manifest.IndexLevel)

			if enrich {
				return runEnrichment(cmd, engine, summary)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&globs, "glob", nil, "glob patterns to restrict indexing to (default **/*.md)")
	cmd.Flags().StringVar(&domainTag, "domain", "", "domain tag recorded in the manifest for multi-domain structures")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "run L3 agent enrichment over every node indexed in this run")

	return cmd
}

// runEnrichment calls the L3 enrichment agent over every node of an index
// run whose file result carries a node ID and no error or skip.
func runEnrichment(cmd *cobra.Command, engine *container.Engine, summary index.IncrementalSummary) error {
	if engine.Agent == nil {
		return fmt.Errorf("enrich: no agent configured (set agent.provider in config)")
	}
	for _, f := range summary.Files {
		if f.Err != nil || f.Result.Skipped || f.Result.NodeID == "" {
			continue
		}
		result, err := engine.Pipeline.EnrichWithAgent(cmd.Context(), f.Result.NodeID)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "enrich %s: %v\n", f.Result.NodeID, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "enriched %s (+%d implicit edges)\n", result.NodeID, result.ImplicitRelations)
	}
	return nil
}
