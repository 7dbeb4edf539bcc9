package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/c360studio/kdd-engine/container"
	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/query"
)

func newQueryCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a retrieval query against the loaded index",
	}
	cmd.AddCommand(
		newTraverseCmd(configPath),
		newSemanticCmd(configPath),
		newFusionCmd(configPath),
		newImpactCmd(configPath),
		newCoverageCmd(configPath),
		newViolationsCmd(configPath),
	)
	return cmd
}

func loadQueryEngine(configPath string) (*container.Engine, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	engine, err := container.New(cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("wire engine: %w", err)
	}
	if err := engine.LoadIntoMemory(); err != nil {
		return nil, fmt.Errorf("load index into memory: %w", err)
	}
	return engine, nil
}

func parseKinds(raw []string) []domain.KDDKind {
	var kinds []domain.KDDKind
	for _, r := range raw {
		if k, ok := domain.ParseKind(r); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func parseLayers(raw []string) []domain.Layer {
	layers := make([]domain.Layer, 0, len(raw))
	for _, r := range raw {
		layers = append(layers, domain.Layer(r))
	}
	return layers
}

func newTraverseCmd(configPath *string) *cobra.Command {
	var (
		depth         int
		kinds         []string
		respectLayers bool
	)
	cmd := &cobra.Command{
		Use:   "traverse <node-id>",
		Short: "QRY-001: breadth-first traversal from a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadQueryEngine(*configPath)
			if err != nil {
				return err
			}
			result, err := engine.Query.Traverse(query.TraversalRequest{
				RootID:        args[0],
				Depth:         depth,
				Kinds:         parseKinds(kinds),
				RespectLayers: respectLayers,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "center: %s (%d neighbors, %d edges)\n", result.Center.ID, len(result.Neighbors), len(result.Edges))
			for _, n := range result.Neighbors {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-40s depth=%d score=%.3f\n", n.Node.ID, n.Depth, n.Score)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 2, "max hop distance")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "filter to these kinds")
	cmd.Flags().BoolVar(&respectLayers, "respect-layers", true, "stop traversal at layer violations")
	return cmd
}

func newSemanticCmd(configPath *string) *cobra.Command {
	var (
		kinds    []string
		layers   []string
		minScore float64
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "semantic <query text>",
		Short: "QRY-002: embedding nearest-neighbor search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadQueryEngine(*configPath)
			if err != nil {
				return err
			}
			matches, err := engine.Query.Semantic(cmd.Context(), query.SemanticRequest{
				QueryText: args[0],
				Kinds:     parseKinds(kinds),
				Layers:    parseLayers(layers),
				MinScore:  minScore,
				Limit:     limit,
			})
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s score=%.3f %s\n", m.Node.ID, m.Score, m.Snippet)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "filter to these kinds")
	cmd.Flags().StringSliceVar(&layers, "layer", nil, "filter to these layers")
	cmd.Flags().Float64Var(&minScore, "min-score", 0.7, "minimum cosine score")
	cmd.Flags().IntVar(&limit, "limit", 10, "max results")
	return cmd
}

func newFusionCmd(configPath *string) *cobra.Command {
	var (
		kinds       []string
		layers      []string
		minScore    float64
		limit       int
		expandGraph bool
		depth       int
	)
	cmd := &cobra.Command{
		Use:   "fusion <query text>",
		Short: "QRY-003: hybrid semantic + graph + lexical fusion search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadQueryEngine(*configPath)
			if err != nil {
				return err
			}
			result, err := engine.Query.Fusion(cmd.Context(), query.FusionRequest{
				QueryText:   args[0],
				Kinds:       parseKinds(kinds),
				Layers:      parseLayers(layers),
				MinScore:    minScore,
				Limit:       limit,
				ExpandGraph: expandGraph,
				Depth:       depth,
			})
			if err != nil {
				return err
			}
			for _, m := range result.Matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s score=%.3f source=%s %s\n", m.Node.ID, m.Score, m.MatchSource, m.Snippet)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "filter to these kinds")
	cmd.Flags().StringSliceVar(&layers, "layer", nil, "filter to these layers")
	cmd.Flags().Float64Var(&minScore, "min-score", 0.5, "minimum fused score")
	cmd.Flags().IntVar(&limit, "limit", 10, "max results")
	cmd.Flags().BoolVar(&expandGraph, "expand-graph", true, "expand every semantic or lexical match through the graph up to --depth hops")
	cmd.Flags().IntVar(&depth, "depth", 2, "graph expansion depth")
	return cmd
}

func newImpactCmd(configPath *string) *cobra.Command {
	var (
		depth      int
		changeType string
	)
	cmd := &cobra.Command{
		Use:   "impact <node-id>",
		Short: "QRY-004: what breaks if this node changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadQueryEngine(*configPath)
			if err != nil {
				return err
			}
			result, err := engine.Query.Impact(query.ImpactRequest{NodeID: args[0], Depth: depth, ChangeType: changeType})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "target: %s\n", result.Target.ID)
			for _, d := range result.Direct {
				fmt.Fprintf(cmd.OutOrStdout(), "  direct     %-40s %s (%s)\n", d.Node.ID, d.EdgeType, d.Description)
			}
			for _, d := range result.Transitive {
				fmt.Fprintf(cmd.OutOrStdout(), "  transitive %-40s path=%v\n", d.Node.ID, d.PathNodes)
			}
			for _, s := range result.ScenariosToRerun {
				fmt.Fprintf(cmd.OutOrStdout(), "  rerun      %s (%s)\n", s.Node.ID, s.Reason)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 3, "max transitive-dependent hop distance")
	cmd.Flags().StringVar(&changeType, "change-type", "", "optional change classification passed with the request; it does not change the result or the output")
	return cmd
}

func newCoverageCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage <node-id>",
		Short: "QRY-005: governance coverage for a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadQueryEngine(*configPath)
			if err != nil {
				return err
			}
			result, err := engine.Query.Coverage(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.0f%% covered\n", result.Node.ID, result.Percentage)
			for _, c := range result.Categories {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-20s %-8s neighbors=%d\n", c.Name, c.Status, len(c.Neighbors))
			}
			return nil
		},
	}
	return cmd
}

func newViolationsCmd(configPath *string) *cobra.Command {
	var (
		kinds  []string
		layers []string
	)
	cmd := &cobra.Command{
		Use:   "violations",
		Short: "QRY-006: enumerate layer violations",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := loadQueryEngine(*configPath)
			if err != nil {
				return err
			}
			result := engine.Query.Violations(query.ViolationsRequest{Kinds: parseKinds(kinds), Layers: parseLayers(layers)})
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d edges in violation (%.2f%%)\n", len(result.Violations), result.TotalEdges, result.ViolationRate)
			for _, e := range result.Violations {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s --%s--> %s\n", e.FromNode, e.EdgeType, e.ToNode)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "filter to these kinds")
	cmd.Flags().StringSliceVar(&layers, "layer", nil, "filter to these layers")
	return cmd
}
