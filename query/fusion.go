package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/graphstore"
	"github.com/c360studio/kdd-engine/kddstatus"
)

// FusionRequest are the QRY-003 inputs.
type FusionRequest struct {
	QueryText    string
	ExpandGraph  bool // false skips expansion; the CLI flag defaults to true
	Depth        int  // default 2
	Kinds        []domain.KDDKind
	Layers       []domain.Layer
	RespectLayers bool
	MinScore     float64 // default 0.5
	Limit        int     // default 10
	MaxTokens    int     // default 8000
}

// MatchSource names which retrieval phase(s) contributed to a fused result.
type MatchSource string

const (
	SourceFusion   MatchSource = "fusion"
	SourceSemantic MatchSource = "semantic"
	SourceGraph    MatchSource = "graph"
	SourceLexical  MatchSource = "lexical"
)

// FusionMatch is one QRY-003 result.
type FusionMatch struct {
	Node        domain.GraphNode
	Score       float64
	MatchSource MatchSource
	Snippet     string
}

// FusionResult is the QRY-003 response, including graceful-degradation
// warnings (e.g. NO_EMBEDDINGS).
type FusionResult struct {
	Matches  []FusionMatch
	Warnings []string
}

type candidateScores struct {
	node     domain.GraphNode
	semantic float64
	graph    float64
	lexical  float64
}

// Fusion runs QRY-003: semantic + lexical + graph-expansion phases, fused
// with weighted scoring, then truncated by result limit and token budget.
func (e *Engine) Fusion(ctx context.Context, req FusionRequest) (FusionResult, error) {
	if len(req.QueryText) < 3 {
		return FusionResult{}, kddstatus.New(kddstatus.QueryTooShort, "query text must be at least 3 characters")
	}

	minScore := req.MinScore
	if minScore == 0 {
		minScore = 0.5
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8000
	}
	depth := req.Depth
	if depth <= 0 {
		depth = 2
	}

	candidates := make(map[string]*candidateScores)
	var warnings []string

	ensure := func(n domain.GraphNode) *candidateScores {
		if c, ok := candidates[n.ID]; ok {
			return c
		}
		c := &candidateScores{node: n}
		candidates[n.ID] = c
		return c
	}

	// Phase 1: semantic.
	if e.Vectors != nil && e.EmbeddingModel != nil {
		semanticMatches, err := e.Semantic(ctx, SemanticRequest{
			QueryText: req.QueryText,
			MinScore:  minScore * 0.8,
			Limit:     limit * 3,
		})
		if err != nil {
			return FusionResult{}, err
		}
		for _, m := range semanticMatches {
			c := ensure(m.Node)
			if m.Score > c.semantic {
				c.semantic = m.Score
			}
		}
	} else {
		warnings = append(warnings, "NO_EMBEDDINGS")
	}

	// Phase 2: lexical substring search over all nodes.
	needle := strings.ToLower(req.QueryText)
	for _, n := range e.Graph.Nodes() {
		if !matchesKindFilter(n.Kind, req.Kinds) || !matchesLayerFilter(n.Layer, req.Layers) {
			continue
		}
		if nodeMatchesLexically(n, needle) {
			c := ensure(n)
			c.lexical = 0.5
		}
	}

	// Phase 3: graph expansion from nodes already matched.
	if req.ExpandGraph {
		seedIDs := make([]string, 0, len(candidates))
		for id := range candidates {
			seedIDs = append(seedIDs, id)
		}
		for _, id := range seedIDs {
			for _, hop := range e.Graph.BFS(id, depth, graphstore.Both) {
				if req.RespectLayers && hop.Edge.LayerViolation {
					continue
				}
				c := ensure(hop.Node)
				if c.graph < 0.5 {
					c.graph = 0.5
				}
			}
		}
	}

	// Phase 4: fusion scoring.
	var matches []FusionMatch
	for _, c := range candidates {
		sourceCount := 0
		if c.semantic > 0 {
			sourceCount++
		}
		if c.graph > 0 {
			sourceCount++
		}
		if c.lexical > 0 {
			sourceCount++
		}
		weighted := 0.6*c.semantic + 0.3*c.graph + 0.1*c.lexical + 0.1*float64(sourceCount-1)
		normalized := weighted / (0.6 + 0.3 + 0.1 + 0.2)
		if normalized > 1.0 {
			normalized = 1.0
		}
		if normalized < minScore {
			continue
		}

		var source MatchSource
		switch {
		case c.semantic > 0 && c.graph > 0:
			source = SourceFusion
		case c.semantic > 0:
			source = SourceSemantic
		case c.graph > 0:
			source = SourceGraph
		default:
			source = SourceLexical
		}

		matches = append(matches, FusionMatch{
			Node:        c.node,
			Score:       normalized,
			MatchSource: source,
			Snippet:     snippetFor(c.node),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Node.ID < matches[j].Node.ID
	})

	matches = truncateByBudget(matches, limit, maxTokens)

	return FusionResult{Matches: matches, Warnings: warnings}, nil
}

func nodeMatchesLexically(n domain.GraphNode, needle string) bool {
	if strings.Contains(strings.ToLower(n.ID), needle) {
		return true
	}
	for _, alias := range n.Aliases {
		if strings.Contains(strings.ToLower(alias), needle) {
			return true
		}
	}
	for _, v := range n.IndexedFields {
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), needle) {
			return true
		}
	}
	return false
}

// truncateByBudget greedily accepts matches until either limit results have
// been taken or the cumulative approximated token count (len(snippet)/4)
// would exceed maxTokens.
func truncateByBudget(matches []FusionMatch, limit, maxTokens int) []FusionMatch {
	var accepted []FusionMatch
	tokens := 0
	for _, m := range matches {
		if len(accepted) >= limit {
			break
		}
		cost := len(m.Snippet) / 4
		if cost < 1 {
			cost = 1
		}
		if tokens+cost > maxTokens && len(accepted) > 0 {
			break
		}
		tokens += cost
		accepted = append(accepted, m)
	}
	return accepted
}
