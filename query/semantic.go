package query

import (
	"context"
	"fmt"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/kddstatus"
	"github.com/c360studio/kdd-engine/vectorstore"
)

// SemanticRequest are the QRY-002 inputs.
type SemanticRequest struct {
	QueryText string
	Kinds     []domain.KDDKind
	Layers    []domain.Layer
	MinScore  float64 // default 0.7
	Limit     int
}

// SemanticMatch is one QRY-002 result: a node plus its best-scoring chunk.
type SemanticMatch struct {
	Node    domain.GraphNode
	Score   float64
	Snippet string
}

// Semantic runs QRY-002: encode the query, over-fetch limit*3 neighbors from
// the vector store, resolve each chunk to its owning node, dedup by node
// keeping the highest-scoring chunk, apply filters, and truncate to limit.
func (e *Engine) Semantic(ctx context.Context, req SemanticRequest) ([]SemanticMatch, error) {
	if len(req.QueryText) < 3 {
		return nil, kddstatus.New(kddstatus.QueryTooShort, "query text must be at least 3 characters")
	}

	minScore := req.MinScore
	if minScore == 0 {
		minScore = 0.7
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	if e.Vectors == nil || e.EmbeddingModel == nil {
		return nil, nil
	}

	vectors, err := e.EmbeddingModel.Encode(ctx, []string{req.QueryText})
	if err != nil {
		return nil, fmt.Errorf("query: encode: %w", err)
	}
	if len(vectors) == 0 {
		return nil, nil
	}

	neighbors := e.Vectors.Search(vectors[0], limit*3, minScore)
	return e.resolveAndDedup(neighbors, req.Kinds, req.Layers, limit), nil
}

// resolveAndDedup resolves each vector neighbor to its owning node, keeps
// one match per node (the highest-scoring chunk), applies kind/layer
// filters, and truncates to limit.
func (e *Engine) resolveAndDedup(neighbors []vectorstore.Neighbor, kinds []domain.KDDKind, layers []domain.Layer, limit int) []SemanticMatch {
	bestByNode := make(map[string]SemanticMatch)
	order := make([]string, 0, len(neighbors))

	for _, nb := range neighbors {
		node, ok := findNodeByDocumentID(e.Graph, nb.Embedding.DocumentID)
		if !ok {
			continue
		}
		if !matchesKindFilter(node.Kind, kinds) || !matchesLayerFilter(node.Layer, layers) {
			continue
		}
		existing, seen := bestByNode[node.ID]
		if !seen || nb.Score > existing.Score {
			if !seen {
				order = append(order, node.ID)
			}
			bestByNode[node.ID] = SemanticMatch{
				Node:    node,
				Score:   nb.Score,
				Snippet: snippetFor(node),
			}
		}
	}

	results := make([]SemanticMatch, 0, len(order))
	for _, id := range order {
		results = append(results, bestByNode[id])
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
