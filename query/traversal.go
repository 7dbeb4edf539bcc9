package query

import (
	"fmt"
	"sort"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/graphstore"
	"github.com/c360studio/kdd-engine/kddstatus"
)

// TraversalRequest are the QRY-001 inputs.
type TraversalRequest struct {
	RootID        string
	Depth         int // default 2
	EdgeTypes     []domain.EdgeType
	Kinds         []domain.KDDKind
	RespectLayers bool // false keeps violating edges; the CLI flag defaults to true
}

// ScoredNeighbor is one node reached during traversal, with its hop-based
// relevance score.
type ScoredNeighbor struct {
	Node  domain.GraphNode
	Score float64
	Depth int
}

// TraversalResult is the QRY-001 response.
type TraversalResult struct {
	Center    domain.GraphNode
	Neighbors []ScoredNeighbor
	Edges     []domain.GraphEdge
	Total     int
}

// Traverse runs QRY-001: breadth-first search from req.RootID in both
// directions to req.Depth hops, filtering edges and scoring neighbors by
// 1/(1+hop-distance).
func (e *Engine) Traverse(req TraversalRequest) (TraversalResult, error) {
	depth := req.Depth
	if depth <= 0 {
		depth = 2
	}

	center, ok := e.Graph.Node(req.RootID)
	if !ok {
		return TraversalResult{}, kddstatus.New(kddstatus.NodeNotFound, fmt.Sprintf("node %s not found", req.RootID))
	}

	hops := e.Graph.BFS(req.RootID, depth, graphstore.Both)

	bestDepth := make(map[string]int)
	nodeOf := make(map[string]domain.GraphNode)
	edgeKeys := make(map[domain.EdgeKey]domain.GraphEdge)

	for _, hop := range hops {
		if req.RespectLayers && hop.Edge.LayerViolation {
			continue
		}
		if len(req.EdgeTypes) > 0 && !edgeTypeAllowed(hop.Edge.EdgeType, req.EdgeTypes) {
			continue
		}
		if !matchesKindFilter(hop.Node.Kind, req.Kinds) {
			continue
		}

		edgeKeys[hop.Edge.Key()] = hop.Edge

		if existing, ok := bestDepth[hop.Node.ID]; !ok || hop.Depth < existing {
			bestDepth[hop.Node.ID] = hop.Depth
			nodeOf[hop.Node.ID] = hop.Node
		}
	}

	neighbors := make([]ScoredNeighbor, 0, len(nodeOf))
	for id, n := range nodeOf {
		d := bestDepth[id]
		neighbors = append(neighbors, ScoredNeighbor{
			Node:  n,
			Score: 1.0 / float64(1+d),
			Depth: d,
		})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Score != neighbors[j].Score {
			return neighbors[i].Score > neighbors[j].Score
		}
		return neighbors[i].Node.ID < neighbors[j].Node.ID
	})

	edges := make([]domain.GraphEdge, 0, len(edgeKeys))
	for _, edge := range edgeKeys {
		edges = append(edges, edge)
	}

	return TraversalResult{
		Center:    center,
		Neighbors: neighbors,
		Edges:     edges,
		Total:     len(neighbors),
	}, nil
}

func edgeTypeAllowed(t domain.EdgeType, allowed []domain.EdgeType) bool {
	for _, a := range allowed {
		if t == a {
			return true
		}
	}
	return false
}
