package graphstore

import "github.com/c360studio/kdd-engine/domain"

// Direction selects which adjacency to follow during a traversal.
type Direction int

const (
	// Outgoing follows edges away from the start node (from -> to).
	Outgoing Direction = iota
	// Incoming follows edges into the start node (to -> from).
	Incoming
	// Both follows edges in either direction.
	Both
)

// Hop is one reachable node discovered during a BFS, along with the edge
// that led to it and its distance from the start node.
type Hop struct {
	Node  domain.GraphNode
	Edge  domain.GraphEdge
	Depth int
}

// BFS performs a breadth-first traversal from startID out to maxDepth hops,
// following edges in dir. The start node itself is not included in the
// result. Each node is visited at most once, at its shortest discovered
// depth, matching QRY-001's hop-based traversal semantics.
func (s *Store) BFS(startID string, maxDepth int, dir Direction) []Hop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visited := map[string]bool{startID: true}
	frontier := []string{startID}
	var hops []Hop

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, nodeID := range frontier {
			for _, step := range s.neighbors(nodeID, dir) {
				if visited[step.target] {
					continue
				}
				visited[step.target] = true
				if n, ok := s.nodes[step.target]; ok {
					hops = append(hops, Hop{Node: n, Edge: step.edge, Depth: depth})
					next = append(next, step.target)
				}
			}
		}
		frontier = next
	}
	return hops
}

type neighborStep struct {
	edge   domain.GraphEdge
	target string
}

func (s *Store) neighbors(nodeID string, dir Direction) []neighborStep {
	var steps []neighborStep
	if dir == Outgoing || dir == Both {
		for _, e := range s.out[nodeID] {
			steps = append(steps, neighborStep{edge: e, target: e.ToNode})
		}
	}
	if dir == Incoming || dir == Both {
		for _, e := range s.in[nodeID] {
			steps = append(steps, neighborStep{edge: e, target: e.FromNode})
		}
	}
	return steps
}
