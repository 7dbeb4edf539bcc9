// Package graphstore is an in-memory directed multigraph over domain.GraphNode
// and domain.GraphEdge: a loaded snapshot queried read-only after
// construction.
package graphstore

import (
	"sync"

	"github.com/c360studio/kdd-engine/domain"
)

// Store indexes nodes by ID and maintains forward/reverse adjacency lists
// for edge traversal. It is built once by Load and is safe for concurrent
// reads thereafter; writes (Load, AddNode, RemoveNode) are serialized by mu to
// support incremental re-indexing without requiring callers to rebuild the
// whole store.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]domain.GraphNode
	out   map[string][]domain.GraphEdge // edges leaving a node
	in    map[string][]domain.GraphEdge // edges entering a node
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		nodes: make(map[string]domain.GraphNode),
		out:   make(map[string][]domain.GraphEdge),
		in:    make(map[string][]domain.GraphEdge),
	}
}

// Load replaces the store's contents with nodes and edges, rebuilding the
// adjacency indexes from scratch.
func (s *Store) Load(nodes []domain.GraphNode, edges []domain.GraphEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]domain.GraphNode, len(nodes))
	s.out = make(map[string][]domain.GraphEdge)
	s.in = make(map[string][]domain.GraphEdge)

	for _, n := range nodes {
		s.nodes[n.ID] = n
	}
	for _, e := range edges {
		s.out[e.FromNode] = append(s.out[e.FromNode], e)
		s.in[e.ToNode] = append(s.in[e.ToNode], e)
	}
}

// AddNode inserts or replaces a single node, for incremental updates.
func (s *Store) AddNode(n domain.GraphNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[n.ID] = n
}

// RemoveNode deletes a node and every edge touching it.
func (s *Store) RemoveNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, id)

	for _, e := range s.out[id] {
		s.in[e.ToNode] = removeEdge(s.in[e.ToNode], e)
	}
	delete(s.out, id)

	for _, e := range s.in[id] {
		s.out[e.FromNode] = removeEdge(s.out[e.FromNode], e)
	}
	delete(s.in, id)
}

func removeEdge(edges []domain.GraphEdge, target domain.GraphEdge) []domain.GraphEdge {
	key := target.Key()
	filtered := edges[:0]
	for _, e := range edges {
		if e.Key() != key {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Node returns the node with id and whether it was found.
func (s *Store) Node(id string) (domain.GraphNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns every node in the store, order unspecified.
func (s *Store) Nodes() []domain.GraphNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GraphNode, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out
}

// Out returns edges leaving nodeID.
func (s *Store) Out(nodeID string) []domain.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.GraphEdge(nil), s.out[nodeID]...)
}

// In returns edges entering nodeID.
func (s *Store) In(nodeID string) []domain.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.GraphEdge(nil), s.in[nodeID]...)
}

// NodeCount returns the number of nodes in the store.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// AllEdges returns every edge in the store, order unspecified.
func (s *Store) AllEdges() []domain.GraphEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.GraphEdge
	for _, edges := range s.out {
		out = append(out, edges...)
	}
	return out
}
