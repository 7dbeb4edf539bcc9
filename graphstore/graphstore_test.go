package graphstore_test

import (
	"testing"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/graphstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id string) domain.GraphNode {
	return domain.GraphNode{ID: id}
}

func edge(from, to string, typ domain.EdgeType) domain.GraphEdge {
	return domain.GraphEdge{FromNode: from, ToNode: to, EdgeType: typ}
}

func TestBFSOutgoingRespectsMaxDepth(t *testing.T) {
	s := graphstore.New()
	s.Load(
		[]domain.GraphNode{node("Entity:Order"), node("Entity:LineItem"), node("Entity:Product")},
		[]domain.GraphEdge{
			edge("Entity:Order", "Entity:LineItem", domain.EdgeDomainRelation),
			edge("Entity:LineItem", "Entity:Product", domain.EdgeDomainRelation),
		},
	)

	hops := s.BFS("Entity:Order", 1, graphstore.Outgoing)
	require.Len(t, hops, 1)
	assert.Equal(t, "Entity:LineItem", hops[0].Node.ID)
	assert.Equal(t, 1, hops[0].Depth)

	hops = s.BFS("Entity:Order", 2, graphstore.Outgoing)
	require.Len(t, hops, 2)
}

func TestBFSIncomingFollowsReverseEdges(t *testing.T) {
	s := graphstore.New()
	s.Load(
		[]domain.GraphNode{node("Entity:Order"), node("REQ:001")},
		[]domain.GraphEdge{edge("Entity:Order", "REQ:001", domain.EdgeWikiLink)},
	)

	hops := s.BFS("REQ:001", 1, graphstore.Incoming)
	require.Len(t, hops, 1)
	assert.Equal(t, "Entity:Order", hops[0].Node.ID)
}

func TestBFSBothVisitsEachNodeOnce(t *testing.T) {
	s := graphstore.New()
	s.Load(
		[]domain.GraphNode{node("A"), node("B"), node("C")},
		[]domain.GraphEdge{
			edge("A", "B", domain.EdgeWikiLink),
			edge("C", "A", domain.EdgeWikiLink),
		},
	)

	hops := s.BFS("A", 2, graphstore.Both)
	require.Len(t, hops, 2)
}

func TestRemoveNodeDropsIncidentEdges(t *testing.T) {
	s := graphstore.New()
	s.Load(
		[]domain.GraphNode{node("Entity:Order"), node("Entity:Customer")},
		[]domain.GraphEdge{edge("Entity:Order", "Entity:Customer", domain.EdgeDomainRelation)},
	)

	s.RemoveNode("Entity:Order")

	_, ok := s.Node("Entity:Order")
	assert.False(t, ok)
	assert.Empty(t, s.In("Entity:Customer"))
	assert.Empty(t, s.AllEdges())
}

func TestNodeCount(t *testing.T) {
	s := graphstore.New()
	s.Load([]domain.GraphNode{node("A"), node("B")}, nil)
	assert.Equal(t, 2, s.NodeCount())
}
