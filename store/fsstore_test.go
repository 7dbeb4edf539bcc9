package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadNodeRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), ".kdd-index"))
	require.NoError(t, err)

	node := domain.GraphNode{
		ID:         "Entity:Order",
		Kind:       domain.KindEntity,
		SourceFile: "01-domain/entities/Order.md",
		SourceHash: "abc123",
		Layer:      domain.LayerDomain,
		Status:     "draft",
		IndexedAt:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.WriteNode(node))

	got, err := s.ReadNode(node.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, node.ID, got.ID)
	assert.Equal(t, node.SourceHash, got.SourceHash)
}

func TestAppendAndReadEdges(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), ".kdd-index"))
	require.NoError(t, err)

	edges := []domain.GraphEdge{
		{FromNode: "UC:UC-001", ToNode: "BR:BR-001", EdgeType: domain.EdgeUCAppliesRule},
		{FromNode: "UC:UC-001", ToNode: "CMD:CMD-001", EdgeType: domain.EdgeUCExecutesCmd},
	}
	require.NoError(t, s.AppendEdges(edges))

	got, err := s.ReadAllEdges()
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestManifestRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), ".kdd-index"))
	require.NoError(t, err)

	m, err := s.ReadManifest()
	require.NoError(t, err)
	assert.Nil(t, m)

	want := domain.IndexManifest{Version: "1.0.0", KDDVersion: "1.0.0", IndexedBy: "kdd-index", IndexLevel: domain.IndexLevelL1}
	require.NoError(t, s.WriteManifest(want))

	got, err := s.ReadManifest()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.IndexLevel, got.IndexLevel)
}

func TestCascadeDelete(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), ".kdd-index"))
	require.NoError(t, err)

	order := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, SourceFile: "01-domain/entities/Order.md"}
	customer := domain.GraphNode{ID: "Entity:Customer", Kind: domain.KindEntity, SourceFile: "01-domain/entities/Customer.md"}
	require.NoError(t, s.WriteNode(order))
	require.NoError(t, s.WriteNode(customer))
	require.NoError(t, s.WriteEmbeddings(domain.KindEntity, "Order", []domain.Embedding{{ID: "Order:chunk-0"}}))

	edges := []domain.GraphEdge{
		{FromNode: "Entity:Order", ToNode: "Entity:Customer", EdgeType: domain.EdgeDomainRelation},
		{FromNode: "Entity:Customer", ToNode: "Entity:Customer", EdgeType: domain.EdgeWikiLink},
	}
	require.NoError(t, s.AppendEdges(edges))

	removed, err := s.DeleteDocumentArtifacts("01-domain/entities/Order.md")
	require.NoError(t, err)
	assert.True(t, removed)

	nodes, err := s.ReadAllNodes()
	require.NoError(t, err)
	for _, n := range nodes {
		assert.NotEqual(t, "01-domain/entities/Order.md", n.SourceFile)
	}

	remainingEdges, err := s.ReadAllEdges()
	require.NoError(t, err)
	for _, e := range remainingEdges {
		assert.NotEqual(t, "Entity:Order", e.FromNode)
		assert.NotEqual(t, "Entity:Order", e.ToNode)
	}

	embeddings, err := s.ReadAllEmbeddings()
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}
