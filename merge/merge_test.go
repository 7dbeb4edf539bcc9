package merge_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/kddstatus"
	"github.com/c360studio/kdd-engine/merge"
	"github.com/c360studio/kdd-engine/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.FSArtifactStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), ".kdd-index"))
	require.NoError(t, err)
	return s
}

func baseManifest(level domain.IndexLevel) domain.IndexManifest {
	return domain.IndexManifest{
		Version:    "1",
		KDDVersion: "1",
		Structure:  domain.StructureSingleDomain,
		IndexLevel: level,
		IndexedAt:  time.Now(),
		IndexedBy:  "kdd-index",
	}
}

func TestMergeRequiresAtLeastTwoSources(t *testing.T) {
	out := newStore(t)
	one := newStore(t)
	require.NoError(t, one.WriteManifest(baseManifest(domain.IndexLevelL1)))

	m := merge.New(out)
	_, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{one}})
	require.Error(t, err)
	assert.True(t, kddstatus.Is(err, kddstatus.InsufficientSources))
}

func TestMergeFailsOnMissingManifest(t *testing.T) {
	out := newStore(t)
	a := newStore(t)
	b := newStore(t)
	require.NoError(t, a.WriteManifest(baseManifest(domain.IndexLevelL1)))
	// b has no manifest.

	m := merge.New(out)
	_, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{a, b}})
	require.Error(t, err)
	assert.True(t, kddstatus.Is(err, kddstatus.ManifestNotFound))
}

func TestMergeFailsOnVersionMismatch(t *testing.T) {
	out := newStore(t)
	a := newStore(t)
	b := newStore(t)
	ma := baseManifest(domain.IndexLevelL1)
	ma.Version = "1"
	mb := baseManifest(domain.IndexLevelL1)
	mb.Version = "2"
	require.NoError(t, a.WriteManifest(ma))
	require.NoError(t, b.WriteManifest(mb))

	m := merge.New(out)
	_, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{a, b}})
	require.Error(t, err)
	assert.True(t, kddstatus.Is(err, kddstatus.IncompatibleVersion))
}

func TestMergeAcceptsIdenticalHashAcrossSources(t *testing.T) {
	out, a, b := newStore(t), newStore(t), newStore(t)
	node := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h1", IndexedFields: map[string]any{}}
	require.NoError(t, a.WriteNode(node))
	require.NoError(t, b.WriteNode(node))
	require.NoError(t, a.WriteManifest(baseManifest(domain.IndexLevelL1)))
	require.NoError(t, b.WriteManifest(baseManifest(domain.IndexLevelL1)))

	m := merge.New(out)
	result, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{a, b}})
	require.NoError(t, err)
	assert.Zero(t, result.ConflictCount)

	nodes, err := out.ReadAllNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
}

func TestMergeLastWriteWinsOnRealConflict(t *testing.T) {
	out, a, b := newStore(t), newStore(t), newStore(t)

	older := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h1", Status: "draft", IndexedAt: time.Now().Add(-time.Hour), IndexedFields: map[string]any{}}
	newer := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h2", Status: "active", IndexedAt: time.Now(), IndexedFields: map[string]any{}}
	require.NoError(t, a.WriteNode(older))
	require.NoError(t, b.WriteNode(newer))
	require.NoError(t, a.WriteManifest(baseManifest(domain.IndexLevelL2)))
	require.NoError(t, b.WriteManifest(baseManifest(domain.IndexLevelL1)))

	m := merge.New(out)
	result, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{a, b}, Strategy: merge.LastWriteWins})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ConflictCount)
	// Minimum level across L2 and L1 sources is L1.
	assert.Equal(t, domain.IndexLevelL1, result.Manifest.IndexLevel)

	nodes, err := out.ReadAllNodes()
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "active", nodes[0].Status)
}

func TestMergeFailOnConflictRejectsRealConflict(t *testing.T) {
	out, a, b := newStore(t), newStore(t), newStore(t)
	older := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h1", IndexedFields: map[string]any{}}
	newer := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h2", IndexedFields: map[string]any{}}
	require.NoError(t, a.WriteNode(older))
	require.NoError(t, b.WriteNode(newer))
	require.NoError(t, a.WriteManifest(baseManifest(domain.IndexLevelL1)))
	require.NoError(t, b.WriteManifest(baseManifest(domain.IndexLevelL1)))

	m := merge.New(out)
	_, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{a, b}, Strategy: merge.FailOnConflict})
	require.Error(t, err)
	assert.True(t, kddstatus.Is(err, kddstatus.ConflictRejected))
}

func TestMergeCascadeDropsOrphanEdges(t *testing.T) {
	out, a, b := newStore(t), newStore(t), newStore(t)

	order := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h1", IndexedFields: map[string]any{}}
	require.NoError(t, a.WriteNode(order))
	// Edge to a node that exists in no source's node set.
	require.NoError(t, a.AppendEdges([]domain.GraphEdge{
		{FromNode: "Entity:Order", ToNode: "Entity:Ghost", EdgeType: domain.EdgeDomainRelation},
	}))
	require.NoError(t, a.WriteManifest(baseManifest(domain.IndexLevelL1)))
	require.NoError(t, b.WriteManifest(baseManifest(domain.IndexLevelL1)))

	m := merge.New(out)
	_, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{a, b}})
	require.NoError(t, err)

	edges, err := out.ReadAllEdges()
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestMergeDeduplicatesEdgesAcrossSources(t *testing.T) {
	out, a, b := newStore(t), newStore(t), newStore(t)

	order := domain.GraphNode{ID: "Entity:Order", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h1", IndexedFields: map[string]any{}}
	customer := domain.GraphNode{ID: "Entity:Customer", Kind: domain.KindEntity, Layer: domain.LayerDomain, SourceHash: "h2", IndexedFields: map[string]any{}}
	edge := domain.GraphEdge{FromNode: "Entity:Order", ToNode: "Entity:Customer", EdgeType: domain.EdgeDomainRelation}

	require.NoError(t, a.WriteNode(order))
	require.NoError(t, a.WriteNode(customer))
	require.NoError(t, a.AppendEdges([]domain.GraphEdge{edge}))
	require.NoError(t, b.WriteNode(order))
	require.NoError(t, b.WriteNode(customer))
	require.NoError(t, b.AppendEdges([]domain.GraphEdge{edge}))
	require.NoError(t, a.WriteManifest(baseManifest(domain.IndexLevelL1)))
	require.NoError(t, b.WriteManifest(baseManifest(domain.IndexLevelL1)))

	m := merge.New(out)
	_, err := m.Merge(merge.Request{Sources: []*store.FSArtifactStore{a, b}})
	require.NoError(t, err)

	edges, err := out.ReadAllEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}
