// Package merge implements the merge engine: combining two or more
// independently produced `.kdd-index/` artifact stores into one, with
// last-write-wins conflict resolution (the domain package's pure
// ResolveMergeConflict rule) and a cascade drop of edges whose endpoints are
// not in the merged node set. A node present in any source is kept; its
// absence from another source does not delete it.
package merge

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/kddstatus"
	"github.com/c360studio/kdd-engine/metrics"
	"github.com/c360studio/kdd-engine/store"
)

// Strategy selects how real node conflicts (differing source_hash) are
// resolved.
type Strategy string

const (
	LastWriteWins  Strategy = "last_write_wins"
	FailOnConflict Strategy = "fail_on_conflict"
)

// Request is the merge engine's input.
type Request struct {
	Sources  []*store.FSArtifactStore
	Strategy Strategy
}

// Result summarizes a completed merge.
type Result struct {
	// RequestID correlates this merge's log lines across the sources it
	// combined; it has no meaning across separate merge calls.
	RequestID     string
	Manifest      domain.IndexManifest
	ConflictCount int
}

// Merger runs merges against an output artifact store.
type Merger struct {
	Output  *store.FSArtifactStore
	Metrics *metrics.Metrics // optional
}

// New returns a Merger writing to output.
func New(output *store.FSArtifactStore) *Merger {
	return &Merger{Output: output}
}

type sourceManifest struct {
	manifest domain.IndexManifest
	nodes    []domain.GraphNode
	edges    []domain.GraphEdge
	embeddings []domain.Embedding
}

// Merge runs the full merge algorithm (§4.F): manifest compatibility check,
// node merge with conflict resolution, edge merge with dedup and
// cascade-drop of orphans, embedding merge aligned to the winning node, and
// a new output manifest whose index_level is the minimum across sources.
func (m *Merger) Merge(req Request) (Result, error) {
	requestID := uuid.New().String()
	if len(req.Sources) < 2 {
		return Result{}, kddstatus.New(kddstatus.InsufficientSources, "merge requires at least two sources")
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = LastWriteWins
	}

	sources := make([]sourceManifest, 0, len(req.Sources))
	for i, src := range req.Sources {
		manifest, err := src.ReadManifest()
		if err != nil {
			return Result{}, fmt.Errorf("merge: read manifest %d: %w", i, err)
		}
		if manifest == nil {
			return Result{}, kddstatus.New(kddstatus.ManifestNotFound, fmt.Sprintf("source %d has no manifest", i))
		}
		nodes, err := src.ReadAllNodes()
		if err != nil {
			return Result{}, fmt.Errorf("merge: read nodes %d: %w", i, err)
		}
		edges, err := src.ReadAllEdges()
		if err != nil {
			return Result{}, fmt.Errorf("merge: read edges %d: %w", i, err)
		}
		embeddings, err := src.ReadAllEmbeddings()
		if err != nil {
			return Result{}, fmt.Errorf("merge: read embeddings %d: %w", i, err)
		}
		sources = append(sources, sourceManifest{manifest: *manifest, nodes: nodes, edges: edges, embeddings: embeddings})
	}

	if err := checkCompatible(sources); err != nil {
		return Result{}, err
	}

	winners, conflictCount, err := mergeNodes(sources, strategy)
	if err != nil {
		return Result{}, err
	}

	survivingNodes := make(map[string]bool, len(winners))
	mergedNodes := make([]domain.GraphNode, 0, len(winners))
	winnerSource := make(map[string]int, len(winners))
	for id, w := range winners {
		survivingNodes[id] = true
		mergedNodes = append(mergedNodes, w.node)
		winnerSource[id] = w.sourceIdx
	}

	mergedEdges := mergeEdges(sources, survivingNodes)
	mergedEmbeddings := mergeEmbeddings(sources, winnerSource)

	for _, n := range mergedNodes {
		if err := m.Output.WriteNode(n); err != nil {
			return Result{}, fmt.Errorf("merge: write node %s: %w", n.ID, err)
		}
	}
	if err := m.Output.AppendEdges(mergedEdges); err != nil {
		return Result{}, fmt.Errorf("merge: append edges: %w", err)
	}
	byDoc := groupEmbeddingsByNode(mergedEmbeddings, mergedNodes)
	for docKey, embs := range byDoc {
		if err := m.Output.WriteEmbeddings(docKey.kind, docKey.docID, embs); err != nil {
			return Result{}, fmt.Errorf("merge: write embeddings for %s: %w", docKey.docID, err)
		}
	}

	level := minimumLevel(sources)
	manifest := domain.IndexManifest{
		Version:    sources[0].manifest.Version,
		KDDVersion: sources[0].manifest.KDDVersion,
		IndexedAt:  time.Now(),
		IndexedBy:  "kdd-merge",
		Structure:  sources[0].manifest.Structure,
		IndexLevel: level,
		Stats: domain.IndexStats{
			NodeCount:      len(mergedNodes),
			EdgeCount:      len(mergedEdges),
			EmbeddingCount: len(mergedEmbeddings),
		},
		EmbeddingModel:      sources[0].manifest.EmbeddingModel,
		EmbeddingDimensions: sources[0].manifest.EmbeddingDimensions,
		Domains:             mergedDomains(sources),
	}
	if err := m.Output.WriteManifest(manifest); err != nil {
		return Result{}, fmt.Errorf("merge: write manifest: %w", err)
	}

	if m.Metrics != nil && conflictCount > 0 {
		m.Metrics.MergeConflicts.Add(float64(conflictCount))
	}

	return Result{RequestID: requestID, Manifest: manifest, ConflictCount: conflictCount}, nil
}

func checkCompatible(sources []sourceManifest) error {
	first := sources[0].manifest
	firstMajor := majorVersion(first.Version)
	for _, s := range sources[1:] {
		if majorVersion(s.manifest.Version) != firstMajor {
			return kddstatus.New(kddstatus.IncompatibleVersion,
				fmt.Sprintf("major version mismatch: %s vs %s", first.Version, s.manifest.Version))
		}
		if s.manifest.EmbeddingModel != first.EmbeddingModel {
			return kddstatus.New(kddstatus.IncompatibleEmbeddingModel,
				fmt.Sprintf("embedding model mismatch: %s vs %s", first.EmbeddingModel, s.manifest.EmbeddingModel))
		}
		if s.manifest.Structure != first.Structure {
			return kddstatus.New(kddstatus.IncompatibleStructure,
				fmt.Sprintf("structure mismatch: %s vs %s", first.Structure, s.manifest.Structure))
		}
	}
	return nil
}

func majorVersion(v string) string {
	if idx := strings.IndexByte(v, '.'); idx >= 0 {
		return v[:idx]
	}
	return v
}

type nodeWinner struct {
	node      domain.GraphNode
	sourceIdx int
}

func mergeNodes(sources []sourceManifest, strategy Strategy) (map[string]nodeWinner, int, error) {
	type candidate struct {
		node      domain.GraphNode
		sourceIdx int
	}
	byID := make(map[string][]candidate)
	for si, s := range sources {
		for _, n := range s.nodes {
			byID[n.ID] = append(byID[n.ID], candidate{node: n, sourceIdx: si})
		}
	}

	winners := make(map[string]nodeWinner, len(byID))
	conflictCount := 0
	for id, candidates := range byID {
		if len(candidates) == 1 {
			winners[id] = nodeWinner{node: candidates[0].node, sourceIdx: candidates[0].sourceIdx}
			continue
		}

		identical := true
		for i := 1; i < len(candidates); i++ {
			if candidates[i].node.SourceHash != candidates[0].node.SourceHash {
				identical = false
				break
			}
		}
		if identical {
			winners[id] = nodeWinner{node: candidates[0].node, sourceIdx: candidates[0].sourceIdx}
			continue
		}

		conflictCount++
		if strategy == FailOnConflict {
			return nil, 0, kddstatus.New(kddstatus.ConflictRejected, fmt.Sprintf("node %s has conflicting versions across sources", id))
		}

		resolutionCandidates := make([]domain.NodeCandidate, len(candidates))
		for i, c := range candidates {
			resolutionCandidates[i] = domain.NodeCandidate{SourceHash: c.node.SourceHash, IndexedAt: c.node.IndexedAt}
		}
		resolution := domain.ResolveMergeConflict(resolutionCandidates)
		winner := candidates[resolution.WinnerIndex]
		winners[id] = nodeWinner{node: winner.node, sourceIdx: winner.sourceIdx}
	}
	return winners, conflictCount, nil
}

func mergeEdges(sources []sourceManifest, survivingNodes map[string]bool) []domain.GraphEdge {
	seen := make(map[domain.EdgeKey]bool)
	var merged []domain.GraphEdge
	for _, s := range sources {
		for _, e := range s.edges {
			if !survivingNodes[e.FromNode] || !survivingNodes[e.ToNode] {
				continue
			}
			key := e.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, e)
		}
	}
	return merged
}

func mergeEmbeddings(sources []sourceManifest, winnerSource map[string]int) []domain.Embedding {
	var merged []domain.Embedding
	for docID, srcIdx := range winnerSource {
		for _, emb := range sources[srcIdx].embeddings {
			if emb.DocumentID == documentIDOf(docID) {
				merged = append(merged, emb)
			}
		}
	}
	return merged
}

// documentIDOf strips the "{Prefix}:" portion of a node ID to recover the
// document ID embeddings are keyed by.
func documentIDOf(nodeID string) string {
	if idx := strings.IndexByte(nodeID, ':'); idx >= 0 {
		return nodeID[idx+1:]
	}
	return nodeID
}

type embeddingDocKey struct {
	kind  domain.KDDKind
	docID string
}

func groupEmbeddingsByNode(embeddings []domain.Embedding, nodes []domain.GraphNode) map[embeddingDocKey][]domain.Embedding {
	kindByDocID := make(map[string]domain.KDDKind, len(nodes))
	for _, n := range nodes {
		kindByDocID[documentIDOf(n.ID)] = n.Kind
	}
	grouped := make(map[embeddingDocKey][]domain.Embedding)
	for _, e := range embeddings {
		kind, ok := kindByDocID[e.DocumentID]
		if !ok {
			continue
		}
		key := embeddingDocKey{kind: kind, docID: e.DocumentID}
		grouped[key] = append(grouped[key], e)
	}
	return grouped
}

var levelOrder = map[domain.IndexLevel]int{
	domain.IndexLevelL1: 1,
	domain.IndexLevelL2: 2,
	domain.IndexLevelL3: 3,
}

// minimumLevel returns the weakest index_level across sources: any L1 makes
// the merged output L1, else any L2 makes it L2, else L3.
func minimumLevel(sources []sourceManifest) domain.IndexLevel {
	min := domain.IndexLevelL3
	minRank := levelOrder[min]
	for _, s := range sources {
		rank, ok := levelOrder[s.manifest.IndexLevel]
		if !ok {
			continue
		}
		if rank < minRank {
			minRank = rank
			min = s.manifest.IndexLevel
		}
	}
	return min
}

func mergedDomains(sources []sourceManifest) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sources {
		for _, d := range s.manifest.Domains {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}
