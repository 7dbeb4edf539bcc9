package domain

import (
	"strings"
	"time"
)

// RouteResult is the outcome of the Kind Router: either a recognized kind
// (possibly with a location warning) or a silent skip.
type RouteResult struct {
	Kind    KDDKind
	Skipped bool
	Warning string
}

// RouteKind inspects front-matter and a source path to decide which
// extractor, if any, should handle a document. Missing front-matter or an
// unrecognized kind both skip the document silently (no warning). A
// recognized kind filed outside its conventional path segment is still
// routed, with a location warning attached.
func RouteKind(frontMatter map[string]any, sourcePath string) RouteResult {
	raw, ok := frontMatter["kind"]
	if !ok {
		return RouteResult{Skipped: true}
	}
	rawStr, ok := raw.(string)
	if !ok {
		return RouteResult{Skipped: true}
	}
	kind, ok := ParseKind(rawStr)
	if !ok {
		return RouteResult{Skipped: true}
	}
	result := RouteResult{Kind: kind}
	if expected, ok := ExpectedPathSegment(kind); ok {
		normalized := strings.ReplaceAll(sourcePath, "\\", "/")
		if !strings.Contains(normalized, expected) {
			result.Warning = "document kind " + string(kind) +
				" expected under a path containing " + expected +
				", found at " + sourcePath
		}
	}
	return result
}

// embeddableSections is the closed per-kind mapping from KDDKind to the set
// of section-heading keywords (lowercased, Spanish/English variants) that
// should produce embeddings. Event never embeds.
var embeddableSections = map[KDDKind]map[string]bool{
	KindEntity: set("descripción", "description"),
	KindEvent:  {},
	KindBusinessRule:   set("declaración", "declaration", "cuándo aplica", "when applies"),
	KindBusinessPolicy: set("declaración", "declaration"),
	KindCrossPolicy:    set("propósito", "purpose", "declaración", "declaration"),
	KindCommand:        set("purpose", "propósito"),
	KindQuery:          set("purpose", "propósito"),
	KindProcess:        set("participantes", "participants", "pasos", "steps"),
	KindUseCase:        set("descripción", "description", "flujo principal", "main flow"),
	KindUIView:         set("descripción", "description", "comportamiento", "behavior"),
	KindUIComponent:    set("descripción", "description"),
	KindRequirement:    set("descripción", "description"),
	KindObjective:      set("objetivo", "objective"),
	KindPRD:            set("problema", "oportunidad", "problem", "opportunity"),
	KindADR:            set("contexto", "context", "decisión", "decision"),
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// EmbeddableSections returns the set of section-heading keywords (already
// lowercased) that should produce embeddings for a kind. The event kind
// always returns an empty, non-nil set.
func EmbeddableSections(k KDDKind) map[string]bool {
	if s, ok := embeddableSections[k]; ok {
		return s
	}
	return map[string]bool{}
}

// IndexLevelFor returns the achievable index level given port availability.
// An agent API without an embedding model degrades to L1 — both are
// required for L3.
func IndexLevelFor(embeddingModelAvailable, agentAPIAvailable bool) IndexLevel {
	switch {
	case embeddingModelAvailable && agentAPIAvailable:
		return IndexLevelL3
	case embeddingModelAvailable:
		return IndexLevelL2
	default:
		return IndexLevelL1
	}
}

// IsLayerViolation reports whether an edge from origin to destination
// crosses layers in the forbidden direction: origin is not the requirements
// layer and its numeric index is strictly less than the destination's.
// Requirements-layer and same-layer edges never violate.
func IsLayerViolation(origin, destination Layer) bool {
	if origin == LayerRequirements {
		return false
	}
	originIdx, ok := LayerIndex(origin)
	if !ok {
		return false
	}
	destIdx, ok := LayerIndex(destination)
	if !ok {
		return false
	}
	return originIdx < destIdx
}

// MergeResolution is the outcome of resolving a node-ID conflict across
// multiple source candidates.
type MergeResolution struct {
	WinnerIndex int
	Reason      string
}

// NodeCandidate is a node version from one merge source, keyed by its
// position in the caller's candidate slice.
type NodeCandidate struct {
	SourceHash string
	IndexedAt  time.Time
}

// ResolveMergeConflict picks a winner among two or more candidates for the
// same node ID. If every candidate's SourceHash agrees, any candidate wins
// ("identical"); otherwise the candidate with the maximum IndexedAt wins
// ("last-write-wins").
func ResolveMergeConflict(candidates []NodeCandidate) MergeResolution {
	if len(candidates) == 0 {
		return MergeResolution{WinnerIndex: -1}
	}
	identical := true
	for i := 1; i < len(candidates); i++ {
		if candidates[i].SourceHash != candidates[0].SourceHash {
			identical = false
			break
		}
	}
	if identical {
		return MergeResolution{WinnerIndex: 0, Reason: "identical"}
	}
	winner := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].IndexedAt.After(candidates[winner].IndexedAt) {
			winner = i
		}
	}
	return MergeResolution{WinnerIndex: winner, Reason: "last-write-wins"}
}
