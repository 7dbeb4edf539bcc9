// Package query implements the six retrieval algorithms over a loaded
// graphstore.Store and vectorstore.Store: graph traversal, semantic search,
// hybrid fusion, impact analysis, governance coverage, and layer-violation
// reporting.
package query

import (
	"strings"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/embedmodel"
	"github.com/c360studio/kdd-engine/graphstore"
	"github.com/c360studio/kdd-engine/vectorstore"
)

// Engine answers queries against a loaded graph and vector store. A nil
// EmbeddingModel or VectorStore degrades QRY-002/QRY-003 gracefully instead
// of failing.
type Engine struct {
	Graph          *graphstore.Store
	Vectors        *vectorstore.Store
	EmbeddingModel embedmodel.Model
}

// New returns an Engine over the given stores. embedding may be nil.
func New(graph *graphstore.Store, vectors *vectorstore.Store, embedding embedmodel.Model) *Engine {
	return &Engine{Graph: graph, Vectors: vectors, EmbeddingModel: embedding}
}

func matchesKindFilter(k domain.KDDKind, kinds []domain.KDDKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, allowed := range kinds {
		if k == allowed {
			return true
		}
	}
	return false
}

func matchesLayerFilter(l domain.Layer, layers []domain.Layer) bool {
	if len(layers) == 0 {
		return true
	}
	for _, allowed := range layers {
		if l == allowed {
			return true
		}
	}
	return false
}

// knownPrefixesInLookupOrder mirrors the canonical kind-prefix table so
// QRY-002 can resolve an embedding ID's document ID back to a node by
// trying each prefix in a fixed order.
var knownPrefixesInLookupOrder = []string{
	"Entity", "Event", "BR", "BP", "XP", "CMD", "QRY", "PROC",
	"UC", "UIView", "UIComp", "REQ", "OBJ", "PRD", "ADR",
}

// resolveEmbeddingDocumentID splits an embedding ID of the form
// "{document_id}:chunk-{n}" and returns the document_id portion.
func resolveEmbeddingDocumentID(embeddingID string) string {
	idx := strings.Index(embeddingID, ":chunk-")
	if idx < 0 {
		return embeddingID
	}
	return embeddingID[:idx]
}

// findNodeByDocumentID tries every known kind prefix until a node is found
// whose ID is "{prefix}:{documentID}".
func findNodeByDocumentID(graph *graphstore.Store, documentID string) (domain.GraphNode, bool) {
	for _, prefix := range knownPrefixesInLookupOrder {
		if n, ok := graph.Node(prefix + ":" + documentID); ok {
			return n, true
		}
	}
	return domain.GraphNode{}, false
}

// snippetFor builds a display snippet from a node's indexed "title" field,
// falling back to "{kind} {id}".
func snippetFor(n domain.GraphNode) string {
	if title, ok := n.IndexedFields["title"]; ok {
		if s, ok := title.(string); ok && s != "" {
			return s
		}
	}
	return string(n.Kind) + " " + n.ID
}
