// Package extract holds the kind-dispatched extractor registry: one
// extractor per KDDKind, each emitting a GraphNode plus a set of
// deduplicated GraphEdges from a parsed Document.
package extract

import "github.com/c360studio/kdd-engine/domain"

// Extractor is the two-operation contract every per-kind extractor
// implements.
type Extractor interface {
	ExtractNode(doc domain.Document) (domain.GraphNode, []string, error)
	ExtractEdges(doc domain.Document) ([]domain.GraphEdge, error)
}
