package domain

import (
	"strconv"
	"time"
)

// Section is a heading plus the raw text under it, until the next heading of
// equal or lower level.
type Section struct {
	Heading string
	Level   int
	Content string
	// Path is the dot-joined, lowercased slug of the heading ancestry
	// (including self), e.g. "descripcion.atributos".
	Path string
}

// Document is a parsed spec file, immutable after parsing and owned by the
// indexing pipeline for the duration of a single call.
type Document struct {
	ID          string
	Kind        KDDKind
	SourcePath  string
	SourceHash  string
	Layer       Layer
	FrontMatter map[string]any
	Sections    []Section
	WikiLinks   []WikiLink
	Domain      string
}

// WikiLink is a parsed `[[target]]` / `[[domain::target|alias]]` reference.
type WikiLink struct {
	Domain  string
	Target  string
	Alias   string
	Section string // Lowercased heading of the Section the link was found in, if any.
}

// GraphNode is an entry in the knowledge graph.
type GraphNode struct {
	ID            string
	Kind          KDDKind
	SourceFile    string
	SourceHash    string
	Layer         Layer
	Status        string
	Aliases       []string
	Domain        string
	IndexedFields map[string]any
	IndexedAt     time.Time
}

// GraphEdge is a directed, typed relationship between two GraphNodes.
type GraphEdge struct {
	FromNode         string
	ToNode           string
	EdgeType         EdgeType
	SourceFile       string
	ExtractionMethod ExtractionMethod
	Metadata         map[string]any
	LayerViolation   bool
	Bidirectional    bool
}

// Embedding is a semantic vector for one chunk of an embeddable section.
type Embedding struct {
	ID           string
	DocumentID   string
	DocumentKind KDDKind
	SectionPath  string
	ChunkIndex   int
	RawText      string
	ContextText  string
	Vector       []float32
	Model        string
	Dimensions   int
	TextHash     string
	GeneratedAt  time.Time
}

// IndexStructure distinguishes a single-domain index from a multi-domain
// (federated) one.
type IndexStructure string

const (
	StructureSingleDomain IndexStructure = "single-domain"
	StructureMultiDomain  IndexStructure = "multi-domain"
)

// IndexLevel is the progressive completeness of an index: graph only, graph
// plus embeddings, or graph plus embeddings plus agent enrichment.
type IndexLevel string

const (
	IndexLevelL1 IndexLevel = "L1"
	IndexLevelL2 IndexLevel = "L2"
	IndexLevelL3 IndexLevel = "L3"
)

// IndexStats summarizes artifact counts for a manifest.
type IndexStats struct {
	NodeCount      int `json:"node_count"`
	EdgeCount      int `json:"edge_count"`
	EmbeddingCount int `json:"embedding_count"`
}

// IndexManifest describes one `.kdd-index/` directory.
type IndexManifest struct {
	Version             string         `json:"version"`
	KDDVersion          string         `json:"kdd_version"`
	EmbeddingModel       string         `json:"embedding_model,omitempty"`
	EmbeddingDimensions  int            `json:"embedding_dimensions,omitempty"`
	IndexedAt           time.Time      `json:"indexed_at"`
	IndexedBy           string         `json:"indexed_by"`
	Structure           IndexStructure `json:"structure"`
	IndexLevel          IndexLevel     `json:"index_level"`
	Stats               IndexStats     `json:"stats"`
	Domains             []string       `json:"domains,omitempty"`
	GitCommit           string         `json:"git_commit,omitempty"`
}

// CacheKey is a lightweight fingerprint of a manifest used by the index
// loader to skip reloading unchanged state.
func (m *IndexManifest) CacheKey() string {
	return m.IndexedAt.Format(time.RFC3339Nano) + "/" +
		strconv.Itoa(m.Stats.NodeCount) + "/" + strconv.Itoa(m.Stats.EdgeCount)
}
