package domain

// EdgeType names a directed relationship between two GraphNodes. Structural
// edge types are drawn from a closed SCREAMING_SNAKE set; business edge
// types are free-form lowercase_snake strings authored by spec writers and
// are carried verbatim (not validated against any closed set).
type EdgeType string

// Structural edge types, mechanically extracted from document structure.
const (
	EdgeWikiLink       EdgeType = "WIKI_LINK"
	EdgeDomainRelation EdgeType = "DOMAIN_RELATION"
	EdgeEntityRule     EdgeType = "ENTITY_RULE"
	EdgeEmits          EdgeType = "EMITS"
	EdgeConsumes       EdgeType = "CONSUMES"
	EdgeUCAppliesRule  EdgeType = "UC_APPLIES_RULE"
	EdgeUCExecutesCmd  EdgeType = "UC_EXECUTES_CMD"
	EdgeUCStory        EdgeType = "UC_STORY"
	EdgeReqTracesTo    EdgeType = "REQ_TRACES_TO"
	EdgeValidates      EdgeType = "VALIDATES"
)

// structuralEdgeTypes is the closed set used to distinguish structural from
// business edges, e.g. when reporting a business edge verbatim.
var structuralEdgeTypes = map[EdgeType]bool{
	EdgeWikiLink: true, EdgeDomainRelation: true, EdgeEntityRule: true,
	EdgeEmits: true, EdgeConsumes: true, EdgeUCAppliesRule: true,
	EdgeUCExecutesCmd: true, EdgeUCStory: true, EdgeReqTracesTo: true,
	EdgeValidates: true,
}

// IsStructural reports whether an edge type belongs to the closed
// structural set rather than being a free-form business edge type.
func IsStructural(t EdgeType) bool {
	return structuralEdgeTypes[t]
}

// ExtractionMethod records how a GraphEdge was derived.
type ExtractionMethod string

const (
	ExtractionWikiLink       ExtractionMethod = "wiki_link"
	ExtractionSectionContent ExtractionMethod = "section_content"
	ExtractionImplicit       ExtractionMethod = "implicit"
)

// EdgeKey is the deduplication identity of an edge: at most one edge exists
// per (from, to, type) triple in any index.
type EdgeKey struct {
	From string
	To   string
	Type EdgeType
}

// Key returns the edge's deduplication identity.
func (e *GraphEdge) Key() EdgeKey {
	return EdgeKey{From: e.FromNode, To: e.ToNode, Type: e.EdgeType}
}
