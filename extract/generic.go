package extract

import (
	"fmt"
	"time"

	"github.com/c360studio/kdd-engine/domain"
)

// genericExtractor implements Extractor for a single KDDKind, driven by the
// closed field-rule and edge-rule tables in tables.go and edges.go. Every
// per-kind extractor in the registry is one instance of this type — kinds
// differ only in which rule table they are configured with, mirroring the
// "one trait/interface, no hierarchy" design of the registry.
type genericExtractor struct {
	kind        domain.KDDKind
	fieldRules  []fieldRule
	aliasesKey  string
	statusKey   string
}

func newGenericExtractor(kind domain.KDDKind) *genericExtractor {
	return &genericExtractor{
		kind:       kind,
		fieldRules: kindFieldRules[kind],
		aliasesKey: "aliases",
		statusKey:  "status",
	}
}

func (g *genericExtractor) ExtractNode(doc domain.Document) (domain.GraphNode, []string, error) {
	prefix, ok := domain.KindPrefix(doc.Kind)
	if !ok {
		return domain.GraphNode{}, nil, fmt.Errorf("extract: no node-id prefix for kind %q", doc.Kind)
	}

	indexedFields := make(map[string]any)
	for _, section := range doc.Sections {
		for _, rule := range g.fieldRules {
			if matchesHeading(section.Heading, rule.headings) {
				indexedFields[rule.fieldName] = parseField(section.Content, rule.kind)
			}
		}
	}

	status := "draft"
	if s, ok := doc.FrontMatter[g.statusKey].(string); ok && s != "" {
		status = s
	}

	var aliases []string
	if raw, ok := doc.FrontMatter[g.aliasesKey].([]any); ok {
		for _, a := range raw {
			if s, ok := a.(string); ok {
				aliases = append(aliases, s)
			}
		}
	}

	node := domain.GraphNode{
		ID:            prefix + ":" + doc.ID,
		Kind:          doc.Kind,
		SourceFile:    doc.SourcePath,
		SourceHash:    doc.SourceHash,
		Layer:         doc.Layer,
		Status:        status,
		Aliases:       aliases,
		Domain:        doc.Domain,
		IndexedFields: indexedFields,
		IndexedAt:     time.Now(),
	}

	var warnings []string
	return node, warnings, nil
}

func (g *genericExtractor) ExtractEdges(doc domain.Document) ([]domain.GraphEdge, error) {
	prefix, ok := domain.KindPrefix(doc.Kind)
	if !ok {
		return nil, fmt.Errorf("extract: no node-id prefix for kind %q", doc.Kind)
	}
	fromNodeID := prefix + ":" + doc.ID
	return extractWikiLinkEdges(doc, fromNodeID), nil
}
