package extract

import (
	"strings"

	"github.com/c360studio/kdd-engine/domain"
)

// sectionEdgeRule emits an additional typed edge for every wiki-link found
// within a matching section, on top of the universal WIKI_LINK edge every
// wiki-link in the body always produces.
type sectionEdgeRule struct {
	headings           []string
	edgeType           domain.EdgeType
	targetPrefixFilter string // e.g. "EVT-"; empty means no filter.
	excludeKnownPrefix bool   // only non-prefixed (default-Entity) targets.
	anySectionInBody   bool   // ignore headings, scan the whole document.
}

// kindEdgeRules is the closed per-kind table of section-scoped edge rules.
var kindEdgeRules = map[domain.KDDKind][]sectionEdgeRule{
	domain.KindEntity: {
		{headings: []string{"relaciones", "relations"}, edgeType: domain.EdgeDomainRelation},
		{headings: []string{"ciclo de vida", "eventos del ciclo de vida", "life cycle", "lifecycle events"}, edgeType: domain.EdgeEmits, targetPrefixFilter: "EVT-"},
	},
	domain.KindBusinessRule: {
		{headings: []string{"declaración", "declaracion", "declaration"}, edgeType: domain.EdgeEntityRule, excludeKnownPrefix: true},
	},
	domain.KindUseCase: {
		{headings: []string{"reglas aplicadas", "applied rules"}, edgeType: domain.EdgeUCAppliesRule},
		{headings: []string{"comandos ejecutados", "executed commands"}, edgeType: domain.EdgeUCExecutesCmd},
		{anySectionInBody: true, edgeType: domain.EdgeUCStory, targetPrefixFilter: "OBJ-"},
	},
	domain.KindCommand: {
		{headings: []string{"postconditions", "postcondiciones"}, edgeType: domain.EdgeEmits, targetPrefixFilter: "EVT-"},
	},
}

// resolveTargetNodeID maps a raw wiki-link target to a full node ID using
// the known-prefix heuristic.
func resolveTargetNodeID(target string) string {
	prefix := domain.ResolveWikiLinkPrefix(target)
	if prefix == "Entity" && !strings.HasPrefix(target, "Entity:") {
		return "Entity:" + target
	}
	return prefix + ":" + target
}

// guessDestinationLayer infers a target node's layer from its resolved
// node-ID prefix, defaulting to the entity kind's layer (01-domain) when the
// prefix maps to no known kind (best-effort, used only for the
// layer_violation flag).
func guessDestinationLayer(targetPrefix string) domain.Layer {
	kind, ok := domain.KindForPrefix(targetPrefix)
	if !ok {
		return domain.LayerDomain
	}
	switch kind {
	// Requirement-kind nodes are conventionally filed as verification
	// artifacts (acceptance criteria traced from 00-requirements), so a
	// wiki-link resolving to REQ- guesses the verification layer.
	case domain.KindRequirement:
		return domain.LayerVerification
	case domain.KindEntity, domain.KindEvent, domain.KindBusinessRule, domain.KindBusinessPolicy, domain.KindCrossPolicy:
		return domain.LayerDomain
	case domain.KindCommand, domain.KindQuery, domain.KindProcess, domain.KindUseCase:
		return domain.LayerBehavior
	case domain.KindUIView, domain.KindUIComponent:
		return domain.LayerExperience
	default:
		return domain.LayerDomain
	}
}

// extractWikiLinkEdges builds the universal WIKI_LINK edge set (strategy 1)
// plus every section-scoped edge (strategy 2) for a document, deduplicated
// by (from, to, type).
func extractWikiLinkEdges(doc domain.Document, fromNodeID string) []domain.GraphEdge {
	seen := make(map[domain.EdgeKey]bool)
	var edges []domain.GraphEdge

	addEdge := func(toNodeID string, edgeType domain.EdgeType, method domain.ExtractionMethod) {
		key := domain.EdgeKey{From: fromNodeID, To: toNodeID, Type: edgeType}
		if seen[key] {
			return
		}
		seen[key] = true

		destPrefix := strings.SplitN(toNodeID, ":", 2)[0]
		destLayer := guessDestinationLayer(destPrefix)
		violation := domain.IsLayerViolation(doc.Layer, destLayer)

		edges = append(edges, domain.GraphEdge{
			FromNode:         fromNodeID,
			ToNode:           toNodeID,
			EdgeType:         edgeType,
			SourceFile:       doc.SourcePath,
			ExtractionMethod: method,
			LayerViolation:   violation,
		})
	}

	for _, link := range doc.WikiLinks {
		toNodeID := resolveTargetNodeID(link.Target)
		addEdge(toNodeID, domain.EdgeWikiLink, domain.ExtractionWikiLink)
	}

	for _, rule := range kindEdgeRules[doc.Kind] {
		for _, link := range doc.WikiLinks {
			if !rule.anySectionInBody && !matchesHeading(link.Section, rule.headings) {
				continue
			}
			if rule.targetPrefixFilter != "" && !strings.HasPrefix(link.Target, rule.targetPrefixFilter) {
				continue
			}
			if rule.excludeKnownPrefix {
				if _, known := domain.KindForPrefix(domain.ResolveWikiLinkPrefix(link.Target)); known && domain.ResolveWikiLinkPrefix(link.Target) != "Entity" {
					continue
				}
			}
			addEdge(resolveTargetNodeID(link.Target), rule.edgeType, domain.ExtractionSectionContent)
		}
	}

	return edges
}
