package query

import (
	"fmt"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/kddstatus"
)

// coverageCategory is one required related-artifact category for a kind,
// e.g. "entity" nodes should have events linked via EMITS.
type coverageCategory struct {
	Name     string
	EdgeType domain.EdgeType
}

// coverageRules is the fixed per-kind governance table (§4.E QRY-005).
var coverageRules = map[domain.KDDKind][]coverageCategory{
	domain.KindEntity: {
		{Name: "events", EdgeType: domain.EdgeEmits},
		{Name: "business_rules", EdgeType: domain.EdgeEntityRule},
		{Name: "use_cases", EdgeType: domain.EdgeWikiLink},
	},
	domain.KindCommand: {
		{Name: "events", EdgeType: domain.EdgeEmits},
		{Name: "use_cases", EdgeType: domain.EdgeUCExecutesCmd},
	},
	domain.KindUseCase: {
		{Name: "commands", EdgeType: domain.EdgeUCExecutesCmd},
		{Name: "rules", EdgeType: domain.EdgeUCAppliesRule},
		{Name: "requirements", EdgeType: domain.EdgeReqTracesTo},
	},
	domain.KindBusinessRule: {
		{Name: "entity", EdgeType: domain.EdgeEntityRule},
		{Name: "use_cases", EdgeType: domain.EdgeUCAppliesRule},
	},
	domain.KindRequirement: {
		{Name: "traces", EdgeType: domain.EdgeReqTracesTo},
	},
}

// CategoryStatus is the coverage result for one category.
type CategoryStatus struct {
	Name      string
	EdgeType  domain.EdgeType
	Status    string // "covered" or "missing"
	Neighbors []domain.GraphNode
}

// CoverageResult is the QRY-005 response.
type CoverageResult struct {
	Node       domain.GraphNode
	Categories []CategoryStatus
	Percentage float64
}

// Coverage runs QRY-005: for each coverage category for the node's kind,
// reports whether any neighbor is connected by the category's edge type.
func (e *Engine) Coverage(nodeID string) (CoverageResult, error) {
	node, ok := e.Graph.Node(nodeID)
	if !ok {
		return CoverageResult{}, kddstatus.New(kddstatus.NodeNotFound, fmt.Sprintf("node %s not found", nodeID))
	}

	rules, ok := coverageRules[node.Kind]
	if !ok {
		return CoverageResult{}, kddstatus.New(kddstatus.UnknownKind, fmt.Sprintf("no coverage rules for kind %s", node.Kind))
	}

	var categories []CategoryStatus
	present, missing := 0, 0

	for _, rule := range rules {
		var neighbors []domain.GraphNode
		for _, edge := range e.Graph.Out(nodeID) {
			if edge.EdgeType == rule.EdgeType {
				if n, ok := e.Graph.Node(edge.ToNode); ok {
					neighbors = append(neighbors, n)
				}
			}
		}
		for _, edge := range e.Graph.In(nodeID) {
			if edge.EdgeType == rule.EdgeType {
				if n, ok := e.Graph.Node(edge.FromNode); ok {
					neighbors = append(neighbors, n)
				}
			}
		}

		status := "missing"
		if len(neighbors) > 0 {
			status = "covered"
			present++
		} else {
			missing++
		}

		categories = append(categories, CategoryStatus{
			Name:      rule.Name,
			EdgeType:  rule.EdgeType,
			Status:    status,
			Neighbors: neighbors,
		})
	}

	var pct float64
	if present+missing > 0 {
		pct = float64(present) / float64(present+missing) * 100
	}

	return CoverageResult{Node: node, Categories: categories, Percentage: pct}, nil
}
