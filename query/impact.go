package query

import (
	"fmt"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/graphstore"
	"github.com/c360studio/kdd-engine/kddstatus"
)

// impactDescriptions maps an incoming edge type to a human-readable
// description of how the source node depends on the target.
var impactDescriptions = map[domain.EdgeType]string{
	domain.EdgeEntityRule:    "Business rule validates this entity",
	domain.EdgeUCAppliesRule: "Use case applies this rule",
	domain.EdgeUCExecutesCmd: "Use case executes this command",
	domain.EdgeEmits:         "Emits this event",
	domain.EdgeConsumes:      "Consumes this event",
	domain.EdgeDomainRelation: "Domain entity relates to this node",
	domain.EdgeWikiLink:      "References this node",
	domain.EdgeUCStory:       "Use case traces to this objective",
	domain.EdgeReqTracesTo:   "Requirement traces to this node",
	domain.EdgeValidates:     "Validates this node",
}

func describeImpact(t domain.EdgeType) string {
	if desc, ok := impactDescriptions[t]; ok {
		return desc
	}
	return "Depends on this node"
}

// DirectDependent is a node with an incoming edge to the impact target.
type DirectDependent struct {
	Node        domain.GraphNode
	EdgeType    domain.EdgeType
	Description string
}

// TransitiveDependent is a node reached by a multi-hop incoming-edge chain
// from the impact target.
type TransitiveDependent struct {
	Node      domain.GraphNode
	PathNodes []string
	PathEdges []domain.EdgeType
}

// ScenarioToRerun is a VALIDATES-edge source node affected by the change.
type ScenarioToRerun struct {
	Node   domain.GraphNode
	Reason string
}

// ImpactRequest are the QRY-004 inputs.
type ImpactRequest struct {
	NodeID     string
	Depth      int // default 3
	ChangeType string
}

// ImpactResult is the QRY-004 response.
type ImpactResult struct {
	Target       domain.GraphNode
	Direct       []DirectDependent
	Transitive   []TransitiveDependent
	ScenariosToRerun []ScenarioToRerun
}

// Impact runs QRY-004: direct incoming-edge dependents, transitive
// incoming-edge dependents beyond depth 1, and VALIDATES scenarios touching
// any affected node.
func (e *Engine) Impact(req ImpactRequest) (ImpactResult, error) {
	depth := req.Depth
	if depth <= 0 {
		depth = 3
	}

	target, ok := e.Graph.Node(req.NodeID)
	if !ok {
		return ImpactResult{}, kddstatus.New(kddstatus.NodeNotFound, fmt.Sprintf("node %s not found", req.NodeID))
	}

	hops := e.Graph.BFS(req.NodeID, depth, graphstore.Incoming)

	affected := map[string]bool{req.NodeID: true}
	var direct []DirectDependent
	var transitive []TransitiveDependent

	pathFrom := make(map[string][]string)
	edgeTypesFrom := make(map[string][]domain.EdgeType)

	for _, hop := range hops {
		affected[hop.Node.ID] = true

		if hop.Depth == 1 {
			direct = append(direct, DirectDependent{
				Node:        hop.Node,
				EdgeType:    hop.Edge.EdgeType,
				Description: describeImpact(hop.Edge.EdgeType),
			})
			pathFrom[hop.Node.ID] = []string{req.NodeID, hop.Node.ID}
			edgeTypesFrom[hop.Node.ID] = []domain.EdgeType{hop.Edge.EdgeType}
			continue
		}

		priorPath, havePrior := pathFrom[hop.Edge.ToNode]
		priorEdges := edgeTypesFrom[hop.Edge.ToNode]
		if !havePrior {
			priorPath = []string{req.NodeID}
		}
		fullPath := append(append([]string{}, priorPath...), hop.Node.ID)
		fullEdges := append(append([]domain.EdgeType{}, priorEdges...), hop.Edge.EdgeType)

		pathFrom[hop.Node.ID] = fullPath
		edgeTypesFrom[hop.Node.ID] = fullEdges

		transitive = append(transitive, TransitiveDependent{
			Node:      hop.Node,
			PathNodes: fullPath,
			PathEdges: fullEdges,
		})
	}

	var scenarios []ScenarioToRerun
	for _, edge := range e.Graph.AllEdges() {
		if edge.EdgeType != domain.EdgeValidates {
			continue
		}
		if affected[edge.ToNode] {
			if src, ok := e.Graph.Node(edge.FromNode); ok {
				scenarios = append(scenarios, ScenarioToRerun{
					Node:   src,
					Reason: fmt.Sprintf("validates %s, affected by change to %s", edge.ToNode, req.NodeID),
				})
			}
		}
	}

	return ImpactResult{
		Target:           target,
		Direct:           direct,
		Transitive:       transitive,
		ScenariosToRerun: scenarios,
	}, nil
}
