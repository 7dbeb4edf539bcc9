package query

import "github.com/c360studio/kdd-engine/domain"

// ViolationsRequest are the QRY-006 inputs.
type ViolationsRequest struct {
	Kinds  []domain.KDDKind
	Layers []domain.Layer
}

// ViolationsResult is the QRY-006 response.
type ViolationsResult struct {
	Violations    []domain.GraphEdge
	TotalEdges    int
	ViolationRate float64
}

// Violations runs QRY-006: enumerates every layer_violation=true edge,
// filtered so that either endpoint must match the kind/layer filter lists
// when supplied.
func (e *Engine) Violations(req ViolationsRequest) ViolationsResult {
	all := e.Graph.AllEdges()

	var violations []domain.GraphEdge
	for _, edge := range all {
		if !edge.LayerViolation {
			continue
		}
		if !e.edgeMatchesEitherEndpoint(edge, req.Kinds, req.Layers) {
			continue
		}
		violations = append(violations, edge)
	}

	var rate float64
	if len(all) > 0 {
		rate = float64(len(violations)) / float64(len(all)) * 100
	}

	return ViolationsResult{
		Violations:    violations,
		TotalEdges:    len(all),
		ViolationRate: rate,
	}
}

func (e *Engine) edgeMatchesEitherEndpoint(edge domain.GraphEdge, kinds []domain.KDDKind, layers []domain.Layer) bool {
	from, fromOK := e.Graph.Node(edge.FromNode)
	to, toOK := e.Graph.Node(edge.ToNode)

	if len(kinds) > 0 {
		matched := (fromOK && matchesKindFilter(from.Kind, kinds)) || (toOK && matchesKindFilter(to.Kind, kinds))
		if !matched {
			return false
		}
	}
	if len(layers) > 0 {
		matched := (fromOK && matchesLayerFilter(from.Layer, layers)) || (toOK && matchesLayerFilter(to.Layer, layers))
		if !matched {
			return false
		}
	}
	return true
}
