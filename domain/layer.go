package domain

import "strings"

// Layer is one of the five strata a spec document belongs to, inferred from
// the first path component of its source path.
type Layer string

const (
	LayerRequirements Layer = "00-requirements"
	LayerDomain       Layer = "01-domain"
	LayerBehavior     Layer = "02-behavior"
	LayerExperience   Layer = "03-experience"
	LayerVerification Layer = "04-verification"
)

var layerIndex = map[Layer]int{
	LayerRequirements: 0,
	LayerDomain:       1,
	LayerBehavior:     2,
	LayerExperience:   3,
	LayerVerification: 4,
}

// LayerIndex returns the numeric ordering (0..4) of a layer, and whether the
// layer is recognized.
func LayerIndex(l Layer) (int, bool) {
	i, ok := layerIndex[l]
	return i, ok
}

// LayerFromPath infers the layer from a repo-relative source path by
// matching its leading path segment against the five fixed prefixes.
func LayerFromPath(relPath string) (Layer, bool) {
	relPath = strings.TrimPrefix(relPath, "./")
	first := relPath
	if idx := strings.IndexByte(relPath, '/'); idx >= 0 {
		first = relPath[:idx]
	}
	switch first {
	case string(LayerRequirements):
		return LayerRequirements, true
	case string(LayerDomain):
		return LayerDomain, true
	case string(LayerBehavior):
		return LayerBehavior, true
	case string(LayerExperience):
		return LayerExperience, true
	case string(LayerVerification):
		return LayerVerification, true
	default:
		return "", false
	}
}
