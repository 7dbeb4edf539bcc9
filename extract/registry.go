package extract

import (
	"sync"

	"github.com/c360studio/kdd-engine/domain"
)

// Registry manages per-kind extractors.
type Registry struct {
	mu         sync.RWMutex
	extractors map[domain.KDDKind]Extractor
}

// allKindsInOrder lists the 15 recognized kinds, used only to pre-register
// the default extractor set deterministically.
var allKindsInOrder = []domain.KDDKind{
	domain.KindEntity, domain.KindEvent, domain.KindBusinessRule,
	domain.KindBusinessPolicy, domain.KindCrossPolicy, domain.KindCommand,
	domain.KindQuery, domain.KindProcess, domain.KindUseCase,
	domain.KindUIView, domain.KindUIComponent, domain.KindRequirement,
	domain.KindObjective, domain.KindPRD, domain.KindADR,
}

// NewRegistry creates a registry pre-populated with the default extractor
// for all 15 recognized kinds.
func NewRegistry() *Registry {
	r := &Registry{extractors: make(map[domain.KDDKind]Extractor)}
	for _, kind := range allKindsInOrder {
		r.Register(kind, newGenericExtractor(kind))
	}
	return r
}

// Register adds or replaces the extractor for a kind.
func (r *Registry) Register(kind domain.KDDKind, e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors[kind] = e
}

// Get returns the extractor for a kind, or nil if none is registered.
func (r *Registry) Get(kind domain.KDDKind) Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.extractors[kind]
}

// Kinds lists every kind with a registered extractor.
func (r *Registry) Kinds() []domain.KDDKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.KDDKind, 0, len(r.extractors))
	for k := range r.extractors {
		kinds = append(kinds, k)
	}
	return kinds
}
