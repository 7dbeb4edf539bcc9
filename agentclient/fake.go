package agentclient

import "context"

// Fake is a deterministic in-memory Client for tests: it returns a canned
// Enrichment per node ID, or a zero-value Enrichment when none is set.
type Fake struct {
	Responses map[string]Enrichment
	Err       error
}

// NewFake returns an empty Fake client.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]Enrichment)}
}

func (f *Fake) Enrich(_ context.Context, nodeID string, _ string) (Enrichment, error) {
	if f.Err != nil {
		return Enrichment{}, f.Err
	}
	return f.Responses[nodeID], nil
}
