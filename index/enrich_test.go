package index_test

import (
	"context"
	"testing"

	"github.com/c360studio/kdd-engine/agentclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrichWithAgentPersistsSummaryAndImplicitEdges(t *testing.T) {
	p, _ := newPipeline(t)
	ctx := context.Background()

	_, err := p.IndexDocument(ctx, "01-domain/entities/Order.md", []byte(orderEntityMD))
	require.NoError(t, err)

	fake := agentclient.NewFake()
	fake.Responses["Entity:Order"] = agentclient.Enrichment{
		Summary: "Orders represent a customer's purchase intent.",
		ImplicitRelations: []agentclient.ImplicitRelation{
			{Target: "Entity:Customer", EdgeType: "DOMAIN_RELATION"},
		},
	}
	p.Agent = fake

	result, err := p.EnrichWithAgent(ctx, "Entity:Order")
	require.NoError(t, err)
	assert.Equal(t, "Orders represent a customer's purchase intent.", result.Summary)
	assert.Equal(t, 1, result.ImplicitRelations)

	node, err := p.Store.ReadNode("Entity:Order")
	require.NoError(t, err)
	assert.Equal(t, "Orders represent a customer's purchase intent.", node.IndexedFields["agent_summary"])

	edges, err := p.Store.ReadAllEdges()
	require.NoError(t, err)
	found := false
	for _, e := range edges {
		if e.ToNode == "Entity:Customer" && e.ExtractionMethod == "implicit" {
			found = true
		}
	}
	assert.True(t, found, "expected an implicit edge to Entity:Customer")
}

func TestEnrichWithAgentRequiresConfiguredClient(t *testing.T) {
	p, _ := newPipeline(t)
	_, err := p.EnrichWithAgent(context.Background(), "Entity:Order")
	assert.Error(t, err)
}
