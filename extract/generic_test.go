package extract

import (
	"testing"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDoc(t *testing.T, kind domain.KDDKind, id, sourcePath, body string) domain.Document {
	t.Helper()
	return parser.BuildDocument(kind, id, sourcePath, []byte(body), map[string]any{"kind": string(kind), "id": id}, body)
}

func TestEntityScenario1(t *testing.T) {
	body := "## Descripción\nAn order entity.\n## Atributos\n| id | uuid | primary key |\n"
	doc := buildDoc(t, domain.KindEntity, "Order", "01-domain/entities/Order.md", body)

	registry := NewRegistry()
	extractor := registry.Get(domain.KindEntity)
	require.NotNil(t, extractor)

	node, warnings, err := extractor.ExtractNode(doc)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Entity:Order", node.ID)
	assert.Equal(t, domain.LayerDomain, node.Layer)
	assert.Equal(t, "An order entity.", node.IndexedFields["description"])

	rows, ok := node.IndexedFields["attributes"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	row, ok := rows[0].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"id", "uuid", "primary key"}, row)

	edges, err := extractor.ExtractEdges(doc)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestUseCaseScenario2(t *testing.T) {
	body := "## Reglas Aplicadas\n[[BR-DOCUMENT-001]]\n## Comandos Ejecutados\n[[CMD-001]]\n"
	doc := buildDoc(t, domain.KindUseCase, "UC-001", "02-behavior/use-cases/UC-001.md", body)

	registry := NewRegistry()
	extractor := registry.Get(domain.KindUseCase)
	require.NotNil(t, extractor)

	edges, err := extractor.ExtractEdges(doc)
	require.NoError(t, err)
	assert.Len(t, edges, 4)

	byKey := make(map[domain.EdgeKey]domain.GraphEdge)
	for _, e := range edges {
		byKey[e.Key()] = e
	}

	assert.Contains(t, byKey, domain.EdgeKey{From: "UC:UC-001", To: "BR:BR-DOCUMENT-001", Type: domain.EdgeUCAppliesRule})
	assert.Contains(t, byKey, domain.EdgeKey{From: "UC:UC-001", To: "BR:BR-DOCUMENT-001", Type: domain.EdgeWikiLink})
	assert.Contains(t, byKey, domain.EdgeKey{From: "UC:UC-001", To: "CMD:CMD-001", Type: domain.EdgeUCExecutesCmd})
	assert.Contains(t, byKey, domain.EdgeKey{From: "UC:UC-001", To: "CMD:CMD-001", Type: domain.EdgeWikiLink})
}

func TestEntityLayerViolationScenario3(t *testing.T) {
	body := "## Descripción\nAn order entity referencing [[REQ-001]].\n"
	doc := buildDoc(t, domain.KindEntity, "Order", "01-domain/entities/Order.md", body)

	registry := NewRegistry()
	extractor := registry.Get(domain.KindEntity)
	edges, err := extractor.ExtractEdges(doc)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "REQ:REQ-001", edges[0].ToNode)
	assert.True(t, edges[0].LayerViolation)
}

func TestEdgeDeduplication(t *testing.T) {
	body := "[[BR-1]] and again [[BR-1]]\n"
	doc := buildDoc(t, domain.KindEntity, "Order", "01-domain/entities/Order.md", body)
	registry := NewRegistry()
	edges, err := registry.Get(domain.KindEntity).ExtractEdges(doc)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}
