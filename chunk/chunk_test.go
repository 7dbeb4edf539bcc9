package chunk

import (
	"strings"
	"testing"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventProducesZeroChunks(t *testing.T) {
	doc := domain.Document{
		Kind: domain.KindEvent,
		ID:   "OrderPlaced",
		Sections: []domain.Section{
			{Heading: "Descripción", Path: "descripcion", Content: strings.Repeat("word ", 100)},
		},
	}
	chunks := ChunkDocument(doc, DefaultConfig())
	assert.Empty(t, chunks)
}

func TestChunkDocumentContextText(t *testing.T) {
	doc := domain.Document{
		Kind:  domain.KindEntity,
		ID:    "Order",
		Layer: domain.LayerDomain,
		Sections: []domain.Section{
			{Heading: "Descripción", Path: "descripcion", Content: "An order entity that represents a customer purchase."},
			{Heading: "Atributos", Path: "atributos", Content: "| id | uuid |"},
		},
	}
	chunks := ChunkDocument(doc, DefaultConfig())
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].ContextText, "Document: Order")
	assert.Contains(t, chunks[0].ContextText, "Kind: entity")
	assert.Contains(t, chunks[0].ContextText, "Section: Descripción")
	assert.Contains(t, chunks[0].ContextText, "customer purchase")
}

func TestChunkSectionSplitsOversizedParagraph(t *testing.T) {
	sentence := "This is a sentence that repeats many times. "
	content := strings.Repeat(sentence, 80) // one giant paragraph
	cfg := Config{MaxChars: 200, OverlapChars: 0, MinWords: 0}
	chunks := chunkSection(content, cfg)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), cfg.MaxChars+len(sentence))
	}
}

func TestMergeShortParagraphs(t *testing.T) {
	paragraphs := []string{"short one", "this paragraph has plenty of words to stand fully on its own merit here"}
	merged := mergeShortParagraphs(paragraphs, 5)
	require.Len(t, merged, 1)
	assert.Contains(t, merged[0], "short one")
}
