package vectorstore_test

import (
	"testing"

	"github.com/c360studio/kdd-engine/domain"
	"github.com/c360studio/kdd-engine/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emb(docID string, chunk int, vec []float32) domain.Embedding {
	return domain.Embedding{DocumentID: docID, ChunkIndex: chunk, Vector: vec}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{
		emb("Order", 0, []float32{1, 0}),
		emb("Customer", 0, []float32{0, 1}),
		emb("LineItem", 0, []float32{0.9, 0.1}),
	})

	results := s.Search([]float32{1, 0}, 10, 0)
	require.Len(t, results, 3)
	assert.Equal(t, "Order", results[0].Embedding.DocumentID)
	assert.Equal(t, "LineItem", results[1].Embedding.DocumentID)
	assert.Equal(t, "Customer", results[2].Embedding.DocumentID)
}

func TestSearchFiltersByMinScore(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{
		emb("Order", 0, []float32{1, 0}),
		emb("Customer", 0, []float32{0, 1}),
	})

	results := s.Search([]float32{1, 0}, 10, 0.9)
	require.Len(t, results, 1)
	assert.Equal(t, "Order", results[0].Embedding.DocumentID)
}

func TestSearchRespectsLimit(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{
		emb("A", 0, []float32{1, 0}),
		emb("B", 0, []float32{1, 0}),
		emb("C", 0, []float32{1, 0}),
	})

	results := s.Search([]float32{1, 0}, 2, 0)
	assert.Len(t, results, 2)
}

func TestRemoveByDocumentID(t *testing.T) {
	s := vectorstore.New()
	s.Load([]domain.Embedding{
		emb("Order", 0, []float32{1, 0}),
		emb("Customer", 0, []float32{0, 1}),
	})

	s.RemoveByDocumentID("Order")

	assert.Equal(t, 1, s.Count())
	results := s.Search([]float32{1, 0}, 10, 0)
	require.Len(t, results, 1)
	assert.Equal(t, "Customer", results[0].Embedding.DocumentID)
}
