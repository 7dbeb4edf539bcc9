// Package vectorstore is an in-memory, brute-force cosine-similarity nearest
// neighbor index over domain.Embedding. A true ANN index (HNSW, IVF) needs a
// library absent from this repo's dependency pack; brute force is exact and
// fast enough at the single-machine spec-corpus scale this engine targets.
package vectorstore

import (
	"math"
	"sort"
	"sync"

	"github.com/c360studio/kdd-engine/domain"
)

// Neighbor is one search result: an embedding plus its similarity score.
type Neighbor struct {
	Embedding domain.Embedding
	Score     float64
}

// Store holds embeddings in memory and serves k-nearest-neighbor search by
// cosine similarity.
type Store struct {
	mu         sync.RWMutex
	embeddings []domain.Embedding
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Load replaces the store's contents.
func (s *Store) Load(embeddings []domain.Embedding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings = append([]domain.Embedding(nil), embeddings...)
}

// Add appends embeddings for incremental updates.
func (s *Store) Add(embeddings ...domain.Embedding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings = append(s.embeddings, embeddings...)
}

// RemoveByDocumentID drops every embedding belonging to documentID, for
// cascade deletes.
func (s *Store) RemoveByDocumentID(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.embeddings[:0]
	for _, e := range s.embeddings {
		if e.DocumentID != documentID {
			filtered = append(filtered, e)
		}
	}
	s.embeddings = filtered
}

// Count returns the number of embeddings in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.embeddings)
}

// Search returns up to limit embeddings whose cosine similarity to query is
// at least minScore, sorted highest score first. Ties break by DocumentID
// then ChunkIndex for deterministic output.
func (s *Store) Search(query []float32, limit int, minScore float64) []Neighbor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []Neighbor
	for _, e := range s.embeddings {
		score := cosineSimilarity(query, e.Vector)
		if score >= minScore {
			results = append(results, Neighbor{Embedding: e, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Embedding.DocumentID != results[j].Embedding.DocumentID {
			return results[i].Embedding.DocumentID < results[j].Embedding.DocumentID
		}
		return results[i].Embedding.ChunkIndex < results[j].Embedding.ChunkIndex
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
