// Package embedmodel defines the opaque embedding-model port
// (model_name, dimensions, encode(texts) -> vectors) plus two adapters: a
// seeded deterministic encoder for tests/zero-dependency defaults, and an
// HTTP adapter for any embeddings-compatible endpoint.
package embedmodel

import "context"

// Model is the embedding-model port. Implementations are treated as
// thread-unsafe: callers invoke Encode at most once concurrently per
// instance.
type Model interface {
	ModelName() string
	Dimensions() int
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}
