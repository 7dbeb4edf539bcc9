package embedmodel

import (
	"context"
	"hash/fnv"
	"math"
)

// Deterministic is a seeded hash-projection encoder: it needs no network
// access or model weights, producing a stable unit vector per input text so
// that tests and examples can exercise L2 behavior without a real model.
type Deterministic struct {
	dimensions int
}

// NewDeterministic returns a Deterministic encoder with the given vector
// dimensionality.
func NewDeterministic(dimensions int) *Deterministic {
	if dimensions <= 0 {
		dimensions = 64
	}
	return &Deterministic{dimensions: dimensions}
}

func (d *Deterministic) ModelName() string { return "deterministic-hash-projection" }
func (d *Deterministic) Dimensions() int   { return d.dimensions }

func (d *Deterministic) Encode(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = d.encodeOne(text)
	}
	return vectors, nil
}

func (d *Deterministic) encodeOne(text string) []float32 {
	vec := make([]float32, d.dimensions)
	h := fnv.New64a()
	for i := 0; i < d.dimensions; i++ {
		h.Reset()
		h.Write([]byte{byte(i), byte(i >> 8)})
		h.Write([]byte(text))
		sum := h.Sum64()
		// Map the hash into [-1, 1].
		vec[i] = float32(int64(sum%2000001)-1000000) / 1000000
	}
	normalize(vec)
	return vec
}

func normalize(v []float32) {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	if sumSquares == 0 {
		return
	}
	norm := float32(math.Sqrt(sumSquares))
	for i := range v {
		v[i] /= norm
	}
}
