// Package embedding converts short descriptive text into fixed-length unit
// vectors and scores vector similarity.
package embedding

import (
	"context"
	"math"
)

// Service is an abstraction over embedding providers. Implementations must
// be deterministic for identical input text and must return unit-normalized
// vectors. A failing backend is a degraded mode, not a crash: callers treat
// nodes without embeddings as carrying no evidence.
type Service interface {
	// Embed converts one text into a unit vector.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch converts all texts in a single backend round trip. The
	// result is index-aligned with the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Close releases any resources held by the service.
	Close() error
}

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// Vectors produced by a Service are unit length, so this reduces to a dot
// product; un-normalized inputs are handled by dividing out the magnitudes.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize scales a vector to unit length in place and returns it.
// Zero vectors are returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}
