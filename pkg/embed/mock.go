package embed

import (
	"context"
	"hash/fnv"
)

// Mock is a deterministic Embedder for tests. The same text always
// produces the same vector, so identical inputs reach cosine 1.0.
type Mock struct {
	// EmbedFunc overrides the default behavior when set.
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	calls int
}

// Embed returns a deterministic vector derived from the text hash.
func (m *Mock) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return deterministicVector(text, 384), nil
}

// Calls returns how many times Embed was invoked.
func (m *Mock) Calls() int {
	return m.calls
}

// deterministicVector expands an FNV hash of the text through an LCG.
func deterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := range vector {
		seed = seed*1664525 + 1013904223
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector
}
