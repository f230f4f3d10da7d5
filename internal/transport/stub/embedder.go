// Package stub is an offline embedding provider for tests, demos and CI.
//
// Vectors are feature-hashed bags of lower-cased words: each token adds ±1 to the bucket chosen by
// its xxhash, and the result is L2-normalised. Identical text gives identical vectors and shared
// vocabulary raises cosine similarity, which is enough to make rankings meaningful without a network.
package stub

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Embedder implements domain.Embedder without network access.
type Embedder struct {
	dimensions int
}

// NewEmbedder creates a stub provider. dimensions <= 0 selects domain.StubDimensions.
func NewEmbedder(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = domain.StubDimensions
	}
	return &Embedder{dimensions: dimensions}
}

// Embed implements domain.Embedder. Text without any word characters yields the zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, err //nolint:wrapcheck // context error passthrough
	}

	vec := make([]float32, e.dimensions)
	tokens := tokenize(text)
	for _, tok := range tokens {
		h := xxhash.Sum64String(tok)
		idx := h % uint64(e.dimensions)
		if h&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	normalize(vec)

	return domain.EmbeddingResult{
		Embedding:    vec,
		PromptTokens: len(tokens),
		TotalTokens:  len(tokens),
	}, nil
}

// HealthCheck always succeeds.
func (e *Embedder) HealthCheck(_ context.Context) error { return nil }

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range vec {
		vec[i] *= inv
	}
}
