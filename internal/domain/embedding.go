package domain

import (
	"context"
	"fmt"
	"strconv"
)

// Embedder is the text vectorization contract shared by providers, the cache and the matching engine.
// Implementations must return the same vector for the same text and wrap every upstream
// failure with ErrEmbeddingProviderError.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
	Cached       bool
}

// ValidateEmbedding rejects empty vectors and, when dimensions > 0, vectors of the wrong length.
// Providers call it on every response so malformed data never reaches the cache.
func ValidateEmbedding(vec []float32, dimensions int) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty embedding: %w", ErrEmbeddingProviderError)
	}
	if dimensions > 0 && len(vec) != dimensions {
		return fmt.Errorf("embedding has %d dimensions, want %d: %w",
			len(vec), dimensions, ErrEmbeddingProviderError)
	}
	return nil
}

// EmbeddingSpace names the vector space a provider configuration produces.
// Vectors from different spaces are never compared.
func EmbeddingSpace(provider, model string, dimensions int) string {
	return provider + "/" + model + "/" + strconv.Itoa(dimensions)
}
