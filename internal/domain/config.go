package domain

// EmbeddingDefaults holds the vectorization settings used when configuration leaves them empty.
type EmbeddingDefaults struct {
	Provider   string
	Model      string
	Dimensions int
}

// DefaultEmbedding returns defaults tuned for OpenAI text-embedding-3-small.
func DefaultEmbedding() EmbeddingDefaults {
	return EmbeddingDefaults{
		Provider:   "openai",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
	}
}

// StubDimensions is the vector length produced by the offline stub embedder.
const StubDimensions = 256
