// Package similarity implements the vector comparison used for ranking.
package similarity

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// Cosine returns the cosine similarity of a and b in [-1, 1].
// Vectors of different length fail with domain.ErrDimensionMismatch; a zero vector scores 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine of %d and %d dimensional vectors: %w",
			len(a), len(b), domain.ErrDimensionMismatch)
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// float rounding can push parallel vectors slightly past the bounds
	return math.Max(-1, math.Min(1, score)), nil
}
