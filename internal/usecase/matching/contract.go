package matching

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// DocumentReader reads stored résumés and vacancies.
type DocumentReader interface {
	Get(ctx context.Context, kind domdoc.Kind, id string) (domdoc.Document, error)
	List(ctx context.Context, kind domdoc.Kind, offset, limit int) ([]domdoc.Document, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
