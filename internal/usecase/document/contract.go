package document

import (
	"context"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	Save(ctx context.Context, doc *domdoc.Document) error
	Get(ctx context.Context, kind domdoc.Kind, id string) (domdoc.Document, error)
	Delete(ctx context.Context, doc *domdoc.Document) error
	List(ctx context.Context, kind domdoc.Kind, offset, limit int) ([]domdoc.Document, error)
	ListByOwner(ctx context.Context, kind domdoc.Kind, owner string) ([]domdoc.Document, error)
	Count(ctx context.Context, kind domdoc.Kind) (int, error)
}

// SavedRepository keeps job seekers' bookmarked vacancies.
type SavedRepository interface {
	AddSaved(ctx context.Context, user, vacancyID string, at time.Time) (bool, error)
	RemoveSaved(ctx context.Context, user, vacancyID string) (bool, error)
	ListSaved(ctx context.Context, user string) ([]domdoc.Document, error)
}

// ApplicationCounter reports whether documents are referenced by applications.
type ApplicationCounter interface {
	CountForResume(ctx context.Context, resumeID string) (int, error)
	CountForVacancy(ctx context.Context, vacancyID string) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
