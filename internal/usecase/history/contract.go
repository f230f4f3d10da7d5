package history

import (
	"context"

	domapp "github.com/kailas-cloud/jobmatch/internal/domain/application"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// DocumentLister lists a user's own documents.
type DocumentLister interface {
	ListByOwner(ctx context.Context, kind domdoc.Kind, owner string) ([]domdoc.Document, error)
}

// SavedLister lists a job seeker's bookmarked vacancies.
type SavedLister interface {
	ListSaved(ctx context.Context, user string) ([]domdoc.Document, error)
}

// ApplicationLister lists applications from either side.
type ApplicationLister interface {
	ListForCandidate(ctx context.Context, candidate string) ([]domapp.Application, error)
	ListForVacancy(ctx context.Context, vacancyID string) ([]domapp.Application, error)
}
