package application

import (
	"context"

	domapp "github.com/kailas-cloud/jobmatch/internal/domain/application"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
	"github.com/kailas-cloud/jobmatch/internal/usecase/notify"
)

// Repository defines the storage contract for applications.
type Repository interface {
	Create(ctx context.Context, app *domapp.Application) error
	// Transition persists app's new state only while the stored state is still from.
	Transition(ctx context.Context, app *domapp.Application, from domapp.State) error
	Get(ctx context.Context, id string) (domapp.Application, error)
	ListForVacancy(ctx context.Context, vacancyID string) ([]domapp.Application, error)
}

// DocumentReader loads résumés and vacancies.
type DocumentReader interface {
	Get(ctx context.Context, kind domdoc.Kind, id string) (domdoc.Document, error)
}

// Scorer computes the match rate between a résumé and a vacancy.
type Scorer interface {
	ScoreDocuments(ctx context.Context, a, b *domdoc.Document) (float64, error)
}

// Notifier publishes a message to a recipient.
type Notifier interface {
	Notify(ctx context.Context, recipient, message string) (notify.Report, error)
}
