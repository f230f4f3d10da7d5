package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
)

// StoreObserver persists events so recipients can list and acknowledge them.
type StoreObserver struct {
	repo Repository
}

// NewStoreObserver creates an observer writing to repo.
func NewStoreObserver(repo Repository) *StoreObserver {
	return &StoreObserver{repo: repo}
}

// Name implements Observer.
func (o *StoreObserver) Name() string { return "store" }

// Deliver implements Observer.
func (o *StoreObserver) Deliver(ctx context.Context, ev notification.Event) error {
	if err := o.repo.Create(ctx, &ev); err != nil {
		return fmt.Errorf("store event: %w", err)
	}
	return nil
}

// LogObserver writes every event to the structured log.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates a logging observer.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

// Name implements Observer.
func (o *LogObserver) Name() string { return "log" }

// Deliver implements Observer.
func (o *LogObserver) Deliver(ctx context.Context, ev notification.Event) error {
	logpkg.FromContext(ctx, o.logger).Info("Notification published",
		zap.String("event_id", ev.ID()),
		zap.String("recipient", ev.Recipient()),
		zap.Int("message_bytes", len(ev.Message())),
		zap.Time("created_at", ev.CreatedAt()),
	)
	return nil
}
