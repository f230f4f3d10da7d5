package notify

import (
	"context"

	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
)

// Observer receives every event published on the bus. Observers are identified by Name.
type Observer interface {
	Name() string
	Deliver(ctx context.Context, ev notification.Event) error
}

// Repository defines the storage contract for notification events.
type Repository interface {
	Create(ctx context.Context, ev *notification.Event) error
	Get(ctx context.Context, id string) (notification.Event, error)
	SaveRead(ctx context.Context, ev *notification.Event) error
	ListByRecipient(ctx context.Context, recipient string, offset, limit int) ([]notification.Event, error)
	UnreadCount(ctx context.Context, recipient string) (int, error)
}
