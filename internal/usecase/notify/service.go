package notify

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
)

// Service is a recipient's view of stored notifications.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
}

// NewService creates an inbox service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, defaultPageSize: 50, maxPageSize: 200}
}

// List returns a recipient's notifications newest first, with the unread count.
func (s *Service) List(ctx context.Context, recipient string, offset, limit int) ([]notification.Event, int, error) {
	if offset < 0 {
		return nil, 0, fmt.Errorf("negative offset: %w", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	events, err := s.repo.ListByRecipient(ctx, recipient, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.UnreadCount(ctx, recipient)
	if err != nil {
		return nil, 0, err
	}
	return events, unread, nil
}

// UnreadCount returns how many notifications the recipient has not read.
func (s *Service) UnreadCount(ctx context.Context, recipient string) (int, error) {
	n, err := s.repo.UnreadCount(ctx, recipient)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}

// MarkRead marks an event read. Events of other recipients are reported as not found.
// Marking an already read event succeeds without writing.
func (s *Service) MarkRead(ctx context.Context, recipient, id string) (notification.Event, error) {
	ev, err := s.repo.Get(ctx, id)
	if err != nil {
		return notification.Event{}, fmt.Errorf("get notification: %w", err)
	}
	if ev.Recipient() != recipient {
		return notification.Event{}, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	if !ev.MarkRead() {
		return ev, nil
	}
	if err := s.repo.SaveRead(ctx, &ev); err != nil {
		return notification.Event{}, fmt.Errorf("save notification: %w", err)
	}
	return ev, nil
}
