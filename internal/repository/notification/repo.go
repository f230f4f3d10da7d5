// Package notification persists notification events per recipient.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
)

// store is the consumer interface for notifications (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error)
	ZRem(ctx context.Context, key string, members ...string) error
	ZCard(ctx context.Context, key string) (int64, error)
}

// Repo stores each event as a hash and keeps two sorted sets per recipient:
// the inbox (all events) and the unread subset, both scored by creation time.
type Repo struct {
	store  store
	prefix string
}

// New creates a notification repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create persists a new event and indexes it as unread.
func (r *Repo) Create(ctx context.Context, ev *notification.Event) error {
	key := r.eventKey(ev.ID())
	fields := map[string]string{
		"recipient":  ev.Recipient(),
		"message":    ev.Message(),
		"created_at": ev.CreatedAt().Format(time.RFC3339Nano),
		"read":       boolField(ev.Read()),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}

	score := float64(ev.CreatedAt().UnixMilli())
	if err := r.store.ZAdd(ctx, r.inboxKey(ev.Recipient()), score, ev.ID()); err != nil {
		return fmt.Errorf("index inbox: %w", err)
	}
	if !ev.Read() {
		if err := r.store.ZAdd(ctx, r.unreadKey(ev.Recipient()), score, ev.ID()); err != nil {
			return fmt.Errorf("index unread: %w", err)
		}
	}
	return nil
}

// Get returns an event by ID.
func (r *Repo) Get(ctx context.Context, id string) (notification.Event, error) {
	key := r.eventKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return notification.Event{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return notification.Event{}, fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return parseEvent(id, m), nil
}

// SaveRead persists the read flag and drops the event from the unread index.
func (r *Repo) SaveRead(ctx context.Context, ev *notification.Event) error {
	key := r.eventKey(ev.ID())
	if err := r.store.HSet(ctx, key, map[string]string{"read": boolField(ev.Read())}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if ev.Read() {
		if err := r.store.ZRem(ctx, r.unreadKey(ev.Recipient()), ev.ID()); err != nil {
			return fmt.Errorf("unindex unread: %w", err)
		}
	}
	return nil
}

// ListByRecipient returns a recipient's events newest first. limit <= 0 returns all.
func (r *Repo) ListByRecipient(
	ctx context.Context, recipient string, offset, limit int,
) ([]notification.Event, error) {
	ids, err := r.store.ZRevRange(ctx, r.inboxKey(recipient), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.eventKey(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}

	events := make([]notification.Event, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		events = append(events, parseEvent(ids[i], m))
	}
	return events, nil
}

// UnreadCount returns the number of unread events for a recipient.
func (r *Repo) UnreadCount(ctx context.Context, recipient string) (int, error) {
	n, err := r.store.ZCard(ctx, r.unreadKey(recipient))
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return int(n), nil
}

func (r *Repo) eventKey(id string) string { return r.prefix + "ntf:" + id }

func (r *Repo) inboxKey(recipient string) string { return r.prefix + "ntf:inbox:" + recipient }

func (r *Repo) unreadKey(recipient string) string { return r.prefix + "ntf:unread:" + recipient }

func parseEvent(id string, m map[string]string) notification.Event {
	createdAt, _ := time.Parse(time.RFC3339Nano, m["created_at"])
	return notification.Reconstruct(id, m["recipient"], m["message"], createdAt, m["read"] == "1")
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
