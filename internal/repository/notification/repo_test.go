package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/db/memory"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
)

func newEvent(t *testing.T, recipient, msg string, at time.Time) notification.Event {
	t.Helper()
	ev, err := notification.New(recipient, msg, at)
	if err != nil {
		t.Fatal(err)
	}
	return ev
}

func TestCreateGet(t *testing.T) {
	repo := New(memory.NewStore(), "t:")
	ctx := context.Background()
	ev := newEvent(t, "u1", "Your application to Go engineer was accepted", time.Now())

	if err := repo.Create(ctx, &ev); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.Get(ctx, ev.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Recipient() != "u1" || got.Message() != ev.Message() || got.Read() {
		t.Errorf("unexpected event: %+v", got)
	}
	if !got.CreatedAt().Equal(ev.CreatedAt()) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt(), ev.CreatedAt())
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(memory.NewStore(), "t:")
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAndUnread(t *testing.T) {
	repo := New(memory.NewStore(), "t:")
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	first := newEvent(t, "u1", "first", base)
	second := newEvent(t, "u1", "second", base.Add(time.Minute))
	other := newEvent(t, "u2", "someone else", base)
	for _, ev := range []*notification.Event{&first, &second, &other} {
		if err := repo.Create(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	list, err := repo.ListByRecipient(ctx, "u1", 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Message() != "second" || list[1].Message() != "first" {
		t.Fatalf("unexpected list: %+v", list)
	}

	n, _ := repo.UnreadCount(ctx, "u1")
	if n != 2 {
		t.Fatalf("UnreadCount = %d, want 2", n)
	}

	first.MarkRead()
	if err := repo.SaveRead(ctx, &first); err != nil {
		t.Fatalf("SaveRead: %v", err)
	}
	n, _ = repo.UnreadCount(ctx, "u1")
	if n != 1 {
		t.Fatalf("UnreadCount after read = %d, want 1", n)
	}
	got, _ := repo.Get(ctx, first.ID())
	if !got.Read() {
		t.Error("read flag not persisted")
	}
	if n2, _ := repo.UnreadCount(ctx, "u2"); n2 != 1 {
		t.Errorf("other recipient affected: %d", n2)
	}
}
