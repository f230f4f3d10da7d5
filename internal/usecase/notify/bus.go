// Package notify implements the notification bus and the recipient inbox.
package notify

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/domain/notification"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

// Failure records one observer that could not deliver an event.
type Failure struct {
	Observer string
	Err      error
}

// Report aggregates the outcome of one Notify call.
type Report struct {
	EventID   string
	Attempted int
	Failures  []Failure
}

// OK reports whether every observer delivered the event.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// Bus fans events out to registered observers in registration order.
// The observer list is copy-on-write: Notify reads an immutable snapshot,
// and after Seal the list can no longer change.
type Bus struct {
	mu        sync.Mutex // serializes writers
	observers atomic.Pointer[[]Observer]
	sealed    atomic.Bool
	logger    *zap.Logger
	now       func() time.Time
}

// NewBus creates an empty, unsealed bus.
func NewBus(logger *zap.Logger) *Bus {
	b := &Bus{logger: logger, now: time.Now}
	b.observers.Store(&[]Observer{})
	return b
}

// Subscribe appends an observer. Subscribing a name twice is a no-op.
func (b *Bus) Subscribe(o Observer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed.Load() {
		return fmt.Errorf("subscribe %s: %w", o.Name(), domain.ErrBusSealed)
	}

	cur := *b.observers.Load()
	if slices.ContainsFunc(cur, func(x Observer) bool { return x.Name() == o.Name() }) {
		return nil
	}
	next := append(slices.Clip(cur), o)
	b.observers.Store(&next)
	return nil
}

// Unsubscribe removes the observer with the same name. Absent observers are ignored.
func (b *Bus) Unsubscribe(o Observer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed.Load() {
		return fmt.Errorf("unsubscribe %s: %w", o.Name(), domain.ErrBusSealed)
	}

	cur := *b.observers.Load()
	next := slices.DeleteFunc(slices.Clone(cur), func(x Observer) bool { return x.Name() == o.Name() })
	b.observers.Store(&next)
	return nil
}

// Seal freezes the observer list. Call once wiring is complete.
func (b *Bus) Seal() {
	b.mu.Lock()
	b.sealed.Store(true)
	b.mu.Unlock()
}

// Observers returns the registered observer names in delivery order.
func (b *Bus) Observers() []string {
	cur := *b.observers.Load()
	names := make([]string, len(cur))
	for i, o := range cur {
		names[i] = o.Name()
	}
	return names
}

// Notify creates an event and delivers it synchronously to every observer.
// Observer errors and panics are logged, counted and reported, never returned;
// the only error is an invalid recipient or message.
func (b *Bus) Notify(ctx context.Context, recipient, message string) (Report, error) {
	ev, err := notification.New(recipient, message, b.now())
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	log := logpkg.FromContext(ctx, b.logger)
	observers := *b.observers.Load()
	report := Report{EventID: ev.ID(), Attempted: len(observers)}

	for _, o := range observers {
		status, err := deliver(ctx, o, ev)
		metrics.NotificationDeliveriesTotal.WithLabelValues(o.Name(), status).Inc()
		if err != nil {
			log.Warn("Notification delivery failed",
				zap.String("observer", o.Name()),
				zap.String("event_id", ev.ID()),
				zap.String("status", status),
				zap.Error(err),
			)
			report.Failures = append(report.Failures, Failure{Observer: o.Name(), Err: err})
		}
	}
	return report, nil
}

func deliver(ctx context.Context, o Observer, ev notification.Event) (status string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			status, err = "panic", fmt.Errorf("observer panic: %v", rec)
		}
	}()
	if err := o.Deliver(ctx, ev); err != nil {
		return "error", err
	}
	return "ok", nil
}
