package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Checker is any component that can report its own availability (embedding provider, push hub).
type Checker interface {
	HealthCheck(ctx context.Context) error
}
