package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing; matching still works from cache.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const checkTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type namedChecker struct {
	name    string
	checker Checker
}

// Service coordinates health checks.
type Service struct {
	db     DBPinger
	checks []namedChecker
}

// New creates a Service. Additional components are attached with With.
func New(db DBPinger) *Service {
	return &Service{db: db}
}

// With adds a named component check. nil checkers are ignored.
func (s *Service) With(name string, c Checker) *Service {
	if c != nil {
		s.checks = append(s.checks, namedChecker{name: name, checker: c})
	}
	return s
}

// Check runs health checks against all components, each bounded by a short timeout.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checks)+1)

	checks["database"] = run(ctx, s.db.Ping)
	for _, c := range s.checks {
		checks[c.name] = run(ctx, c.checker.HealthCheck)
	}

	status := Healthy
	if checks["database"] == CheckError {
		status = Unhealthy
	} else {
		for _, v := range checks {
			if v == CheckError {
				status = Degraded
				break
			}
		}
	}

	return Report{Status: status, Checks: checks}
}

func run(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
