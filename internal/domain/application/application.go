// Package application models a résumé submitted to a vacancy and the recruiter's decision on it.
package application

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/jobmatch/internal/domain"
)

// State is the review state of an application.
type State string

const (
	// StateApplied is awaiting a recruiter decision.
	StateApplied State = "applied"
	// StateAccepted was accepted by the vacancy owner.
	StateAccepted State = "accepted"
	// StateRejected was rejected by the vacancy owner.
	StateRejected State = "rejected"
)

// Application links a résumé to a vacancy with the similarity computed at submission time.
type Application struct {
	id        string
	resumeID  string
	vacancyID string
	candidate string
	matchRate float64
	state     State
	appliedAt time.Time
	decidedAt time.Time
}

// New creates an application in the applied state.
func New(resumeID, vacancyID, candidate string, matchRate float64, at time.Time) (Application, error) {
	if resumeID == "" || vacancyID == "" {
		return Application{}, fmt.Errorf("resume and vacancy are required")
	}
	if candidate == "" {
		return Application{}, fmt.Errorf("candidate is required")
	}
	return Application{
		id:        uuid.NewString(),
		resumeID:  resumeID,
		vacancyID: vacancyID,
		candidate: candidate,
		matchRate: matchRate,
		state:     StateApplied,
		appliedAt: at.UTC(),
	}, nil
}

// Reconstruct creates an Application without validation (storage hydration).
func Reconstruct(
	id, resumeID, vacancyID, candidate string, matchRate float64,
	state State, appliedAt, decidedAt time.Time,
) Application {
	return Application{
		id: id, resumeID: resumeID, vacancyID: vacancyID, candidate: candidate,
		matchRate: matchRate, state: state, appliedAt: appliedAt, decidedAt: decidedAt,
	}
}

// ID returns the application identifier.
func (a *Application) ID() string { return a.id }

// ResumeID returns the submitted résumé.
func (a *Application) ResumeID() string { return a.resumeID }

// VacancyID returns the target vacancy.
func (a *Application) VacancyID() string { return a.vacancyID }

// Candidate returns the résumé owner, the recipient of decision notifications.
func (a *Application) Candidate() string { return a.candidate }

// MatchRate returns the cosine similarity between résumé and vacancy.
func (a *Application) MatchRate() float64 { return a.matchRate }

// State returns the review state.
func (a *Application) State() State { return a.state }

// AppliedAt returns the submission time.
func (a *Application) AppliedAt() time.Time { return a.appliedAt }

// DecidedAt returns the decision time, zero while applied.
func (a *Application) DecidedAt() time.Time { return a.decidedAt }

// Decide moves an applied application to accepted or rejected.
func (a *Application) Decide(to State, at time.Time) error {
	if to != StateAccepted && to != StateRejected {
		return fmt.Errorf("cannot decide to %q: %w", to, domain.ErrInvalidInput)
	}
	if a.state != StateApplied {
		return fmt.Errorf("application already %s: %w", a.state, domain.ErrInvalidState)
	}
	a.state = to
	a.decidedAt = at.UTC()
	return nil
}
