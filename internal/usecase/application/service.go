// Package application handles candidates applying to vacancies and recruiters deciding on them.
package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	domapp "github.com/kailas-cloud/jobmatch/internal/domain/application"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
)

// Service orchestrates applications.
type Service struct {
	repo   Repository
	docs   DocumentReader
	scorer Scorer
	notify Notifier
	logger *zap.Logger
	now    func() time.Time
}

// New creates an application service.
func New(repo Repository, docs DocumentReader, scorer Scorer, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		docs:   docs,
		scorer: scorer,
		notify: notifier,
		logger: logger,
		now:    time.Now,
	}
}

// Apply submits a candidate's résumé to an open vacancy. The match rate is computed once here.
func (s *Service) Apply(ctx context.Context, candidate, resumeID, vacancyID string) (domapp.Application, error) {
	resume, err := s.docs.Get(ctx, domdoc.KindResume, resumeID)
	if err != nil {
		return domapp.Application{}, fmt.Errorf("get resume: %w", err)
	}
	if resume.Owner() != candidate {
		return domapp.Application{}, fmt.Errorf("resume %s: %w", resumeID, domain.ErrForbidden)
	}

	vacancy, err := s.docs.Get(ctx, domdoc.KindVacancy, vacancyID)
	if err != nil {
		return domapp.Application{}, fmt.Errorf("get vacancy: %w", err)
	}
	if !vacancy.IsOpen() {
		return domapp.Application{}, fmt.Errorf("vacancy %s is closed: %w", vacancyID, domain.ErrInvalidState)
	}

	rate, err := s.scorer.ScoreDocuments(ctx, &resume, &vacancy)
	if err != nil {
		return domapp.Application{}, fmt.Errorf("score application: %w", err)
	}

	app, err := domapp.New(resumeID, vacancyID, candidate, rate, s.now())
	if err != nil {
		return domapp.Application{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, &app); err != nil {
		return domapp.Application{}, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

// Accept marks an application accepted and notifies the candidate.
func (s *Service) Accept(ctx context.Context, recruiter, appID string) (domapp.Application, error) {
	return s.decide(ctx, recruiter, appID, domapp.StateAccepted)
}

// Reject marks an application rejected and notifies the candidate.
func (s *Service) Reject(ctx context.Context, recruiter, appID string) (domapp.Application, error) {
	return s.decide(ctx, recruiter, appID, domapp.StateRejected)
}

func (s *Service) decide(
	ctx context.Context, recruiter, appID string, to domapp.State,
) (domapp.Application, error) {
	app, err := s.repo.Get(ctx, appID)
	if err != nil {
		return domapp.Application{}, fmt.Errorf("get application: %w", err)
	}
	vacancy, err := s.ownedVacancy(ctx, recruiter, app.VacancyID())
	if err != nil {
		return domapp.Application{}, err
	}

	from := app.State()
	if err := app.Decide(to, s.now()); err != nil {
		return domapp.Application{}, fmt.Errorf("application %s: %w", appID, err)
	}
	// Only the request that wins the transition notifies.
	if err := s.repo.Transition(ctx, &app, from); err != nil {
		return domapp.Application{}, fmt.Errorf("decide application: %w", err)
	}

	report, err := s.notify.Notify(ctx, app.Candidate(), decisionMessage(&vacancy, to))
	log := logpkg.FromContext(ctx, s.logger)
	switch {
	case err != nil:
		log.Error("Decision notification not published", zap.String("application_id", appID), zap.Error(err))
	case !report.OK():
		log.Warn("Decision notification partially delivered",
			zap.String("application_id", appID),
			zap.Int("failed_observers", len(report.Failures)),
		)
	}
	return app, nil
}

// ListForVacancy returns a vacancy's applications, best match first. Only the owner may list them.
func (s *Service) ListForVacancy(ctx context.Context, recruiter, vacancyID string) ([]domapp.Application, error) {
	if _, err := s.ownedVacancy(ctx, recruiter, vacancyID); err != nil {
		return nil, err
	}
	apps, err := s.repo.ListForVacancy(ctx, vacancyID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

func (s *Service) ownedVacancy(ctx context.Context, recruiter, vacancyID string) (domdoc.Document, error) {
	vacancy, err := s.docs.Get(ctx, domdoc.KindVacancy, vacancyID)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get vacancy: %w", err)
	}
	if vacancy.Owner() != recruiter {
		return domdoc.Document{}, fmt.Errorf("vacancy %s: %w", vacancyID, domain.ErrForbidden)
	}
	return vacancy, nil
}

func decisionMessage(vacancy *domdoc.Document, state domapp.State) string {
	title := vacancy.Title()
	if title == "" {
		title = vacancy.ID()
	}
	if state == domapp.StateAccepted {
		return fmt.Sprintf("Your CV for the vacancy %q has been accepted. We will contact you soon.", title)
	}
	return fmt.Sprintf("Your CV for the vacancy %q has been rejected. Thank you for applying!", title)
}
