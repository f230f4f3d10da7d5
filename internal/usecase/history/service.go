// Package history assembles a user's activity overview.
package history

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	domapp "github.com/kailas-cloud/jobmatch/internal/domain/application"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

const vacancyConcurrency = 4

// JobSeeker is what a job seeker has done: uploaded résumés, applications sent and
// vacancies bookmarked.
type JobSeeker struct {
	Resumes      []domdoc.Document
	Applications []domapp.Application
	Saved        []domdoc.Document
}

// Recruiter is a recruiter's posted vacancies with the applications each received.
type Recruiter struct {
	Vacancies []VacancyApplications
}

// VacancyApplications pairs a vacancy with its applications, best match first.
type VacancyApplications struct {
	Vacancy      domdoc.Document
	Applications []domapp.Application
}

// Service builds history views.
type Service struct {
	docs  DocumentLister
	saved SavedLister
	apps  ApplicationLister
}

// New creates a history service.
func New(docs DocumentLister, saved SavedLister, apps ApplicationLister) *Service {
	return &Service{docs: docs, saved: saved, apps: apps}
}

// ForJobSeeker returns the job seeker view of user.
func (s *Service) ForJobSeeker(ctx context.Context, user string) (JobSeeker, error) {
	var v JobSeeker
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if v.Resumes, err = s.docs.ListByOwner(gctx, domdoc.KindResume, user); err != nil {
			return fmt.Errorf("list resumes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if v.Applications, err = s.apps.ListForCandidate(gctx, user); err != nil {
			return fmt.Errorf("list applications: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if v.Saved, err = s.saved.ListSaved(gctx, user); err != nil {
			return fmt.Errorf("list saved vacancies: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return JobSeeker{}, err //nolint:wrapcheck // wrapped per branch
	}
	return v, nil
}

// ForRecruiter returns the recruiter view of user: every vacancy they posted, newest
// first, with the applications it received.
func (s *Service) ForRecruiter(ctx context.Context, user string) (Recruiter, error) {
	vacancies, err := s.docs.ListByOwner(ctx, domdoc.KindVacancy, user)
	if err != nil {
		return Recruiter{}, fmt.Errorf("list vacancies: %w", err)
	}

	out := make([]VacancyApplications, len(vacancies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(vacancyConcurrency)
	for i := range vacancies {
		g.Go(func() error {
			apps, err := s.apps.ListForVacancy(gctx, vacancies[i].ID())
			if err != nil {
				return fmt.Errorf("list applications for %s: %w", vacancies[i].ID(), err)
			}
			out[i] = VacancyApplications{Vacancy: vacancies[i], Applications: apps}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Recruiter{}, err //nolint:wrapcheck // wrapped per vacancy
	}
	return Recruiter{Vacancies: out}, nil
}
