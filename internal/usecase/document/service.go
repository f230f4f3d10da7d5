// Package document manages résumés and vacancies and keeps their embeddings current.
package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// Service handles document storage with automatic vectorization.
type Service struct {
	repo            Repository
	embed           Embedder
	space           string
	saved           SavedRepository
	apps            ApplicationCounter
	defaultPageSize int
	maxPageSize     int
	now             func() time.Time
}

// New creates a document service.
func New(repo Repository, embed Embedder) *Service {
	return &Service{
		repo:            repo,
		embed:           embed,
		defaultPageSize: 20,
		maxPageSize:     100,
		now:             time.Now,
	}
}

// WithSpace tags new embeddings with the configured embedding space and re-embeds
// documents whose stored vector belongs to another one.
func (s *Service) WithSpace(space string) *Service {
	s.space = space
	return s
}

// WithSaved enables saved vacancies.
func (s *Service) WithSaved(saved SavedRepository) *Service {
	s.saved = saved
	return s
}

// WithApplications makes Delete refuse documents that applications refer to.
func (s *Service) WithApplications(apps ApplicationCounter) *Service {
	s.apps = apps
	return s
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Upsert creates or updates a document owned by requester. Returns true if created.
// The embedding is recomputed only when the text differs from the one it was computed from.
func (s *Service) Upsert(
	ctx context.Context, requester string, kind domdoc.Kind, id, title, text string,
) (domdoc.Document, bool, error) {
	doc, created, err := s.prepare(ctx, requester, kind, id, title, text)
	if err != nil {
		return domdoc.Document{}, false, err
	}

	if doc.NeedsEmbedding(s.space) {
		result, err := s.embed.Embed(ctx, doc.Text())
		if err != nil {
			return domdoc.Document{}, false, fmt.Errorf("vectorize document: %w", err)
		}
		doc.SetEmbedding(result.Embedding, s.space)
	}

	if err := s.repo.Save(ctx, &doc); err != nil {
		return domdoc.Document{}, false, fmt.Errorf("save document: %w", err)
	}
	return doc, created, nil
}

func (s *Service) prepare(
	ctx context.Context, requester string, kind domdoc.Kind, id, title, text string,
) (domdoc.Document, bool, error) {
	existing, err := s.repo.Get(ctx, kind, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		doc, err := domdoc.New(kind, id, requester, title, text)
		if err != nil {
			return domdoc.Document{}, false, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return doc, true, nil
	case err != nil:
		return domdoc.Document{}, false, fmt.Errorf("get document: %w", err)
	}

	if existing.Owner() != requester {
		return domdoc.Document{}, false, fmt.Errorf("%s %s: %w", kind, id, domain.ErrForbidden)
	}
	doc, err := existing.WithText(title, text)
	if err != nil {
		return domdoc.Document{}, false, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return doc, false, nil
}

// Get returns a document by kind and ID.
func (s *Service) Get(ctx context.Context, kind domdoc.Kind, id string) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns a page of documents, most recently updated first, and the total count.
func (s *Service) List(ctx context.Context, kind domdoc.Kind, offset, limit int) ([]domdoc.Document, int, error) {
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("negative offset: %w", domain.ErrInvalidInput)
	}

	docs, err := s.repo.List(ctx, kind, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	total, err := s.repo.Count(ctx, kind)
	if err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	return docs, total, nil
}

// SetVacancyState opens or closes a vacancy owned by requester.
func (s *Service) SetVacancyState(
	ctx context.Context, requester, id string, state domdoc.State,
) (domdoc.Document, error) {
	doc, err := s.repo.Get(ctx, domdoc.KindVacancy, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get vacancy: %w", err)
	}
	if doc.Owner() != requester {
		return domdoc.Document{}, fmt.Errorf("vacancy %s: %w", id, domain.ErrForbidden)
	}
	if doc.State() == state {
		return doc, nil
	}

	updated, err := doc.WithState(state)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Save(ctx, &updated); err != nil {
		return domdoc.Document{}, fmt.Errorf("save vacancy: %w", err)
	}
	return updated, nil
}

// ListByOwner returns every document of a kind owned by owner, newest first.
func (s *Service) ListByOwner(ctx context.Context, kind domdoc.Kind, owner string) ([]domdoc.Document, error) {
	docs, err := s.repo.ListByOwner(ctx, kind, owner)
	if err != nil {
		return nil, fmt.Errorf("list owned documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document owned by requester. A résumé used to apply, or a vacancy
// that received applications, cannot be deleted (ErrInvalidState).
func (s *Service) Delete(ctx context.Context, requester string, kind domdoc.Kind, id string) error {
	doc, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if doc.Owner() != requester {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrForbidden)
	}

	n, err := s.applicationCount(ctx, kind, id)
	if err != nil {
		return err
	}
	if n > 0 {
		if kind == domdoc.KindResume {
			return fmt.Errorf("résumé %s was used to apply: %w", id, domain.ErrInvalidState)
		}
		return fmt.Errorf("vacancy %s has %d applications: %w", id, n, domain.ErrInvalidState)
	}

	if err := s.repo.Delete(ctx, &doc); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *Service) applicationCount(ctx context.Context, kind domdoc.Kind, id string) (int, error) {
	if s.apps == nil {
		return 0, nil
	}
	var (
		n   int
		err error
	)
	if kind == domdoc.KindResume {
		n, err = s.apps.CountForResume(ctx, id)
	} else {
		n, err = s.apps.CountForVacancy(ctx, id)
	}
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

// SaveVacancy bookmarks an existing vacancy for user. Saving twice is a no-op;
// the returned bool reports whether the bookmark is new.
func (s *Service) SaveVacancy(ctx context.Context, user, vacancyID string) (bool, error) {
	if s.saved == nil {
		return false, fmt.Errorf("saved vacancies disabled: %w", domain.ErrInvalidState)
	}
	if _, err := s.repo.Get(ctx, domdoc.KindVacancy, vacancyID); err != nil {
		return false, fmt.Errorf("get vacancy: %w", err)
	}
	added, err := s.saved.AddSaved(ctx, user, vacancyID, s.now())
	if err != nil {
		return false, fmt.Errorf("save vacancy: %w", err)
	}
	return added, nil
}

// UnsaveVacancy drops a bookmark; ErrNotFound when the vacancy was not saved.
func (s *Service) UnsaveVacancy(ctx context.Context, user, vacancyID string) error {
	if s.saved == nil {
		return fmt.Errorf("saved vacancies disabled: %w", domain.ErrInvalidState)
	}
	removed, err := s.saved.RemoveSaved(ctx, user, vacancyID)
	if err != nil {
		return fmt.Errorf("unsave vacancy: %w", err)
	}
	if !removed {
		return fmt.Errorf("vacancy %s is not saved: %w", vacancyID, domain.ErrNotFound)
	}
	return nil
}

// SavedVacancies lists user's bookmarked vacancies, most recently saved first.
func (s *Service) SavedVacancies(ctx context.Context, user string) ([]domdoc.Document, error) {
	if s.saved == nil {
		return nil, nil
	}
	docs, err := s.saved.ListSaved(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list saved vacancies: %w", err)
	}
	return docs, nil
}
