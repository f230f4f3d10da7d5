// Package application persists job applications.
package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	domapp "github.com/kailas-cloud/jobmatch/internal/domain/application"
)

// store is the consumer interface for applications (ISP).
type store interface {
	Exists(ctx context.Context, key string) (bool, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HCompareAndSet(ctx context.Context, key, field, expected string, fields map[string]string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error)
	ZCard(ctx context.Context, key string) (int64, error)
}

// Repo keeps each application as a hash plus:
//   - a (résumé, vacancy) pair hash whose "id" field is claimed with HSETNX;
//   - a per-vacancy sorted set scored by match rate;
//   - per-résumé and per-candidate sorted sets scored by submission time.
type Repo struct {
	store  store
	prefix string
}

// New creates an application repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create stores a new application. The pair is claimed atomically, so of
// several concurrent submissions for the same pair exactly one succeeds and
// the rest fail with ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, app *domapp.Application) error {
	pair := r.pairKey(app.ResumeID(), app.VacancyID())
	claimed, err := r.store.HSetNX(ctx, pair, "id", app.ID())
	if err != nil {
		return fmt.Errorf("claim %s: %w", pair, err)
	}
	if !claimed {
		return fmt.Errorf("application for %s -> %s: %w", app.ResumeID(), app.VacancyID(), domain.ErrAlreadyExists)
	}

	key := r.appKey(app.ID())
	if err := r.store.HSet(ctx, key, applicationFields(app)); err != nil {
		// Release the claim so the candidate can retry.
		_ = r.store.Del(ctx, pair)
		return fmt.Errorf("create application %s: %w", app.ID(), err)
	}

	at := float64(app.AppliedAt().UnixNano())
	indexes := []struct {
		key   string
		score float64
	}{
		{r.vacancyKey(app.VacancyID()), app.MatchRate()},
		{r.resumeKey(app.ResumeID()), at},
		{r.candidateKey(app.Candidate()), at},
	}
	for _, idx := range indexes {
		if err := r.store.ZAdd(ctx, idx.key, idx.score, app.ID()); err != nil {
			return fmt.Errorf("index application %s: %w", app.ID(), err)
		}
	}
	return nil
}

// Transition persists app's decision only if the stored state is still from.
// A lost race surfaces as ErrInvalidState, a deleted application as ErrNotFound.
func (r *Repo) Transition(ctx context.Context, app *domapp.Application, from domapp.State) error {
	key := r.appKey(app.ID())
	fields := map[string]string{"state": string(app.State())}
	if !app.DecidedAt().IsZero() {
		fields["decided_at"] = app.DecidedAt().Format(time.RFC3339Nano)
	}
	swapped, err := r.store.HCompareAndSet(ctx, key, "state", string(from), fields)
	if err != nil {
		return fmt.Errorf("transition %s: %w", key, err)
	}
	if swapped {
		return nil
	}
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("exists %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("application %s: %w", app.ID(), domain.ErrNotFound)
	}
	return fmt.Errorf("application %s is no longer %s: %w", app.ID(), from, domain.ErrInvalidState)
}

// Get returns an application by ID.
func (r *Repo) Get(ctx context.Context, id string) (domapp.Application, error) {
	key := r.appKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domapp.Application{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domapp.Application{}, fmt.Errorf("application %s: %w", id, domain.ErrNotFound)
	}
	return parseApplication(id, m), nil
}

// ListForVacancy returns a vacancy's applications by match rate, best first.
func (r *Repo) ListForVacancy(ctx context.Context, vacancyID string) ([]domapp.Application, error) {
	return r.listIndex(ctx, r.vacancyKey(vacancyID))
}

// ListForCandidate returns a job seeker's applications, newest first.
func (r *Repo) ListForCandidate(ctx context.Context, candidate string) ([]domapp.Application, error) {
	return r.listIndex(ctx, r.candidateKey(candidate))
}

// CountForResume reports how many applications used the résumé.
func (r *Repo) CountForResume(ctx context.Context, resumeID string) (int, error) {
	return r.count(ctx, r.resumeKey(resumeID))
}

// CountForVacancy reports how many applications target the vacancy.
func (r *Repo) CountForVacancy(ctx context.Context, vacancyID string) (int, error) {
	return r.count(ctx, r.vacancyKey(vacancyID))
}

func (r *Repo) count(ctx context.Context, key string) (int, error) {
	n, err := r.store.ZCard(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("zcard %s: %w", key, err)
	}
	return int(n), nil
}

func (r *Repo) listIndex(ctx context.Context, index string) ([]domapp.Application, error) {
	ids, err := r.store.ZRevRange(ctx, index, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.appKey(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	apps := make([]domapp.Application, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		apps = append(apps, parseApplication(ids[i], m))
	}
	return apps, nil
}

func applicationFields(app *domapp.Application) map[string]string {
	fields := map[string]string{
		"resume_id":  app.ResumeID(),
		"vacancy_id": app.VacancyID(),
		"candidate":  app.Candidate(),
		"match_rate": strconv.FormatFloat(app.MatchRate(), 'f', -1, 64),
		"state":      string(app.State()),
		"applied_at": app.AppliedAt().Format(time.RFC3339Nano),
	}
	if !app.DecidedAt().IsZero() {
		fields["decided_at"] = app.DecidedAt().Format(time.RFC3339Nano)
	}
	return fields
}

func (r *Repo) appKey(id string) string { return db.Key(r.prefix, "app", id) }

func (r *Repo) pairKey(resumeID, vacancyID string) string {
	return db.Key(r.prefix, "app", "pair", resumeID, vacancyID)
}

func (r *Repo) vacancyKey(vacancyID string) string { return db.Key(r.prefix, "app", "vacancy", vacancyID) }

func (r *Repo) resumeKey(resumeID string) string { return db.Key(r.prefix, "app", "resume", resumeID) }

func (r *Repo) candidateKey(user string) string { return db.Key(r.prefix, "app", "candidate", user) }

func parseApplication(id string, m map[string]string) domapp.Application {
	rate, _ := strconv.ParseFloat(m["match_rate"], 64)
	appliedAt, _ := time.Parse(time.RFC3339Nano, m["applied_at"])
	var decidedAt time.Time
	if v := m["decided_at"]; v != "" {
		decidedAt, _ = time.Parse(time.RFC3339Nano, v)
	}
	return domapp.Reconstruct(id, m["resume_id"], m["vacancy_id"], m["candidate"], rate,
		domapp.State(m["state"]), appliedAt, decidedAt)
}
