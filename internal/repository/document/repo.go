package document

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error)
	ZRem(ctx context.Context, key string, members ...string) error
	ZCard(ctx context.Context, key string) (int64, error)
}

// Repo implements usecase/document.Repository.
//
// Keys under prefix:
//   - doc:<kind>:<id> is the document hash;
//   - doc:<kind>:idx orders ids by update time;
//   - doc:<kind>:owner:<user> orders one user's ids by update time;
//   - saved:<user> orders a job seeker's saved vacancies by save time.
type Repo struct {
	store  store
	prefix string
}

// New creates a document repository. prefix namespaces every key (e.g. "jobmatch:").
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Save writes the document and refreshes its position in the kind and owner indexes.
func (r *Repo) Save(ctx context.Context, doc *domdoc.Document) error {
	key := r.docKey(doc.Kind(), doc.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(doc)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	score := float64(doc.UpdatedAt().UnixMilli())
	for _, idx := range []string{r.indexKey(doc.Kind()), r.ownerKey(doc.Kind(), doc.Owner())} {
		if err := r.store.ZAdd(ctx, idx, score, doc.ID()); err != nil {
			return fmt.Errorf("index %s: %w", key, err)
		}
	}
	return nil
}

// Get returns a document by kind and ID.
func (r *Repo) Get(ctx context.Context, kind domdoc.Kind, id string) (domdoc.Document, error) {
	key := r.docKey(kind, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domdoc.Document{}, fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return parseHashFields(id, m), nil
}

// Delete removes the document and its index entries. Deleting a missing document is a no-op.
func (r *Repo) Delete(ctx context.Context, doc *domdoc.Document) error {
	key := r.docKey(doc.Kind(), doc.ID())
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	for _, idx := range []string{r.indexKey(doc.Kind()), r.ownerKey(doc.Kind(), doc.Owner())} {
		if err := r.store.ZRem(ctx, idx, doc.ID()); err != nil {
			return fmt.Errorf("unindex %s: %w", key, err)
		}
	}
	return nil
}

// List returns documents of a kind, most recently updated first. limit <= 0 returns all.
func (r *Repo) List(ctx context.Context, kind domdoc.Kind, offset, limit int) ([]domdoc.Document, error) {
	ids, err := r.store.ZRevRange(ctx, r.indexKey(kind), offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return r.load(ctx, kind, ids)
}

// ListByOwner returns every document of a kind uploaded by owner, most recently updated first.
func (r *Repo) ListByOwner(ctx context.Context, kind domdoc.Kind, owner string) ([]domdoc.Document, error) {
	ids, err := r.store.ZRevRange(ctx, r.ownerKey(kind, owner), 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list %s of %s: %w", kind, owner, err)
	}
	return r.load(ctx, kind, ids)
}

// Count returns the number of documents of a kind.
func (r *Repo) Count(ctx context.Context, kind domdoc.Kind) (int, error) {
	n, err := r.store.ZCard(ctx, r.indexKey(kind))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return int(n), nil
}

// AddSaved bookmarks a vacancy for user. It reports false when it was already saved.
func (r *Repo) AddSaved(ctx context.Context, user, vacancyID string, at time.Time) (bool, error) {
	saved, err := r.isSaved(ctx, user, vacancyID)
	if err != nil || saved {
		return false, err
	}
	key := r.savedKey(user)
	if err := r.store.ZAdd(ctx, key, float64(at.UnixMilli()), vacancyID); err != nil {
		return false, fmt.Errorf("zadd %s: %w", key, err)
	}
	return true, nil
}

// RemoveSaved drops a bookmark. It reports false when the vacancy was not saved.
func (r *Repo) RemoveSaved(ctx context.Context, user, vacancyID string) (bool, error) {
	saved, err := r.isSaved(ctx, user, vacancyID)
	if err != nil || !saved {
		return false, err
	}
	key := r.savedKey(user)
	if err := r.store.ZRem(ctx, key, vacancyID); err != nil {
		return false, fmt.Errorf("zrem %s: %w", key, err)
	}
	return true, nil
}

// ListSaved returns user's saved vacancies, most recently saved first.
// Bookmarks of deleted vacancies are skipped.
func (r *Repo) ListSaved(ctx context.Context, user string) ([]domdoc.Document, error) {
	ids, err := r.store.ZRevRange(ctx, r.savedKey(user), 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list saved of %s: %w", user, err)
	}
	return r.load(ctx, domdoc.KindVacancy, ids)
}

func (r *Repo) isSaved(ctx context.Context, user, vacancyID string) (bool, error) {
	ids, err := r.store.ZRevRange(ctx, r.savedKey(user), 0, 0)
	if err != nil {
		return false, fmt.Errorf("list saved of %s: %w", user, err)
	}
	return slices.Contains(ids, vacancyID), nil
}

func (r *Repo) load(ctx context.Context, kind domdoc.Kind, ids []string) ([]domdoc.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(kind, id)
	}
	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}

	docs := make([]domdoc.Document, 0, len(ids))
	for i, m := range maps {
		// index entry without a hash: skipped until the next Save rewrites it
		if len(m) == 0 {
			continue
		}
		docs = append(docs, parseHashFields(ids[i], m))
	}
	return docs, nil
}

func (r *Repo) docKey(kind domdoc.Kind, id string) string {
	return db.Key(r.prefix, "doc", string(kind), id)
}

func (r *Repo) indexKey(kind domdoc.Kind) string {
	return db.Key(r.prefix, "doc", string(kind), "idx")
}

func (r *Repo) ownerKey(kind domdoc.Kind, owner string) string {
	return db.Key(r.prefix, "doc", string(kind), "owner", owner)
}

func (r *Repo) savedKey(user string) string {
	return db.Key(r.prefix, "saved", user)
}

var _ store = (db.Store)(nil)
