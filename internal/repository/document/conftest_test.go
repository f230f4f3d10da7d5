package document

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/jobmatch/internal/db/memory"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
)

// mockStore implements the consumer interface for failure-path tests.
type mockStore struct {
	hsetFn      func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn   func(ctx context.Context, key string) (map[string]string, error)
	zaddFn      func(ctx context.Context, key string, score float64, member string) error
	zrevRangeFn func(ctx context.Context, key string, offset, limit int) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if m.zaddFn != nil {
		return m.zaddFn(ctx, key, score, member)
	}
	return nil
}

func (m *mockStore) ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error) {
	if m.zrevRangeFn != nil {
		return m.zrevRangeFn(ctx, key, offset, limit)
	}
	return nil, nil
}

func (m *mockStore) ZCard(_ context.Context, _ string) (int64, error) { return 0, nil }

func (m *mockStore) Del(_ context.Context, _ ...string) error { return nil }

func (m *mockStore) ZRem(_ context.Context, _ string, _ ...string) error { return nil }

const testSpace = "stub/stub/3"

func newMemoryRepo(t *testing.T) *Repo {
	t.Helper()
	return New(memory.NewStore(), "test:")
}

func testVacancy(t *testing.T, id string, at time.Time) domdoc.Document {
	t.Helper()
	return domdoc.Reconstruct(domdoc.KindVacancy, id, "recruiter-1", "Go engineer",
		"We need a Go backend engineer", domdoc.StateOpen,
		[]float32{0.25, -0.5, 1}, domdoc.HashText("We need a Go backend engineer"), testSpace, at)
}
