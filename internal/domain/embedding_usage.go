package domain

import (
	"context"
	"sync"
)

type embeddingUsageKey struct{}

// EmbeddingUsage collects token usage for a single request.
// The handler attaches it before calling a service; services record every embedding they obtain;
// the handler reports the totals in response headers. Safe for concurrent use because ranking
// embeds candidates in parallel.
type EmbeddingUsage struct {
	mu          sync.Mutex
	totalTokens int
	calls       int
	cacheHits   int
}

// NewContextWithUsage returns a context carrying a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EmbeddingUsage) {
	u := &EmbeddingUsage{}
	return context.WithValue(ctx, embeddingUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector. Returns nil if not set; a nil collector ignores records.
func UsageFromContext(ctx context.Context) *EmbeddingUsage {
	u, _ := ctx.Value(embeddingUsageKey{}).(*EmbeddingUsage)
	return u
}

// Record accounts for one embedding result.
func (u *EmbeddingUsage) Record(res EmbeddingResult) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	u.totalTokens += res.TotalTokens
	if res.Cached {
		u.cacheHits++
	}
}

// Totals returns consumed tokens, embeddings obtained and how many of them came from the cache.
func (u *EmbeddingUsage) Totals() (tokens, calls, cacheHits int) {
	if u == nil {
		return 0, 0, 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totalTokens, u.calls, u.cacheHits
}
