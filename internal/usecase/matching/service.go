// Package matching ranks texts and stored documents by embedding similarity.
package matching

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	domdoc "github.com/kailas-cloud/jobmatch/internal/domain/document"
	"github.com/kailas-cloud/jobmatch/internal/domain/match"
	"github.com/kailas-cloud/jobmatch/internal/domain/similarity"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

const (
	defaultConcurrency = 4
	defaultLimit       = 20
)

// Config tunes the matching engine.
type Config struct {
	Concurrency  int    // parallel embedding calls per ranking
	DefaultLimit int    // used when a stored-document ranking asks for limit <= 0
	Space        string // current embedding space; stored vectors of another space are ignored
	Dimensions   int    // current provider dimensionality, 0 when unknown
}

// Service is the matching engine. It never writes: stored vectors that are stale, of
// another embedding space or of another dimensionality are recomputed through the
// embedder (and its cache) on the fly.
type Service struct {
	docs   DocumentReader
	embed  Embedder
	cfg    Config
	logger *zap.Logger
}

// New creates a matching service.
func New(docs DocumentReader, embed Embedder, cfg Config, logger *zap.Logger) *Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultLimit
	}
	return &Service{docs: docs, embed: embed, cfg: cfg, logger: logger}
}

// Rank scores every candidate text against the query, best first, ties in input order.
func (s *Service) Rank(ctx context.Context, query string, candidates []string) ([]match.Ranked, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrEmptyCandidateSet
	}
	defer observe("rank", len(candidates), time.Now())

	q, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	vecs := make([][]float32, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, text := range candidates {
		g.Go(func() error {
			res, err := s.embed.Embed(gctx, text)
			if err != nil {
				return fmt.Errorf("vectorize candidate %d: %w", i, err)
			}
			vecs[i] = res.Embedding
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per candidate
	}

	ranked := make([]match.Ranked, len(candidates))
	for i, v := range vecs {
		score, err := similarity.Cosine(q.Embedding, v)
		if err != nil {
			return nil, fmt.Errorf("score candidate %d: %w", i, err)
		}
		ranked[i] = match.Ranked{Index: i, Score: score}
	}
	match.SortByScore(ranked)
	return ranked, nil
}

// RankVacanciesForResume ranks open vacancies for a résumé owned by requester.
func (s *Service) RankVacanciesForResume(
	ctx context.Context, requester, resumeID string, limit int,
) ([]match.Result, error) {
	return s.rankStored(ctx, requester, domdoc.KindResume, resumeID, domdoc.KindVacancy, limit)
}

// RankResumesForVacancy ranks all résumés for a vacancy owned by requester.
func (s *Service) RankResumesForVacancy(
	ctx context.Context, requester, vacancyID string, limit int,
) ([]match.Result, error) {
	return s.rankStored(ctx, requester, domdoc.KindVacancy, vacancyID, domdoc.KindResume, limit)
}

// Score returns the similarity of a stored résumé and vacancy.
func (s *Service) Score(ctx context.Context, resumeID, vacancyID string) (float64, error) {
	resume, err := s.docs.Get(ctx, domdoc.KindResume, resumeID)
	if err != nil {
		return 0, fmt.Errorf("get resume: %w", err)
	}
	vacancy, err := s.docs.Get(ctx, domdoc.KindVacancy, vacancyID)
	if err != nil {
		return 0, fmt.Errorf("get vacancy: %w", err)
	}
	return s.ScoreDocuments(ctx, &resume, &vacancy)
}

// ScoreDocuments returns the similarity of two already loaded documents.
func (s *Service) ScoreDocuments(ctx context.Context, a, b *domdoc.Document) (float64, error) {
	va, aStored, err := s.vectorFor(ctx, a, s.cfg.Dimensions)
	if err != nil {
		return 0, err
	}
	vb, _, err := s.vectorFor(ctx, b, len(va))
	if err != nil {
		return 0, err
	}
	// vb disagreeing with a stored va means vb is fresh and va is a leftover.
	if len(va) != len(vb) && aStored {
		metrics.DocumentReembedTotal.WithLabelValues(string(a.Kind()), metrics.ReembedFallback).Inc()
		if va, err = s.embedText(ctx, a); err != nil {
			return 0, err
		}
	}
	score, err := similarity.Cosine(va, vb)
	if err != nil {
		return 0, fmt.Errorf("score %s/%s: %w", a.ID(), b.ID(), err)
	}
	return score, nil
}

func (s *Service) rankStored(
	ctx context.Context, requester string,
	sourceKind domdoc.Kind, sourceID string, targetKind domdoc.Kind, limit int,
) ([]match.Result, error) {
	source, err := s.docs.Get(ctx, sourceKind, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", sourceKind, err)
	}
	if source.Owner() != requester {
		return nil, fmt.Errorf("%s %s: %w", sourceKind, sourceID, domain.ErrForbidden)
	}

	targets, err := s.docs.List(ctx, targetKind, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", targetKind, err)
	}
	if targetKind == domdoc.KindVacancy {
		open := targets[:0]
		for i := range targets {
			if targets[i].IsOpen() {
				open = append(open, targets[i])
			}
		}
		targets = open
	}
	if len(targets) == 0 {
		return []match.Result{}, nil
	}
	defer observe("rank_"+string(targetKind), len(targets), time.Now())

	sv, sourceStored, err := s.vectorFor(ctx, &source, s.cfg.Dimensions)
	if err != nil {
		return nil, err
	}
	vecs, err := s.targetVectors(ctx, targets, len(sv))
	if err != nil {
		return nil, err
	}
	if sourceStored && anyLenOtherThan(vecs, len(sv)) {
		metrics.DocumentReembedTotal.WithLabelValues(string(sourceKind), metrics.ReembedFallback).Inc()
		if sv, err = s.embedText(ctx, &source); err != nil {
			return nil, err
		}
		if vecs, err = s.targetVectors(ctx, targets, len(sv)); err != nil {
			return nil, err
		}
	}

	results := make([]match.Result, 0, len(targets))
	for i := range targets {
		score, err := similarity.Cosine(sv, vecs[i])
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", targets[i].ID(), err)
		}
		results = append(results, match.New(sourceID, targets[i].ID(), targets[i].Title(), targets[i].Owner(), score))
	}
	match.SortResults(results)

	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	logpkg.FromContext(ctx, s.logger).Debug("Ranked stored documents",
		zap.String("source_kind", string(sourceKind)),
		zap.String("source_id", sourceID),
		zap.Int("candidates", len(targets)),
		zap.Int("returned", len(results)),
	)
	return results, nil
}

func (s *Service) targetVectors(ctx context.Context, targets []domdoc.Document, wantDim int) ([][]float32, error) {
	vecs := make([][]float32, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range targets {
		g.Go(func() error {
			v, _, err := s.vectorFor(gctx, &targets[i], wantDim)
			if err != nil {
				return err
			}
			vecs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped in vectorFor
	}
	return vecs, nil
}

// vectorFor returns the stored embedding when it is current in the configured space and,
// if wantDim > 0, of that length; otherwise it embeds the document text.
// stored reports which of the two happened.
func (s *Service) vectorFor(
	ctx context.Context, d *domdoc.Document, wantDim int,
) (vec []float32, stored bool, err error) {
	reason := metrics.ReembedStale
	if !d.NeedsEmbedding(s.cfg.Space) {
		if wantDim == 0 || len(d.Vector()) == wantDim {
			return d.Vector(), true, nil
		}
		reason = metrics.ReembedDimension
	}
	metrics.DocumentReembedTotal.WithLabelValues(string(d.Kind()), reason).Inc()
	vec, err = s.embedText(ctx, d)
	return vec, false, err
}

func (s *Service) embedText(ctx context.Context, d *domdoc.Document) ([]float32, error) {
	res, err := s.embed.Embed(ctx, d.Text())
	if err != nil {
		return nil, fmt.Errorf("vectorize %s %s: %w", d.Kind(), d.ID(), err)
	}
	return res.Embedding, nil
}

func anyLenOtherThan(vecs [][]float32, n int) bool {
	for _, v := range vecs {
		if len(v) != n {
			return true
		}
	}
	return false
}

func observe(op string, candidates int, start time.Time) {
	metrics.RankDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	metrics.RankCandidates.Observe(float64(candidates))
}
