package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/config"
	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	"github.com/kailas-cloud/jobmatch/internal/repository/embcache"
	geminiEmb "github.com/kailas-cloud/jobmatch/internal/transport/gemini"
	openaiEmb "github.com/kailas-cloud/jobmatch/internal/transport/openai"
	"github.com/kailas-cloud/jobmatch/internal/transport/stub"
	embeddinguc "github.com/kailas-cloud/jobmatch/internal/usecase/embedding"
)

// newProvider builds the base embedding provider selected by configuration.
func newProvider(ctx context.Context, cfg config.EmbeddingConfig, logger *zap.Logger) (domain.Embedder, error) {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			Provider:   cfg.Provider,
			Timeout:    timeout,
			Logger:     logger,
		}), nil
	case config.ProviderGemini:
		emb, err := geminiEmb.NewEmbedder(ctx, &geminiEmb.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			TaskType:   cfg.TaskType,
			Timeout:    timeout,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini embedder: %w", err)
		}
		return emb, nil
	case config.ProviderStub:
		return stub.NewEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// buildEmbedder assembles the decorator chain: provider -> Cached -> Instrumented.
// A nil store skips the cache.
func buildEmbedder(
	ctx context.Context,
	cfg config.EmbeddingConfig,
	keyPrefix string,
	store db.Store,
	logger *zap.Logger,
) (*embeddinguc.InstrumentedEmbedder, error) {
	base, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	embedder := base
	if store != nil {
		// model and dimensions are part of the key so a provider switch never serves stale vectors
		prefix := fmt.Sprintf("%semb:%s:%s:%d:", keyPrefix, cfg.Provider, cfg.Model, cfg.Dimensions)
		embedder = embcache.New(base, store, prefix, metrics.EmbeddingCacheTotal, logger).
			WithTTL(time.Duration(cfg.CacheTTLH) * time.Hour)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Provider, cfg.Model, logger), nil
}
