// Package gemini is an embedding provider backed by the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/jobmatch/internal/domain"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
)

const (
	defaultModel = "gemini-embedding-001"
	providerName = "gemini"
)

// Config holds the Gemini embedding settings.
type Config struct {
	APIKey     string
	BaseURL    string // optional override, used by tests and proxies
	Model      string
	Dimensions int
	TaskType   string // e.g. SEMANTIC_SIMILARITY
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Embedder implements domain.Embedder over genai Models.EmbedContent.
type Embedder struct {
	client     *genai.Client
	model      string
	dimensions int
	taskType   string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewEmbedder creates a Gemini embedding provider.
func NewEmbedder(ctx context.Context, cfg *Config) (*Embedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		client:     client,
		model:      model,
		dimensions: cfg.Dimensions,
		taskType:   cfg.TaskType,
		timeout:    cfg.Timeout,
		logger:     logger,
	}, nil
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cfg := &genai.EmbedContentConfig{TaskType: e.taskType}
	if e.dimensions > 0 {
		dims := int32(e.dimensions) //nolint:gosec // validated by config
		cfg.OutputDimensionality = &dims
	}

	start := time.Now()
	resp, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), cfg)
	duration := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			e.fail("timeout")
			return domain.EmbeddingResult{}, fmt.Errorf("gemini embed timed out: %w", domain.ErrEmbeddingProviderError)
		}
		e.fail("api_error")
		return domain.EmbeddingResult{}, fmt.Errorf("gemini embed: %s: %w", err.Error(), domain.ErrEmbeddingProviderError)
	}

	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		e.fail("empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("empty gemini response: %w", domain.ErrEmbeddingProviderError)
	}

	vec := resp.Embeddings[0].Values
	if err := domain.ValidateEmbedding(vec, e.dimensions); err != nil {
		e.fail("malformed_response")
		return domain.EmbeddingResult{}, err
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, e.model).Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: vec}, nil
}

func (e *Embedder) fail(errType string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, errType).Inc()
	e.logger.Debug("Embedding request failed", zap.String("provider", providerName), zap.String("error_type", errType))
}

// HealthCheck embeds a short sample string.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.Embed(ctx, "health"); err != nil {
		return fmt.Errorf("gemini health check: %w", err)
	}
	return nil
}
