package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/auth"
	"github.com/kailas-cloud/jobmatch/internal/config"
	"github.com/kailas-cloud/jobmatch/internal/db"
	"github.com/kailas-cloud/jobmatch/internal/db/memory"
	"github.com/kailas-cloud/jobmatch/internal/domain"
	dbRedis "github.com/kailas-cloud/jobmatch/internal/db/redis"
	"github.com/kailas-cloud/jobmatch/internal/extract"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	apprepo "github.com/kailas-cloud/jobmatch/internal/repository/application"
	docrepo "github.com/kailas-cloud/jobmatch/internal/repository/document"
	ntfrepo "github.com/kailas-cloud/jobmatch/internal/repository/notification"
	chiTransport "github.com/kailas-cloud/jobmatch/internal/transport/chi"
	"github.com/kailas-cloud/jobmatch/internal/transport/ws"
	applicationuc "github.com/kailas-cloud/jobmatch/internal/usecase/application"
	documentuc "github.com/kailas-cloud/jobmatch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	historyuc "github.com/kailas-cloud/jobmatch/internal/usecase/history"
	matchinguc "github.com/kailas-cloud/jobmatch/internal/usecase/matching"
	"github.com/kailas-cloud/jobmatch/internal/usecase/notify"
	"github.com/kailas-cloud/jobmatch/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Loads config/<ENV>.yaml, connects the store and embedding provider and serves the REST and WebSocket API until SIGINT or SIGTERM.",
	RunE:  runServe,
}

var serveEnv string

func init() {
	serveCmd.Flags().StringVar(&serveEnv, "env", "", "Config environment name (default: $ENV or local)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	env := serveEnv
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting jobmatch API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("embedding_provider", cfg.Embedding.Provider),
	)

	ctx := context.Background()
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterDomainMetrics()

	embedder, err := buildEmbedder(ctx, cfg.Embedding, cfg.Database.KeyPrefix, store, logger)
	if err != nil {
		return err
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}

	prefix := cfg.Database.KeyPrefix
	docRepo := docrepo.New(store, prefix)
	appRepo := apprepo.New(store, prefix)
	ntfRepo := ntfrepo.New(store, prefix)

	// Notification bus: wired once here, sealed before the first request.
	bus := notify.NewBus(logger)
	observers := []notify.Observer{notify.NewStoreObserver(ntfRepo)}
	if cfg.Notifications.LogEvents {
		observers = append(observers, notify.NewLogObserver(logger))
	}
	var hub *ws.Hub
	if cfg.Notifications.PushEnabled {
		hub = ws.NewHub(logger)
		defer hub.Close()
		observers = append(observers, hub)
	}
	for _, o := range observers {
		if err := bus.Subscribe(o); err != nil {
			return fmt.Errorf("subscribe %s observer: %w", o.Name(), err)
		}
	}
	bus.Seal()
	logger.Info("Notification bus sealed", zap.Strings("observers", bus.Observers()))

	space := domain.EmbeddingSpace(cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	matchSvc := matchinguc.New(docRepo, embedder, matchinguc.Config{
		Concurrency:  cfg.Matching.Concurrency,
		DefaultLimit: cfg.Matching.DefaultLimit,
		Space:        space,
		Dimensions:   cfg.Embedding.Dimensions,
	}, logger)
	docSvc := documentuc.New(docRepo, embedder).
		WithPagination(cfg.Matching.DefaultPageSize, cfg.Matching.MaxPageSize).
		WithSpace(space).
		WithSaved(docRepo).
		WithApplications(appRepo)
	appSvc := applicationuc.New(appRepo, docRepo, matchSvc, bus, logger)
	historySvc := historyuc.New(docRepo, docRepo, appRepo)
	inboxSvc := notify.NewService(ntfRepo)

	healthSvc := healthuc.New(store).With("embedding", embedder)
	if hub != nil {
		healthSvc = healthSvc.With("push", hub)
	}

	server := chiTransport.NewServer(chiTransport.Deps{
		Matching:     matchSvc,
		Documents:    docSvc,
		Applications: appSvc,
		History:      historySvc,
		Inbox:        inboxSvc,
		Extractor:    extract.NewRegistry(),
		Push:         hub,
		Health:       healthSvc,
		Tokens:       tokens,
		Logger:       logger,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown; close them first.
	if hub != nil {
		hub.Close()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// openStore creates the configured store and waits until it answers.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	var store db.Store
	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create database store: %w", err)
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	return store, nil
}
