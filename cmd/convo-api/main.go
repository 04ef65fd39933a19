package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lenzenc/convo/internal/api"
	"github.com/lenzenc/convo/internal/config"
	"github.com/lenzenc/convo/internal/health"
	"github.com/lenzenc/convo/internal/nl2sql"
	"github.com/lenzenc/convo/internal/observability"
	"github.com/lenzenc/convo/internal/query"
	duckdbengine "github.com/lenzenc/convo/internal/query/duckdb"
	"github.com/lenzenc/convo/internal/schema"
	"github.com/lenzenc/convo/internal/storage"
	s3store "github.com/lenzenc/convo/internal/storage/s3"
	"github.com/lenzenc/convo/internal/views"
)

func main() {
	cfg, err := config.LoadFromEnv("convo-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	objectStore, err := s3store.New(context.Background(), s3store.Config{
		Endpoint:         cfg.ObjectStore.Endpoint,
		Region:           cfg.ObjectStore.Region,
		Bucket:           cfg.ObjectStore.Bucket,
		AccessKeyID:      cfg.ObjectStore.AccessKeyID,
		SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
		UseSSL:           cfg.ObjectStore.UseSSL(),
		AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
	})
	if err != nil {
		logger.Error("failed to initialize object store", slog.Any("error", err))
		os.Exit(1)
	}

	catalog, err := views.Open(cfg.Views.Path, schema.Glob(cfg.ObjectStore.Bucket))
	if err != nil {
		logger.Error("failed to open view catalog", slog.Any("error", err))
		os.Exit(1)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		logger.Error("failed to initialize translation provider", slog.Any("error", err))
		os.Exit(1)
	}
	translator := nl2sql.NewTranslator(provider, schema.ConversationEntry(cfg.ObjectStore.Bucket), catalog)

	engineConfig := duckdbengine.Config{
		Endpoint:        cfg.ObjectStore.Endpoint,
		AccessKeyID:     cfg.ObjectStore.AccessKeyID,
		SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
	}
	apiSessions := func() (api.EngineSession, error) { return duckdbengine.Open(engineConfig) }
	proberSessions := func() (health.EngineSession, error) { return duckdbengine.Open(engineConfig) }
	prober := health.NewProber(proberSessions, objectStore, storage.TablePrefix)

	handler := api.NewHandler(cfg, api.Dependencies{
		Logger:     logger,
		Readiness:  api.CheckObjectStoreConfig(cfg),
		Sessions:   apiSessions,
		Views:      catalog,
		Translator: translator,
		Executor:   query.NewExecutor(),
		Prober:     prober,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server",
			slog.String("addr", cfg.HTTP.Address),
			slog.String("provider", cfg.AI.Provider),
			slog.String("bucket", cfg.ObjectStore.Bucket))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func buildProvider(cfg config.Config) (nl2sql.Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderGoogle:
		return nl2sql.NewGoogleProvider(nl2sql.GoogleConfig{
			BaseURL: cfg.AI.BaseURL,
			APIKey:  cfg.AI.GoogleAPIKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		})
	default:
		return nl2sql.NewOpenAIProvider(nl2sql.OpenAIConfig{
			BaseURL: cfg.AI.BaseURL,
			APIKey:  cfg.AI.OpenAIAPIKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		})
	}
}
