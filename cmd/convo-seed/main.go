package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lenzenc/convo/internal/config"
	"github.com/lenzenc/convo/internal/observability"
	"github.com/lenzenc/convo/internal/seed"
	s3store "github.com/lenzenc/convo/internal/storage/s3"
)

func main() {
	sessions := flag.Int("sessions", 200, "number of conversation sessions to generate")
	randomSeed := flag.Int64("seed", time.Now().UnixNano(), "random seed for deterministic generation")
	flag.Parse()

	cfg, err := config.LoadFromEnv("convo-seed")
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
		AutoCreateBucket: true,
	})
	if err != nil {
		logger.Error("failed to initialize object store", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("seeding conversation corpus",
		slog.String("bucket", cfg.ObjectStore.Bucket),
		slog.Int("sessions", *sessions),
		slog.Int64("seed", *randomSeed))

	summary, err := seed.New(objectStore, logger).Run(ctx, *sessions, *randomSeed)
	if err != nil {
		logger.Error("seeding failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("seeding complete",
		slog.Int("sessions", summary.Sessions),
		slog.Int("entries", summary.Entries),
		slog.Int("files", summary.Files),
		slog.Int("purged", summary.Purged))
}
