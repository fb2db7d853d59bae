package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/voicedraft/voicedraft/internal/archive"
	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/cache"
	"github.com/voicedraft/voicedraft/internal/config"
	"github.com/voicedraft/voicedraft/internal/database"
	"github.com/voicedraft/voicedraft/internal/queue"
	"github.com/voicedraft/voicedraft/internal/queue/workers"
	"github.com/voicedraft/voicedraft/internal/transcribe"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// The worker exists to archive job outcomes, so the database is required here.
	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database required for worker", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath); err != nil {
		slog.Warn("migrations failed", "error", err)
	}

	var store cache.Store
	if cfg.Cache.Backend == "redis" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		store = cache.NewRedis(rdb, cfg.Cache.TTL)
	} else {
		store = cache.NewMemory(cfg.Cache.TTL)
	}

	dispatcher := transcribe.NewDispatcher(
		audio.NewNormalizer(),
		transcribe.NewRegistry(cfg.Speech),
		store,
		cfg.Speech.RequestTimeout,
	)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()
	worker := workers.NewTranscriptionWorker(dispatcher, archive.NewService(db))
	registry.Register(queue.TypeTranscriptionRun, asynq.HandlerFunc(worker.ProcessTask))

	slog.Info("starting worker", "concurrency", 10)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
