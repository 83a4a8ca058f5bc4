package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httprouter "recruiterrisk/internal/http"
	"recruiterrisk/internal/platform/config"
	"recruiterrisk/internal/platform/httpserver"
	"recruiterrisk/internal/platform/logger"
	platformredis "recruiterrisk/internal/platform/redis"
	"recruiterrisk/internal/trust/audit"
	"recruiterrisk/internal/trust/leaderboard"
	"recruiterrisk/internal/trust/metrics"
	"recruiterrisk/internal/trust/service"
	"recruiterrisk/internal/trust/store"
	"recruiterrisk/internal/trust/verify"
)

func main() {
	log := logger.New()
	if err := run(log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	trustMetrics := metrics.New(registry)

	checks := make(map[string]httprouter.HealthChecker)

	// Stores: postgres when configured, in-memory otherwise.
	var (
		recruiters store.RecruiterStore
		feedback   store.FeedbackStore
	)
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("postgres pool: %w", err)
		}
		defer pool.Close()
		if err := store.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		recruiters = store.NewPostgresRecruiterStore(pool)
		feedback = store.NewPostgresFeedbackStore(pool)
		checks["postgres"] = poolHealth{pool}
		log.Info("using postgres stores")
	} else {
		recruiters = store.NewMemoryRecruiterStore()
		feedback = store.NewMemoryFeedbackStore()
		log.Info("using in-memory stores")
	}

	// Leaderboard: redis ZSET when configured.
	var ranker leaderboard.Ranker = leaderboard.NewMemoryRanker()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		ranker = leaderboard.NewRedisRanker(redisClient.Client)
		checks["redis"] = redisClient
		log.Info("using redis leaderboard")
	}

	// Audit trail: kafka when configured, in-memory retention otherwise.
	var sink audit.Sink = audit.NewMemorySink()
	if cfg.KafkaBrokers != "" {
		kafkaSink, err := audit.NewKafkaSink(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		if err != nil {
			return fmt.Errorf("kafka sink: %w", err)
		}
		sink = kafkaSink
		log.Info("using kafka audit sink", "topic", cfg.KafkaTopic)
	}
	publisher := audit.NewPublisher(sink, log, 256)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("close audit publisher", "error", err)
		}
	}()

	verifier := verify.New(
		verify.WithProviderTimeout(cfg.ProviderTimeout),
		verify.WithLogger(log),
		verify.WithMetrics(trustMetrics),
	)

	svc := service.New(recruiters, feedback,
		service.WithVerifier(verifier),
		service.WithRanker(ranker),
		service.WithAudit(publisher),
		service.WithLogger(log),
		service.WithMetrics(trustMetrics),
		service.WithRecentFeedbackLimit(cfg.RecentFeedbackLimit),
	)

	router := httprouter.New(svc, log, registry, checks)
	server := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

type poolHealth struct {
	pool *pgxpool.Pool
}

func (p poolHealth) Health(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
