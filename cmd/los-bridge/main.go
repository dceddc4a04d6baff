// cmd/los-bridge/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"los-bridge/internal/bridge"
	"los-bridge/internal/common/config"
	"los-bridge/internal/common/database"
	"los-bridge/internal/common/logger"
	"los-bridge/internal/common/los"
	"los-bridge/internal/common/observability"
	"los-bridge/internal/consumer"
	"los-bridge/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting LOS bridge...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild the logger with configured level/format
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Postgres with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Postgres initialization")
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	// --- Redis ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		zapLog.Fatal("redis ping failed", zap.Error(err))
	}

	// --- LOS webhook client ---
	// A missing URL is not fatal: pushes are then recorded as failed without
	// any delivery attempt, and the admin UI surfaces the status.
	var webhookClient bridge.WebhookClient
	if cfg.Integrations.LOS.WebhookURL != "" {
		webhookClient = los.NewClient(
			cfg.Integrations.LOS.WebhookURL,
			config.GetDuration(cfg.Integrations.LOS.Timeout),
		)
		zapLog.Info("LOS webhook configured")
	} else {
		zapLog.Warn("LOS webhook URL not configured, pushes will be recorded as failed")
	}

	// --- Stores and service ---
	apps := store.NewApplicationStore(pg.GetDB(), log)
	profiles := store.NewProfileStore(pg.GetDB())

	svc := bridge.NewService(bridge.ServiceDependencies{
		Applications: apps,
		Profiles:     profiles,
		Client:       webhookClient,
		Logger:       log,
	})

	// --- Metrics / health endpoint ---
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		hctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := pg.Ping(hctx); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := rdb.Ping(hctx); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	metricsSrv := &http.Server{
		Addr:    cfg.Metrics.ListenAddress,
		Handler: mux,
	}
	go func() {
		zapLog.Info("metrics server listening", zap.String("address", cfg.Metrics.ListenAddress))
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- Consumer ---
	c := consumer.New(consumer.Options{
		Redis:   rdb.GetClient(),
		Queue:   cfg.Queue.Name,
		Workers: cfg.Queue.Workers,
		Pusher:  svc,
		Logger:  log,
		Obs:     obs,
	})

	zapLog.Info("LOS bridge started",
		zap.String("queue", cfg.Queue.Name),
		zap.Int("workers", cfg.Queue.Workers),
	)

	c.Run(ctx)

	// ctx cancelled: drain and shut down
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("metrics server shutdown failed", zap.Error(err))
	}

	zapLog.Info("LOS bridge stopped")
}
