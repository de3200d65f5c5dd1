// cmd/engine/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"clipers-engine/internal/ats"
	"clipers-engine/internal/cliper"
	commonaws "clipers-engine/internal/common/aws"
	"clipers-engine/internal/common/config"
	"clipers-engine/internal/common/database"
	"clipers-engine/internal/common/logger"
	"clipers-engine/internal/extraction"
	"clipers-engine/internal/jobs"
	"clipers-engine/internal/matching"
	"clipers-engine/internal/media"
	"clipers-engine/internal/notify"
	"clipers-engine/internal/search"
	"clipers-engine/internal/server"
	"clipers-engine/internal/store"
	"clipers-engine/internal/tasks"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	log.Info("Starting clipers engine...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment))

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		log.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	log.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		log.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		log.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	log.Info("Elasticsearch connected successfully")

	// --- Stores ---
	userStore := store.NewPostgresUserStore(pg.DB)
	cliperStore := store.NewPostgresCliperStore(pg.DB)
	profileStore := store.NewPostgresProfileStore(pg.DB)
	jobStore := store.NewPostgresJobStore(pg.DB)
	matchStore := store.NewPostgresMatchStore(pg.DB)
	notificationStore := store.NewPostgresNotificationStore(pg.DB)

	// --- Background task runner ---
	runner := tasks.NewRunner(cfg.Workers.PoolSize, cfg.Workers.QueueSize, log)

	// --- Notification channels per config ---
	dispatcher := notify.NewDispatcher(log)
	if cfg.Notifications.InApp.Enabled {
		dispatcher.Register(notify.NewInAppChannel(notificationStore, log))
	}
	if cfg.Notifications.Email.Enabled {
		sesClient, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			log.Fatal("ses client failed", zap.Error(err))
		}
		dispatcher.Register(notify.NewEmailChannel(sesClient, userStore, cfg.Notifications.Email.FromEmail, log))
	}
	if cfg.Notifications.Push.Enabled {
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			log.Fatal("sns client failed", zap.Error(err))
		}
		dispatcher.Register(notify.NewPushChannel(snsClient, cfg.Notifications.Push.TopicARN, log))
	}

	// --- Cliper pipeline ---
	storage, err := media.NewDiskStorage(cfg.Media)
	if err != nil {
		log.Fatal("media storage failed", zap.Error(err))
	}
	extractor, err := extraction.NewClient(cfg.Extraction, log)
	if err != nil {
		log.Fatal("extraction client failed", zap.Error(err))
	}
	fallback := extraction.NewFallback(time.Now().UnixNano())
	synthesizer := ats.NewSynthesizer(profileStore, log)

	pipeline := cliper.NewPipeline(
		userStore, cliperStore, storage, extractor, fallback,
		synthesizer, dispatcher, runner, log,
	)

	// --- Matching ---
	guard := matching.NewRunGuard(redisClient.Client,
		time.Duration(cfg.Matching.RunGuardTTL)*time.Second, log)
	orchestrator := matching.NewOrchestrator(
		matching.NewEngine(), userStore, profileStore, matchStore,
		dispatcher, runner, guard, cfg.Matching, log,
	)

	// --- Jobs ---
	jobIndex := search.NewJobIndex(esClient.Client, cfg.Database.Elasticsearch.JobIndex, log)
	jobService := jobs.NewService(userStore, jobStore, jobIndex, orchestrator, log)

	api := server.New(pipeline, jobService, jobIndex, log)

	log.Info("All components wired")

	// --- API, Health & Metrics Server ---
	go func() {
		mux := http.NewServeMux()
		api.Routes(mux)
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			status := http.StatusOK
			body := map[string]string{"status": "ready"}
			if err := pg.Ping(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body = map[string]string{"status": "not ready", "error": err.Error()}
			} else if err := redisClient.Ping(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				body = map[string]string{"status": "not ready", "error": err.Error()}
			}
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(body)
		})
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
		log.Info("API/Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
			log.Error("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, draining background tasks...")
	runner.Stop()

	log.Info("Clipers engine stopped gracefully")
}
