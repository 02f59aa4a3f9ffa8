// cmd/francis-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"francis-backend/internal/common/auth"
	"francis-backend/internal/common/config"
	"francis-backend/internal/common/database"
	"francis-backend/internal/common/logger"
	"francis-backend/internal/common/observability"
	"francis-backend/internal/extraction"
	"francis-backend/internal/extraction/semanticfallback"
	"francis-backend/internal/francis"
	"francis-backend/internal/notify"
	"francis-backend/internal/search"
	"francis-backend/internal/server"
	"francis-backend/internal/session"
	"francis-backend/internal/store"
	"francis-backend/pkg/questionnaire"
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

	zapLog.Info("Starting francis-backend...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("francis-backend")
	defer obs.Shutdown()

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
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional: search degrades without it) ---
	var clientIndex *search.ClientIndex
	if cfg.Database.Elasticsearch.Enabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return es.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Warn("elasticsearch unreachable, client search disabled", zap.Error(err))
		} else {
			clientIndex = search.NewClientIndex(es.Client, cfg.Database.Elasticsearch.Index, log)
			zapLog.Info("Elasticsearch connected successfully")
		}
	} else {
		zapLog.Info("Elasticsearch disabled, client search unavailable")
	}

	// --- Questionnaire ---
	q := questionnaire.Default()
	if cfg.Questionnaire.Path != "" {
		q, err = questionnaire.Load(cfg.Questionnaire.Path)
		if err != nil {
			zapLog.Fatal("questionnaire load failed", zap.Error(err))
		}
	}
	zapLog.Info("Questionnaire loaded", zap.Int("questions", q.Len()))

	// --- Notifications ---
	notifier, err := notify.New(ctx, &notify.Config{
		Enabled:      cfg.Notifications.Enabled,
		AWSRegion:    cfg.Notifications.AWSRegion,
		SenderEmail:  cfg.Notifications.SenderEmail,
		AdvisorEmail: cfg.Notifications.AdvisorEmail,
		AdvisorPhone: cfg.Notifications.AdvisorPhone,
		SMSEnabled:   cfg.Notifications.SMSEnabled,
	}, log)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}

	fallback := semanticfallback.NewClient(&semanticfallback.Config{
		BaseURL: cfg.GenAI.BaseURL,
		Timeout: time.Duration(cfg.GenAI.Timeout) * time.Millisecond,
	}, log)

	container := &server.Container{
		Config:        cfg,
		Logger:        log,
		Questionnaire: q,
		Auth:          auth.NewSupabaseClient(cfg.Supabase.URL, cfg.Supabase.AnonKey),
		Pipeline:      extraction.NewPipeline(q, fallback, log).WithObservability(obs),
		Francis: francis.NewClient(&francis.Config{
			BaseURL: cfg.GenAI.BaseURL,
			Timeout: time.Duration(cfg.GenAI.Timeout) * time.Millisecond,
		}, log),
		Notifier:    notifier,
		Sessions:    session.NewStore(redis, time.Duration(cfg.Session.TTL)*time.Second),
		Clients:     store.NewClientStore(pg.DB, log),
		Users:       store.NewUserStore(pg.DB, log),
		ClientIndex: clientIndex,
		Postgres:    pg,
		Redis:       redis,
	}

	app := server.NewApp(container)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		zapLog.Info("HTTP server listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			zapLog.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Shutdown complete")
}
