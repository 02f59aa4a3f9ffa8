// internal/server/container.go
// Package server is the Fiber HTTP surface: route wiring, auth middleware,
// request handlers and the voice dictation websocket.
package server

import (
	"context"
	"time"

	"francis-backend/internal/common/auth"
	"francis-backend/internal/common/config"
	"francis-backend/internal/common/database"
	"francis-backend/internal/common/logger"
	"francis-backend/internal/extraction"
	"francis-backend/internal/francis"
	"francis-backend/internal/notify"
	"francis-backend/internal/search"
	"francis-backend/internal/session"
	"francis-backend/internal/store"
	"francis-backend/pkg/questionnaire"
)

// Container carries every dependency the handlers need. Handlers receive it
// whole; construction happens once in main.
type Container struct {
	Config        *config.Config
	Logger        logger.Logger
	Questionnaire *questionnaire.Questionnaire

	Auth     TokenVerifier
	Pipeline *extraction.Pipeline
	Francis  *francis.Client
	Notifier *notify.Notifier

	Sessions    *session.Store
	Clients     *store.ClientStore
	Users       *store.UserStore
	ClientIndex *search.ClientIndex

	Postgres *database.PostgresClient
	Redis    *database.RedisClient
}

// TokenVerifier abstracts the Supabase client for handler tests.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*auth.User, error)
}

// TokenInvalidator is implemented by verifiers that cache verification
// results; logout drops the cached entry so a revoked token dies immediately.
type TokenInvalidator interface {
	Invalidate(token string)
}

// HealthCheck pings the backing stores. Elasticsearch is deliberately absent:
// search is best effort and must not take /health down with it.
func (c *Container) HealthCheck() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	services := make(map[string]string)
	if c.Postgres != nil {
		services["postgres"] = pingStatus(c.Postgres.Ping(ctx))
	}
	if c.Redis != nil {
		services["redis"] = pingStatus(c.Redis.Ping(ctx))
	}
	return services
}

func pingStatus(err error) string {
	if err != nil {
		return "down"
	}
	return "ok"
}
