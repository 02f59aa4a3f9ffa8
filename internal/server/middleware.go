// internal/server/middleware.go
package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency by route",
		},
		[]string{"method", "route"},
	)
)

// PrometheusMiddleware records request counts and latency per route.
func PrometheusMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		route := ctx.Route().Path
		status := strconv.Itoa(ctx.Response().StatusCode())
		httpRequestsTotal.WithLabelValues(ctx.Method(), route, status).Inc()
		httpRequestDuration.WithLabelValues(ctx.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

const localsUserKey = "user"

// bearerToken returns the Authorization bearer value, empty when absent.
func bearerToken(ctx *fiber.Ctx) string {
	return strings.TrimPrefix(ctx.Get(fiber.HeaderAuthorization), "Bearer ")
}

// AuthMiddleware resolves the Authorization bearer header against the auth
// provider and stores the user in locals. The token comes only from the
// canonical header: query parameters and anything resembling client-side
// storage are not honored.
func AuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "jeton d'authentification manquant")
		}

		user, err := verifier.VerifyToken(ctx.UserContext(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "jeton d'authentification invalide")
		}

		ctx.Locals(localsUserKey, user)
		return ctx.Next()
	}
}
