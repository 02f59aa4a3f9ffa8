// internal/server/routes.go
package server

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, c *Container) {
	// Prometheus metrics endpoint (no auth required for scraping)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now(),
			"services":  c.HealthCheck(),
		})
	})

	authMiddleware := AuthMiddleware(c.Auth)
	api := app.Group("/api", PrometheusMiddleware())

	// Assistant chat (public: the landing page demo uses it pre-signup)
	assistant := NewAssistantHandler(c)
	api.Post("/ask", assistant.Ask)
	api.Post("/test-francis", assistant.Ask)
	api.Post("/ai/analyze-profile-text", assistant.AnalyzeProfileText)

	// Billing is a static redirect, nothing more
	api.Get("/billing/checkout-url", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"url": c.Config.Billing.CheckoutURL})
	})

	// Logout drops the verifier's cached entry for the presented token.
	api.Post("/auth/logout", authMiddleware, func(ctx *fiber.Ctx) error {
		if inv, ok := c.Auth.(TokenInvalidator); ok {
			inv.Invalidate(bearerToken(ctx))
		}
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	// Account profile (authenticated)
	profiles := NewProfileHandler(c)
	userProfile := app.Group("/user-profile", PrometheusMiddleware(), authMiddleware)
	userProfile.Get("/:id", profiles.Get)
	userProfile.Post("/:id", profiles.Save)
	userProfile.Patch("/:id", profiles.Patch)

	// Advisor dashboard (authenticated)
	clients := NewClientHandler(c)
	pro := api.Group("/pro", authMiddleware)
	pro.Get("/clients", clients.List)
	pro.Post("/clients", clients.Create)
	pro.Get("/clients/search", clients.Search)
	pro.Get("/clients/:id", clients.Get)
	pro.Put("/clients/:id", clients.Update)
	pro.Delete("/clients/:id", clients.Delete)
	pro.Post("/clients/:id/analyze", clients.Analyze)
	pro.Post("/clients/:id/analyze-profile", clients.AnalyzeProfile)
	pro.Post("/clients/:id/analyze_irpp_2025", clients.AnalyzeIRPP)
	pro.Post("/clients/:id/ask_francis", clients.AskFrancis)
	pro.Get("/clients/:id/export-csv", clients.ExportCSV)
	pro.Get("/clients/:id/export-pdf", clients.ExportNotImplemented)
	pro.Get("/clients/:id/export-excel", clients.ExportNotImplemented)

	setupVoiceRoutes(app, c)
}

func setupVoiceRoutes(app *fiber.App, c *Container) {
	voice := NewVoiceHandler(c)

	app.Use("/api/voice/stream", func(ctx *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(ctx) {
			ctx.Locals("allowed", true)
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/api/voice/stream", websocket.New(func(conn *websocket.Conn) {
		voice.HandleStream(conn)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))
}
