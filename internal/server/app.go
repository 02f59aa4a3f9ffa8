// internal/server/app.go
package server

import (
	stderrors "errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"francis-backend/internal/common/errors"
)

// NewApp builds the Fiber application with routes wired to the container.
func NewApp(c *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "francis-backend",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler(c),
	})

	app.Use(recover.New())
	app.Use(cors.New())

	SetupRoutes(app, c)
	return app
}

// errorHandler renders every error as the {status, message} envelope.
// Extraction ambiguity never reaches here: "no structured match" is a
// degraded success, not an error.
func errorHandler(c *Container) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Une erreur interne est survenue"

		var stdErr *errors.StandardError
		var fiberErr *fiber.Error
		switch {
		case stderrors.As(err, &stdErr):
			status = stdErr.HTTPStatus()
			message = stdErr.Message
		case stderrors.As(err, &fiberErr):
			status = fiberErr.Code
			message = fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			c.Logger.Error("request failed", map[string]interface{}{
				"path":   ctx.Path(),
				"status": status,
				"error":  err.Error(),
			})
		}

		return ctx.Status(status).JSON(fiber.Map{
			"status":  status,
			"message": message,
		})
	}
}
