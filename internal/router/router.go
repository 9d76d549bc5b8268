package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/essayforge/essay-api/internal/config"
	"github.com/essayforge/essay-api/internal/handler"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EssayHandler    *handler.EssayHandler
	ResultHandler   *handler.ResultHandler
	QuestionHandler *handler.QuestionHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op when auth is not
	// configured.
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.EssayHandler != nil {
		essays := api.Group("/essays", jwtMiddleware)
		deps.EssayHandler.Register(essays)
	}

	if deps.ResultHandler != nil {
		results := api.Group("/results", jwtMiddleware)
		deps.ResultHandler.Register(results)
	}

	if deps.QuestionHandler != nil {
		questions := api.Group("/questions", jwtMiddleware)
		deps.QuestionHandler.Register(questions)
	}
}
