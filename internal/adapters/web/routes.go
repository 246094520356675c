package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the serve-mode routes.
func SetupRoutes(app *fiber.App, handlers *Handlers, limiter *RateLimiter) {
	app.Get("/", handlers.Story)
	app.Get("/healthz", handlers.Health)

	app.Post("/rebuild", func(c *fiber.Ctx) error {
		if !limiter.Allow(c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many rebuild requests, try again later",
			})
		}
		return handlers.Rebuild(c)
	})
}
