package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the application routes. A nil rateLimiter leaves
// the preview route unthrottled.
func SetupRoutes(app *fiber.App, handlers *Handlers, rateLimiter *RateLimiter) {
	app.Get("/healthz", handlers.Health)
	app.Get("/oembed", handlers.OEmbed)

	// Mirrors the upstream URL structure, e.g. /jack/status/20
	post := []fiber.Handler{handlers.Post}
	if rateLimiter != nil {
		post = append([]fiber.Handler{rateLimiter.Middleware()}, post...)
	}
	app.Get("/:username/status/:id", post...)
}
