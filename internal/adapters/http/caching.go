package http

import (
	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that did not set one.
// Boards are live data and are never cached.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}

		var ttl string
		switch c.Path() {
		case "/", "/v1/board":
			ttl = "no-store"
		case "/v1/health", "/v1/ready":
			ttl = "public, max-age=10"
		case "/metrics":
			ttl = "no-cache"
		case "/docs", "/docs/openapi.yaml":
			ttl = "public, max-age=3600"
		}
		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}
