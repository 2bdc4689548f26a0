package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trmnl-departures/internal/pkg/metrics"
)

// SecretAuthMiddleware rejects requests whose ?secret= does not match the
// configured shared secret.
func SecretAuthMiddleware(secret string) fiber.Handler {
	want := []byte(secret)
	return func(c *fiber.Ctx) error {
		got := []byte(c.Query("secret"))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			metrics.AuthFailures.Inc()
			return errForbidden(c, "denied")
		}
		return c.Next()
	}
}
