package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
	"github.com/samirrijal/trmnl-departures/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, forbidden, upstream_error, etc.
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errForbidden returns a 403 error.
func errForbidden(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusForbidden, "forbidden", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errBadGateway returns a 502 error for upstream failures.
func errBadGateway(c *fiber.Ctx, code, msg string) error {
	return newError(c, fiber.StatusBadGateway, code, msg)
}

// errGatewayTimeout returns a 504 error.
func errGatewayTimeout(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusGatewayTimeout, "upstream_timeout", msg)
}

// boardError maps a BoardService failure to a response.
func boardError(c *fiber.Ctx, err error) error {
	logging.FromContext(c.UserContext()).Error("board failed", "error", err)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errGatewayTimeout(c, "departure board timed out")
	case errors.Is(err, domain.ErrMalformedDeparture):
		return errBadGateway(c, "malformed_upstream_data", err.Error())
	case errors.Is(err, domain.ErrUpstream):
		return errBadGateway(c, "upstream_error", err.Error())
	default:
		return errInternal(c, "could not build departure board")
	}
}
