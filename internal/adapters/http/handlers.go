package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trmnl-departures/internal/core/usecases"
)

// BoardHandler serves the departure board document for one stop.
//
// Query parameters: stop, exclude_platforms, exclude_unassigned,
// minutes_to_fetch, fetch_limit. Unset values fall back to configured
// defaults.
func BoardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseBoardRequest(c, deps.limits())
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		req.LeadMinutes = deps.Board.Defaults().LeadMinutes

		res, err := deps.Board.Build(c.UserContext(), req)
		if err != nil {
			return boardError(c, err)
		}

		body, err := json.Marshal(res.Document)
		if err != nil {
			return errInternal(c, "could not encode departure board")
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(body)
	}
}

func parseBoardRequest(c *fiber.Ctx, limits BoardLimits) (usecases.BoardRequest, error) {
	req := usecases.BoardRequest{
		StopID:           c.Query("stop"),
		ExcludePlatforms: c.Query("exclude_platforms"),
	}

	var err error
	if req.WindowMinutes, err = queryRange(c, "minutes_to_fetch", limits.MaxWindow); err != nil {
		return req, err
	}
	if req.FetchLimit, err = queryRange(c, "fetch_limit", limits.MaxFetchLimit); err != nil {
		return req, err
	}
	if raw := c.Query("exclude_unassigned"); raw != "" {
		if req.ExcludeUnassigned, err = strconv.ParseBool(raw); err != nil {
			return req, errors.New("exclude_unassigned must be a boolean")
		}
	}
	return req, nil
}

// queryRange parses an optional integer parameter in 1..upper. Absent
// parameters return 0 so the service applies its default.
func queryRange(c *fiber.Ctx, name string, upper int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, rangeError(name, upper)
	}
	if err := checkRange(name, n, upper); err != nil {
		return 0, err
	}
	return n, nil
}

func checkRange(name string, n, upper int) error {
	if n < 1 || n > upper {
		return rangeError(name, upper)
	}
	return nil
}

func rangeError(name string, upper int) error {
	return fmt.Errorf("%s must be an integer between 1 and %d", name, upper)
}
