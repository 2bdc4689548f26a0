package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	natsadapter "github.com/samirrijal/trmnl-departures/internal/adapters/nats"
	"github.com/samirrijal/trmnl-departures/internal/adapters/valkey"
	"github.com/samirrijal/trmnl-departures/internal/core/usecases"
)

// BoardLimits bounds the numeric query parameters of a board request.
type BoardLimits struct {
	MaxWindow     int
	MaxFetchLimit int
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Board          *usecases.BoardService
	Secret         string
	Limits         BoardLimits
	RequestTimeout time.Duration
	RateLimit      int
	LimiterStorage fiber.Storage
	Events         *natsadapter.Publisher
	Valkey         *valkey.Storage
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return d.RequestTimeout
}

func (d *Dependencies) limits() BoardLimits {
	l := d.Limits
	if l.MaxWindow <= 0 {
		l.MaxWindow = 1440
	}
	if l.MaxFetchLimit <= 0 {
		l.MaxFetchLimit = 1000
	}
	return l
}
