package ports

import (
	"context"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

// DepartureSource fetches the live departure board of a stop.
type DepartureSource interface {
	FetchDepartures(ctx context.Context, q domain.DepartureQuery) (*domain.StopDepartures, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishBoardServed(ctx context.Context, event *domain.BoardServed) error
}
