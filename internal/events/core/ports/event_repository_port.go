package ports

import (
	"context"

	"session-analytics-service/internal/events/core/domain"
)

type EventRepositoryPort interface {
	// InsertEvent:
	//   created = true,  err = nil  -> new record
	//   created = false, err = nil  -> duplicate id (idempotent)
	//   created = false, err != nil -> storage error
	InsertEvent(ctx context.Context, e *domain.Event) (created bool, err error)

	// GetEvent returns domain.ErrEventNotFound for unknown ids and wraps
	// domain.ErrMalformedEvent when the stored payload cannot be decoded.
	GetEvent(ctx context.Context, id uint64) (*domain.Event, error)
}

// StreamPublisherPort appends an id to the ordered event stream.
type StreamPublisherPort interface {
	Publish(ctx context.Context, id uint64) error
}
