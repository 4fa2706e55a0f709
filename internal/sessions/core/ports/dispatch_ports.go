package ports

import (
	"context"

	evdomain "session-analytics-service/internal/events/core/domain"
)

type EventReaderPort interface {
	GetEvent(ctx context.Context, id uint64) (*evdomain.Event, error)
}

type IndexWriterPort interface {
	Index(term, handle string)
}

type WindowPort interface {
	Advance(ctx context.Context, gid string, eventID, tsMs uint64, counter string) error
	Tick(ctx context.Context, tsMs uint64) error
}
