package ports

import (
	"context"

	"session-analytics-service/internal/sessions/core/domain"
)

// SessionRepositoryPort is the durable store of finalized sessions.
type SessionRepositoryPort interface {
	// PutSession is idempotent on sid; it reports whether the row is new.
	PutSession(ctx context.Context, s *domain.Session) (bool, error)
	// ListSessions returns every finalized session ordered by gid, sid.
	ListSessions(ctx context.Context) ([]domain.Session, error)
}

// GroupEventRepositoryPort is the per-group event log.
type GroupEventRepositoryPort interface {
	AppendGroupEvent(ctx context.Context, gid string, eventID uint64) error
	ListGroups(ctx context.Context) ([]string, error)
	// ListGroupEvents returns ids ascending, or ErrGroupNotFound.
	ListGroupEvents(ctx context.Context, gid string) ([]uint64, error)
}
