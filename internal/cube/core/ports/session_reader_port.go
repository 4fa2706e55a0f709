package ports

import (
	"context"

	"session-analytics-service/internal/cube/core/domain"
	sessdomain "session-analytics-service/internal/sessions/core/domain"
)

// SessionReaderPort returns one consistent snapshot of finalized sessions.
type SessionReaderPort interface {
	ListSessions(ctx context.Context) ([]sessdomain.Session, error)
}

type BinnerPort interface {
	BuildBins(dist map[uint64]uint64) []domain.Bin
}
