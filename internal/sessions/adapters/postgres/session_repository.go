package postgres

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"session-analytics-service/internal/sessions/core/domain"
	"session-analytics-service/internal/sessions/core/ports"
)

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

var _ ports.SessionRepositoryPort = (*SessionRepository)(nil)

const insertSessionSQL = `
INSERT INTO sessions (
    sid,
    gid,
    ms_first,
    ms_last,
    events,
    counters,
    number_of_events,
    number_of_seconds
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8
)
ON CONFLICT (sid) DO NOTHING;
`

const selectSessionsSQL = `
SELECT sid, gid, ms_first, ms_last, events, counters, number_of_events, number_of_seconds
FROM sessions
ORDER BY gid, sid`

func (r *SessionRepository) PutSession(ctx context.Context, s *domain.Session) (bool, error) {
	counters, err := json.Marshal(s.Counters)
	if err != nil {
		return false, err
	}

	events := make(pq.Int64Array, len(s.Events))
	for i, id := range s.Events {
		events[i] = int64(id)
	}

	res, err := r.db.ExecContext(ctx, insertSessionSQL,
		s.SID,
		s.GID,
		int64(s.MsFirst),
		int64(s.MsLast),
		events,
		string(counters),
		int64(s.NumberOfEvents),
		int64(s.NumberOfSeconds),
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 0 -> the session was already finalized (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

// ListSessions reads every finalized session in one statement, so the
// result is a consistent snapshot.
func (r *SessionRepository) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		var (
			s                            domain.Session
			msFirst, msLast              int64
			events                       pq.Int64Array
			counters                     []byte
			numberOfEvents, numberOfSecs int64
		)
		if err := rows.Scan(&s.SID, &s.GID, &msFirst, &msLast, &events, &counters, &numberOfEvents, &numberOfSecs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(counters, &s.Counters); err != nil {
			return nil, fmt.Errorf("session %s: bad counters: %w", s.SID, err)
		}
		if s.Counters == nil {
			s.Counters = map[string]uint64{}
		}
		s.MsFirst = uint64(msFirst)
		s.MsLast = uint64(msLast)
		s.NumberOfEvents = uint64(numberOfEvents)
		s.NumberOfSeconds = uint64(numberOfSecs)
		s.Events = make([]uint64, len(events))
		for i, id := range events {
			s.Events[i] = uint64(id)
		}
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
