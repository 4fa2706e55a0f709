package postgres

import (
	"context"
	"fmt"

	"session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/events/core/ports"
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

// SQL template
const insertEventSQL = `
INSERT INTO events (
    eid,
    ms,
    device_id,
    client_id,
    kind,
    payload
) VALUES (
    $1, $2, $3, $4, $5, $6
)
ON CONFLICT (eid) DO NOTHING;
`

const selectEventSQL = `
SELECT ms, device_id, client_id, kind, payload
FROM events
WHERE eid = $1`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	payloadJSON, err := domain.EncodePayload(e.Payload)
	if err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx, insertEventSQL,
		int64(e.ID),
		int64(e.Timestamp),
		e.DeviceID,
		e.ClientID,
		string(e.Payload.Kind()),
		string(payloadJSON),
	)
	if err != nil {
		return false, err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// rows == 1  -> new record
	// rows == 0  -> duplicate (ON CONFLICT DO NOTHING)
	return rows > 0, nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id uint64) (*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, selectEventSQL, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, domain.ErrEventNotFound
	}

	var (
		ms                 int64
		deviceID, clientID string
		kind               string
		payload            []byte
	)
	if err := rows.Scan(&ms, &deviceID, &clientID, &kind, &payload); err != nil {
		return nil, err
	}

	p, err := domain.DecodePayload(domain.Kind(kind), payload)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", id, err)
	}

	return &domain.Event{
		ID:        id,
		Timestamp: uint64(ms),
		DeviceID:  deviceID,
		ClientID:  clientID,
		Payload:   p,
	}, nil
}
