package postgres

import (
	"context"

	"session-analytics-service/internal/sessions/core/domain"
	"session-analytics-service/internal/sessions/core/ports"
)

type GroupEventRepository struct {
	db DB
}

func NewGroupEventRepository(db DB) *GroupEventRepository {
	return &GroupEventRepository{db: db}
}

var _ ports.GroupEventRepositoryPort = (*GroupEventRepository)(nil)

const insertGroupEventSQL = `
INSERT INTO group_events (gid, eid)
VALUES ($1, $2)
ON CONFLICT (gid, eid) DO NOTHING;
`

const selectGroupsSQL = `
SELECT gid
FROM group_events
GROUP BY gid
ORDER BY gid`

const selectGroupEventsSQL = `
SELECT eid
FROM group_events
WHERE gid = $1
ORDER BY eid`

func (r *GroupEventRepository) AppendGroupEvent(ctx context.Context, gid string, eventID uint64) error {
	_, err := r.db.ExecContext(ctx, insertGroupEventSQL, gid, int64(eventID))
	return err
}

func (r *GroupEventRepository) ListGroups(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, selectGroupsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gids []string
	for rows.Next() {
		var gid string
		if err := rows.Scan(&gid); err != nil {
			return nil, err
		}
		gids = append(gids, gid)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gids, nil
}

func (r *GroupEventRepository) ListGroupEvents(ctx context.Context, gid string) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, selectGroupEventsSQL, gid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, domain.ErrGroupNotFound
	}
	return ids, nil
}
