package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"session-analytics-service/internal/sessions/core/domain"
	"session-analytics-service/internal/sessions/core/ports"
)

const (
	sameSecond      = "same second as the event below"
	firstEventLabel = "a long time ago in a galaxy far far away"
)

type BrowseUseCase struct {
	groups ports.GroupEventRepositoryPort
	events ports.EventReaderPort
	now    func() time.Time
}

func NewBrowseUseCase(groups ports.GroupEventRepositoryPort, events ports.EventReaderPort, now func() time.Time) *BrowseUseCase {
	if now == nil {
		now = time.Now
	}
	return &BrowseUseCase{groups: groups, events: events, now: now}
}

// ListGroups returns the sorted group keys seen so far.
func (uc *BrowseUseCase) ListGroups(ctx context.Context) ([]string, error) {
	gids, err := uc.groups.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(gids)
	return gids, nil
}

type GroupEvent struct {
	EventID           uint64
	Handle            string
	TimeAgo           string
	TimeSincePrevious string
	Description       string
}

type GroupDetail struct {
	GID    string
	Events []GroupEvent
}

// GroupDetail lists the events of gid, newest first.
func (uc *BrowseUseCase) GroupDetail(ctx context.Context, gid string) (GroupDetail, error) {
	ids, err := uc.groups.ListGroupEvents(ctx, gid)
	if err != nil {
		return GroupDetail{}, err
	}
	if len(ids) == 0 {
		return GroupDetail{}, domain.ErrGroupNotFound
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	now := uc.now()
	out := GroupDetail{GID: gid, Events: make([]GroupEvent, len(ids))}
	times := make([]time.Time, len(ids))
	for i, id := range ids {
		e, err := uc.events.GetEvent(ctx, id)
		if err != nil {
			return GroupDetail{}, fmt.Errorf("failed to resolve %d in %s: %w", id, gid, err)
		}
		times[i] = time.UnixMilli(int64(e.Timestamp))
		out.Events[i] = GroupEvent{
			EventID:     id,
			Handle:      EventHandle(id),
			TimeAgo:     humanize.RelTime(times[i], now, "ago", "from now"),
			Description: e.Describe(),
		}
	}
	for i := 0; i+1 < len(ids); i++ {
		cur, prev := times[i], times[i+1]
		if cur.Unix() == prev.Unix() {
			out.Events[i].TimeSincePrevious = sameSecond
			continue
		}
		out.Events[i].TimeSincePrevious = humanize.RelTime(prev, cur, "after the event below", "before the event below")
	}
	out.Events[len(ids)-1].TimeSincePrevious = firstEventLabel
	return out, nil
}

// SessionsViewPort reads the open and the finalized sessions at one point in
// time.
type SessionsViewPort interface {
	View(ctx context.Context) (current map[string]domain.Session, finalized []domain.Session, err error)
}

type SessionsView struct {
	Current   map[string]domain.Session
	Finalized map[string]map[string]domain.Session
}

type ListSessionsUseCase struct {
	window SessionsViewPort
}

func NewListSessionsUseCase(window SessionsViewPort) *ListSessionsUseCase {
	return &ListSessionsUseCase{window: window}
}

// Execute returns the open sessions by gid and the finalized ones by gid,
// then sid.
func (uc *ListSessionsUseCase) Execute(ctx context.Context) (SessionsView, error) {
	current, finalized, err := uc.window.View(ctx)
	if err != nil {
		return SessionsView{}, err
	}

	view := SessionsView{
		Current:   current,
		Finalized: make(map[string]map[string]domain.Session),
	}
	for _, s := range finalized {
		byID, ok := view.Finalized[s.GID]
		if !ok {
			byID = make(map[string]domain.Session)
			view.Finalized[s.GID] = byID
		}
		byID[s.SID] = s
	}
	return view, nil
}
