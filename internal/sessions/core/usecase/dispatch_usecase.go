package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	evdomain "session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/sessions/core/ports"
)

// ErrStreamContract means the stream carried an id that is neither a stored
// event nor a well formed tick.
var ErrStreamContract = errors.New("stream contract violation")

type DispatchUseCase struct {
	events ports.EventReaderPort
	groups ports.GroupEventRepositoryPort
	window ports.WindowPort
	index  ports.IndexWriterPort
	log    *zap.SugaredLogger
}

func NewDispatchUseCase(
	events ports.EventReaderPort,
	groups ports.GroupEventRepositoryPort,
	window ports.WindowPort,
	index ports.IndexWriterPort,
	log *zap.SugaredLogger,
) *DispatchUseCase {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &DispatchUseCase{events: events, groups: groups, window: window, index: index, log: log}
}

func GroupHandle(gid string) string {
	return "/g?gid=" + gid
}

func EventHandle(id uint64) string {
	return "/e?eid=" + strconv.FormatUint(id, 10)
}

// Dispatch applies one stream element. A returned error other than
// ErrStreamContract leaves nothing half applied and may be retried.
func (uc *DispatchUseCase) Dispatch(ctx context.Context, id uint64) error {
	e, err := uc.events.GetEvent(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, evdomain.ErrMalformedEvent):
		dispatched.WithLabelValues(outcomeMalformed).Inc()
		uc.log.Warnw("Skipping malformed event", "eid", id, zap.Error(err))
		return nil
	case errors.Is(err, evdomain.ErrEventNotFound):
		return uc.tick(ctx, id)
	default:
		return fmt.Errorf("failed to resolve %d: %w", id, err)
	}

	gid := e.GroupKey()
	if gid == "" {
		uc.indexEvent(e, "", EventHandle(id))
		dispatched.WithLabelValues(outcomeAnonymous).Inc()
		return nil
	}

	if err := uc.groups.AppendGroupEvent(ctx, gid, id); err != nil {
		return fmt.Errorf("failed to append %d to %s: %w", id, gid, err)
	}
	if err := uc.window.Advance(ctx, gid, id, e.Timestamp, e.CounterName()); err != nil {
		return err
	}

	groupHandle, eventHandle := GroupHandle(gid), EventHandle(id)
	uc.indexEvent(e, gid, groupHandle, eventHandle)
	dispatched.WithLabelValues(outcomeEvent).Inc()
	return nil
}

func (uc *DispatchUseCase) tick(ctx context.Context, id uint64) error {
	if !evdomain.IsTickID(id) {
		return fmt.Errorf("%w: id %d does not resolve and is not a tick", ErrStreamContract, id)
	}
	if err := uc.window.Tick(ctx, evdomain.TickTimestamp(id)); err != nil {
		return err
	}
	dispatched.WithLabelValues(outcomeTick).Inc()
	return nil
}

// indexEvent makes the event reachable from its own terms, its group key,
// its timestamp and every handle's own tokens.
func (uc *DispatchUseCase) indexEvent(e *evdomain.Event, gid string, handles ...string) {
	ms := strconv.FormatUint(e.Timestamp, 10)
	terms := e.SearchTerms()
	for _, h := range handles {
		for _, term := range terms {
			uc.index.Index(term, h)
		}
		if gid != "" {
			uc.index.Index(gid, h)
		}
		uc.index.Index(ms, h)
		for _, other := range handles {
			uc.index.Index(other, h)
		}
	}
}
