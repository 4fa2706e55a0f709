// Package cache keeps recently stored and resolved events in memory in front
// of the durable event store. The dispatcher resolves every event right
// after ingest, so most lookups hit.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/events/core/ports"
)

var lookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Subsystem: "event_cache",
	Name:      "lookups_total",
	Help:      "Event lookups served by the cache, by result",
}, []string{"result"})

type EventRepository struct {
	next  ports.EventRepositoryPort
	cache *lru.Cache[uint64, domain.Event]
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

func NewEventRepository(next ports.EventRepositoryPort, size int) (*EventRepository, error) {
	c, err := lru.New[uint64, domain.Event](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create event cache: %w", err)
	}
	return &EventRepository{next: next, cache: c}, nil
}

// InsertEvent writes through; the event is cached only once the store
// accepted it.
func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	created, err := r.next.InsertEvent(ctx, e)
	if err != nil {
		return false, err
	}
	if created {
		r.cache.Add(e.ID, *e)
	}
	return created, nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id uint64) (*domain.Event, error) {
	if e, ok := r.cache.Get(id); ok {
		lookups.WithLabelValues("hit").Inc()
		return &e, nil
	}
	lookups.WithLabelValues("miss").Inc()

	e, err := r.next.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, *e)
	return e, nil
}

func (r *EventRepository) Len() int {
	return r.cache.Len()
}
