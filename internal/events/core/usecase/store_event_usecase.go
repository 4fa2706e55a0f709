package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/events/core/ports"
)

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrEmptyBulk    = errors.New("events list is empty")
	// ErrDuplicateID means the allocated id is already stored, e.g. after the
	// clock stepped back across a restart. Nothing is published.
	ErrDuplicateID = errors.New("event id already stored")
)

type StoreEventUseCase struct {
	repo      ports.EventRepositoryPort
	publisher ports.StreamPublisherPort
	ids       *domain.IDAllocator

	// allocate, insert and publish happen under one lock so the stream
	// carries ids in allocation order
	mu sync.Mutex
}

func NewStoreEventUseCase(repo ports.EventRepositoryPort, publisher ports.StreamPublisherPort, ids *domain.IDAllocator) *StoreEventUseCase {
	return &StoreEventUseCase{repo: repo, publisher: publisher, ids: ids}
}

type StoreEventInput struct {
	Kind     string
	DeviceID string
	ClientID string
	Payload  []byte
}

type StoreEventResult struct {
	ID        uint64
	Timestamp uint64
}

func (uc *StoreEventUseCase) Execute(ctx context.Context, in StoreEventInput) (StoreEventResult, error) {
	payload, err := uc.validateInput(in)
	if err != nil {
		return StoreEventResult{}, err
	}
	return uc.store(ctx, in, payload)
}

func (uc *StoreEventUseCase) store(ctx context.Context, in StoreEventInput, payload domain.Payload) (StoreEventResult, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id, ms := uc.ids.NextEvent()
	e := &domain.Event{
		ID:        id,
		Timestamp: ms,
		DeviceID:  in.DeviceID,
		ClientID:  in.ClientID,
		Payload:   payload,
	}

	created, err := uc.repo.InsertEvent(ctx, e)
	if err != nil {
		return StoreEventResult{}, fmt.Errorf("failed to store event %d: %w", id, err)
	}
	if !created {
		return StoreEventResult{}, fmt.Errorf("%w: %d", ErrDuplicateID, id)
	}
	if err := uc.publisher.Publish(ctx, id); err != nil {
		return StoreEventResult{}, fmt.Errorf("failed to publish event %d: %w", id, err)
	}
	eventsIngested.WithLabelValues(string(payload.Kind())).Inc()

	return StoreEventResult{ID: id, Timestamp: ms}, nil
}

// PublishTick appends a tick for the current time behind every event
// published so far.
func (uc *StoreEventUseCase) PublishTick(ctx context.Context) (uint64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id := uc.ids.NextTick()
	if err := uc.publisher.Publish(ctx, id); err != nil {
		return 0, fmt.Errorf("failed to publish tick %d: %w", id, err)
	}
	return id, nil
}

type BulkCreateEventsInput struct {
	Events []StoreEventInput
}

type BulkCreateEventsResult struct {
	IDs []uint64
}

// BulkCreateEvents validates every event before storing any of them.
func (uc *StoreEventUseCase) BulkCreateEvents(ctx context.Context, in BulkCreateEventsInput) (BulkCreateEventsResult, error) {
	var res BulkCreateEventsResult

	if len(in.Events) == 0 {
		return res, ErrEmptyBulk
	}

	payloads := make([]domain.Payload, len(in.Events))
	for i, ev := range in.Events {
		p, err := uc.validateInput(ev)
		if err != nil {
			return res, fmt.Errorf("event %d: %w", i, err)
		}
		payloads[i] = p
	}

	for i, ev := range in.Events {
		out, err := uc.store(ctx, ev, payloads[i])
		if err != nil {
			return res, err
		}
		res.IDs = append(res.IDs, out.ID)
	}

	return res, nil
}

func (uc *StoreEventUseCase) validateInput(in StoreEventInput) (domain.Payload, error) {
	kind, err := domain.ParseKind(in.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	payload, err := domain.DecodePayload(kind, in.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return payload, nil
}
