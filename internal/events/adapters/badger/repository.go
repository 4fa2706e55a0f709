package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"session-analytics-service/internal/events/core/domain"
	"session-analytics-service/internal/events/core/ports"
)

const eventPrefix = "ev/"

type record struct {
	Timestamp uint64          `json:"ms"`
	DeviceID  string          `json:"device_id,omitempty"`
	ClientID  string          `json:"client_id,omitempty"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
}

// EventRepository stores events in Badger under "ev/<zero padded eid>".
type EventRepository struct {
	db *badger.DB
}

func NewEventRepository(db *badger.DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

// EventKey keeps lexical key order equal to id order.
func EventKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", eventPrefix, id))
}

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	payload, err := domain.EncodePayload(e.Payload)
	if err != nil {
		return false, err
	}
	value, err := json.Marshal(record{
		Timestamp: e.Timestamp,
		DeviceID:  e.DeviceID,
		ClientID:  e.ClientID,
		Kind:      string(e.Payload.Kind()),
		Payload:   payload,
	})
	if err != nil {
		return false, err
	}

	created := false
	err = r.db.Update(func(txn *badger.Txn) error {
		key := EventKey(e.ID)
		_, err := txn.Get(key)
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		created = true
		return txn.Set(key, value)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *EventRepository) GetEvent(ctx context.Context, id uint64) (*domain.Event, error) {
	var rec record
	err := r.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get(EventKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrEventNotFound
			}
			return err
		}
		return it.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &rec); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrMalformedEvent, err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	p, err := domain.DecodePayload(domain.Kind(rec.Kind), rec.Payload)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", id, err)
	}
	return &domain.Event{
		ID:        id,
		Timestamp: rec.Timestamp,
		DeviceID:  rec.DeviceID,
		ClientID:  rec.ClientID,
		Payload:   p,
	}, nil
}
