// Package memory is the in-process stream: a buffered channel between the
// ingest handlers and the consumer.
package memory

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"session-analytics-service/internal/stream"
)

const DefaultBufferSize = 4096

type Stream struct {
	mu        sync.RWMutex
	closed    bool
	ids       chan uint64
	published atomic.Uint64
}

func New(bufferSize int) *Stream {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Stream{ids: make(chan uint64, bufferSize)}
}

// Publish blocks while the buffer is full. Callers serialize publishes.
func (s *Stream) Publish(ctx context.Context, id uint64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return stream.ErrClosed
	}
	select {
	case s.ids <- id:
		s.published.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Stream) IDs() <-chan uint64 {
	return s.ids
}

func (s *Stream) Published() uint64 {
	return s.published.Load()
}

// Close rejects further publishes. Buffered ids are still delivered.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ids)
	}
	return nil
}
