// Package stream moves event and tick ids from the ingest side to the
// single in-order consumer.
package stream

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("stream closed")

// Source delivers ids in publish order. The channel is closed once the
// source is closed and every buffered id was handed out.
type Source interface {
	IDs() <-chan uint64
}

type Dispatcher interface {
	Dispatch(ctx context.Context, id uint64) error
}

type TickPublisher interface {
	PublishTick(ctx context.Context) (uint64, error)
}
