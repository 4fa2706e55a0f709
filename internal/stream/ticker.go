package stream

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Ticker injects a tick every interval so idle sessions expire without
// waiting for the next event.
type Ticker struct {
	interval  time.Duration
	publisher TickPublisher
	log       *zap.SugaredLogger
}

func NewTicker(interval time.Duration, publisher TickPublisher, log *zap.SugaredLogger) *Ticker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Ticker{interval: interval, publisher: publisher, log: log}
}

// Run returns when ctx is done or the stream is closed.
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tk.C:
			if _, err := t.publisher.PublishTick(ctx); err != nil {
				if errors.Is(err, ErrClosed) || errors.Is(err, context.Canceled) {
					return nil
				}
				ticksPublished.WithLabelValues("error").Inc()
				t.log.Warnw("Failed to publish tick", zap.Error(err))
				continue
			}
			ticksPublished.WithLabelValues("ok").Inc()
		}
	}
}
