package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type Consumer struct {
	source     Source
	dispatcher Dispatcher
	newBackOff func() backoff.BackOff
	permanent  []error
	processed  atomic.Uint64
	log        *zap.SugaredLogger
}

type Option func(*Consumer)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Consumer) {
		c.log = log
	}
}

// WithBackOff sets the retry policy for failed dispatches.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(c *Consumer) {
		c.newBackOff = newBackOff
	}
}

// WithPermanentErrors lists dispatch errors that stop the consumer instead
// of being retried.
func WithPermanentErrors(errs ...error) Option {
	return func(c *Consumer) {
		c.permanent = append(c.permanent, errs...)
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0
	return b
}

func NewConsumer(source Source, dispatcher Dispatcher, opts ...Option) *Consumer {
	c := &Consumer{
		source:     source,
		dispatcher: dispatcher,
		newBackOff: defaultBackOff,
		log:        zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Processed is the number of elements dispatched so far.
func (c *Consumer) Processed() uint64 {
	return c.processed.Load()
}

// Run dispatches ids one at a time until the source is drained, ctx is
// done or an element fails permanently.
func (c *Consumer) Run(ctx context.Context) error {
	ids := c.source.IDs()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id, ok := <-ids:
			if !ok {
				c.log.Infow("Stream drained", "processed", c.Processed())
				return nil
			}
			if err := c.apply(ctx, id); err != nil {
				c.log.Errorw("Stopping consumer", "id", id, zap.Error(err))
				return err
			}
		}
	}
}

func (c *Consumer) apply(ctx context.Context, id uint64) error {
	// an element that started is never interrupted half way
	dispatchCtx := context.WithoutCancel(ctx)

	op := func() error {
		err := c.dispatcher.Dispatch(dispatchCtx, id)
		if err != nil && c.isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		consumerRetries.Inc()
		c.log.Warnw("Dispatch failed, retrying", "id", id, "in", next, zap.Error(err))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(c.newBackOff(), ctx), notify); err != nil {
		return fmt.Errorf("failed to dispatch %d: %w", id, err)
	}
	c.processed.Inc()
	consumerProcessed.Inc()
	return nil
}

func (c *Consumer) isPermanent(err error) bool {
	for _, p := range c.permanent {
		if errors.Is(err, p) {
			return true
		}
	}
	return false
}
