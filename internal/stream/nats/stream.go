// Package nats carries stream ids over a NATS subject, one decimal id per
// message.
package nats

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	natslib "github.com/nats-io/nats.go"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const defaultBufferSize = 4096

type Stream struct {
	conn      *natslib.Conn
	subject   string
	sub       *natslib.Subscription
	msgs      chan *natslib.Msg
	ids       chan uint64
	done      chan struct{}
	closeOnce sync.Once
	published atomic.Uint64
	log       *zap.SugaredLogger
}

// Connect dials url and subscribes to subject. The connection reconnects
// forever.
func Connect(url, subject string, bufferSize int, log *zap.SugaredLogger) (*Stream, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	opts := []natslib.Option{
		natslib.MaxReconnects(-1),
		natslib.ReconnectWait(3 * time.Second),
		natslib.RetryOnFailedConnect(true),
		natslib.DisconnectErrHandler(func(c *natslib.Conn, err error) {
			log.Errorw("Nats disconnected", zap.Error(err))
		}),
		natslib.ReconnectHandler(func(c *natslib.Conn) {
			log.Info("Nats reconnected")
		}),
		natslib.ClosedHandler(func(c *natslib.Conn) {
			log.Info("Nats connection closed")
		}),
	}

	log.Infow("Connecting to nats", "url", url, "subject", subject)
	conn, err := natslib.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats url=%s: %w", url, err)
	}

	s := &Stream{
		conn:    conn,
		subject: subject,
		msgs:    make(chan *natslib.Msg, bufferSize),
		ids:     make(chan uint64),
		done:    make(chan struct{}),
		log:     log,
	}
	sub, err := conn.ChanSubscribe(subject, s.msgs)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	s.sub = sub

	go s.decode()
	return s, nil
}

func (s *Stream) Publish(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.conn.Publish(s.subject, []byte(strconv.FormatUint(id, 10))); err != nil {
		return fmt.Errorf("failed to publish %d to %s: %w", id, s.subject, err)
	}
	s.published.Inc()
	return nil
}

func (s *Stream) IDs() <-chan uint64 {
	return s.ids
}

func (s *Stream) Published() uint64 {
	return s.published.Load()
}

// Close flushes pending publishes, stops the subscription and closes the
// connection. Messages already received are still delivered.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if ferr := s.conn.Flush(); ferr != nil {
			s.log.Warnw("Failed to flush nats connection", zap.Error(ferr))
		}
		err = s.sub.Unsubscribe()
		close(s.done)
		s.conn.Close()
	})
	return err
}

func (s *Stream) decode() {
	defer close(s.ids)
	for {
		select {
		case m := <-s.msgs:
			s.forward(m)
		case <-s.done:
			for {
				select {
				case m := <-s.msgs:
					s.forward(m)
				default:
					return
				}
			}
		}
	}
}

func (s *Stream) forward(m *natslib.Msg) {
	id, err := ParseID(m.Data)
	if err != nil {
		s.log.Warnw("Skipping non numeric stream message", "subject", m.Subject, zap.Error(err))
		return
	}
	s.ids <- id
}

// ParseID decodes one message body.
func ParseID(data []byte) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid stream id %q: %w", data, err)
	}
	return id, nil
}
