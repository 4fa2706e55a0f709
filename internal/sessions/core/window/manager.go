// Package window folds per-actor events into sessions and closes them after
// an idle timeout.
package window

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"session-analytics-service/internal/sessions/core/domain"
	"session-analytics-service/internal/sessions/core/ports"
)

const DefaultTimeout = 10 * time.Minute

type Option func(*Manager)

func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeoutMs = d.Milliseconds()
		}
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// Manager owns the active session table. Advance, Tick and FinalizeAll are
// the only writers; Snapshot and ActiveCount may run concurrently with them.
type Manager struct {
	mu        sync.RWMutex
	active    map[string]*domain.Session
	store     ports.SessionRepositoryPort
	timeoutMs int64
	log       *zap.SugaredLogger
}

func NewManager(store ports.SessionRepositoryPort, opts ...Option) *Manager {
	m := &Manager{
		active:    make(map[string]*domain.Session),
		store:     store,
		timeoutMs: DefaultTimeout.Milliseconds(),
		log:       zap.NewNop().Sugar(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

var _ ports.WindowPort = (*Manager)(nil)

// Advance closes every session idle for longer than the timeout at tsMs,
// then records the event in the session of gid.
func (m *Manager) Advance(ctx context.Context, gid string, eventID, tsMs uint64, counter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.sweep(ctx, tsMs); err != nil {
		return err
	}

	s, ok := m.active[gid]
	if !ok {
		s = domain.NewSession(gid, tsMs)
		m.active[gid] = s
		activeSessions.Inc()
	}
	s.Add(eventID, tsMs, counter)
	return nil
}

// Tick closes expired sessions only.
func (m *Manager) Tick(ctx context.Context, tsMs uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweep(ctx, tsMs)
}

// FinalizeAll closes every open session regardless of age.
func (m *Manager) FinalizeAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, gid := range m.sortedGIDs() {
		if err := m.finalize(ctx, gid); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns deep copies of the open sessions keyed by gid.
func (m *Manager) Snapshot() map[string]domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]domain.Session, len(m.active))
	for gid, s := range m.active {
		out[gid] = s.Clone()
	}
	return out
}

// View returns the open sessions and the stored ones together. The store is
// read under the read lock, so no session can be finalized in between and
// every session shows up in exactly one of the two.
func (m *Manager) View(ctx context.Context) (map[string]domain.Session, []domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	finalized, err := m.store.ListSessions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list finalized sessions: %w", err)
	}
	current := make(map[string]domain.Session, len(m.active))
	for gid, s := range m.active {
		current[gid] = s.Clone()
	}
	return current, finalized, nil
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// sweep must be called with the write lock held.
func (m *Manager) sweep(ctx context.Context, tsMs uint64) error {
	for _, gid := range m.sortedGIDs() {
		if !m.active[gid].Expired(tsMs, m.timeoutMs) {
			continue
		}
		if err := m.finalize(ctx, gid); err != nil {
			return err
		}
	}
	return nil
}

// finalize writes the session of gid and drops it from the table. On a
// store failure the session stays open and unchanged.
func (m *Manager) finalize(ctx context.Context, gid string) error {
	out := m.active[gid].Clone()
	out.Finalize()

	created, err := m.store.PutSession(ctx, &out)
	if err != nil {
		finalizeErrors.Inc()
		return fmt.Errorf("failed to finalize session %s of %s: %w", out.SID, gid, err)
	}
	if !created {
		m.log.Debugw("Session already stored", "sid", out.SID, "gid", gid)
	}

	delete(m.active, gid)
	activeSessions.Dec()
	finalizedSessions.Inc()
	m.log.Debugw("Session finalized",
		"sid", out.SID,
		"gid", gid,
		"events", out.NumberOfEvents,
		"seconds", out.NumberOfSeconds,
	)
	return nil
}

func (m *Manager) sortedGIDs() []string {
	gids := make([]string, 0, len(m.active))
	for gid := range m.active {
		gids = append(gids, gid)
	}
	sort.Strings(gids)
	return gids
}
