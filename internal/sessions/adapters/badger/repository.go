package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"session-analytics-service/internal/sessions/core/domain"
	"session-analytics-service/internal/sessions/core/ports"
)

// Key layout:
//
//	ss/<sid>                  -> gid, marks the session as stored
//	sg/<gid>\x00<sid>         -> session JSON, iterated in (gid, sid) order
//	ge/<gid>\x00<eid %020d>   -> empty, group event log
var (
	sessionPrefix    = []byte("ss/")
	sessionByGroup   = []byte("sg/")
	groupEventPrefix = []byte("ge/")
)

const sep = 0

type Repository struct {
	db *badger.DB
}

func NewRepository(db *badger.DB) *Repository {
	return &Repository{db: db}
}

var (
	_ ports.SessionRepositoryPort    = (*Repository)(nil)
	_ ports.GroupEventRepositoryPort = (*Repository)(nil)
)

func sessionKey(sid string) []byte {
	return append(bytes.Clone(sessionPrefix), sid...)
}

func groupSessionKey(gid, sid string) []byte {
	k := append(bytes.Clone(sessionByGroup), gid...)
	k = append(k, sep)
	return append(k, sid...)
}

func groupEventPrefixFor(gid string) []byte {
	k := append(bytes.Clone(groupEventPrefix), gid...)
	return append(k, sep)
}

func groupEventKey(gid string, eventID uint64) []byte {
	return append(groupEventPrefixFor(gid), fmt.Sprintf("%020d", eventID)...)
}

// PutSession writes both keys in one transaction.
func (r *Repository) PutSession(ctx context.Context, s *domain.Session) (bool, error) {
	value, err := json.Marshal(s)
	if err != nil {
		return false, err
	}

	created := false
	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(sessionKey(s.SID))
		switch {
		case err == nil:
			return nil
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		if err := txn.Set(sessionKey(s.SID), []byte(s.GID)); err != nil {
			return err
		}
		created = true
		return txn.Set(groupSessionKey(s.GID, s.SID), value)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *Repository) ListSessions(ctx context.Context) ([]domain.Session, error) {
	var out []domain.Session
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: sessionByGroup, PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var s domain.Session
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &s)
			}); err != nil {
				return fmt.Errorf("session %q: %w", it.Item().Key(), err)
			}
			if s.Counters == nil {
				s.Counters = map[string]uint64{}
			}
			out = append(out, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) AppendGroupEvent(ctx context.Context, gid string, eventID uint64) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(groupEventKey(gid, eventID), nil)
	})
}

func (r *Repository) ListGroups(ctx context.Context) ([]string, error) {
	var gids []string
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: groupEventPrefix})
		defer it.Close()

		last := ""
		for it.Rewind(); it.Valid(); it.Next() {
			rest := it.Item().Key()[len(groupEventPrefix):]
			i := bytes.IndexByte(rest, sep)
			if i < 0 {
				continue
			}
			if gid := string(rest[:i]); gid != last {
				gids = append(gids, gid)
				last = gid
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gids, nil
}

func (r *Repository) ListGroupEvents(ctx context.Context, gid string) ([]uint64, error) {
	prefix := groupEventPrefixFor(gid)

	var ids []uint64
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			id, err := strconv.ParseUint(string(it.Item().Key()[len(prefix):]), 10, 64)
			if err != nil {
				return fmt.Errorf("bad group event key %q: %w", it.Item().Key(), err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrGroupNotFound
	}
	return ids, nil
}
