// Package kv opens the embedded Badger store shared by the event and session
// adapters.
package kv

import (
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Open opens (or creates) the store under path. An empty path opens an
// in-memory store.
func Open(path string, log *zap.SugaredLogger) (*badger.DB, error) {
	opts := badger.DefaultOptions(filepath.Join(path, "db"))
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	if log != nil {
		opts = opts.WithLogger(&badgerLogger{log: log.Named("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return db, nil
}

// GC reclaims value log space. Badger reports ErrNoRewrite when there was
// nothing to collect.
func GC(db *badger.DB) error {
	err := db.RunValueLogGC(0.5)
	if err == badger.ErrNoRewrite {
		return nil
	}
	return err
}

type badgerLogger struct {
	log *zap.SugaredLogger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (b *badgerLogger) Errorf(msg string, args ...interface{}) {
	b.log.Errorf(msg, args...)
}
func (b *badgerLogger) Warningf(msg string, args ...interface{}) {
	b.log.Warnf(msg, args...)
}
func (b *badgerLogger) Infof(msg string, args ...interface{}) {
	b.log.Infof(msg, args...)
}
func (b *badgerLogger) Debugf(msg string, args ...interface{}) {
	b.log.Debugf(msg, args...)
}
