package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/bnema/termdeck/internal/application/port"
	"github.com/bnema/termdeck/internal/logging"
)

// LazyDB implements port.DatabaseProvider. The connection, with its WASM
// compilation and migrations, is opened on first access so that a session
// started with persistence disabled, or a CLI command that never reads a
// layout, does not pay for it.
type LazyDB struct {
	dbPath string
	once   sync.Once
	mu     sync.RWMutex
	db     *sql.DB
	err    error
}

var _ port.DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB creates a provider for the database at dbPath.
func NewLazyDB(dbPath string) *LazyDB {
	return &LazyDB{dbPath: dbPath}
}

// DB returns the connection, opening it on the first call.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.once.Do(func() {
		log := logging.FromContext(ctx)
		db, err := NewConnection(ctx, l.dbPath)
		if err != nil {
			log.Error().Err(err).Str("path", l.dbPath).Msg("open layout database")
		}
		l.mu.Lock()
		l.db, l.err = db, err
		l.mu.Unlock()
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.err != nil {
		return nil, fmt.Errorf("database initialization failed: %w", l.err)
	}
	return l.db, nil
}

// Close closes the connection if it was opened.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// IsInitialized reports whether the connection is open.
func (l *LazyDB) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.db != nil
}

// Path returns the database path.
func (l *LazyDB) Path() string {
	return l.dbPath
}
