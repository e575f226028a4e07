// Package local implements the on-device tier of GophCloud on top of an
// embedded SQLite database (modernc.org/sqlite). A single Store owns the
// process-wide handle; the blob and catalog repositories share it.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/dbx"
	"github.com/dmitrijs2005/gophcloud/internal/local/migrations"

	_ "modernc.org/sqlite"
)

// Store is a lazily opened SQLite handle.
//
// Operations hold a read lock for their whole duration, so Wipe, which takes
// the write lock, waits for every in-flight operation before it closes the
// handle and deletes the files. The next operation reopens an empty database.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Run calls fn with the open handle, opening it first when needed.
// Open failures are reported as common.ErrLocalUnavailable.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, db *sql.DB) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.RLock()
		if s.db != nil {
			err := fn(ctx, s.db)
			s.mu.RUnlock()
			return err
		}
		s.mu.RUnlock()

		if err := s.open(ctx); err != nil {
			return fmt.Errorf("%w: %v", common.ErrLocalUnavailable, err)
		}
	}
}

func (s *Store) open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	// Writers are serialised through a single connection.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("migrate %s: %w", s.path, err)
	}

	s.db = db
	return nil
}

// Wipe deletes all local data. It blocks until in-flight operations finish.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("close local database: %w", err)
		}
		s.db = nil
	}

	for _, suffix := range []string{"", "-wal", "-shm", "-journal"} {
		if err := os.Remove(s.path + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", s.path+suffix, err)
		}
	}
	return nil
}

// Close releases the handle. A later operation reopens it.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// RunMigrations applies the embedded schema to db. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return dbx.Migrate(ctx, db, "sqlite3", migrations.Migrations)
}
