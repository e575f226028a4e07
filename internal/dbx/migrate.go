package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
)

// goose keeps its base FS and dialect in package state, so concurrent
// migrations of different databases must not interleave.
var migrateMu sync.Mutex

// Migrate applies the goose migrations found at the root of fsys to db.
// dialect is a goose dialect name such as "sqlite3" or "postgres".
// Already applied migrations are skipped.
func Migrate(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}
