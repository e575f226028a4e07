package dbx

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_AppliesOnceAndSkipsApplied(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"00001_notes.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE notes (id TEXT PRIMARY KEY);

-- +goose Down
DROP TABLE notes;
`)},
	}

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db, "sqlite3", fsys))
	require.NoError(t, Migrate(ctx, db, "sqlite3", fsys))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='notes'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrate_UnknownDialect(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(context.Background(), db, "no-such-dialect", fstest.MapFS{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set goose dialect")
}
