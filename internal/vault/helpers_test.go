package vault

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/local"
	"github.com/dmitrijs2005/gophcloud/internal/models"
	"github.com/dmitrijs2005/gophcloud/internal/storage"
	"github.com/stretchr/testify/require"
)

const user = "alice@example.com"

var clock = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type fixture struct {
	svc   *Service
	cat   *storage.Catalog
	blobs *storage.BlobStore
}

// newFixture builds a service over a fresh local store with the remote tier
// disabled, a fixed clock and sequential ids.
func newFixture(t *testing.T, quota int64) *fixture {
	t.Helper()
	store := local.NewStore(filepath.Join(t.TempDir(), "vault.db"))
	t.Cleanup(func() { _ = store.Close() })

	cat := storage.NewCatalog(nil, local.NewCatalogRepository(store), false, nil)
	blobs := storage.NewBlobStore(nil, local.NewBlobRepository(store), false, nil)

	n := 0
	svc := NewService(cat, blobs, quota, nil,
		WithClock(func() time.Time { return clock }),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return &fixture{svc: svc, cat: cat, blobs: blobs}
}

func (f *fixture) records(t *testing.T) []models.FileRecord {
	t.Helper()
	records, err := f.cat.ListFiles(context.Background(), user)
	require.NoError(t, err)
	return records
}

func (f *fixture) record(t *testing.T, id string) models.FileRecord {
	t.Helper()
	records := f.records(t)
	i := models.FindByID(records, id)
	require.GreaterOrEqual(t, i, 0, "record %s not found", id)
	return records[i]
}

func (f *fixture) blob(t *testing.T, id string) []byte {
	t.Helper()
	data, err := f.blobs.Get(context.Background(), id)
	require.NoError(t, err)
	return data
}

func (f *fixture) upload(t *testing.T, name, content string, parentID *string) models.FileRecord {
	t.Helper()
	rec, err := f.svc.Upload(context.Background(), user, UploadRequest{
		Name:        name,
		ParentID:    parentID,
		ContentType: "text/plain",
		Data:        []byte(content),
	})
	require.NoError(t, err)
	return rec
}

func strPtr(s string) *string { return &s }
