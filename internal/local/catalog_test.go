package local

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execSQL(query string) func(ctx context.Context, db *sql.DB) error {
	return func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}

func strPtr(s string) *string { return &s }

func TestCatalog_ListFilesUnknownUserIsEmpty(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))

	got, err := r.ListFiles(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalog_SaveListRoundTrip(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()
	deleted := time.Date(2025, 3, 1, 12, 0, 0, 123000000, time.UTC)

	records := []models.FileRecord{
		{
			ID:          "1",
			Name:        "beach.jpg",
			Kind:        models.KindImage,
			Size:        "2.4 MB",
			Date:        "3/1/2025",
			URL:         "BLOB_STORED",
			Tags:        []string{"summer", "summer"},
			Description: "sunset",
			DeletedAt:   &deleted,
			ParentID:    strPtr("folder-1"),
			Versions:    []models.Version{{ID: "1_v_1700000000000", Date: "2/1/2025", Size: "2.0 MB"}},
		},
		{ID: "folder-1", Name: "Trips", Kind: models.KindFolder, Size: "--"},
	}

	require.NoError(t, r.SaveFiles(ctx, "u1", records))

	got, err := r.ListFiles(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestCatalog_SaveFilesReplacesWholeSet(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, r.SaveFiles(ctx, "u1", []models.FileRecord{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, r.SaveFiles(ctx, "u1", []models.FileRecord{{ID: "b", Name: "renamed"}}))

	got, err := r.ListFiles(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.FileRecord{{ID: "b", Name: "renamed"}}, got)

	require.NoError(t, r.SaveFiles(ctx, "u1", nil))
	got, err = r.ListFiles(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalog_FilesArePerUser(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, r.SaveFiles(ctx, "u1", []models.FileRecord{{ID: "a"}}))
	require.NoError(t, r.SaveFiles(ctx, "u2", []models.FileRecord{{ID: "b"}}))

	got, err := r.ListFiles(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.FileRecord{{ID: "a"}}, got)
}

func TestCatalog_ListFilesCorruptDocument(t *testing.T) {
	s := newTestStore(t)
	r := NewCatalogRepository(s)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, execSQL(`INSERT INTO user_files (user_id, files) VALUES ('u1', 'not json')`)))

	_, err := r.ListFiles(ctx, "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode files[u1]")
}

func TestCatalog_Profiles(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	got, err := r.GetProfile(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Nil(t, got)

	p := models.Profile{ID: "1", Email: "a@x.io", Name: "Alice", Avatar: "https://img/a.png", IsDriveConnected: true, DriveEmail: "alice@drive.io"}
	require.NoError(t, r.SaveProfile(ctx, p))

	got, err = r.GetProfile(ctx, "a@x.io")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p, *got)

	p.Name = "Alice B."
	p.IsDriveConnected = false
	require.NoError(t, r.SaveProfile(ctx, p))

	got, err = r.GetProfile(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestCatalog_SearchProfiles(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	for _, p := range []models.Profile{
		{Email: "bob@x.io", Name: "Bob"},
		{Email: "ann@x.io", Name: "Ann Smith"},
		{Email: "zoe@y.io", Name: "Zoë Bobrova"},
		{Email: "ÉLODIE@x.io", Name: "Élodie"},
	} {
		require.NoError(t, r.SaveProfile(ctx, p))
	}

	got, err := r.SearchProfiles(ctx, "BOB", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "bob@x.io", got[0].Email)
	assert.Equal(t, "zoe@y.io", got[1].Email)

	got, err = r.SearchProfiles(ctx, "élodie", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Élodie", got[0].Name)

	got, err = r.SearchProfiles(ctx, "nomatch", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalog_SearchProfilesLimit(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, r.SaveProfile(ctx, models.Profile{Email: fmt.Sprintf("user%02d@x.io", i), Name: "User"}))
	}

	got, err := r.SearchProfiles(ctx, "user", 10)
	require.NoError(t, err)
	assert.Len(t, got, 10)

	got, err = r.SearchProfiles(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, got, 15)
}

func TestCatalog_Messages(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	msgs := []models.Message{
		{ID: "m2", SenderID: "b@x.io", ReceiverID: "a@x.io", Text: "hi back", Timestamp: base.Add(time.Minute)},
		{ID: "m1", SenderID: "a@x.io", ReceiverID: "b@x.io", Text: "hi", Timestamp: base},
		{ID: "m3", SenderID: "c@x.io", ReceiverID: "b@x.io", Text: "unrelated", Timestamp: base},
	}
	for _, m := range msgs {
		require.NoError(t, r.SaveMessage(ctx, m))
	}

	got, err := r.ListMessages(ctx, "a@x.io")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, msgs[1], got[0])
	assert.Equal(t, msgs[0], got[1])

	got, err = r.ListMessages(ctx, "nobody@x.io")
	require.NoError(t, err)
	assert.Empty(t, got)

	read := msgs[1]
	read.IsRead = true
	require.NoError(t, r.SaveMessage(ctx, read))
	got, err = r.ListMessages(ctx, "a@x.io")
	require.NoError(t, err)
	assert.True(t, got[0].IsRead)
}

func TestCatalog_EmptyListsReadBackAsNil(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	records := []models.FileRecord{{ID: "1", Name: "a", Tags: []string{}, Versions: []models.Version{}}}
	require.NoError(t, r.SaveFiles(ctx, "u1", records))

	got, err := r.ListFiles(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Tags)
	assert.Nil(t, got[0].Versions)
	assert.Empty(t, cmp.Diff(records, got, cmpopts.EquateEmpty()))
}

func TestCatalog_SaveMessageUpsertReplacesEveryField(t *testing.T) {
	r := NewCatalogRepository(newTestStore(t))
	ctx := context.Background()

	first := models.Message{ID: "m1", SenderID: "a@x.io", ReceiverID: "b@x.io", Text: "hi",
		Timestamp: time.UnixMilli(1700000000000).UTC()}
	second := models.Message{ID: "m1", SenderID: "c@x.io", ReceiverID: "d@x.io", Text: "edited",
		Timestamp: time.UnixMilli(1700000001000).UTC(), IsRead: true}

	require.NoError(t, r.SaveMessage(ctx, first))
	require.NoError(t, r.SaveMessage(ctx, second))

	got, err := r.ListMessages(ctx, "c@x.io")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second, got[0])

	got, err = r.ListMessages(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Empty(t, got)
}
