package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophcloud/internal/local"
	"github.com/dmitrijs2005/gophcloud/internal/logging"
	"github.com/dmitrijs2005/gophcloud/internal/models"
)

var errOffline = errors.New("remote offline")

// failingBackend fails every call, for both blobs and catalog.
type failingBackend struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (f *failingBackend) fail() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *failingBackend) Put(context.Context, string, []byte) error         { return f.fail() }
func (f *failingBackend) Get(context.Context, string) ([]byte, error)       { return nil, f.fail() }
func (f *failingBackend) Remove(context.Context, string) error              { return f.fail() }
func (f *failingBackend) SaveProfile(context.Context, models.Profile) error { return f.fail() }
func (f *failingBackend) SaveMessage(context.Context, models.Message) error { return f.fail() }
func (f *failingBackend) ListFiles(context.Context, string) ([]models.FileRecord, error) {
	return nil, f.fail()
}
func (f *failingBackend) SaveFiles(context.Context, string, []models.FileRecord) error {
	return f.fail()
}
func (f *failingBackend) GetProfile(context.Context, string) (*models.Profile, error) {
	return nil, f.fail()
}
func (f *failingBackend) SearchProfiles(context.Context, string, int) ([]models.Profile, error) {
	return nil, f.fail()
}
func (f *failingBackend) ListMessages(context.Context, string) ([]models.Message, error) {
	return nil, f.fail()
}

// memBlobs is an in-memory blob tier.
type memBlobs struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemBlobs() *memBlobs { return &memBlobs{m: map[string][]byte{}} }

func (b *memBlobs) Put(_ context.Context, id string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[id] = append([]byte{}, data...)
	return nil
}

func (b *memBlobs) Get(_ context.Context, id string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.m[id], nil
}

func (b *memBlobs) Remove(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.m, id)
	return nil
}

// flakyBlobs is an in-memory blob tier that can be switched offline.
type flakyBlobs struct {
	*memBlobs
	offline bool
}

func (b *flakyBlobs) Put(ctx context.Context, id string, data []byte) error {
	if b.offline {
		return errOffline
	}
	return b.memBlobs.Put(ctx, id, data)
}

func (b *flakyBlobs) Get(ctx context.Context, id string) ([]byte, error) {
	if b.offline {
		return nil, errOffline
	}
	return b.memBlobs.Get(ctx, id)
}

func (b *flakyBlobs) Remove(ctx context.Context, id string) error {
	if b.offline {
		return errOffline
	}
	return b.memBlobs.Remove(ctx, id)
}

// memCatalog is an in-memory catalog tier.
type memCatalog struct {
	mu       sync.Mutex
	files    map[string][]models.FileRecord
	profiles map[string]models.Profile
	messages []models.Message
}

func newMemCatalog() *memCatalog {
	return &memCatalog{files: map[string][]models.FileRecord{}, profiles: map[string]models.Profile{}}
}

func (c *memCatalog) ListFiles(_ context.Context, userID string) ([]models.FileRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FileRecord{}, c.files[userID]...), nil
}

func (c *memCatalog) SaveFiles(_ context.Context, userID string, records []models.FileRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[userID] = append([]models.FileRecord{}, records...)
	return nil
}

func (c *memCatalog) GetProfile(_ context.Context, email string) (*models.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.profiles[email]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCatalog) SaveProfile(_ context.Context, p models.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[p.Email] = p
	return nil
}

func (c *memCatalog) SearchProfiles(_ context.Context, query string, _ int) ([]models.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Profile
	for _, p := range c.profiles {
		if strings.Contains(strings.ToLower(p.Name+" "+p.Email), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *memCatalog) SaveMessage(_ context.Context, m models.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	return nil
}

func (c *memCatalog) ListMessages(_ context.Context, email string) ([]models.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Message
	for _, m := range c.messages {
		if m.Involves(email) {
			out = append(out, m)
		}
	}
	return out, nil
}

func newLocalStore(t *testing.T) *local.Store {
	t.Helper()
	s := local.NewStore(filepath.Join(t.TempDir(), "local.db"))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func bufferLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}
