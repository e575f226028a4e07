// Package vault implements the file operations of a GophCloud user on top of
// the catalog and blob store: uploads with version history, folders, links,
// the trash lifecycle and storage accounting.
package vault

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/logging"
	"github.com/dmitrijs2005/gophcloud/internal/models"
	"github.com/google/uuid"
)

// DateLayout formats the display date of records.
const DateLayout = "1/2/2006"

// Catalog is the metadata store the service needs.
type Catalog interface {
	ListFiles(ctx context.Context, userID string) ([]models.FileRecord, error)
	SaveFiles(ctx context.Context, userID string, records []models.FileRecord) error
	Transition(ctx context.Context, userID, fileID string, to models.State, at time.Time) (models.FileRecord, error)
}

// Blobs is the content store the service needs.
type Blobs interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Remove(ctx context.Context, id string) error
}

type Service struct {
	catalog Catalog
	blobs   Blobs
	quota   int64
	log     logging.Logger

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the time source used for dates, version ids and trash
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs sets the generator of new record ids.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService returns a service. A quota of zero or less disables the quota
// check.
func NewService(catalog Catalog, blobs Blobs, quota int64, log logging.Logger, opts ...Option) *Service {
	if log == nil {
		log = logging.Discard()
	}
	s := &Service{
		catalog: catalog,
		blobs:   blobs,
		quota:   quota,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
		users:   make(map[string]*sync.Mutex),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// lock serialises the operations that list, change and save back the record
// set of userID.
func (s *Service) lock(userID string) func() {
	s.mu.Lock()
	m, ok := s.users[userID]
	if !ok {
		m = &sync.Mutex{}
		s.users[userID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Quota returns the configured quota in bytes.
func (s *Service) Quota() int64 {
	return s.quota
}

func (s *Service) today() string {
	return s.now().Format(DateLayout)
}

// Load returns the records of userID with stored content made addressable:
// a record marked as stored gets a local reference when its blob exists, and
// otherwise loses its URL and has its description flagged.
func (s *Service) Load(ctx context.Context, userID string) ([]models.FileRecord, error) {
	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range records {
		r := &records[i]
		if r.URL != common.BlobStoredMarker {
			continue
		}
		data, err := s.blobs.Get(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		if data != nil {
			r.URL = common.LocalRefScheme + r.ID
			continue
		}
		s.log.Warn(ctx, "stored content missing", "user", userID, "file", r.ID)
		r.URL = ""
		r.Description += common.ContentMissingSuffix
	}
	return records, nil
}

// Save persists records as the complete set of userID. Local references are
// replaced by the stored-content marker.
func (s *Service) Save(ctx context.Context, userID string, records []models.FileRecord) error {
	defer s.lock(userID)()
	return s.save(ctx, userID, records)
}

func (s *Service) save(ctx context.Context, userID string, records []models.FileRecord) error {
	out := make([]models.FileRecord, len(records))
	for i, r := range records {
		if strings.HasPrefix(r.URL, common.LocalRefScheme) {
			r.URL = common.BlobStoredMarker
		}
		out[i] = r
	}
	return s.catalog.SaveFiles(ctx, userID, out)
}

// Usage reports the storage used by userID.
func (s *Service) Usage(ctx context.Context, userID string) (models.Usage, error) {
	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return models.Usage{}, err
	}
	return models.UsageOf(records), nil
}

// find loads the records of userID and locates fileID among them.
func (s *Service) find(ctx context.Context, userID, fileID string) ([]models.FileRecord, int, error) {
	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return nil, -1, err
	}
	i := models.FindByID(records, fileID)
	if i < 0 {
		return nil, -1, fmt.Errorf("file %s: %w", fileID, common.ErrNotFound)
	}
	return records, i, nil
}

// Download returns the content of fileID.
func (s *Service) Download(ctx context.Context, userID, fileID string) (models.FileRecord, []byte, error) {
	records, i, err := s.find(ctx, userID, fileID)
	if err != nil {
		return models.FileRecord{}, nil, err
	}
	rec := records[i]
	if rec.IsFolder() {
		return rec, nil, fmt.Errorf("%s is a folder: %w", fileID, common.ErrInvalidArgument)
	}

	data, err := s.blobs.Get(ctx, fileID)
	if err != nil {
		return rec, nil, err
	}
	if data == nil {
		return rec, nil, fmt.Errorf("file %s: %w", fileID, common.ErrContentMissing)
	}
	return rec, data, nil
}
