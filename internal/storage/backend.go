// Package storage exposes the Blob Store and the Metadata Catalog. Each is
// composed of a remote and a local backend; every call goes remote first
// when the remote tier is enabled and falls back to local on failure.
//
// Reads never fail because of a backend: when even the local tier fails they
// log a warning and return an empty result. Writes swallow remote failures
// but report a local failure as common.ErrLocalUnavailable, so callers can
// tell that nothing was persisted.
package storage

import (
	"context"

	"github.com/dmitrijs2005/gophcloud/internal/models"
)

// BlobBackend is one tier of blob storage. Get returns (nil, nil) when id is
// absent and Remove of an absent id succeeds.
type BlobBackend interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Remove(ctx context.Context, id string) error
}

// CatalogBackend is one tier of metadata storage. GetProfile returns
// (nil, nil) when the profile is absent.
type CatalogBackend interface {
	ListFiles(ctx context.Context, userID string) ([]models.FileRecord, error)
	SaveFiles(ctx context.Context, userID string, records []models.FileRecord) error
	GetProfile(ctx context.Context, email string) (*models.Profile, error)
	SaveProfile(ctx context.Context, p models.Profile) error
	SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error)
	SaveMessage(ctx context.Context, m models.Message) error
	ListMessages(ctx context.Context, email string) ([]models.Message, error)
}
