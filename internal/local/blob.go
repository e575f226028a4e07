package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// BlobRepository stores binary content keyed by id.
type BlobRepository struct {
	store *Store
}

func NewBlobRepository(store *Store) *BlobRepository {
	return &BlobRepository{store: store}
}

// Put stores data under id, replacing any previous content.
func (r *BlobRepository) Put(ctx context.Context, id string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	return r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO blobs (id, content) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET content = excluded.content
		`, id, data)
		if err != nil {
			return fmt.Errorf("failed to put blob[%s]: %w", id, err)
		}
		return nil
	})
}

// Get returns the content stored under id, or (nil, nil) when there is none.
func (r *BlobRepository) Get(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		err := db.QueryRowContext(ctx, `SELECT content FROM blobs WHERE id = ?`, id).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get blob[%s]: %w", id, err)
		}
		if data == nil {
			data = []byte{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Remove deletes the content under id. Removing an absent id is not an error.
func (r *BlobRepository) Remove(ctx context.Context, id string) error {
	return r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, `DELETE FROM blobs WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to remove blob[%s]: %w", id, err)
		}
		return nil
	})
}
