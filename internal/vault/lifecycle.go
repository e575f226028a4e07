package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/models"
)

// Trash moves an active record to the trash.
func (s *Service) Trash(ctx context.Context, userID, fileID string) error {
	defer s.lock(userID)()
	at := s.now().UTC().Truncate(time.Millisecond)
	if _, err := s.catalog.Transition(ctx, userID, fileID, models.StateTrashed, at); err != nil {
		return err
	}
	s.log.Info(ctx, "file trashed", "user", userID, "file", fileID)
	return nil
}

// Restore brings a trashed record back.
func (s *Service) Restore(ctx context.Context, userID, fileID string) error {
	defer s.lock(userID)()
	if _, err := s.catalog.Transition(ctx, userID, fileID, models.StateActive, s.now()); err != nil {
		return err
	}
	s.log.Info(ctx, "file restored", "user", userID, "file", fileID)
	return nil
}

// Purge permanently deletes a trashed record: its content, the content of
// every version, then the record itself.
func (s *Service) Purge(ctx context.Context, userID, fileID string) error {
	defer s.lock(userID)()
	return s.purge(ctx, userID, fileID)
}

func (s *Service) purge(ctx context.Context, userID, fileID string) error {
	records, i, err := s.find(ctx, userID, fileID)
	if err != nil {
		return err
	}
	rec := records[i]

	from := models.StateOf(&rec)
	if !models.CanTransition(from, models.StatePurged) {
		return fmt.Errorf("file %s %s -> %s: %w", fileID, from, models.StatePurged, common.ErrInvalidTransition)
	}

	ids := []string{rec.ID}
	for _, v := range rec.Versions {
		ids = append(ids, v.ID)
	}
	for _, id := range ids {
		if err := s.blobs.Remove(ctx, id); err != nil {
			return fmt.Errorf("purge %s: %w", fileID, err)
		}
	}

	if _, err := s.catalog.Transition(ctx, userID, fileID, models.StatePurged, s.now()); err != nil {
		return err
	}
	s.log.Info(ctx, "file purged", "user", userID, "file", fileID, "blobs", len(ids))
	return nil
}

// PurgeExpired purges every record of userID trashed longer than retention
// ago and returns how many were purged. Records already gone by the time
// they are purged are skipped.
func (s *Service) PurgeExpired(ctx context.Context, userID string, retention time.Duration) (int, error) {
	defer s.lock(userID)()

	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-retention)
	purged := 0
	for _, r := range records {
		if r.DeletedAt == nil || r.DeletedAt.After(cutoff) {
			continue
		}
		err := s.purge(ctx, userID, r.ID)
		switch {
		case err == nil:
			purged++
		case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrInvalidTransition):
			continue
		default:
			return purged, err
		}
	}
	return purged, nil
}

// Trashed returns the trashed records of userID.
func (s *Service) Trashed(ctx context.Context, userID string) ([]models.FileRecord, error) {
	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []models.FileRecord
	for _, r := range records {
		if r.IsTrashed() {
			out = append(out, r)
		}
	}
	return out, nil
}
