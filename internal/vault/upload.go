package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/models"
)

// UploadRequest describes one uploaded file.
type UploadRequest struct {
	Name        string
	ParentID    *string
	ContentType string
	Data        []byte
}

// KindOf derives a record kind from a MIME content type.
func KindOf(contentType string) models.Kind {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.KindImage
	case strings.HasPrefix(contentType, "video/"):
		return models.KindVideo
	default:
		return models.KindDocument
	}
}

// VersionID names the blob holding a snapshot of fileID taken at unixMilli.
func VersionID(fileID string, unixMilli int64) string {
	return fmt.Sprintf("%s_v_%d", fileID, unixMilli)
}

// Upload stores a file for userID. When an active, non-folder record with
// the same name exists in the same folder, its current content is kept as a
// version and the record is updated in place; otherwise a new record is
// created. The content must be stored before the record is saved.
func (s *Service) Upload(ctx context.Context, userID string, req UploadRequest) (models.FileRecord, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.FileRecord{}, fmt.Errorf("empty file name: %w", common.ErrInvalidArgument)
	}
	defer s.lock(userID)()

	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return models.FileRecord{}, err
	}

	if s.quota > 0 {
		used := models.UsageOf(records).Total
		if used+int64(len(req.Data)) > s.quota {
			return models.FileRecord{}, fmt.Errorf("%s needs %d bytes, %d of %d used: %w",
				req.Name, len(req.Data), used, s.quota, common.ErrQuotaExceeded)
		}
	}

	idx := -1
	for i := range records {
		r := &records[i]
		if r.Name == req.Name && !r.IsTrashed() && !r.IsFolder() && r.InFolder(req.ParentID) {
			idx = i
			break
		}
	}

	now := s.now()
	var rec models.FileRecord
	if idx >= 0 {
		rec = records[idx].Clone()
		current, err := s.blobs.Get(ctx, rec.ID)
		if err != nil {
			return models.FileRecord{}, err
		}
		if current != nil {
			vid := VersionID(rec.ID, now.UnixMilli())
			if err := s.blobs.Put(ctx, vid, current); err != nil {
				return models.FileRecord{}, fmt.Errorf("keep version of %s: %w", rec.ID, err)
			}
			rec.Versions = append([]models.Version{{ID: vid, Date: rec.Date, Size: rec.Size}}, rec.Versions...)
		}
	} else {
		rec = models.FileRecord{
			ID:       s.newID(),
			Name:     req.Name,
			Kind:     KindOf(req.ContentType),
			ParentID: req.ParentID,
		}
	}

	if err := s.blobs.Put(ctx, rec.ID, req.Data); err != nil {
		return models.FileRecord{}, fmt.Errorf("store content of %s: %w", rec.ID, err)
	}

	rec.Size = models.FormatSize(int64(len(req.Data)))
	rec.Date = now.Format(DateLayout)
	rec.URL = common.LocalRefScheme + rec.ID

	if idx >= 0 {
		records[idx] = rec
	} else {
		records = append([]models.FileRecord{rec}, records...)
	}

	if err := s.save(ctx, userID, records); err != nil {
		return models.FileRecord{}, err
	}

	s.log.Info(ctx, "file uploaded", "user", userID, "file", rec.ID, "versions", len(rec.Versions))
	return rec, nil
}

// RestoreVersion makes versionID the current content of fileID. The content
// being replaced becomes a new version, and the restored version leaves the
// history.
func (s *Service) RestoreVersion(ctx context.Context, userID, fileID, versionID string) (models.FileRecord, error) {
	defer s.lock(userID)()
	records, i, err := s.find(ctx, userID, fileID)
	if err != nil {
		return models.FileRecord{}, err
	}
	rec := records[i].Clone()

	vi := -1
	for j, v := range rec.Versions {
		if v.ID == versionID {
			vi = j
			break
		}
	}
	if vi < 0 {
		return models.FileRecord{}, fmt.Errorf("version %s of %s: %w", versionID, fileID, common.ErrNotFound)
	}
	restored := rec.Versions[vi]

	old, err := s.blobs.Get(ctx, versionID)
	if err != nil {
		return models.FileRecord{}, err
	}
	if old == nil {
		return models.FileRecord{}, fmt.Errorf("version %s: %w", versionID, common.ErrContentMissing)
	}

	now := s.now()
	history := make([]models.Version, 0, len(rec.Versions))
	current, err := s.blobs.Get(ctx, fileID)
	if err != nil {
		return models.FileRecord{}, err
	}
	if current != nil {
		vid := VersionID(fileID, now.UnixMilli())
		if err := s.blobs.Put(ctx, vid, current); err != nil {
			return models.FileRecord{}, fmt.Errorf("keep version of %s: %w", fileID, err)
		}
		history = append(history, models.Version{ID: vid, Date: rec.Date, Size: rec.Size})
	}

	if err := s.blobs.Put(ctx, fileID, old); err != nil {
		return models.FileRecord{}, fmt.Errorf("restore content of %s: %w", fileID, err)
	}

	for _, v := range rec.Versions {
		if v.ID != versionID {
			history = append(history, v)
		}
	}
	rec.Versions = history
	rec.Size = restored.Size
	rec.Date = now.Format(DateLayout)
	rec.URL = common.LocalRefScheme + fileID
	records[i] = rec

	if err := s.save(ctx, userID, records); err != nil {
		return models.FileRecord{}, err
	}

	if err := s.blobs.Remove(ctx, versionID); err != nil {
		s.log.Warn(ctx, "restored version blob not removed", "file", fileID, "version", versionID, "error", err)
	}
	return rec, nil
}
