package vault

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/models"
)

// CreateFolder adds an empty folder under parentID (nil = root).
func (s *Service) CreateFolder(ctx context.Context, userID, name string, parentID *string) (models.FileRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.FileRecord{}, fmt.Errorf("empty folder name: %w", common.ErrInvalidArgument)
	}
	defer s.lock(userID)()

	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return models.FileRecord{}, err
	}
	if err := checkFolder(records, parentID); err != nil {
		return models.FileRecord{}, err
	}

	folder := models.FileRecord{
		ID:       "folder-" + s.newID(),
		Name:     name,
		Kind:     models.KindFolder,
		Size:     "--",
		Date:     s.today(),
		ParentID: parentID,
	}

	if err := s.save(ctx, userID, append([]models.FileRecord{folder}, records...)); err != nil {
		return models.FileRecord{}, err
	}
	return folder, nil
}

// AddLink stores an external URL as a link record.
func (s *Service) AddLink(ctx context.Context, userID, url string, parentID *string) (models.FileRecord, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return models.FileRecord{}, fmt.Errorf("empty link: %w", common.ErrInvalidArgument)
	}
	defer s.lock(userID)()

	records, err := s.catalog.ListFiles(ctx, userID)
	if err != nil {
		return models.FileRecord{}, err
	}
	if err := checkFolder(records, parentID); err != nil {
		return models.FileRecord{}, err
	}

	platform := linkPlatform(url)
	link := models.FileRecord{
		ID:          s.newID(),
		Name:        platform + " Link",
		Kind:        models.KindLink,
		Size:        "Link",
		Date:        s.today(),
		URL:         url,
		Description: fmt.Sprintf("External link to %s: %s", platform, url),
		Tags:        []string{strings.ToLower(platform), "link"},
		ParentID:    parentID,
	}

	if err := s.save(ctx, userID, append([]models.FileRecord{link}, records...)); err != nil {
		return models.FileRecord{}, err
	}
	return link, nil
}

func linkPlatform(url string) string {
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "tiktok"):
		return "TikTok"
	case strings.Contains(u, "instagram"):
		return "Instagram"
	case strings.Contains(u, "twitter"), strings.Contains(u, "x.com"):
		return "X"
	default:
		return "Web Link"
	}
}

// update applies fn to fileID and saves the set.
func (s *Service) update(ctx context.Context, userID, fileID string, fn func(records []models.FileRecord, r *models.FileRecord) error) error {
	defer s.lock(userID)()
	records, i, err := s.find(ctx, userID, fileID)
	if err != nil {
		return err
	}
	if err := fn(records, &records[i]); err != nil {
		return err
	}
	return s.save(ctx, userID, records)
}

// Rename changes the display name of fileID.
func (s *Service) Rename(ctx context.Context, userID, fileID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("empty name: %w", common.ErrInvalidArgument)
	}
	return s.update(ctx, userID, fileID, func(_ []models.FileRecord, r *models.FileRecord) error {
		r.Name = name
		return nil
	})
}

// Tag replaces the tags of fileID.
func (s *Service) Tag(ctx context.Context, userID, fileID string, tags []string) error {
	return s.update(ctx, userID, fileID, func(_ []models.FileRecord, r *models.FileRecord) error {
		r.Tags = append([]string(nil), tags...)
		return nil
	})
}

// Describe replaces the description of fileID.
func (s *Service) Describe(ctx context.Context, userID, fileID, description string) error {
	return s.update(ctx, userID, fileID, func(_ []models.FileRecord, r *models.FileRecord) error {
		r.Description = description
		return nil
	})
}

// Move puts fileID under parentID (nil = root). A folder cannot be moved
// into itself or one of its descendants.
func (s *Service) Move(ctx context.Context, userID, fileID string, parentID *string) error {
	return s.update(ctx, userID, fileID, func(records []models.FileRecord, r *models.FileRecord) error {
		if err := checkFolder(records, parentID); err != nil {
			return err
		}
		if parentID != nil {
			for _, f := range Path(records, parentID) {
				if f.ID == fileID {
					return fmt.Errorf("move %s into its own subtree: %w", fileID, common.ErrInvalidArgument)
				}
			}
		}
		if parentID == nil {
			r.ParentID = nil
		} else {
			p := *parentID
			r.ParentID = &p
		}
		return nil
	})
}

// checkFolder verifies that parentID names an active folder.
func checkFolder(records []models.FileRecord, parentID *string) error {
	if parentID == nil {
		return nil
	}
	i := models.FindByID(records, *parentID)
	if i < 0 {
		return fmt.Errorf("folder %s: %w", *parentID, common.ErrNotFound)
	}
	if !records[i].IsFolder() || records[i].IsTrashed() {
		return fmt.Errorf("%s is not an active folder: %w", *parentID, common.ErrInvalidArgument)
	}
	return nil
}

// Path returns the folders from the root down to folderID, inclusive. The
// walk stops at a parent that does not exist and never loops.
func Path(records []models.FileRecord, folderID *string) []models.FileRecord {
	var path []models.FileRecord
	seen := map[string]bool{}
	for id := folderID; id != nil && !seen[*id]; {
		seen[*id] = true
		i := models.FindByID(records, *id)
		if i < 0 {
			break
		}
		path = append([]models.FileRecord{records[i]}, path...)
		id = records[i].ParentID
	}
	return path
}
