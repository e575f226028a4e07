// Package models holds the domain records persisted by GophCloud: file
// records with their version history, user profiles and direct messages.
package models

import "time"

// Kind is the category of a file record.
type Kind string

const (
	KindImage    Kind = "image"
	KindVideo    Kind = "video"
	KindDocument Kind = "document"
	KindFolder   Kind = "folder"
	KindLink     Kind = "link"
)

// Version is a snapshot of an earlier upload of the same file. Its ID is the
// blob id under which the snapshot content is stored.
type Version struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Size string `json:"size"`
}

// FileRecord is the metadata of one item in a user's file tree.
//
// DeletedAt nil means the record is active. ParentID nil means it sits at the
// root. Versions are ordered newest first. Empty and nil Tags or Versions are
// the same thing; stores hand them back as nil.
type FileRecord struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Kind        Kind       `json:"type"`
	Size        string     `json:"size"`
	Date        string     `json:"date"`
	URL         string     `json:"url,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Description string     `json:"description,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	EmbedURL    string     `json:"embedUrl,omitempty"`
	DriveURL    string     `json:"driveUrl,omitempty"`
	ParentID    *string    `json:"parentId,omitempty"`
	Versions    []Version  `json:"versions,omitempty"`
}

// IsFolder reports whether r is a folder.
func (r *FileRecord) IsFolder() bool {
	return r.Kind == KindFolder
}

// IsTrashed reports whether r carries a deletion timestamp.
func (r *FileRecord) IsTrashed() bool {
	return r.DeletedAt != nil
}

// InFolder reports whether r is a direct child of parentID (nil = root).
func (r *FileRecord) InFolder(parentID *string) bool {
	if parentID == nil || r.ParentID == nil {
		return parentID == nil && r.ParentID == nil
	}
	return *parentID == *r.ParentID
}

// Clone returns a deep copy of r.
func (r FileRecord) Clone() FileRecord {
	c := r
	if r.Tags != nil {
		c.Tags = append([]string(nil), r.Tags...)
	}
	if r.Versions != nil {
		c.Versions = append([]Version(nil), r.Versions...)
	}
	if r.DeletedAt != nil {
		t := *r.DeletedAt
		c.DeletedAt = &t
	}
	if r.ParentID != nil {
		p := *r.ParentID
		c.ParentID = &p
	}
	return c
}

// ChildrenOf returns the records directly under parentID, in input order.
// Nested descendants are not included.
func ChildrenOf(records []FileRecord, parentID *string) []FileRecord {
	var out []FileRecord
	for _, r := range records {
		if r.InFolder(parentID) {
			out = append(out, r)
		}
	}
	return out
}

// FindByID returns the index of the record with id, or -1.
func FindByID(records []FileRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
