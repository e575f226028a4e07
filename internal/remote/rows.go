package remote

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/models"
)

// FileRow is one row of the remote files table.
type FileRow struct {
	ID          string
	UserID      string
	Position    int
	Name        string
	Type        string
	Size        sql.NullString
	Date        sql.NullString
	URL         sql.NullString
	Thumbnail   sql.NullString
	Tags        []string
	Description sql.NullString
	DeletedAt   sql.NullTime
	EmbedURL    sql.NullString
	DriveURL    sql.NullString
	ParentID    sql.NullString
	Versions    []models.Version
}

// ProfileRow is one row of the remote profiles table.
type ProfileRow struct {
	ID               string
	Email            string
	Name             sql.NullString
	Avatar           sql.NullString
	IsDriveConnected bool
	DriveEmail       sql.NullString
}

// MessageRow is one row of the remote messages table. Timestamp is in Unix
// milliseconds.
type MessageRow struct {
	ID         string
	SenderID   string
	ReceiverID string
	Text       string
	Timestamp  int64
	IsRead     bool
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ToFileRow maps a record to its row. Local "blob:" references are replaced
// by the stored-content marker; they mean nothing outside this process.
// DeletedAt is stored in UTC at the microsecond precision of timestamptz, and
// empty Tags or Versions read back as nil.
func ToFileRow(userID string, position int, r models.FileRecord) FileRow {
	url := r.URL
	if strings.HasPrefix(url, common.LocalRefScheme) {
		url = common.BlobStoredMarker
	}

	row := FileRow{
		ID:          r.ID,
		UserID:      userID,
		Position:    position,
		Name:        r.Name,
		Type:        string(r.Kind),
		Size:        nullString(r.Size),
		Date:        nullString(r.Date),
		URL:         nullString(url),
		Thumbnail:   nullString(r.Thumbnail),
		Tags:        r.Tags,
		Description: nullString(r.Description),
		EmbedURL:    nullString(r.EmbedURL),
		DriveURL:    nullString(r.DriveURL),
		Versions:    r.Versions,
	}
	if r.DeletedAt != nil {
		row.DeletedAt = sql.NullTime{Time: r.DeletedAt.UTC().Truncate(time.Microsecond), Valid: true}
	}
	if r.ParentID != nil {
		row.ParentID = sql.NullString{String: *r.ParentID, Valid: true}
	}
	return row
}

// FromFileRow maps a row back to a record.
func FromFileRow(row FileRow) models.FileRecord {
	r := models.FileRecord{
		ID:          row.ID,
		Name:        row.Name,
		Kind:        models.Kind(row.Type),
		Size:        row.Size.String,
		Date:        row.Date.String,
		URL:         row.URL.String,
		Thumbnail:   row.Thumbnail.String,
		Description: row.Description.String,
		EmbedURL:    row.EmbedURL.String,
		DriveURL:    row.DriveURL.String,
	}
	if len(row.Tags) > 0 {
		r.Tags = row.Tags
	}
	if len(row.Versions) > 0 {
		r.Versions = row.Versions
	}
	if row.DeletedAt.Valid {
		t := row.DeletedAt.Time.UTC()
		r.DeletedAt = &t
	}
	if row.ParentID.Valid {
		p := row.ParentID.String
		r.ParentID = &p
	}
	return r
}

// ToProfileRow maps a profile to its row.
func ToProfileRow(p models.Profile) ProfileRow {
	return ProfileRow{
		ID:               p.ID,
		Email:            p.Email,
		Name:             nullString(p.Name),
		Avatar:           nullString(p.Avatar),
		IsDriveConnected: p.IsDriveConnected,
		DriveEmail:       nullString(p.DriveEmail),
	}
}

// FromProfileRow maps a row back to a profile.
func FromProfileRow(row ProfileRow) models.Profile {
	return models.Profile{
		ID:               row.ID,
		Email:            row.Email,
		Name:             row.Name.String,
		Avatar:           row.Avatar.String,
		IsDriveConnected: row.IsDriveConnected,
		DriveEmail:       row.DriveEmail.String,
	}
}

// ToMessageRow maps a message to its row. The timestamp keeps millisecond
// precision and reads back in UTC.
func ToMessageRow(m models.Message) MessageRow {
	return MessageRow{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		Timestamp:  m.Timestamp.UnixMilli(),
		IsRead:     m.IsRead,
	}
}

// FromMessageRow maps a row back to a message.
func FromMessageRow(row MessageRow) models.Message {
	return models.Message{
		ID:         row.ID,
		SenderID:   row.SenderID,
		ReceiverID: row.ReceiverID,
		Text:       row.Text,
		Timestamp:  time.UnixMilli(row.Timestamp).UTC(),
		IsRead:     row.IsRead,
	}
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}
	return string(b), nil
}

func decodeJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	return nil
}
