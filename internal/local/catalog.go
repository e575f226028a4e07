package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/models"
)

// CatalogRepository stores file records, profiles and messages.
//
// A user's file records are kept as one JSON document per user, so a save
// always replaces the whole set.
type CatalogRepository struct {
	store *Store
}

func NewCatalogRepository(store *Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

// ListFiles returns the records saved for userID, or an empty list.
func (r *CatalogRepository) ListFiles(ctx context.Context, userID string) ([]models.FileRecord, error) {
	var raw []byte
	err := r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		err := db.QueryRowContext(ctx, `SELECT files FROM user_files WHERE user_id = ?`, userID).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list files[%s]: %w", userID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	records := []models.FileRecord{}
	if len(raw) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode files[%s]: %w", userID, err)
	}
	return records, nil
}

// SaveFiles replaces the records of userID.
func (r *CatalogRepository) SaveFiles(ctx context.Context, userID string, records []models.FileRecord) error {
	if records == nil {
		records = []models.FileRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode files[%s]: %w", userID, err)
	}

	return r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO user_files (user_id, files) VALUES (?, ?)
			ON CONFLICT(user_id) DO UPDATE SET files = excluded.files
		`, userID, raw)
		if err != nil {
			return fmt.Errorf("failed to save files[%s]: %w", userID, err)
		}
		return nil
	})
}

const profileColumns = `id, email, name, avatar, is_drive_connected, drive_email`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Avatar, &p.IsDriveConnected, &p.DriveEmail); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfile returns the profile keyed by email, or (nil, nil).
func (r *CatalogRepository) GetProfile(ctx context.Context, email string) (*models.Profile, error) {
	var p *models.Profile
	err := r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		var err error
		p, err = scanProfile(db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email))
		if errors.Is(err, sql.ErrNoRows) {
			p = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get profile[%s]: %w", email, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProfile upserts p by email.
func (r *CatalogRepository) SaveProfile(ctx context.Context, p models.Profile) error {
	return r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(email) DO UPDATE SET
				id = excluded.id,
				name = excluded.name,
				avatar = excluded.avatar,
				is_drive_connected = excluded.is_drive_connected,
				drive_email = excluded.drive_email
		`, p.ID, p.Email, p.Name, p.Avatar, p.IsDriveConnected, p.DriveEmail)
		if err != nil {
			return fmt.Errorf("failed to save profile[%s]: %w", p.Email, err)
		}
		return nil
	})
}

// SearchProfiles returns up to limit profiles whose name or email contains
// query, ignoring case, ordered by email. SQLite's LOWER only folds ASCII, so
// matching is done here.
func (r *CatalogRepository) SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	q := strings.ToLower(query)
	out := []models.Profile{}

	err := r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY email`)
		if err != nil {
			return fmt.Errorf("failed to search profiles: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanProfile(rows)
			if err != nil {
				return fmt.Errorf("failed to scan profile row: %w", err)
			}
			if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Email), q) {
				out = append(out, *p)
				if limit > 0 && len(out) >= limit {
					break
				}
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate profile rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SaveMessage upserts m by id.
func (r *CatalogRepository) SaveMessage(ctx context.Context, m models.Message) error {
	return r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO messages (id, sender_id, receiver_id, text, timestamp, is_read)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				sender_id = excluded.sender_id,
				receiver_id = excluded.receiver_id,
				text = excluded.text,
				timestamp = excluded.timestamp,
				is_read = excluded.is_read
		`, m.ID, m.SenderID, m.ReceiverID, m.Text, m.Timestamp.UnixMilli(), m.IsRead)
		if err != nil {
			return fmt.Errorf("failed to save message[%s]: %w", m.ID, err)
		}
		return nil
	})
}

// ListMessages returns the messages sent or received by email, oldest first.
func (r *CatalogRepository) ListMessages(ctx context.Context, email string) ([]models.Message, error) {
	out := []models.Message{}

	err := r.store.Run(ctx, func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, sender_id, receiver_id, text, timestamp, is_read FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			ORDER BY timestamp, id
		`, email, email)
		if err != nil {
			return fmt.Errorf("failed to list messages[%s]: %w", email, err)
		}
		defer rows.Close()

		for rows.Next() {
			var m models.Message
			var ts int64
			if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &ts, &m.IsRead); err != nil {
				return fmt.Errorf("failed to scan message row: %w", err)
			}
			m.Timestamp = time.UnixMilli(ts).UTC()
			out = append(out, m)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate message rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
