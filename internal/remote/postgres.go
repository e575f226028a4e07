package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/dbx"
	"github.com/dmitrijs2005/gophcloud/internal/models"
	"github.com/dmitrijs2005/gophcloud/internal/remote/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// OpenPostgres opens the remote catalog database and applies its migrations.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded Postgres schema to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return dbx.Migrate(ctx, db, "postgres", migrations.Migrations)
}

// PostgresCatalog is the remote metadata catalog.
type PostgresCatalog struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresCatalog returns a catalog over db. A positive timeout bounds
// every call.
func NewPostgresCatalog(db *sql.DB, timeout time.Duration) *PostgresCatalog {
	return &PostgresCatalog{db: db, timeout: timeout}
}

func (c *PostgresCatalog) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

const fileColumns = `id, user_id, position, name, type, size, date, url, thumbnail, tags,
	description, deleted_at, embed_url, drive_url, parent_id, versions`

// ListFiles returns every record of userID, trashed ones included, in the
// order they were last saved.
func (c *PostgresCatalog) ListFiles(ctx context.Context, userID string) ([]models.FileRecord, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `SELECT `+fileColumns+` FROM files
		WHERE user_id = $1
		ORDER BY position, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []models.FileRecord{}
	for rows.Next() {
		var row FileRow
		var tags, versions []byte
		err := rows.Scan(&row.ID, &row.UserID, &row.Position, &row.Name, &row.Type, &row.Size, &row.Date,
			&row.URL, &row.Thumbnail, &tags, &row.Description, &row.DeletedAt, &row.EmbedURL,
			&row.DriveURL, &row.ParentID, &versions)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		if err := decodeJSON(tags, &row.Tags); err != nil {
			return nil, fmt.Errorf("file %s tags: %w", row.ID, err)
		}
		if err := decodeJSON(versions, &row.Versions); err != nil {
			return nil, fmt.Errorf("file %s versions: %w", row.ID, err)
		}
		result = append(result, FromFileRow(row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file rows: %w", err)
	}
	return result, nil
}

// SaveFiles makes records the complete set of userID in one transaction:
// every record is upserted by id and rows of userID missing from records
// are deleted. A row id owned by another user is left untouched.
func (c *PostgresCatalog) SaveFiles(ctx context.Context, userID string, records []models.FileRecord) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	idsJSON, err := encodeJSON(ids)
	if err != nil {
		return fmt.Errorf("encode ids: %w", err)
	}

	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for i, r := range records {
			if err := upsertFile(ctx, tx, ToFileRow(userID, i, r)); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, `DELETE FROM files
			WHERE user_id = $1
			AND id NOT IN (SELECT jsonb_array_elements_text($2::jsonb))`, userID, idsJSON)
		if err != nil {
			return fmt.Errorf("failed to delete stale files: %w", err)
		}
		return nil
	})
}

func upsertFile(ctx context.Context, tx dbx.DBTX, row FileRow) error {
	tags, err := encodeJSON(row.Tags)
	if err != nil {
		return fmt.Errorf("file %s tags: %w", row.ID, err)
	}
	versions, err := encodeJSON(row.Versions)
	if err != nil {
		return fmt.Errorf("file %s versions: %w", row.ID, err)
	}

	query := `INSERT INTO files (` + fileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11, $12, $13, $14, $15, $16::jsonb)
		ON CONFLICT (id)
		DO UPDATE SET
			position = EXCLUDED.position,
			name = EXCLUDED.name,
			type = EXCLUDED.type,
			size = EXCLUDED.size,
			date = EXCLUDED.date,
			url = EXCLUDED.url,
			thumbnail = EXCLUDED.thumbnail,
			tags = EXCLUDED.tags,
			description = EXCLUDED.description,
			deleted_at = EXCLUDED.deleted_at,
			embed_url = EXCLUDED.embed_url,
			drive_url = EXCLUDED.drive_url,
			parent_id = EXCLUDED.parent_id,
			versions = EXCLUDED.versions
			WHERE files.user_id = EXCLUDED.user_id;
	`

	_, err = tx.ExecContext(ctx, query, row.ID, row.UserID, row.Position, row.Name, row.Type, row.Size, row.Date,
		row.URL, row.Thumbnail, tags, row.Description, row.DeletedAt, row.EmbedURL, row.DriveURL, row.ParentID, versions)
	if err != nil {
		return fmt.Errorf("failed to upsert file %s: %w", row.ID, err)
	}
	return nil
}

const profileColumns = `id, email, name, avatar, is_drive_connected, drive_email`

func scanProfile(row interface{ Scan(...any) error }) (models.Profile, error) {
	var p ProfileRow
	if err := row.Scan(&p.ID, &p.Email, &p.Name, &p.Avatar, &p.IsDriveConnected, &p.DriveEmail); err != nil {
		return models.Profile{}, err
	}
	return FromProfileRow(p), nil
}

// GetProfile returns the profile keyed by email, or (nil, nil).
func (c *PostgresCatalog) GetProfile(ctx context.Context, email string) (*models.Profile, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	p, err := scanProfile(c.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select profile: %w", err)
	}
	return &p, nil
}

// SaveProfile upserts p by email.
func (c *PostgresCatalog) SaveProfile(ctx context.Context, p models.Profile) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	row := ToProfileRow(p)
	_, err := c.db.ExecContext(ctx, `INSERT INTO profiles (`+profileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email)
		DO UPDATE SET
			id = EXCLUDED.id,
			name = EXCLUDED.name,
			avatar = EXCLUDED.avatar,
			is_drive_connected = EXCLUDED.is_drive_connected,
			drive_email = EXCLUDED.drive_email`,
		row.ID, row.Email, row.Name, row.Avatar, row.IsDriveConnected, row.DriveEmail)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchProfiles returns up to limit profiles whose name or email contains
// query, ignoring case. Wildcards in query match literally.
func (c *PostgresCatalog) SearchProfiles(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := c.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles
		WHERE name ILIKE $1 OR email ILIKE $1
		ORDER BY email
		LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()

	result := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile rows: %w", err)
	}
	return result, nil
}

// SaveMessage stores m, replacing a message with the same id.
func (c *PostgresCatalog) SaveMessage(ctx context.Context, m models.Message) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	row := ToMessageRow(m)
	_, err := c.db.ExecContext(ctx, `INSERT INTO messages (id, sender_id, receiver_id, text, timestamp, is_read)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id)
		DO UPDATE SET
			sender_id = EXCLUDED.sender_id,
			receiver_id = EXCLUDED.receiver_id,
			text = EXCLUDED.text,
			timestamp = EXCLUDED.timestamp,
			is_read = EXCLUDED.is_read`,
		row.ID, row.SenderID, row.ReceiverID, row.Text, row.Timestamp, row.IsRead)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages returns the messages sent or received by email, oldest first.
func (c *PostgresCatalog) ListMessages(ctx context.Context, email string) ([]models.Message, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `SELECT id, sender_id, receiver_id, text, timestamp, is_read FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY timestamp, id`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	result := []models.Message{}
	for rows.Next() {
		var row MessageRow
		if err := rows.Scan(&row.ID, &row.SenderID, &row.ReceiverID, &row.Text, &row.Timestamp, &row.IsRead); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		result = append(result, FromMessageRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}
	return result, nil
}
