package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/fallback"
	"github.com/dmitrijs2005/gophcloud/internal/logging"
	"github.com/dmitrijs2005/gophcloud/internal/models"
)

// SearchLimit caps the number of profiles SearchUsers returns.
const SearchLimit = 10

// Catalog stores file records, user profiles and direct messages.
type Catalog struct {
	remote CatalogBackend
	local  CatalogBackend
	policy fallback.Policy
	log    logging.Logger
}

// NewCatalog composes the tiers. remote may be nil, which is the same as
// remoteEnabled being false.
func NewCatalog(remote, local CatalogBackend, remoteEnabled bool, log logging.Logger) *Catalog {
	if log == nil {
		log = logging.Discard()
	}
	return &Catalog{
		remote: remote,
		local:  local,
		policy: fallback.Policy{RemoteEnabled: remoteEnabled && remote != nil, Logger: log},
		log:    log,
	}
}

func remoteCall[T any](b CatalogBackend, fn func(ctx context.Context, b CatalogBackend) (T, error)) fallback.Func[T] {
	if b == nil {
		return nil
	}
	return func(ctx context.Context) (T, error) { return fn(ctx, b) }
}

func remoteDo(b CatalogBackend, fn func(ctx context.Context, b CatalogBackend) error) func(context.Context) error {
	if b == nil {
		return nil
	}
	return func(ctx context.Context) error { return fn(ctx, b) }
}

// ListFiles returns every record of userID, trashed ones included.
func (c *Catalog) ListFiles(ctx context.Context, userID string) ([]models.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list := func(ctx context.Context, b CatalogBackend) ([]models.FileRecord, error) {
		return b.ListFiles(ctx, userID)
	}
	records, _, err := fallback.Call(ctx, c.policy, "catalog.list_files", remoteCall(c.remote, list),
		func(ctx context.Context) ([]models.FileRecord, error) { return list(ctx, c.local) })
	if err != nil {
		return readFailed[[]models.FileRecord](ctx, c.log, "catalog.list_files", err)
	}
	return records, nil
}

// SaveFiles makes records the complete set of userID. Records are matched by
// id and the last write wins.
func (c *Catalog) SaveFiles(ctx context.Context, userID string, records []models.FileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	save := func(ctx context.Context, b CatalogBackend) error { return b.SaveFiles(ctx, userID, records) }
	_, err := fallback.Do(ctx, c.policy, "catalog.save_files", remoteDo(c.remote, save),
		func(ctx context.Context) error { return save(ctx, c.local) })
	if err != nil {
		return writeFailed(ctx, "catalog.save_files", err)
	}
	return nil
}

// Transition moves one record through its lifecycle and saves the set.
// Trashing stamps DeletedAt with at, restoring clears it, purging drops the
// record. Content blobs are not touched. The record as it was before the
// transition is returned.
func (c *Catalog) Transition(ctx context.Context, userID, fileID string, to models.State, at time.Time) (models.FileRecord, error) {
	records, err := c.ListFiles(ctx, userID)
	if err != nil {
		return models.FileRecord{}, err
	}

	i := models.FindByID(records, fileID)
	if i < 0 {
		return models.FileRecord{}, fmt.Errorf("file %s: %w", fileID, common.ErrNotFound)
	}
	before := records[i].Clone()

	from := models.StateOf(&records[i])
	if !models.CanTransition(from, to) {
		return before, fmt.Errorf("file %s %s -> %s: %w", fileID, from, to, common.ErrInvalidTransition)
	}

	switch to {
	case models.StateTrashed:
		t := at
		records[i].DeletedAt = &t
	case models.StateActive:
		records[i].DeletedAt = nil
	case models.StatePurged:
		records = append(records[:i], records[i+1:]...)
	}

	if err := c.SaveFiles(ctx, userID, records); err != nil {
		return before, err
	}
	return before, nil
}

// GetUserProfile returns the profile keyed by email, or nil. A profile the
// remote tier does not have is looked up locally.
func (c *Catalog) GetUserProfile(ctx context.Context, email string) (*models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var remote fallback.Func[*models.Profile]
	if c.remote != nil {
		remote = func(ctx context.Context) (*models.Profile, error) {
			p, err := c.remote.GetProfile(ctx, email)
			if err == nil && p == nil {
				return nil, fallback.ErrMiss
			}
			return p, err
		}
	}
	p, _, err := fallback.Call(ctx, c.policy, "catalog.get_profile", remote,
		func(ctx context.Context) (*models.Profile, error) { return c.local.GetProfile(ctx, email) })
	if err != nil {
		return readFailed[*models.Profile](ctx, c.log, "catalog.get_profile", err)
	}
	return p, nil
}

// SaveUserProfile upserts p by email.
func (c *Catalog) SaveUserProfile(ctx context.Context, p models.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	save := func(ctx context.Context, b CatalogBackend) error { return b.SaveProfile(ctx, p) }
	_, err := fallback.Do(ctx, c.policy, "catalog.save_profile", remoteDo(c.remote, save),
		func(ctx context.Context) error { return save(ctx, c.local) })
	if err != nil {
		return writeFailed(ctx, "catalog.save_profile", err)
	}
	return nil
}

// SearchUsers returns at most SearchLimit profiles whose name or email
// contains query, ignoring case.
func (c *Catalog) SearchUsers(ctx context.Context, query string) ([]models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	search := func(ctx context.Context, b CatalogBackend) ([]models.Profile, error) {
		return b.SearchProfiles(ctx, query, SearchLimit)
	}
	found, _, err := fallback.Call(ctx, c.policy, "catalog.search_users", remoteCall(c.remote, search),
		func(ctx context.Context) ([]models.Profile, error) { return search(ctx, c.local) })
	if err != nil {
		return readFailed[[]models.Profile](ctx, c.log, "catalog.search_users", err)
	}
	if len(found) > SearchLimit {
		found = found[:SearchLimit]
	}
	return found, nil
}

// SaveDirectMessage stores m.
func (c *Catalog) SaveDirectMessage(ctx context.Context, m models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	save := func(ctx context.Context, b CatalogBackend) error { return b.SaveMessage(ctx, m) }
	_, err := fallback.Do(ctx, c.policy, "catalog.save_message", remoteDo(c.remote, save),
		func(ctx context.Context) error { return save(ctx, c.local) })
	if err != nil {
		return writeFailed(ctx, "catalog.save_message", err)
	}
	return nil
}

// ListUserMessages returns the messages sent or received by email.
func (c *Catalog) ListUserMessages(ctx context.Context, email string) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	list := func(ctx context.Context, b CatalogBackend) ([]models.Message, error) {
		return b.ListMessages(ctx, email)
	}
	msgs, _, err := fallback.Call(ctx, c.policy, "catalog.list_messages", remoteCall(c.remote, list),
		func(ctx context.Context) ([]models.Message, error) { return list(ctx, c.local) })
	if err != nil {
		return readFailed[[]models.Message](ctx, c.log, "catalog.list_messages", err)
	}
	return msgs, nil
}
