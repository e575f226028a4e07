package storage

import (
	"context"

	"github.com/dmitrijs2005/gophcloud/internal/fallback"
	"github.com/dmitrijs2005/gophcloud/internal/logging"
)

// BlobStore is durable byte storage keyed by id.
type BlobStore struct {
	remote BlobBackend
	local  BlobBackend
	policy fallback.Policy
	log    logging.Logger
}

// NewBlobStore composes the tiers. remote may be nil, which is the same as
// remoteEnabled being false.
func NewBlobStore(remote, local BlobBackend, remoteEnabled bool, log logging.Logger) *BlobStore {
	if log == nil {
		log = logging.Discard()
	}
	return &BlobStore{
		remote: remote,
		local:  local,
		policy: fallback.Policy{RemoteEnabled: remoteEnabled && remote != nil, Logger: log},
		log:    log,
	}
}

// Put writes data under id, replacing previous content.
func (s *BlobStore) Put(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var remote func(context.Context) error
	if s.remote != nil {
		remote = func(ctx context.Context) error { return s.remote.Put(ctx, id, data) }
	}

	_, err := fallback.Do(ctx, s.policy, "blob.put", remote,
		func(ctx context.Context) error { return s.local.Put(ctx, id, data) })
	if err != nil {
		return writeFailed(ctx, "blob.put", err)
	}
	return nil
}

// Get returns the content under id, or nil when no tier has it. A remote
// miss consults the local tier.
func (s *BlobStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var remote fallback.Func[[]byte]
	if s.remote != nil {
		remote = func(ctx context.Context) ([]byte, error) {
			data, err := s.remote.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			if data == nil {
				return nil, fallback.ErrMiss
			}
			return data, nil
		}
	}

	data, _, err := fallback.Call(ctx, s.policy, "blob.get", remote,
		func(ctx context.Context) ([]byte, error) { return s.local.Get(ctx, id) })
	if err != nil {
		return readFailed[[]byte](ctx, s.log, "blob.get", err)
	}
	return data, nil
}

// Remove deletes the content under id. Removing an absent id succeeds. A
// remote delete is followed by a local one, since Get falls back to the local
// tier; a failure there is only logged.
func (s *BlobStore) Remove(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var remote func(context.Context) error
	if s.remote != nil {
		remote = func(ctx context.Context) error { return s.remote.Remove(ctx, id) }
	}

	tier, err := fallback.Do(ctx, s.policy, "blob.remove", remote,
		func(ctx context.Context) error { return s.local.Remove(ctx, id) })
	if err != nil {
		return writeFailed(ctx, "blob.remove", err)
	}
	if tier == fallback.TierRemote {
		if err := s.local.Remove(ctx, id); err != nil {
			s.log.Warn(ctx, "local copy not removed", "op", "blob.remove", "id", id, "error", err)
		}
	}
	return nil
}
