// Package fallback runs a storage operation against the remote tier first and
// falls back to the local tier when the remote tier is disabled, fails or
// reports a miss.
package fallback

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophcloud/internal/logging"
)

// Tier names the backend that produced a result.
type Tier string

const (
	TierRemote Tier = "remote"
	TierLocal  Tier = "local"
)

// ErrMiss is returned by a remote function to say "not there" without it
// being a failure. The local tier is consulted and no warning is logged.
var ErrMiss = errors.New("remote miss")

// Policy decides whether the remote tier is attempted. RemoteEnabled is
// resolved once at startup.
type Policy struct {
	RemoteEnabled bool
	Logger        logging.Logger
}

// Func is one tier's implementation of an operation.
type Func[T any] func(ctx context.Context) (T, error)

// Call runs remote when the policy allows it and remote is non-nil. A remote
// success is returned as is. A remote failure is logged as a warning and
// counted, then local runs; its result and error are returned unchanged.
func Call[T any](ctx context.Context, p Policy, op string, remote, local Func[T]) (T, Tier, error) {
	if p.RemoteEnabled && remote != nil {
		v, err := remote(ctx)
		switch {
		case err == nil:
			observe(TierRemote, op, outcomeOK)
			return v, TierRemote, nil
		case errors.Is(err, ErrMiss):
			observe(TierRemote, op, outcomeMiss)
		default:
			observe(TierRemote, op, outcomeError)
			fallbacks.WithLabelValues(op).Inc()
			if p.Logger != nil {
				p.Logger.Warn(ctx, "remote call failed, using local storage", "op", op, "error", err)
			}
		}
	}

	v, err := local(ctx)
	if err != nil {
		observe(TierLocal, op, outcomeError)
		return v, TierLocal, err
	}
	observe(TierLocal, op, outcomeOK)
	return v, TierLocal, nil
}

// Do is Call for operations without a result.
func Do(ctx context.Context, p Policy, op string, remote, local func(ctx context.Context) error) (Tier, error) {
	var r Func[struct{}]
	if remote != nil {
		r = func(ctx context.Context) (struct{}, error) { return struct{}{}, remote(ctx) }
	}
	l := func(ctx context.Context) (struct{}, error) { return struct{}{}, local(ctx) }

	_, tier, err := Call(ctx, p, op, r, l)
	return tier, err
}
