package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophcloud/internal/common"
	"github.com/dmitrijs2005/gophcloud/internal/logging"
)

// readFailed turns a local read failure into an empty result. Only context
// errors reach the caller.
func readFailed[T any](ctx context.Context, log logging.Logger, op string, err error) (T, error) {
	var zero T
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}
	log.Warn(ctx, "local storage unavailable, returning empty result", "op", op, "error", err)
	return zero, nil
}

// writeFailed wraps a local write failure in common.ErrLocalUnavailable.
func writeFailed(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, common.ErrLocalUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, common.ErrLocalUnavailable, err)
}
