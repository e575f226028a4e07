// Package common defines shared constants and sentinel errors used across
// the storage, vault and cli layers of GophCloud. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrLocalUnavailable is returned when the local backend cannot be opened
	// or a local write fails after the remote tier was skipped or failed.
	ErrLocalUnavailable = errors.New("local storage unavailable")

	// Lifecycle errors.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// Vault errors.
	ErrQuotaExceeded   = errors.New("storage quota exceeded")
	ErrContentMissing  = errors.New("content missing")
	ErrInvalidArgument = errors.New("invalid argument")
)
