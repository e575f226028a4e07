package common

const (
	// BlobStoredMarker replaces local blob references in persisted URLs.
	// A record carrying it has its content in the blob store under its own id.
	BlobStoredMarker = "BLOB_STORED"

	// LocalRefScheme prefixes a process-local content reference ("blob:<id>").
	// Such references are never persisted as they are.
	LocalRefScheme = "blob:"

	// ContentMissingSuffix is appended to the description of a record whose
	// stored content could not be found on load.
	ContentMissingSuffix = " (Content missing)"
)
