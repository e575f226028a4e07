// Package cli provides the interactive GophCloud command-line client.
//
// It wires configuration, the local SQLite store, the optional remote tier
// (Postgres metadata and S3 blobs), the vault service and the trash janitor,
// then runs a read-eval-print loop over them. Every command works offline;
// when the remote tier is configured it is tried first and the local store
// absorbs its failures.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
