// Package migrations embeds the schema of the remote Postgres catalog.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
