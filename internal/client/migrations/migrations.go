// Package migrations embeds the local SQLite schema of the CLI.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
