// Package migrations embeds the SQLite schema managed by goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
