// Package migrations holds the numbered SQLite schema changes. Each
// NNN_name.up.sql file is applied once, in order; the matching .down.sql
// file is kept for manual rollback.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
