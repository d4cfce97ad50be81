// Package migrations embeds the SQL migrations for the SQLite layout store.
package migrations

import "embed"

// FS holds the versioned .up.sql and .down.sql files.
//
//go:embed *.sql
var FS embed.FS
