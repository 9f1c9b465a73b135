package migrations

import "embed"

// FS contains embedded SQLite migrations for the event journal.
//
//go:embed *.sql
var FS embed.FS
