// Package sqlite keeps margin's local history in a single SQLite database,
// using modernc.org/sqlite so the binary needs no CGO. It provides:
//
//   - AutosaveStore: every attempted autosave write, newest first per
//     document, pruned to a fixed number of entries per path
//
// # Schema
//
// Numbered migrations are embedded from migrations/. Each pending
// NNN_name.up.sql runs in its own transaction together with its
// schema_migrations row, so a failing migration leaves nothing behind.
//
// # Data Location
//
// The database lives at <data dir>/margin.db, ~/.margin/data by default.
// It is opened in WAL mode so `margin autosave history` can read while an
// editor is writing.
package sqlite
