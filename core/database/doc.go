// Package database opens the local cache database and keeps its schema current.
//
// Connect wraps GORM for the two supported drivers: sqlite (the default,
// on-device cache) and mysql. SQLite connections are limited to a single open
// connection so an in-memory cache survives for the life of the process and
// writes never contend for SQLITE_BUSY.
//
// # Migrations
//
// Migrate compares the version stored in schema_versions with the version a
// Schema declares. Fresh databases are created, older ones are migrated step
// by step with AfterVersion callbacks run at their versions. Migrate must be
// called before any query is served.
//
// # Schema Inspection
//
// GetTableColumns and RequireColumns inspect the live table layout and are
// used as a guard after migrations.
package database
