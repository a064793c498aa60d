// Package sqlite provides the SQLite-backed document catalogue.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The catalogue records which documents were ingested, from
// where, at what token cost, and every ingestion attempt including cache
// hits. It is informational: the index store decides whether a document is
// indexed.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.chatweb/chatweb.db
//
// # Thread Safety
//
// All operations are thread-safe. The store relies on SQLite in WAL mode
// with a busy timeout.
package sqlite
