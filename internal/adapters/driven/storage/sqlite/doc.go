// Package sqlite persists pipeline output in a single SQLite database,
// ~/.taxa/data/taxa.db by default. One connection serves both the
// ResultStore (documents and their sections) and the
// ClassificationCache (classifications keyed by content hash).
//
// The driver is modernc.org/sqlite, so builds stay CGO-free. Schema
// changes ship as paired .up.sql/.down.sql files embedded from the
// migrations directory and are applied in order on open. The store is
// safe for concurrent use; the database runs in WAL mode.
package sqlite
