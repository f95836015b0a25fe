// Package store provides read-only access to a GeoPackage container.
//
// A container is a SQLite database file. The store never writes to it:
//   - the file is opened through a URI with mode=ro
//   - PRAGMA query_only is enabled on the single pooled connection
//
// # Introspection
//
// Columns returns the declared column metadata of a table or view in
// declaration order (cid ASC). A table that does not exist yields
// ErrTableNotFound rather than an empty slice, so callers can tell
// "table absent" apart from "table present but empty".
//
// Rows streams the rows of a table in rowid order. The returned
// RowIterator is one-pass and finite; each call to Rows starts a fresh
// iterator. Views and WITHOUT ROWID tables fall back to natural scan order
// with ordinal row ids.
//
// # Deterministic Reads
//
// Every query that feeds a verdict has a stable order (cid, rowid or name),
// so re-reading an unchanged container yields identical results.
package store
