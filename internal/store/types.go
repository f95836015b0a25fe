package store

import "errors"

// ErrTableNotFound is returned when a table or view does not exist in the
// container.
var ErrTableNotFound = errors.New("table not found")

// Column is one entry of a table's declared schema, as reported by
// PRAGMA table_info.
type Column struct {
	Name         string
	DeclaredType string
	NotNull      bool
	HasDefault   bool
	PrimaryKey   bool
}

// Row is a single row read from a table.
//
// ID is the rowid when the table has one, otherwise the 1-based ordinal
// position of the row in the scan.
type Row struct {
	ID     int64
	Values map[string]any
}

// Get returns the value of a column, or nil when the column is absent or
// NULL.
func (r Row) Get(column string) any {
	return r.Values[column]
}

// RowIterator is a one-pass cursor over the rows of a table.
//
// Usage mirrors database/sql:
//
//	it, err := c.Rows(ctx, "gpkg_extensions")
//	if err != nil { ... }
//	defer it.Close()
//	for it.Next() {
//	    row := it.Row()
//	}
//	if err := it.Err(); err != nil { ... }
type RowIterator interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}
