package validate

import (
	"context"

	"github.com/venicegeo/ets-gpkg12/internal/store"
)

// Container is the read-only introspection surface the validators consume.
// *store.Container implements it.
type Container interface {
	// Columns returns declared columns in declaration order, or an error
	// wrapping store.ErrTableNotFound.
	Columns(ctx context.Context, table string) ([]store.Column, error)

	// Rows returns a fresh one-pass iterator over a table, or an error
	// wrapping store.ErrTableNotFound.
	Rows(ctx context.Context, table string) (store.RowIterator, error)

	// Tables returns the names of all tables and views, sorted.
	Tables(ctx context.Context) ([]string, error)
}

// PragmaReader is implemented by containers that can answer PRAGMA queries.
type PragmaReader interface {
	Pragma(ctx context.Context, name string) ([]store.Row, error)
}

var (
	_ Container    = (*store.Container)(nil)
	_ PragmaReader = (*store.Container)(nil)
)
