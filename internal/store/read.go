package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// validIdentifier matches names that may be interpolated into a PRAGMA
// statement. Pragma names cannot be bound as parameters.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// rowIDAlias names the rowid column selected alongside the table columns.
const rowIDAlias = "__ets_rowid"

// Columns returns the declared columns of a table or view in declaration
// order. Returns ErrTableNotFound if the table does not exist.
func (c *Container) Columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?)
		ORDER BY cid ASC
	`, table)
	if err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var (
			col     Column
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&col.Name, &col.DeclaredType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		col.NotNull = notNull != 0
		col.HasDefault = dflt.Valid
		col.PrimaryKey = pk != 0
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns of %s: %w", table, err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: %w", table, ErrTableNotFound)
	}

	return columns, nil
}

// Rows returns a one-pass iterator over the rows of a table, ordered by
// rowid. Returns ErrTableNotFound if the table does not exist.
//
// Callers are responsible for closing the iterator.
func (c *Container) Rows(ctx context.Context, table string) (RowIterator, error) {
	if _, err := c.Columns(ctx, table); err != nil {
		return nil, err
	}

	quoted := quoteIdentifier(table)
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT _rowid_ AS %s, * FROM %s ORDER BY _rowid_ ASC`, quoteIdentifier(rowIDAlias), quoted))
	if err == nil {
		return newSQLRowIterator(rows, true)
	}

	// Views and WITHOUT ROWID tables have no rowid.
	rows, err = c.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s`, quoted))
	if err != nil {
		return nil, fmt.Errorf("query rows of %s: %w", table, err)
	}
	return newSQLRowIterator(rows, false)
}

// Tables returns the names of all tables and views in the container, sorted
// by name.
func (c *Container) Tables(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view')
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	return names, nil
}

// Pragma runs a read-only pragma and returns its result rows with ordinal ids.
func (c *Container) Pragma(ctx context.Context, name string) ([]Row, error) {
	if !validIdentifier.MatchString(name) {
		return nil, fmt.Errorf("invalid pragma name %q: must match pattern %s", name, validIdentifier.String())
	}

	rows, err := c.db.QueryContext(ctx, "PRAGMA "+name)
	if err != nil {
		return nil, fmt.Errorf("pragma %s: %w", name, err)
	}

	it, err := newSQLRowIterator(rows, false)
	if err != nil {
		return nil, fmt.Errorf("pragma %s: %w", name, err)
	}
	defer it.Close()

	result := []Row{}
	for it.Next() {
		result = append(result, it.Row())
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("pragma %s: %w", name, err)
	}

	return result, nil
}

// quoteIdentifier quotes a table name for interpolation. Embedded double
// quotes are doubled per SQL rules.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sqlRowIterator adapts *sql.Rows to RowIterator.
type sqlRowIterator struct {
	rows     *sql.Rows
	columns  []string
	hasRowID bool
	ordinal  int64
	current  Row
	err      error
}

func newSQLRowIterator(rows *sql.Rows, hasRowID bool) (*sqlRowIterator, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("get columns: %w", err)
	}
	return &sqlRowIterator{rows: rows, columns: columns, hasRowID: hasRowID}, nil
}

func (it *sqlRowIterator) Next() bool {
	if it.err != nil || !it.rows.Next() {
		return false
	}

	values := make([]any, len(it.columns))
	ptrs := make([]any, len(it.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := it.rows.Scan(ptrs...); err != nil {
		it.err = fmt.Errorf("scan row: %w", err)
		return false
	}

	it.ordinal++
	row := Row{ID: it.ordinal, Values: make(map[string]any, len(it.columns))}
	for i, name := range it.columns {
		if it.hasRowID && i == 0 {
			if id, ok := values[i].(int64); ok {
				row.ID = id
			}
			continue
		}
		// Later duplicates of a column name never overwrite the first.
		if _, seen := row.Values[name]; seen {
			continue
		}
		row.Values[name] = values[i]
	}
	it.current = row
	return true
}

func (it *sqlRowIterator) Row() Row {
	return it.current
}

func (it *sqlRowIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Err()
}

func (it *sqlRowIterator) Close() error {
	return it.rows.Close()
}
