package validate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/venicegeo/ets-gpkg12/internal/store"
)

// ExtensionsTable is the extension registry table.
const ExtensionsTable = "gpkg_extensions"

// ExtensionsSchema is the fixed definition of gpkg_extensions
// (OGC 12-128r13 Requirement 58).
var ExtensionsSchema = TableSchema{
	Table: ExtensionsTable,
	Columns: []ExpectedColumn{
		{Name: "table_name", Type: "TEXT", NotNull: false},
		{Name: "column_name", Type: "TEXT", NotNull: false},
		{Name: "extension_name", Type: "TEXT", NotNull: true},
		{Name: "definition", Type: "TEXT", NotNull: true},
		{Name: "scope", Type: "TEXT", NotNull: true},
	},
}

// extensionName matches <author>_<extension>.
var extensionName = regexp.MustCompile(`^[a-zA-Z0-9]+_[a-zA-Z0-9_]+$`)

// Allowance permits extensions to register against an existing standard
// column, because they only add new values or encodings for it.
type Allowance struct {
	Table           string
	Column          string
	ExtensionPrefix string
}

func (a Allowance) permits(table, column, extension string) bool {
	return a.Table == table && a.Column == column && strings.HasPrefix(extension, a.ExtensionPrefix)
}

// registryRow is the projection of a gpkg_extensions row used by the checks.
type registryRow struct {
	id        int64
	table     any
	column    any
	extension any
}

func readRegistry(ctx context.Context, c Container, fn func(registryRow)) error {
	return scanRows(ctx, c, ExtensionsTable, func(row store.Row) {
		fn(registryRow{
			id:        row.ID,
			table:     row.Get("table_name"),
			column:    row.Get("column_name"),
			extension: row.Get("extension_name"),
		})
	})
}

// standardColumns indexes the columns of base-standard tables.
func standardColumns(schemas []TableSchema) map[string]TableSchema {
	out := make(map[string]TableSchema)
	for _, s := range schemas {
		if s.Extension == "" {
			out[s.Table] = s
		}
	}
	return out
}

// CheckNoRedefinition verifies no registered extension targets an existing
// column of a base-standard table, unless an Allowance permits it.
// Registering additional tables or additional columns is allowed.
func CheckNoRedefinition(ctx context.Context, c Container, schemas []TableSchema, allowances []Allowance) (ContentReport, error) {
	report := ContentReport{Table: ExtensionsTable, Rule: "no redefinition of standard columns"}
	standard := standardColumns(schemas)

	err := readRegistry(ctx, c, func(r registryRow) {
		report.RowsChecked++
		table, tok := asText(r.table)
		column, cok := asText(r.column)
		if !tok || !cok {
			return
		}
		schema, isStandard := standard[table]
		if !isStandard || !schema.Has(column) {
			return
		}
		ext, _ := asText(r.extension)
		for _, a := range allowances {
			if a.permits(table, column, ext) {
				return
			}
		}
		report.add(Violation{
			HasRow: true,
			RowID:  r.id,
			Column: "extension_name",
			Value:  r.extension,
			Reason: fmt.Sprintf("redefines standard column %s.%s", table, column),
		})
	})
	return report, err
}

// CheckExtensionNames verifies every extension_name has the form
// <author>_<extension>.
func CheckExtensionNames(ctx context.Context, c Container) (ContentReport, error) {
	report := ContentReport{Table: ExtensionsTable, Rule: "extension_name of form <author>_<extension>"}

	err := readRegistry(ctx, c, func(r registryRow) {
		report.RowsChecked++
		name, ok := asText(r.extension)
		if !ok || !extensionName.MatchString(name) {
			report.add(Violation{HasRow: true, RowID: r.id, Column: "extension_name", Value: r.extension, Reason: "malformed extension name"})
		}
	})
	return report, err
}

// CheckExtensionColumns verifies column_name is NULL when table_name is NULL
// and otherwise names an existing column of table_name.
func CheckExtensionColumns(ctx context.Context, c Container) (ContentReport, error) {
	report := ContentReport{Table: ExtensionsTable, Rule: "column_name references a column of table_name"}

	// The container serves one query at a time, so referenced tables are
	// introspected between two passes over the registry, never during one.
	tables := make(map[string]map[string]bool)
	err := readRegistry(ctx, c, func(r registryRow) {
		if r.column == nil {
			return
		}
		if table, ok := asText(r.table); ok {
			tables[table] = nil
		}
	})
	if err != nil {
		return report, err
	}
	names := make([]string, 0, len(tables))
	for table := range tables {
		names = append(names, table)
	}
	sort.Strings(names)
	for _, table := range names {
		cols, err := columnSet(ctx, c, table)
		if err != nil {
			return report, err
		}
		tables[table] = cols
	}

	err = readRegistry(ctx, c, func(r registryRow) {
		report.RowsChecked++
		if r.column == nil {
			return
		}
		if r.table == nil {
			report.add(Violation{HasRow: true, RowID: r.id, Column: "column_name", Value: r.column, Reason: "table_name is NULL"})
			return
		}
		table, _ := asText(r.table)
		column, _ := asText(r.column)

		cols := tables[table]
		if cols == nil {
			report.add(Violation{HasRow: true, RowID: r.id, Column: "table_name", Value: r.table, Reason: "no such table or view"})
			return
		}
		if !cols[column] {
			report.add(Violation{HasRow: true, RowID: r.id, Column: "column_name", Value: r.column, Reason: "no such column in " + table})
		}
	})
	return report, err
}

// CheckAdditionalColumns verifies every column of a base-standard table that
// the standard does not define is registered in gpkg_extensions. Standard
// tables absent from the container are skipped.
func CheckAdditionalColumns(ctx context.Context, c Container, schemas []TableSchema) (ContentReport, error) {
	report := ContentReport{Table: ExtensionsTable, Rule: "additional columns are registered extensions"}

	registered := make(map[string]bool)
	err := readRegistry(ctx, c, func(r registryRow) {
		table, tok := asText(r.table)
		column, cok := asText(r.column)
		if tok && cok {
			registered[table+"."+column] = true
		}
	})
	if err != nil {
		return report, err
	}

	for _, s := range schemas {
		if s.Extension != "" {
			continue
		}
		tr, err := ValidateTable(ctx, c, s)
		if err != nil {
			return report, err
		}
		report.RowsChecked += tr.ColumnsFound
		for _, extra := range tr.Extra {
			if !registered[s.Table+"."+extra] {
				report.add(Violation{Column: s.Table + "." + extra, Reason: "column not registered"})
			}
		}
	}
	return report, nil
}

// columnSet returns the column names of table, or nil when the table does
// not exist.
func columnSet(ctx context.Context, c Container, table string) (map[string]bool, error) {
	cols, err := c.Columns(ctx, table)
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			return nil, nil
		}
		return nil, NewCollaboratorFault("introspect "+table, err)
	}
	set := make(map[string]bool, len(cols))
	for _, col := range cols {
		set[col.Name] = true
	}
	return set, nil
}

func asText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case []byte:
		return string(val), true
	default:
		return "", false
	}
}
