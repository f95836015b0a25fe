package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/venicegeo/ets-gpkg12/internal/store"
)

// DefaultExpectation states what a column's DEFAULT clause must look like.
type DefaultExpectation int

const (
	// DefaultAny accepts a column with or without a default.
	DefaultAny DefaultExpectation = iota
	// DefaultRequired requires the column to declare a default.
	DefaultRequired
	// DefaultAbsent requires the column to declare no default.
	DefaultAbsent
)

// ExpectedColumn is the standard's definition of one column.
type ExpectedColumn struct {
	Name    string
	Type    string // exact declared type, e.g. "TEXT"
	NotNull bool
	Default DefaultExpectation
}

// TableSchema is the expected definition of a table.
//
// Exactly the listed columns are mandatory. Additional columns are not
// judged here; CheckAdditionalColumns covers them.
type TableSchema struct {
	Table   string
	Columns []ExpectedColumn

	// Extension names the registered extension that defines this table, or
	// "" for tables of the base standard.
	Extension string
}

// Has reports whether column is one of the schema's expected columns.
func (s TableSchema) Has(column string) bool {
	for _, c := range s.Columns {
		if c.Name == column {
			return true
		}
	}
	return false
}

// ColumnCheck records each checked property of one expected column.
type ColumnCheck struct {
	Name      string
	Present   bool
	TypeOK    bool
	NotNullOK bool
	DefaultOK bool

	expected ExpectedColumn
	actual   store.Column
}

// Passed reports whether every property of the column matched.
func (c ColumnCheck) Passed() bool {
	return c.Present && c.TypeOK && c.NotNullOK && c.DefaultOK
}

// Failures lists the failed properties as diagnostics, e.g.
// "extension_name notnull mismatch".
func (c ColumnCheck) Failures() []string {
	if !c.Present {
		return []string{c.Name + " missing"}
	}

	var out []string
	if !c.TypeOK {
		out = append(out, fmt.Sprintf("%s type mismatch (expected %s, found %s)",
			c.Name, c.expected.Type, displayType(c.actual.DeclaredType)))
	}
	if !c.NotNullOK {
		out = append(out, c.Name+" notnull mismatch")
	}
	if !c.DefaultOK {
		out = append(out, c.Name+" default mismatch")
	}
	return out
}

// TableReport is the outcome of ValidateTable.
type TableReport struct {
	Table        string
	ColumnsFound int
	Checks       []ColumnCheck

	// Extra lists declared columns the schema does not name, in
	// declaration order.
	Extra []string
}

// Passed reports whether the table matched its schema.
func (r TableReport) Passed() bool {
	if r.ColumnsFound == 0 {
		return false
	}
	for _, c := range r.Checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// Err returns nil when the table matched, otherwise a structural Fault whose
// message names every failed property.
func (r TableReport) Err() error {
	if r.Passed() {
		return nil
	}
	if r.ColumnsFound == 0 {
		return NewStructuralFault("%s: 0 columns found", r.Table)
	}

	var failures []string
	for _, c := range r.Checks {
		failures = append(failures, c.Failures()...)
	}
	return NewStructuralFault("%s: %s", r.Table, strings.Join(failures, "; "))
}

// ValidateTable compares the declared columns of schema.Table against schema.
//
// Table existence is a separate requirement; here a missing table is the
// degenerate "0 columns found" report, not an error. The returned error is
// non-nil only for collaborator faults.
//
// When introspection reports the same column name twice, the first
// occurrence is checked and later ones are ignored.
func ValidateTable(ctx context.Context, c Container, schema TableSchema) (TableReport, error) {
	report := TableReport{Table: schema.Table}

	columns, err := c.Columns(ctx, schema.Table)
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			for _, exp := range schema.Columns {
				report.Checks = append(report.Checks, ColumnCheck{Name: exp.Name, expected: exp})
			}
			return report, nil
		}
		return report, NewCollaboratorFault("introspect "+schema.Table, err)
	}

	actual := make(map[string]store.Column, len(columns))
	for _, col := range columns {
		if _, seen := actual[col.Name]; seen {
			continue
		}
		actual[col.Name] = col
		report.ColumnsFound++
		if !schema.Has(col.Name) {
			report.Extra = append(report.Extra, col.Name)
		}
	}

	for _, exp := range schema.Columns {
		check := ColumnCheck{Name: exp.Name, expected: exp}
		if col, ok := actual[exp.Name]; ok {
			check.actual = col
			check.Present = true
			check.TypeOK = col.DeclaredType == exp.Type
			check.NotNullOK = col.NotNull == exp.NotNull
			check.DefaultOK = defaultMatches(exp.Default, col.HasDefault)
		}
		report.Checks = append(report.Checks, check)
	}

	return report, nil
}

func defaultMatches(want DefaultExpectation, has bool) bool {
	switch want {
	case DefaultRequired:
		return has
	case DefaultAbsent:
		return !has
	default:
		return true
	}
}

func displayType(t string) string {
	if t == "" {
		return "no declared type"
	}
	return t
}
