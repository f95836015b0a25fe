package validate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/venicegeo/ets-gpkg12/internal/store"
)

// Predicate is the check a requirement evaluates against a container.
// Check returns nil on pass and a *Fault on failure. Predicates hold no
// mutable state, so re-checking an unchanged container yields the same
// result.
type Predicate interface {
	Check(ctx context.Context, c Container) error
}

// TableExists requires a table or view to exist.
type TableExists struct {
	Table string
}

// Check implements Predicate.
func (p TableExists) Check(ctx context.Context, c Container) error {
	if _, err := c.Columns(ctx, p.Table); err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			return NewPreconditionFault("table %s does not exist", p.Table)
		}
		return NewCollaboratorFault("introspect "+p.Table, err)
	}
	return nil
}

// TableDefinition requires a table to match its schema.
type TableDefinition struct {
	Schema TableSchema
}

// Check implements Predicate.
func (p TableDefinition) Check(ctx context.Context, c Container) error {
	report, err := ValidateTable(ctx, c, p.Schema)
	if err != nil {
		return err
	}
	return report.Err()
}

// RowRule requires every row of Table to satisfy Rule.
type RowRule struct {
	Table string
	Rule  Rule
}

// Check implements Predicate.
func (p RowRule) Check(ctx context.Context, c Container) error {
	report, err := ValidateRows(ctx, c, p.Table, p.Rule)
	if err != nil {
		return err
	}
	return report.Err()
}

// RequiredValues requires Table to hold at least one row for each of Values
// in Column.
type RequiredValues struct {
	Table  string
	Column string
	Values []any
}

// Check implements Predicate.
func (p RequiredValues) Check(ctx context.Context, c Container) error {
	found := make(map[string]bool, len(p.Values))
	err := scanRows(ctx, c, p.Table, func(row store.Row) {
		found[valueKey(row.Get(p.Column))] = true
	})
	if err != nil {
		return err
	}

	var missing []string
	for _, v := range p.Values {
		if !found[valueKey(v)] {
			missing = append(missing, formatValue(v))
		}
	}
	if len(missing) > 0 {
		return NewContentFault("%s: no row with %s = %s", p.Table, p.Column, strings.Join(missing, ", "))
	}
	return nil
}

// PragmaEquals requires a pragma to report exactly Want.
type PragmaEquals struct {
	Name string
	Want int64
}

// Check implements Predicate.
func (p PragmaEquals) Check(ctx context.Context, c Container) error {
	got, err := pragmaInt(ctx, c, p.Name)
	if err != nil {
		return err
	}
	if got != p.Want {
		return NewContentFault("PRAGMA %s = %d, expected %d (0x%X)", p.Name, got, p.Want, p.Want)
	}
	return nil
}

// PragmaAtLeast requires a pragma to report at least Min.
type PragmaAtLeast struct {
	Name string
	Min  int64
}

// Check implements Predicate.
func (p PragmaAtLeast) Check(ctx context.Context, c Container) error {
	got, err := pragmaInt(ctx, c, p.Name)
	if err != nil {
		return err
	}
	if got < p.Min {
		return NewContentFault("PRAGMA %s = %d, expected at least %d", p.Name, got, p.Min)
	}
	return nil
}

// PragmaOK requires a check pragma (integrity_check, quick_check) to return
// the single row "ok".
type PragmaOK struct {
	Name string
}

// Check implements Predicate.
func (p PragmaOK) Check(ctx context.Context, c Container) error {
	rows, err := pragmaRows(ctx, c, p.Name)
	if err != nil {
		return err
	}
	if len(rows) == 1 {
		if s, ok := asText(singleValue(rows[0])); ok && s == "ok" {
			return nil
		}
	}
	msgs := make([]string, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, fmt.Sprintf("%v", singleValue(r)))
	}
	return NewContentFault("PRAGMA %s reported: %s", p.Name, strings.Join(msgs, "; "))
}

// PragmaEmpty requires a pragma to return no rows (e.g. foreign_key_check).
type PragmaEmpty struct {
	Name string
}

// Check implements Predicate.
func (p PragmaEmpty) Check(ctx context.Context, c Container) error {
	rows, err := pragmaRows(ctx, c, p.Name)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return NewContentFault("PRAGMA %s returned %d row(s); first: %s", p.Name, len(rows), formatRow(rows[0]))
	}
	return nil
}

// NoRedefinition requires that no extension redefines a standard column.
type NoRedefinition struct {
	Schemas    []TableSchema
	Allowances []Allowance
}

// Check implements Predicate.
func (p NoRedefinition) Check(ctx context.Context, c Container) error {
	report, err := CheckNoRedefinition(ctx, c, p.Schemas, p.Allowances)
	if err != nil {
		return err
	}
	return report.Err()
}

// ExtensionNames requires well-formed extension names.
type ExtensionNames struct{}

// Check implements Predicate.
func (ExtensionNames) Check(ctx context.Context, c Container) error {
	report, err := CheckExtensionNames(ctx, c)
	if err != nil {
		return err
	}
	return report.Err()
}

// ExtensionColumns requires registered column names to exist.
type ExtensionColumns struct{}

// Check implements Predicate.
func (ExtensionColumns) Check(ctx context.Context, c Container) error {
	report, err := CheckExtensionColumns(ctx, c)
	if err != nil {
		return err
	}
	return report.Err()
}

// AdditionalColumns requires undeclared columns of standard tables to be
// registered extensions.
type AdditionalColumns struct {
	Schemas []TableSchema
}

// Check implements Predicate.
func (p AdditionalColumns) Check(ctx context.Context, c Container) error {
	report, err := CheckAdditionalColumns(ctx, c, p.Schemas)
	if err != nil {
		return err
	}
	return report.Err()
}

func pragmaRows(ctx context.Context, c Container, name string) ([]store.Row, error) {
	pr, ok := c.(PragmaReader)
	if !ok {
		return nil, NewCollaboratorFault("PRAGMA "+name, errors.New("container does not support pragma queries"))
	}
	rows, err := pr.Pragma(ctx, name)
	if err != nil {
		return nil, NewCollaboratorFault("PRAGMA "+name, err)
	}
	return rows, nil
}

func pragmaInt(ctx context.Context, c Container, name string) (int64, error) {
	rows, err := pragmaRows(ctx, c, name)
	if err != nil {
		return 0, err
	}
	if len(rows) != 1 {
		return 0, NewContentFault("PRAGMA %s returned %d row(s), expected 1", name, len(rows))
	}
	switch v := singleValue(rows[0]).(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, NewContentFault("PRAGMA %s returned non-integer %v", name, v)
	}
}

// singleValue returns the value of a one-column row. With several columns
// the value of the lexically first column is returned.
func singleValue(row store.Row) any {
	keys := sortedKeys(row.Values)
	if len(keys) == 0 {
		return nil
	}
	return row.Values[keys[0]]
}

func formatRow(row store.Row) string {
	keys := sortedKeys(row.Values)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + formatValue(row.Values[k])
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
