package validate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/venicegeo/ets-gpkg12/internal/store"
)

// MaxSamples bounds the number of violations kept in a ContentReport.
// The violation count is always exact.
const MaxSamples = 5

// SchemaTables is the Reference target meaning "the names of all tables and
// views in the container".
const SchemaTables = "sqlite_master"

// Rule is a value-domain rule applied to one column of every row.
// The set of rules is closed: Enumeration, Range and Reference.
type Rule interface {
	// Describe returns a short description used in diagnostics.
	Describe() string

	bind(ctx context.Context, c Container) (valueCheck, error)
}

// valueCheck is a rule bound to a container. check returns "" when the value
// is acceptable, otherwise the reason it is not.
type valueCheck struct {
	column string
	check  func(v any) string
}

// Enumeration requires the column value to be one of Values.
type Enumeration struct {
	Column    string
	Values    []any
	AllowNull bool
}

// Describe implements Rule.
func (e Enumeration) Describe() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = formatValue(v)
	}
	return fmt.Sprintf("%s in [%s]", e.Column, strings.Join(parts, ", "))
}

func (e Enumeration) bind(context.Context, Container) (valueCheck, error) {
	allowed := make(map[string]bool, len(e.Values))
	for _, v := range e.Values {
		allowed[valueKey(v)] = true
	}
	return valueCheck{column: e.Column, check: func(v any) string {
		if v == nil {
			if e.AllowNull {
				return ""
			}
			return "NULL is not allowed"
		}
		if !allowed[valueKey(v)] {
			return "not an allowed value"
		}
		return ""
	}}, nil
}

// Range requires a numeric column value to lie within [Min, Max]. Bounds are
// inclusive unless the matching Exclusive flag is set; a nil bound is open.
type Range struct {
	Column       string
	Min          *float64
	Max          *float64
	MinExclusive bool
	MaxExclusive bool
	AllowNull    bool
}

// Describe implements Rule.
func (r Range) Describe() string {
	lower, upper := "(-inf", "+inf)"
	if r.Min != nil {
		lower = "[" + formatFloat(*r.Min)
		if r.MinExclusive {
			lower = "(" + formatFloat(*r.Min)
		}
	}
	if r.Max != nil {
		upper = formatFloat(*r.Max) + "]"
		if r.MaxExclusive {
			upper = formatFloat(*r.Max) + ")"
		}
	}
	return fmt.Sprintf("%s in %s, %s", r.Column, lower, upper)
}

func (r Range) bind(context.Context, Container) (valueCheck, error) {
	return valueCheck{column: r.Column, check: func(v any) string {
		if v == nil {
			if r.AllowNull {
				return ""
			}
			return "NULL is not allowed"
		}
		f, ok := toFloat(v)
		if !ok {
			return "not a numeric value"
		}
		if r.Min != nil {
			if f < *r.Min || (r.MinExclusive && f == *r.Min) {
				return "below lower bound"
			}
		}
		if r.Max != nil {
			if f > *r.Max || (r.MaxExclusive && f == *r.Max) {
				return "above upper bound"
			}
		}
		return ""
	}}, nil
}

// Reference requires the column value to exist in Table.RefColumn. When
// Table is SchemaTables the value must name a table or view.
type Reference struct {
	Column    string
	Table     string
	RefColumn string
	AllowNull bool
}

// Describe implements Rule.
func (r Reference) Describe() string {
	if r.Table == SchemaTables {
		return r.Column + " references an existing table or view"
	}
	return fmt.Sprintf("%s references %s.%s", r.Column, r.Table, r.RefColumn)
}

func (r Reference) bind(ctx context.Context, c Container) (valueCheck, error) {
	keys, err := r.targetKeys(ctx, c)
	if err != nil {
		return valueCheck{}, err
	}
	return valueCheck{column: r.Column, check: func(v any) string {
		if v == nil {
			if r.AllowNull {
				return ""
			}
			return "NULL is not allowed"
		}
		if !keys[valueKey(v)] {
			if r.Table == SchemaTables {
				return "no such table or view"
			}
			return fmt.Sprintf("no matching %s.%s", r.Table, r.RefColumn)
		}
		return ""
	}}, nil
}

// targetKeys reads the referenced column once. Only the referenced column
// is held in memory, never the validated table.
func (r Reference) targetKeys(ctx context.Context, c Container) (map[string]bool, error) {
	keys := make(map[string]bool)

	if r.Table == SchemaTables {
		names, err := c.Tables(ctx)
		if err != nil {
			return nil, NewCollaboratorFault("list tables", err)
		}
		for _, n := range names {
			keys[valueKey(n)] = true
		}
		return keys, nil
	}

	cols, err := columnSet(ctx, c, r.Table)
	if err != nil {
		return nil, err
	}
	if cols == nil {
		return nil, NewPreconditionFault("referenced table %s does not exist", r.Table)
	}
	if !cols[r.RefColumn] {
		return nil, NewPreconditionFault("referenced column %s does not exist in %s", r.RefColumn, r.Table)
	}

	it, err := c.Rows(ctx, r.Table)
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			return nil, NewPreconditionFault("referenced table %s does not exist", r.Table)
		}
		return nil, NewCollaboratorFault("read "+r.Table, err)
	}
	defer it.Close()

	for it.Next() {
		if v := it.Row().Get(r.RefColumn); v != nil {
			keys[valueKey(v)] = true
		}
	}
	if err := it.Err(); err != nil {
		return nil, NewCollaboratorFault("read "+r.Table, err)
	}
	return keys, nil
}

// Violation is one offending row.
type Violation struct {
	HasRow bool // false when the violation is not tied to a row
	RowID  int64
	Column string
	Value  any
	Reason string
}

// String renders the violation for diagnostics.
func (v Violation) String() string {
	var b strings.Builder
	if v.HasRow {
		fmt.Fprintf(&b, "row %d: ", v.RowID)
	}
	b.WriteString(v.Column)
	if v.Value != nil {
		fmt.Fprintf(&b, " = %s", formatValue(v.Value))
	}
	if v.Reason != "" {
		fmt.Fprintf(&b, " (%s)", v.Reason)
	}
	return b.String()
}

// ContentReport is the outcome of a row-level check.
type ContentReport struct {
	Table       string
	Rule        string
	RowsChecked int
	Violations  int
	Samples     []Violation
}

// add records a violation, keeping at most MaxSamples of them.
func (r *ContentReport) add(v Violation) {
	r.Violations++
	if len(r.Samples) < MaxSamples {
		r.Samples = append(r.Samples, v)
	}
}

// Err returns nil when no row violated the rule, otherwise a content Fault
// carrying the violation count and the sampled rows.
func (r ContentReport) Err() error {
	if r.Violations == 0 {
		return nil
	}
	samples := make([]string, len(r.Samples))
	for i, s := range r.Samples {
		samples[i] = s.String()
	}
	msg := fmt.Sprintf("%s: %d violation(s) of %s; %s",
		r.Table, r.Violations, r.Rule, strings.Join(samples, "; "))
	if r.Violations > len(r.Samples) {
		msg += fmt.Sprintf("; and %d more", r.Violations-len(r.Samples))
	}
	return NewContentFault("%s", msg)
}

// ValidateRows streams table once and applies rule to every row.
//
// A missing table or rule column is an unmet precondition. The returned
// error is a *Fault for precondition and collaborator problems; rule
// violations are reported through ContentReport.Err.
func ValidateRows(ctx context.Context, c Container, table string, rule Rule) (ContentReport, error) {
	report := ContentReport{Table: table, Rule: rule.Describe()}

	vc, err := rule.bind(ctx, c)
	if err != nil {
		return report, AsFault(err)
	}

	cols, err := columnSet(ctx, c, table)
	if err != nil {
		return report, err
	}
	if cols == nil {
		return report, NewPreconditionFault("table %s does not exist", table)
	}
	if !cols[vc.column] {
		return report, NewPreconditionFault("column %s does not exist in %s", vc.column, table)
	}

	err = scanRows(ctx, c, table, func(row store.Row) {
		report.RowsChecked++
		v := row.Get(vc.column)
		if reason := vc.check(v); reason != "" {
			report.add(Violation{HasRow: true, RowID: row.ID, Column: vc.column, Value: v, Reason: reason})
		}
	})
	return report, err
}

// scanRows calls fn for every row of table, translating reader errors into
// faults.
func scanRows(ctx context.Context, c Container, table string, fn func(store.Row)) error {
	it, err := c.Rows(ctx, table)
	if err != nil {
		if errors.Is(err, store.ErrTableNotFound) {
			return NewPreconditionFault("table %s does not exist", table)
		}
		return NewCollaboratorFault("read "+table, err)
	}
	defer it.Close()

	for it.Next() {
		fn(it.Row())
	}
	if err := it.Err(); err != nil {
		return NewCollaboratorFault("read "+table, err)
	}
	return nil
}

// valueKey maps a SQLite value to a comparison key. Integral floats compare
// equal to integers; text and blobs compare by content.
func valueKey(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case int64:
		return "i:" + strconv.FormatInt(val, 10)
	case int:
		return "i:" + strconv.Itoa(val)
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return "i:" + strconv.FormatInt(int64(val), 10)
		}
		return "f:" + strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "i:1"
		}
		return "i:0"
	case string:
		return "s:" + val
	case []byte:
		return "s:" + string(val)
	case time.Time:
		return "s:" + val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("?:%v", val)
	}
}

func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return strconv.Quote(val)
	case []byte:
		return strconv.Quote(string(val))
	case float64:
		return formatFloat(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
