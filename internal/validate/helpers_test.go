package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/venicegeo/ets-gpkg12/internal/store"
	"github.com/venicegeo/ets-gpkg12/internal/testutil"
)

var _ Container = (*testutil.FakeContainer)(nil)

func extensionsColumns() []store.Column {
	return []store.Column{
		testutil.Col("table_name", "TEXT", false),
		testutil.Col("column_name", "TEXT", false),
		testutil.Col("extension_name", "TEXT", true),
		testutil.Col("definition", "TEXT", true),
		testutil.Col("scope", "TEXT", true),
	}
}

// ext builds a gpkg_extensions row.
func ext(table, column, name any) map[string]any {
	return map[string]any{
		"table_name":     table,
		"column_name":    column,
		"extension_name": name,
		"definition":     "http://example.com/ext",
		"scope":          "read-write",
	}
}

// contentsSchema is a trimmed gpkg_contents definition for extension tests.
var contentsSchema = TableSchema{
	Table: "gpkg_contents",
	Columns: []ExpectedColumn{
		{Name: "table_name", Type: "TEXT", NotNull: true},
		{Name: "data_type", Type: "TEXT", NotNull: true},
		{Name: "identifier", Type: "TEXT"},
		{Name: "description", Type: "TEXT", Default: DefaultRequired},
		{Name: "last_change", Type: "DATETIME", NotNull: true, Default: DefaultRequired},
		{Name: "min_x", Type: "DOUBLE"},
		{Name: "min_y", Type: "DOUBLE"},
		{Name: "max_x", Type: "DOUBLE"},
		{Name: "max_y", Type: "DOUBLE"},
		{Name: "srs_id", Type: "INTEGER"},
	},
}

func openFixture(t *testing.T, opts ...testutil.Option) *store.Container {
	t.Helper()

	c, err := store.Open(testutil.NewGeoPackage(t, opts...))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func requireFault(t *testing.T, err error, kind FaultKind) *Fault {
	t.Helper()

	require.Error(t, err)
	f := AsFault(err)
	require.NotNil(t, f)
	require.Equal(t, kind, f.Kind, "fault: %v", err)
	return f
}
