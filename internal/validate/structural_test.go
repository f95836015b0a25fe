package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venicegeo/ets-gpkg12/internal/store"
	"github.com/venicegeo/ets-gpkg12/internal/testutil"
)

func TestValidateTable_ExactSchemaPasses(t *testing.T) {
	c := testutil.NewFakeContainer().AddTable(ExtensionsTable, extensionsColumns())

	report, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	assert.NoError(t, report.Err())
	assert.Equal(t, 5, report.ColumnsFound)
	assert.Empty(t, report.Extra)
	require.Len(t, report.Checks, 5)
	for _, check := range report.Checks {
		assert.True(t, check.Present, check.Name)
		assert.True(t, check.TypeOK, check.Name)
		assert.True(t, check.NotNullOK, check.Name)
		assert.True(t, check.DefaultOK, check.Name)
		assert.Empty(t, check.Failures())
	}
}

func TestValidateTable_RealContainerPasses(t *testing.T) {
	c := openFixture(t)

	for _, schema := range []TableSchema{ExtensionsSchema, contentsSchema} {
		report, err := ValidateTable(context.Background(), c, schema)
		require.NoError(t, err)
		assert.NoError(t, report.Err(), schema.Table)
	}
}

func TestValidateTable_MissingColumnNamed(t *testing.T) {
	cols := extensionsColumns()[:4] // no scope
	c := testutil.NewFakeContainer().AddTable(ExtensionsTable, cols)

	report, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	require.NoError(t, err)

	assert.False(t, report.Passed())
	f := requireFault(t, report.Err(), FaultStructuralMismatch)
	assert.Equal(t, "gpkg_extensions: scope missing", f.Diagnostic())
	assert.False(t, report.Checks[4].Present)
}

func TestValidateTable_NotNullMismatch(t *testing.T) {
	c := openFixture(t, testutil.WithTable(ExtensionsTable, `CREATE TABLE gpkg_extensions (
		table_name TEXT,
		column_name TEXT,
		extension_name TEXT,
		definition TEXT NOT NULL,
		scope TEXT NOT NULL
	)`))

	report, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	require.NoError(t, err)

	f := requireFault(t, report.Err(), FaultStructuralMismatch)
	assert.Equal(t, "gpkg_extensions: extension_name notnull mismatch", f.Diagnostic())

	// Every other property is judged on its own.
	for _, check := range report.Checks {
		assert.True(t, check.Present, check.Name)
		assert.True(t, check.TypeOK, check.Name)
		assert.True(t, check.DefaultOK, check.Name)
		if check.Name == "extension_name" {
			assert.False(t, check.NotNullOK)
		} else {
			assert.True(t, check.NotNullOK, check.Name)
		}
	}
}

func TestValidateTable_SeveralFailuresListed(t *testing.T) {
	cols := []store.Column{
		testutil.Col("table_name", "TEXT", false),
		testutil.Col("column_name", "TEXT", true),
		testutil.Col("extension_name", "VARCHAR", true),
		testutil.Col("definition", "", true),
	}
	c := testutil.NewFakeContainer().AddTable(ExtensionsTable, cols)

	report, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	require.NoError(t, err)

	f := requireFault(t, report.Err(), FaultStructuralMismatch)
	assert.Equal(t, "gpkg_extensions: "+
		"column_name notnull mismatch; "+
		"extension_name type mismatch (expected TEXT, found VARCHAR); "+
		"definition type mismatch (expected TEXT, found no declared type); "+
		"scope missing", f.Diagnostic())
}

func TestValidateTable_DuplicateColumnFirstWins(t *testing.T) {
	cols := append(extensionsColumns(), testutil.Col("scope", "INTEGER", false))
	c := testutil.NewFakeContainer().AddTable(ExtensionsTable, cols)

	report, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	assert.Equal(t, 5, report.ColumnsFound)
	assert.Empty(t, report.Extra)
}

func TestValidateTable_MissingTable(t *testing.T) {
	c := testutil.NewFakeContainer()

	report, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	require.NoError(t, err)

	assert.False(t, report.Passed())
	assert.Equal(t, 0, report.ColumnsFound)
	f := requireFault(t, report.Err(), FaultStructuralMismatch)
	assert.Equal(t, "gpkg_extensions: 0 columns found", f.Diagnostic())
}

func TestValidateTable_CollaboratorFault(t *testing.T) {
	c := testutil.NewFakeContainer().
		AddTable(ExtensionsTable, extensionsColumns()).
		FailColumns(ExtensionsTable, errors.New("disk I/O error"))

	_, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	f := requireFault(t, err, FaultCollaborator)
	assert.Contains(t, f.Diagnostic(), "disk I/O error")
}

func TestValidateTable_DefaultExpectation(t *testing.T) {
	schema := TableSchema{
		Table: "t",
		Columns: []ExpectedColumn{
			{Name: "needs_default", Type: "TEXT", Default: DefaultRequired},
			{Name: "no_default", Type: "TEXT", Default: DefaultAbsent},
			{Name: "any_default", Type: "TEXT"},
		},
	}
	c := testutil.NewFakeContainer().AddTable("t", []store.Column{
		{Name: "needs_default", DeclaredType: "TEXT"},
		{Name: "no_default", DeclaredType: "TEXT", HasDefault: true},
		{Name: "any_default", DeclaredType: "TEXT", HasDefault: true},
	})

	report, err := ValidateTable(context.Background(), c, schema)
	require.NoError(t, err)

	f := requireFault(t, report.Err(), FaultStructuralMismatch)
	assert.Equal(t, "t: needs_default default mismatch; no_default default mismatch", f.Diagnostic())
	assert.True(t, report.Checks[2].DefaultOK)
}

func TestValidateTable_ExtraColumnsInDeclarationOrder(t *testing.T) {
	cols := append(extensionsColumns(),
		testutil.Col("acme_flag", "INTEGER", false),
		testutil.Col("acme_note", "TEXT", false),
	)
	c := testutil.NewFakeContainer().AddTable(ExtensionsTable, cols)

	report, err := ValidateTable(context.Background(), c, ExtensionsSchema)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	assert.Equal(t, 7, report.ColumnsFound)
	assert.Equal(t, []string{"acme_flag", "acme_note"}, report.Extra)
}
