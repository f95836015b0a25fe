package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venicegeo/ets-gpkg12/internal/store"
	"github.com/venicegeo/ets-gpkg12/internal/testutil"
)

// tablesOnly hides the Pragma method of a container.
type tablesOnly struct {
	Container
}

func TestTableExists(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewFakeContainer().AddTable(ExtensionsTable, extensionsColumns())

	assert.NoError(t, TableExists{Table: ExtensionsTable}.Check(ctx, c))

	f := requireFault(t, TableExists{Table: "gpkg_metadata"}.Check(ctx, c), FaultPreconditionUnmet)
	assert.Equal(t, "table gpkg_metadata does not exist", f.Diagnostic())

	c.FailColumns(ExtensionsTable, errors.New("disk I/O error"))
	requireFault(t, TableExists{Table: ExtensionsTable}.Check(ctx, c), FaultCollaborator)
}

func TestTableDefinition(t *testing.T) {
	ctx := context.Background()

	good := testutil.NewFakeContainer().AddTable(ExtensionsTable, extensionsColumns())
	assert.NoError(t, TableDefinition{Schema: ExtensionsSchema}.Check(ctx, good))

	bad := testutil.NewFakeContainer().AddTable(ExtensionsTable, extensionsColumns()[1:])
	f := requireFault(t, TableDefinition{Schema: ExtensionsSchema}.Check(ctx, bad), FaultStructuralMismatch)
	assert.Equal(t, "gpkg_extensions: table_name missing", f.Diagnostic())
}

func TestRowRule(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewFakeContainer().AddTable(ExtensionsTable, extensionsColumns(),
		ext(nil, nil, "acme_x"),
	)

	assert.NoError(t, RowRule{Table: ExtensionsTable, Rule: scopeRule}.Check(ctx, c))

	c.AddTable(ExtensionsTable, extensionsColumns(), map[string]any{"scope": "read-only"})
	requireFault(t, RowRule{Table: ExtensionsTable, Rule: scopeRule}.Check(ctx, c), FaultContentViolation)

	requireFault(t, RowRule{Table: "missing", Rule: scopeRule}.Check(ctx, c), FaultPreconditionUnmet)
}

func TestRequiredValues(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewFakeContainer().AddTable("gpkg_spatial_ref_sys",
		[]store.Column{testutil.Col("srs_id", "INTEGER", true)},
		map[string]any{"srs_id": int64(0)},
		map[string]any{"srs_id": int64(4326)},
	)
	p := RequiredValues{Table: "gpkg_spatial_ref_sys", Column: "srs_id", Values: []any{int64(-1), int64(0), int64(4326)}}

	f := requireFault(t, p.Check(ctx, c), FaultContentViolation)
	assert.Equal(t, "gpkg_spatial_ref_sys: no row with srs_id = -1", f.Diagnostic())

	c.AddTable("gpkg_spatial_ref_sys",
		[]store.Column{testutil.Col("srs_id", "INTEGER", true)},
		map[string]any{"srs_id": int64(-1)},
		map[string]any{"srs_id": int64(0)},
		map[string]any{"srs_id": int64(4326)},
	)
	assert.NoError(t, p.Check(ctx, c))
}

func TestPragmaEquals(t *testing.T) {
	ctx := context.Background()
	p := PragmaEquals{Name: "application_id", Want: 0x47504B47}

	c := testutil.NewFakeContainer().SetPragma("application_id", map[string]any{"application_id": int64(0x47504B47)})
	assert.NoError(t, p.Check(ctx, c))

	c.SetPragma("application_id", map[string]any{"application_id": int64(0)})
	f := requireFault(t, p.Check(ctx, c), FaultContentViolation)
	assert.Equal(t, "PRAGMA application_id = 0, expected 1196444487 (0x47504B47)", f.Diagnostic())

	c.SetPragma("application_id")
	f = requireFault(t, p.Check(ctx, c), FaultContentViolation)
	assert.Equal(t, "PRAGMA application_id returned 0 row(s), expected 1", f.Diagnostic())

	c.SetPragma("application_id", map[string]any{"application_id": "GPKG"})
	requireFault(t, p.Check(ctx, c), FaultContentViolation)

	c.FailPragma("application_id", errors.New("not a database"))
	f = requireFault(t, p.Check(ctx, c), FaultCollaborator)
	assert.Equal(t, "PRAGMA application_id: not a database", f.Diagnostic())
}

func TestPragma_ContainerWithoutPragmaSupport(t *testing.T) {
	c := tablesOnly{testutil.NewFakeContainer()}

	f := requireFault(t, PragmaEquals{Name: "application_id", Want: 1}.Check(context.Background(), c), FaultCollaborator)
	assert.Contains(t, f.Diagnostic(), "container does not support pragma queries")
}

func TestPragmaAtLeast(t *testing.T) {
	ctx := context.Background()
	p := PragmaAtLeast{Name: "user_version", Min: 10200}
	c := testutil.NewFakeContainer()

	for _, v := range []int64{10200, 10201, 10300} {
		c.SetPragma("user_version", map[string]any{"user_version": v})
		assert.NoError(t, p.Check(ctx, c), v)
	}

	c.SetPragma("user_version", map[string]any{"user_version": int64(10100)})
	f := requireFault(t, p.Check(ctx, c), FaultContentViolation)
	assert.Equal(t, "PRAGMA user_version = 10100, expected at least 10200", f.Diagnostic())
}

func TestPragmaOK(t *testing.T) {
	ctx := context.Background()
	p := PragmaOK{Name: "integrity_check"}
	c := testutil.NewFakeContainer()

	c.SetPragma("integrity_check", map[string]any{"integrity_check": "ok"})
	assert.NoError(t, p.Check(ctx, c))

	c.SetPragma("integrity_check",
		map[string]any{"integrity_check": "row 3 missing from index sqlite_autoindex_gpkg_contents_1"},
		map[string]any{"integrity_check": "wrong # of entries in index sqlite_autoindex_gpkg_contents_1"},
	)
	f := requireFault(t, p.Check(ctx, c), FaultContentViolation)
	assert.Equal(t, "PRAGMA integrity_check reported: "+
		"row 3 missing from index sqlite_autoindex_gpkg_contents_1; "+
		"wrong # of entries in index sqlite_autoindex_gpkg_contents_1", f.Diagnostic())
}

func TestPragmaEmpty(t *testing.T) {
	ctx := context.Background()
	p := PragmaEmpty{Name: "foreign_key_check"}
	c := testutil.NewFakeContainer()

	assert.NoError(t, p.Check(ctx, c))

	c.SetPragma("foreign_key_check", map[string]any{
		"table": "gpkg_geometry_columns", "rowid": int64(1), "parent": "gpkg_contents", "fkid": int64(0),
	})
	f := requireFault(t, p.Check(ctx, c), FaultContentViolation)
	assert.Equal(t, `PRAGMA foreign_key_check returned 1 row(s); first: fkid=0 parent="gpkg_contents" rowid=1 table="gpkg_geometry_columns"`, f.Diagnostic())
}

func TestExtensionPredicates(t *testing.T) {
	ctx := context.Background()
	c := testutil.NewFakeContainer().
		AddTable("gpkg_contents", []store.Column{testutil.Col("table_name", "TEXT", true)}).
		AddTable(ExtensionsTable, extensionsColumns(),
			ext("gpkg_contents", "table_name", "bad name"),
		)

	requireFault(t, NoRedefinition{Schemas: testSchemas}.Check(ctx, c), FaultContentViolation)
	requireFault(t, ExtensionNames{}.Check(ctx, c), FaultContentViolation)
	assert.NoError(t, ExtensionColumns{}.Check(ctx, c))
	assert.NoError(t, AdditionalColumns{Schemas: testSchemas}.Check(ctx, c))

	empty := testutil.NewFakeContainer()
	requireFault(t, NoRedefinition{Schemas: testSchemas}.Check(ctx, empty), FaultPreconditionUnmet)
	requireFault(t, ExtensionNames{}.Check(ctx, empty), FaultPreconditionUnmet)
	requireFault(t, ExtensionColumns{}.Check(ctx, empty), FaultPreconditionUnmet)
	requireFault(t, AdditionalColumns{Schemas: testSchemas}.Check(ctx, empty), FaultPreconditionUnmet)
}

func TestPredicates_RealContainer(t *testing.T) {
	ctx := context.Background()
	c := openFixture(t)

	predicates := []Predicate{
		PragmaEquals{Name: "application_id", Want: 0x47504B47},
		PragmaAtLeast{Name: "user_version", Min: 10200},
		PragmaOK{Name: "integrity_check"},
		PragmaEmpty{Name: "foreign_key_check"},
		TableExists{Table: ExtensionsTable},
		TableDefinition{Schema: ExtensionsSchema},
		RequiredValues{Table: "gpkg_spatial_ref_sys", Column: "srs_id", Values: []any{int64(-1), int64(0), int64(4326)}},
		RowRule{Table: "gpkg_contents", Rule: Reference{Column: "table_name", Table: SchemaTables}},
		NoRedefinition{Schemas: testSchemas},
		ExtensionNames{},
		ExtensionColumns{},
		AdditionalColumns{Schemas: testSchemas},
	}
	for _, p := range predicates {
		assert.NoError(t, p.Check(ctx, c), "%T", p)
	}
}
