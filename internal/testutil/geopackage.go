package testutil

import (
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Standard table DDL of a GeoPackage 1.2, in creation order.
var standardTables = []struct {
	name string
	ddl  string
}{
	{"gpkg_spatial_ref_sys", `CREATE TABLE gpkg_spatial_ref_sys (
		srs_name TEXT NOT NULL,
		srs_id INTEGER NOT NULL PRIMARY KEY,
		organization TEXT NOT NULL,
		organization_coordsys_id INTEGER NOT NULL,
		definition TEXT NOT NULL,
		description TEXT
	)`},
	{"gpkg_contents", `CREATE TABLE gpkg_contents (
		table_name TEXT NOT NULL PRIMARY KEY,
		data_type TEXT NOT NULL,
		identifier TEXT UNIQUE,
		description TEXT DEFAULT '',
		last_change DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		min_x DOUBLE,
		min_y DOUBLE,
		max_x DOUBLE,
		max_y DOUBLE,
		srs_id INTEGER,
		CONSTRAINT fk_gc_r_srs_id FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys(srs_id)
	)`},
	{"gpkg_geometry_columns", `CREATE TABLE gpkg_geometry_columns (
		table_name TEXT NOT NULL,
		column_name TEXT NOT NULL,
		geometry_type_name TEXT NOT NULL,
		srs_id INTEGER NOT NULL,
		z TINYINT NOT NULL,
		m TINYINT NOT NULL,
		CONSTRAINT pk_geom_cols PRIMARY KEY (table_name, column_name),
		CONSTRAINT fk_gc_tn FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name),
		CONSTRAINT fk_gc_srs FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys (srs_id)
	)`},
	{"gpkg_tile_matrix_set", `CREATE TABLE gpkg_tile_matrix_set (
		table_name TEXT NOT NULL PRIMARY KEY,
		srs_id INTEGER NOT NULL,
		min_x DOUBLE NOT NULL,
		min_y DOUBLE NOT NULL,
		max_x DOUBLE NOT NULL,
		max_y DOUBLE NOT NULL,
		CONSTRAINT fk_gtms_table_name FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name),
		CONSTRAINT fk_gtms_srs FOREIGN KEY (srs_id) REFERENCES gpkg_spatial_ref_sys (srs_id)
	)`},
	{"gpkg_tile_matrix", `CREATE TABLE gpkg_tile_matrix (
		table_name TEXT NOT NULL,
		zoom_level INTEGER NOT NULL,
		matrix_width INTEGER NOT NULL,
		matrix_height INTEGER NOT NULL,
		tile_width INTEGER NOT NULL,
		tile_height INTEGER NOT NULL,
		pixel_x_size DOUBLE NOT NULL,
		pixel_y_size DOUBLE NOT NULL,
		CONSTRAINT pk_ttm PRIMARY KEY (table_name, zoom_level),
		CONSTRAINT fk_tmm_table_name FOREIGN KEY (table_name) REFERENCES gpkg_contents(table_name)
	)`},
	{"gpkg_extensions", `CREATE TABLE gpkg_extensions (
		table_name TEXT,
		column_name TEXT,
		extension_name TEXT NOT NULL,
		definition TEXT NOT NULL,
		scope TEXT NOT NULL,
		CONSTRAINT ge_tce UNIQUE (table_name, column_name, extension_name)
	)`},
	{"gpkg_data_columns", `CREATE TABLE gpkg_data_columns (
		table_name TEXT NOT NULL,
		column_name TEXT NOT NULL,
		name TEXT,
		title TEXT,
		description TEXT,
		mime_type TEXT,
		constraint_name TEXT,
		CONSTRAINT pk_gdc PRIMARY KEY (table_name, column_name),
		CONSTRAINT gdc_tn UNIQUE (table_name, name)
	)`},
	{"gpkg_data_column_constraints", `CREATE TABLE gpkg_data_column_constraints (
		constraint_name TEXT NOT NULL,
		constraint_type TEXT NOT NULL,
		value TEXT,
		min NUMERIC,
		min_is_inclusive BOOLEAN,
		max NUMERIC,
		max_is_inclusive BOOLEAN,
		description TEXT,
		CONSTRAINT gdcc_ntv UNIQUE (constraint_name, constraint_type, value)
	)`},
	{"gpkg_metadata", `CREATE TABLE gpkg_metadata (
		id INTEGER CONSTRAINT m_pk PRIMARY KEY ASC NOT NULL,
		md_scope TEXT NOT NULL DEFAULT 'dataset',
		md_standard_uri TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT 'text/xml',
		metadata TEXT NOT NULL DEFAULT ''
	)`},
	{"gpkg_metadata_reference", `CREATE TABLE gpkg_metadata_reference (
		reference_scope TEXT NOT NULL,
		table_name TEXT,
		column_name TEXT,
		row_id_value INTEGER,
		timestamp DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		md_file_id INTEGER NOT NULL,
		md_parent_id INTEGER,
		CONSTRAINT crmr_mfi_fk FOREIGN KEY (md_file_id) REFERENCES gpkg_metadata(id),
		CONSTRAINT crmr_mpi_fk FOREIGN KEY (md_parent_id) REFERENCES gpkg_metadata(id)
	)`},
}

// Rows inserted after the standard tables. Statements that target a table
// removed with Without are skipped.
var standardRows = []struct {
	table string
	sql   string
}{
	{"gpkg_spatial_ref_sys", `INSERT INTO gpkg_spatial_ref_sys VALUES
		('Undefined cartesian SRS', -1, 'NONE', -1, 'undefined', 'undefined cartesian coordinate reference system'),
		('Undefined geographic SRS', 0, 'NONE', 0, 'undefined', 'undefined geographic coordinate reference system'),
		('WGS 84 geodetic', 4326, 'EPSG', 4326, 'GEOGCS["WGS 84",DATUM["WGS_1984",SPHEROID["WGS 84",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["degree",0.0174532925199433]]', 'longitude/latitude coordinates in decimal degrees on the WGS 84 spheroid')`},
	{"roads", `CREATE TABLE roads (
		fid INTEGER PRIMARY KEY AUTOINCREMENT,
		geom POINT,
		name TEXT
	)`},
	{"roads", `INSERT INTO roads (geom, name) VALUES (NULL, 'Main Street'), (NULL, 'High Street')`},
	{"ortho", `CREATE TABLE ortho (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		zoom_level INTEGER NOT NULL,
		tile_column INTEGER NOT NULL,
		tile_row INTEGER NOT NULL,
		tile_data BLOB NOT NULL,
		UNIQUE (zoom_level, tile_column, tile_row)
	)`},
	{"gpkg_contents", `INSERT INTO gpkg_contents (table_name, data_type, identifier, srs_id) VALUES
		('roads', 'features', 'roads', 4326),
		('ortho', 'tiles', 'ortho', 4326)`},
	{"gpkg_geometry_columns", `INSERT INTO gpkg_geometry_columns VALUES ('roads', 'geom', 'POINT', 4326, 0, 0)`},
	{"gpkg_tile_matrix_set", `INSERT INTO gpkg_tile_matrix_set VALUES ('ortho', 4326, -180.0, -90.0, 180.0, 90.0)`},
	{"gpkg_tile_matrix", `INSERT INTO gpkg_tile_matrix VALUES
		('ortho', 0, 2, 1, 256, 256, 0.703125, 0.703125),
		('ortho', 1, 4, 2, 256, 256, 0.3515625, 0.3515625)`},
	{"gpkg_extensions", `INSERT INTO gpkg_extensions VALUES
		('gpkg_data_columns', NULL, 'gpkg_schema', 'http://www.geopackage.org/spec/#extension_schema', 'read-write'),
		('gpkg_data_column_constraints', NULL, 'gpkg_schema', 'http://www.geopackage.org/spec/#extension_schema', 'read-write'),
		('gpkg_metadata', NULL, 'gpkg_metadata', 'http://www.geopackage.org/spec/#extension_metadata', 'read-write'),
		('gpkg_metadata_reference', NULL, 'gpkg_metadata', 'http://www.geopackage.org/spec/#extension_metadata', 'read-write')`},
	{"gpkg_data_column_constraints", `INSERT INTO gpkg_data_column_constraints VALUES
		('speed', 'range', NULL, 0, 1, 200, 1, 'speed limit in km/h'),
		('surface', 'enum', 'paved', NULL, NULL, NULL, NULL, NULL),
		('surface', 'enum', 'gravel', NULL, NULL, NULL, NULL, NULL)`},
	{"gpkg_data_columns", `INSERT INTO gpkg_data_columns VALUES ('roads', 'name', 'name', 'Road name', NULL, NULL, NULL)`},
	{"gpkg_metadata", `INSERT INTO gpkg_metadata (id, md_scope, md_standard_uri, mime_type, metadata) VALUES
		(1, 'dataset', 'http://schemas.opengis.net/iso/19139', 'text/xml', '<gmd:MD_Metadata/>')`},
	{"gpkg_metadata_reference", `INSERT INTO gpkg_metadata_reference (reference_scope, md_file_id) VALUES ('geopackage', 1)`},
}

type fixture struct {
	applicationID int64
	userVersion   int64
	without       map[string]bool
	tables        map[string]string
	statements    []string
}

// Option customizes a GeoPackage fixture.
type Option func(*fixture)

// Without omits standard tables (and their rows) from the fixture.
func Without(tables ...string) Option {
	return func(f *fixture) {
		for _, t := range tables {
			f.without[t] = true
		}
	}
}

// WithTable replaces the DDL of a standard table.
func WithTable(name, ddl string) Option {
	return func(f *fixture) {
		f.tables[name] = ddl
	}
}

// WithStatements runs extra SQL after the standard tables are populated.
func WithStatements(stmts ...string) Option {
	return func(f *fixture) {
		f.statements = append(f.statements, stmts...)
	}
}

// WithHeader sets the application_id and user_version header fields.
func WithHeader(applicationID, userVersion int64) Option {
	return func(f *fixture) {
		f.applicationID = applicationID
		f.userVersion = userVersion
	}
}

// NewGeoPackage writes a GeoPackage 1.2 container to a temporary directory
// and returns its path. Without options every conformance class passes.
//
// The container holds a "roads" feature table, an "ortho" tile table, the
// schema and metadata extension tables, and registry rows for both
// extensions.
func NewGeoPackage(t testing.TB, opts ...Option) string {
	t.Helper()

	f := &fixture{
		applicationID: 0x47504B47,
		userVersion:   10200,
		without:       map[string]bool{},
		tables:        map[string]string{},
	}
	for _, opt := range opts {
		opt(f)
	}

	path := filepath.Join(t.TempDir(), "test.gpkg")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err, "open fixture database")
	defer db.Close()

	exec := func(stmt string) {
		t.Helper()
		_, err := db.Exec(stmt)
		require.NoError(t, err, "fixture statement: %s", stmt)
	}

	exec("PRAGMA application_id = " + strconv.FormatInt(f.applicationID, 10))
	exec("PRAGMA user_version = " + strconv.FormatInt(f.userVersion, 10))

	for _, st := range standardTables {
		if f.without[st.name] {
			continue
		}
		ddl := st.ddl
		if custom, ok := f.tables[st.name]; ok {
			ddl = custom
		}
		exec(ddl)
	}
	for _, r := range standardRows {
		if f.without[r.table] {
			continue
		}
		exec(r.sql)
	}
	for _, stmt := range f.statements {
		exec(stmt)
	}

	return path
}
