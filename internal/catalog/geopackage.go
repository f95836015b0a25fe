package catalog

import (
	"sync"

	"github.com/venicegeo/ets-gpkg12/internal/validate"
)

// Conformance class names. These are the tokens accepted in an inclusion set.
const (
	ClassCore       = "Core"
	ClassFeatures   = "Features"
	ClassTiles      = "Tiles"
	ClassExtensions = "Extension Mechanism"
	ClassSchema     = "Schema"
	ClassMetadata   = "Metadata"
)

// GeoPackage application id ("GPKG") and minimum user_version for 1.2.
const (
	ApplicationID = 0x47504B47
	UserVersion   = 10200
)

// Standard table schemas (OGC 12-128r13 Annex C).
var (
	SpatialRefSysSchema = validate.TableSchema{
		Table: "gpkg_spatial_ref_sys",
		Columns: []validate.ExpectedColumn{
			{Name: "srs_name", Type: "TEXT", NotNull: true},
			{Name: "srs_id", Type: "INTEGER", NotNull: true},
			{Name: "organization", Type: "TEXT", NotNull: true},
			{Name: "organization_coordsys_id", Type: "INTEGER", NotNull: true},
			{Name: "definition", Type: "TEXT", NotNull: true},
			{Name: "description", Type: "TEXT"},
		},
	}

	ContentsSchema = validate.TableSchema{
		Table: "gpkg_contents",
		Columns: []validate.ExpectedColumn{
			{Name: "table_name", Type: "TEXT", NotNull: true},
			{Name: "data_type", Type: "TEXT", NotNull: true},
			{Name: "identifier", Type: "TEXT"},
			{Name: "description", Type: "TEXT", Default: validate.DefaultRequired},
			{Name: "last_change", Type: "DATETIME", NotNull: true, Default: validate.DefaultRequired},
			{Name: "min_x", Type: "DOUBLE"},
			{Name: "min_y", Type: "DOUBLE"},
			{Name: "max_x", Type: "DOUBLE"},
			{Name: "max_y", Type: "DOUBLE"},
			{Name: "srs_id", Type: "INTEGER"},
		},
	}

	GeometryColumnsSchema = validate.TableSchema{
		Table: "gpkg_geometry_columns",
		Columns: []validate.ExpectedColumn{
			{Name: "table_name", Type: "TEXT", NotNull: true},
			{Name: "column_name", Type: "TEXT", NotNull: true},
			{Name: "geometry_type_name", Type: "TEXT", NotNull: true},
			{Name: "srs_id", Type: "INTEGER", NotNull: true},
			{Name: "z", Type: "TINYINT", NotNull: true},
			{Name: "m", Type: "TINYINT", NotNull: true},
		},
	}

	TileMatrixSetSchema = validate.TableSchema{
		Table: "gpkg_tile_matrix_set",
		Columns: []validate.ExpectedColumn{
			{Name: "table_name", Type: "TEXT", NotNull: true},
			{Name: "srs_id", Type: "INTEGER", NotNull: true},
			{Name: "min_x", Type: "DOUBLE", NotNull: true},
			{Name: "min_y", Type: "DOUBLE", NotNull: true},
			{Name: "max_x", Type: "DOUBLE", NotNull: true},
			{Name: "max_y", Type: "DOUBLE", NotNull: true},
		},
	}

	TileMatrixSchema = validate.TableSchema{
		Table: "gpkg_tile_matrix",
		Columns: []validate.ExpectedColumn{
			{Name: "table_name", Type: "TEXT", NotNull: true},
			{Name: "zoom_level", Type: "INTEGER", NotNull: true},
			{Name: "matrix_width", Type: "INTEGER", NotNull: true},
			{Name: "matrix_height", Type: "INTEGER", NotNull: true},
			{Name: "tile_width", Type: "INTEGER", NotNull: true},
			{Name: "tile_height", Type: "INTEGER", NotNull: true},
			{Name: "pixel_x_size", Type: "DOUBLE", NotNull: true},
			{Name: "pixel_y_size", Type: "DOUBLE", NotNull: true},
		},
	}

	DataColumnsSchema = validate.TableSchema{
		Table:     "gpkg_data_columns",
		Extension: "gpkg_schema",
		Columns: []validate.ExpectedColumn{
			{Name: "table_name", Type: "TEXT", NotNull: true},
			{Name: "column_name", Type: "TEXT", NotNull: true},
			{Name: "name", Type: "TEXT"},
			{Name: "title", Type: "TEXT"},
			{Name: "description", Type: "TEXT"},
			{Name: "mime_type", Type: "TEXT"},
			{Name: "constraint_name", Type: "TEXT"},
		},
	}

	DataColumnConstraintsSchema = validate.TableSchema{
		Table:     "gpkg_data_column_constraints",
		Extension: "gpkg_schema",
		Columns: []validate.ExpectedColumn{
			{Name: "constraint_name", Type: "TEXT", NotNull: true},
			{Name: "constraint_type", Type: "TEXT", NotNull: true},
			{Name: "value", Type: "TEXT"},
			{Name: "min", Type: "NUMERIC"},
			{Name: "min_is_inclusive", Type: "BOOLEAN"},
			{Name: "max", Type: "NUMERIC"},
			{Name: "max_is_inclusive", Type: "BOOLEAN"},
			{Name: "description", Type: "TEXT"},
		},
	}

	MetadataSchema = validate.TableSchema{
		Table:     "gpkg_metadata",
		Extension: "gpkg_metadata",
		Columns: []validate.ExpectedColumn{
			{Name: "id", Type: "INTEGER", NotNull: true},
			{Name: "md_scope", Type: "TEXT", NotNull: true, Default: validate.DefaultRequired},
			{Name: "md_standard_uri", Type: "TEXT", NotNull: true},
			{Name: "mime_type", Type: "TEXT", NotNull: true, Default: validate.DefaultRequired},
			{Name: "metadata", Type: "TEXT", NotNull: true, Default: validate.DefaultRequired},
		},
	}

	MetadataReferenceSchema = validate.TableSchema{
		Table:     "gpkg_metadata_reference",
		Extension: "gpkg_metadata",
		Columns: []validate.ExpectedColumn{
			{Name: "reference_scope", Type: "TEXT", NotNull: true},
			{Name: "table_name", Type: "TEXT"},
			{Name: "column_name", Type: "TEXT"},
			{Name: "row_id_value", Type: "INTEGER"},
			{Name: "timestamp", Type: "DATETIME", NotNull: true, Default: validate.DefaultRequired},
			{Name: "md_file_id", Type: "INTEGER", NotNull: true},
			{Name: "md_parent_id", Type: "INTEGER"},
		},
	}
)

// StandardSchemas lists every table schema the catalog checks.
func StandardSchemas() []validate.TableSchema {
	return []validate.TableSchema{
		SpatialRefSysSchema,
		ContentsSchema,
		GeometryColumnsSchema,
		TileMatrixSetSchema,
		TileMatrixSchema,
		validate.ExtensionsSchema,
		DataColumnsSchema,
		DataColumnConstraintsSchema,
		MetadataSchema,
		MetadataReferenceSchema,
	}
}

// RedefinitionAllowances lists the standard columns extensions may register
// against because they only add values to them.
var RedefinitionAllowances = []validate.Allowance{
	{Table: "gpkg_geometry_columns", Column: "geometry_type_name", ExtensionPrefix: "gpkg_geom_"},
}

var geometryTypes = []any{
	"GEOMETRY", "POINT", "LINESTRING", "POLYGON",
	"MULTIPOINT", "MULTILINESTRING", "MULTIPOLYGON", "GEOMETRYCOLLECTION",
	"CIRCULARSTRING", "COMPOUNDCURVE", "CURVEPOLYGON",
	"MULTICURVE", "MULTISURFACE", "CURVE", "SURFACE",
}

var metadataScopes = []any{
	"undefined", "fieldSession", "collectionSession", "series", "dataset",
	"featureType", "feature", "attributeType", "attribute", "tile", "model",
	"catalog", "schema", "taxonomy", "software", "service",
	"collectionHardware", "nonGeographicDataset", "dimensionGroup", "style",
}

func bound(f float64) *float64 { return &f }

var defaultCatalog = sync.OnceValue(func() *Catalog {
	return MustNew(StandardSchemas(),
		coreClass(),
		featuresClass(),
		tilesClass(),
		extensionsClass(),
		schemaClass(),
		metadataClass(),
	)
})

// Default returns the process-wide GeoPackage 1.2 catalog. It is built once
// and never modified.
func Default() *Catalog {
	return defaultCatalog()
}

func coreClass() ConformanceClass {
	return ConformanceClass{
		Name: ClassCore,
		Requirements: []Requirement{
			{
				ID:          "core.application_id",
				Description: "The application_id field of the SQLite database header contains 0x47504B47 (\"GPKG\")",
				Clause:      "OGC 12-128r13: Requirement 2",
				Predicate:   validate.PragmaEquals{Name: "application_id", Want: ApplicationID},
			},
			{
				ID:          "core.user_version",
				Description: "The user_version field of the SQLite database header is at least 10200",
				Clause:      "OGC 12-128r13: Requirement 2",
				Predicate:   validate.PragmaAtLeast{Name: "user_version", Min: UserVersion},
			},
			{
				ID:          "core.integrity",
				Description: "PRAGMA integrity_check returns a single row with the value ok",
				Clause:      "OGC 12-128r13: Requirement 6",
				Predicate:   validate.PragmaOK{Name: "integrity_check"},
			},
			{
				ID:          "core.foreign_keys",
				Description: "PRAGMA foreign_key_check returns no rows",
				Clause:      "OGC 12-128r13: Requirement 7",
				Predicate:   validate.PragmaEmpty{Name: "foreign_key_check"},
			},
			{
				ID:          "core.srs.exists",
				Description: "The gpkg_spatial_ref_sys table exists",
				Clause:      "OGC 12-128r13: Requirement 10",
				Predicate:   validate.TableExists{Table: SpatialRefSysSchema.Table},
			},
			{
				ID:          "core.srs.definition",
				Description: "The gpkg_spatial_ref_sys table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 10",
				DependsOn:   []string{"core.srs.exists"},
				Predicate:   validate.TableDefinition{Schema: SpatialRefSysSchema},
			},
			{
				ID:          "core.srs.required_rows",
				Description: "The gpkg_spatial_ref_sys table contains the records with srs_id -1, 0 and 4326",
				Clause:      "OGC 12-128r13: Requirement 11",
				DependsOn:   []string{"core.srs.exists"},
				Predicate:   validate.RequiredValues{Table: SpatialRefSysSchema.Table, Column: "srs_id", Values: []any{int64(-1), int64(0), int64(4326)}},
			},
			{
				ID:          "core.contents.exists",
				Description: "The gpkg_contents table exists",
				Clause:      "OGC 12-128r13: Requirement 13",
				Predicate:   validate.TableExists{Table: ContentsSchema.Table},
			},
			{
				ID:          "core.contents.definition",
				Description: "The gpkg_contents table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 13",
				DependsOn:   []string{"core.contents.exists"},
				Predicate:   validate.TableDefinition{Schema: ContentsSchema},
			},
			{
				ID:          "core.contents.table_name",
				Description: "Every gpkg_contents.table_name names an existing table or view",
				Clause:      "OGC 12-128r13: Requirement 14",
				DependsOn:   []string{"core.contents.exists"},
				Predicate: validate.RowRule{Table: ContentsSchema.Table, Rule: validate.Reference{
					Column: "table_name", Table: validate.SchemaTables,
				}},
			},
			{
				ID:          "core.contents.srs_id",
				Description: "Every non-null gpkg_contents.srs_id references gpkg_spatial_ref_sys.srs_id",
				Clause:      "OGC 12-128r13: Requirement 15",
				DependsOn:   []string{"core.contents.exists"},
				Predicate: validate.RowRule{Table: ContentsSchema.Table, Rule: validate.Reference{
					Column: "srs_id", Table: SpatialRefSysSchema.Table, RefColumn: "srs_id", AllowNull: true,
				}},
			},
		},
	}
}

func featuresClass() ConformanceClass {
	const table = "gpkg_geometry_columns"
	exists := "features.geometry_columns.exists"
	return ConformanceClass{
		Name:           ClassFeatures,
		RequireEnabled: true,
		Requirements: []Requirement{
			{
				ID:          exists,
				Description: "The gpkg_geometry_columns table exists",
				Clause:      "OGC 12-128r13: Requirement 21",
				Predicate:   validate.TableExists{Table: table},
			},
			{
				ID:          "features.geometry_columns.definition",
				Description: "The gpkg_geometry_columns table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 21",
				DependsOn:   []string{exists},
				Predicate:   validate.TableDefinition{Schema: GeometryColumnsSchema},
			},
			{
				ID:          "features.geometry_columns.table_name",
				Description: "Every gpkg_geometry_columns.table_name references gpkg_contents.table_name",
				Clause:      "OGC 12-128r13: Requirement 23",
				DependsOn:   []string{exists},
				Predicate: validate.RowRule{Table: table, Rule: validate.Reference{
					Column: "table_name", Table: ContentsSchema.Table, RefColumn: "table_name",
				}},
			},
			{
				ID:          "features.geometry_columns.geometry_type_name",
				Description: "Every geometry_type_name is a geometry type name of Annex E",
				Clause:      "OGC 12-128r13: Requirement 25",
				DependsOn:   []string{exists},
				Predicate: validate.RowRule{Table: table, Rule: validate.Enumeration{
					Column: "geometry_type_name", Values: geometryTypes,
				}},
			},
			{
				ID:          "features.geometry_columns.srs_id",
				Description: "Every gpkg_geometry_columns.srs_id references gpkg_spatial_ref_sys.srs_id",
				Clause:      "OGC 12-128r13: Requirement 26",
				DependsOn:   []string{exists},
				Predicate: validate.RowRule{Table: table, Rule: validate.Reference{
					Column: "srs_id", Table: SpatialRefSysSchema.Table, RefColumn: "srs_id",
				}},
			},
			{
				ID:          "features.geometry_columns.z",
				Description: "Every gpkg_geometry_columns.z is 0, 1 or 2",
				Clause:      "OGC 12-128r13: Requirement 27",
				DependsOn:   []string{exists},
				Predicate: validate.RowRule{Table: table, Rule: validate.Enumeration{
					Column: "z", Values: []any{int64(0), int64(1), int64(2)},
				}},
			},
			{
				ID:          "features.geometry_columns.m",
				Description: "Every gpkg_geometry_columns.m is 0, 1 or 2",
				Clause:      "OGC 12-128r13: Requirement 28",
				DependsOn:   []string{exists},
				Predicate: validate.RowRule{Table: table, Rule: validate.Enumeration{
					Column: "m", Values: []any{int64(0), int64(1), int64(2)},
				}},
			},
		},
	}
}

func tilesClass() ConformanceClass {
	setExists := "tiles.matrix_set.exists"
	matrixExists := "tiles.matrix.exists"

	matrixRange := func(id, column, clause string, r validate.Range) Requirement {
		r.Column = column
		return Requirement{
			ID:          id,
			Description: "Every gpkg_tile_matrix." + column + " satisfies " + r.Describe(),
			Clause:      clause,
			DependsOn:   []string{matrixExists},
			Predicate:   validate.RowRule{Table: TileMatrixSchema.Table, Rule: r},
		}
	}
	positive := validate.Range{Min: bound(1)}
	nonZero := validate.Range{Min: bound(0), MinExclusive: true}

	return ConformanceClass{
		Name:           ClassTiles,
		RequireEnabled: true,
		Requirements: []Requirement{
			{
				ID:          setExists,
				Description: "The gpkg_tile_matrix_set table exists",
				Clause:      "OGC 12-128r13: Requirement 37",
				Predicate:   validate.TableExists{Table: TileMatrixSetSchema.Table},
			},
			{
				ID:          "tiles.matrix_set.definition",
				Description: "The gpkg_tile_matrix_set table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 37",
				DependsOn:   []string{setExists},
				Predicate:   validate.TableDefinition{Schema: TileMatrixSetSchema},
			},
			{
				ID:          "tiles.matrix_set.table_name",
				Description: "Every gpkg_tile_matrix_set.table_name references gpkg_contents.table_name",
				Clause:      "OGC 12-128r13: Requirement 38",
				DependsOn:   []string{setExists},
				Predicate: validate.RowRule{Table: TileMatrixSetSchema.Table, Rule: validate.Reference{
					Column: "table_name", Table: ContentsSchema.Table, RefColumn: "table_name",
				}},
			},
			{
				ID:          "tiles.matrix_set.srs_id",
				Description: "Every gpkg_tile_matrix_set.srs_id references gpkg_spatial_ref_sys.srs_id",
				Clause:      "OGC 12-128r13: Requirement 39",
				DependsOn:   []string{setExists},
				Predicate: validate.RowRule{Table: TileMatrixSetSchema.Table, Rule: validate.Reference{
					Column: "srs_id", Table: SpatialRefSysSchema.Table, RefColumn: "srs_id",
				}},
			},
			{
				ID:          matrixExists,
				Description: "The gpkg_tile_matrix table exists",
				Clause:      "OGC 12-128r13: Requirement 41",
				Predicate:   validate.TableExists{Table: TileMatrixSchema.Table},
			},
			{
				ID:          "tiles.matrix.definition",
				Description: "The gpkg_tile_matrix table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 41",
				DependsOn:   []string{matrixExists},
				Predicate:   validate.TableDefinition{Schema: TileMatrixSchema},
			},
			{
				ID:          "tiles.matrix.table_name",
				Description: "Every gpkg_tile_matrix.table_name references gpkg_tile_matrix_set.table_name",
				Clause:      "OGC 12-128r13: Requirement 42",
				DependsOn:   []string{matrixExists},
				Predicate: validate.RowRule{Table: TileMatrixSchema.Table, Rule: validate.Reference{
					Column: "table_name", Table: TileMatrixSetSchema.Table, RefColumn: "table_name",
				}},
			},
			matrixRange("tiles.matrix.zoom_level", "zoom_level", "OGC 12-128r13: Requirement 45", validate.Range{Min: bound(0)}),
			matrixRange("tiles.matrix.matrix_width", "matrix_width", "OGC 12-128r13: Requirement 46", positive),
			matrixRange("tiles.matrix.matrix_height", "matrix_height", "OGC 12-128r13: Requirement 47", positive),
			matrixRange("tiles.matrix.tile_width", "tile_width", "OGC 12-128r13: Requirement 48", positive),
			matrixRange("tiles.matrix.tile_height", "tile_height", "OGC 12-128r13: Requirement 49", positive),
			matrixRange("tiles.matrix.pixel_x_size", "pixel_x_size", "OGC 12-128r13: Requirement 50", nonZero),
			matrixRange("tiles.matrix.pixel_y_size", "pixel_y_size", "OGC 12-128r13: Requirement 51", nonZero),
		},
	}
}

func extensionsClass() ConformanceClass {
	exists := "ext.exists"
	return ConformanceClass{
		Name:           ClassExtensions,
		RequireEnabled: true,
		Requirements: []Requirement{
			{
				ID:          exists,
				Description: "The gpkg_extensions table or view exists",
				Clause:      "OGC 12-128r13: Requirement 58",
				Predicate:   validate.TableExists{Table: validate.ExtensionsTable},
			},
			{
				ID:          "ext.definition",
				Description: "The gpkg_extensions table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 58",
				DependsOn:   []string{exists},
				Predicate:   validate.TableDefinition{Schema: validate.ExtensionsSchema},
			},
			{
				ID:          "ext.table_name",
				Description: "Every non-null gpkg_extensions.table_name names an existing table or view",
				Clause:      "OGC 12-128r13: Requirement 60",
				DependsOn:   []string{exists},
				Predicate: validate.RowRule{Table: validate.ExtensionsTable, Rule: validate.Reference{
					Column: "table_name", Table: validate.SchemaTables, AllowNull: true,
				}},
			},
			{
				ID:          "ext.column_name",
				Description: "Every gpkg_extensions.column_name is NULL when table_name is NULL and otherwise names a column of table_name",
				Clause:      "OGC 12-128r13: Requirement 61",
				DependsOn:   []string{exists},
				Predicate:   validate.ExtensionColumns{},
			},
			{
				ID:          "ext.extension_name",
				Description: "Every gpkg_extensions.extension_name has the form <author>_<extension>",
				Clause:      "OGC 12-128r13: Requirement 62",
				DependsOn:   []string{exists},
				Predicate:   validate.ExtensionNames{},
			},
			{
				ID:          "ext.scope",
				Description: "Every gpkg_extensions.scope is read-write or write-only",
				Clause:      "OGC 12-128r13: Requirement 64",
				DependsOn:   []string{exists},
				Predicate: validate.RowRule{Table: validate.ExtensionsTable, Rule: validate.Enumeration{
					Column: "scope", Values: []any{"read-write", "write-only"},
				}},
			},
			{
				ID:          "ext.no_redefinition",
				Description: "No extension modifies the definition or semantics of an existing standard column",
				Clause:      "OGC 12-128r13: Requirement 58",
				DependsOn:   []string{exists},
				Predicate:   validate.NoRedefinition{Schemas: StandardSchemas(), Allowances: RedefinitionAllowances},
			},
			{
				ID:          "ext.additional_columns",
				Description: "Every column a standard table does not define is registered in gpkg_extensions",
				Clause:      "OGC 12-128r13: Requirement 58",
				DependsOn:   []string{exists},
				Predicate:   validate.AdditionalColumns{Schemas: StandardSchemas()},
			},
		},
	}
}

func schemaClass() ConformanceClass {
	columnsExists := "schema.data_columns.exists"
	constraintsExists := "schema.constraints.exists"
	boolean := []any{int64(0), int64(1)}

	return ConformanceClass{
		Name:           ClassSchema,
		RequireEnabled: true,
		Requirements: []Requirement{
			{
				ID:          columnsExists,
				Description: "The gpkg_data_columns table exists",
				Clause:      "OGC 12-128r13: Requirement 103",
				Predicate:   validate.TableExists{Table: DataColumnsSchema.Table},
			},
			{
				ID:          "schema.data_columns.definition",
				Description: "The gpkg_data_columns table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 103",
				DependsOn:   []string{columnsExists},
				Predicate:   validate.TableDefinition{Schema: DataColumnsSchema},
			},
			{
				ID:          "schema.data_columns.table_name",
				Description: "Every gpkg_data_columns.table_name references gpkg_contents.table_name",
				Clause:      "OGC 12-128r13: Requirement 104",
				DependsOn:   []string{columnsExists},
				Predicate: validate.RowRule{Table: DataColumnsSchema.Table, Rule: validate.Reference{
					Column: "table_name", Table: ContentsSchema.Table, RefColumn: "table_name",
				}},
			},
			{
				ID:          constraintsExists,
				Description: "The gpkg_data_column_constraints table exists",
				Clause:      "OGC 12-128r13: Requirement 107",
				Predicate:   validate.TableExists{Table: DataColumnConstraintsSchema.Table},
			},
			{
				ID:          "schema.constraints.definition",
				Description: "The gpkg_data_column_constraints table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 107",
				DependsOn:   []string{constraintsExists},
				Predicate:   validate.TableDefinition{Schema: DataColumnConstraintsSchema},
			},
			{
				ID:          "schema.constraints.constraint_type",
				Description: "Every constraint_type is range, enum or glob",
				Clause:      "OGC 12-128r13: Requirement 108",
				DependsOn:   []string{constraintsExists},
				Predicate: validate.RowRule{Table: DataColumnConstraintsSchema.Table, Rule: validate.Enumeration{
					Column: "constraint_type", Values: []any{"range", "enum", "glob"},
				}},
			},
			{
				ID:          "schema.constraints.min_is_inclusive",
				Description: "Every min_is_inclusive is NULL, 0 or 1",
				Clause:      "OGC 12-128r13: Requirement 109",
				DependsOn:   []string{constraintsExists},
				Predicate: validate.RowRule{Table: DataColumnConstraintsSchema.Table, Rule: validate.Enumeration{
					Column: "min_is_inclusive", Values: boolean, AllowNull: true,
				}},
			},
			{
				ID:          "schema.constraints.max_is_inclusive",
				Description: "Every max_is_inclusive is NULL, 0 or 1",
				Clause:      "OGC 12-128r13: Requirement 109",
				DependsOn:   []string{constraintsExists},
				Predicate: validate.RowRule{Table: DataColumnConstraintsSchema.Table, Rule: validate.Enumeration{
					Column: "max_is_inclusive", Values: boolean, AllowNull: true,
				}},
			},
			{
				ID:          "schema.data_columns.constraint_name",
				Description: "Every non-null gpkg_data_columns.constraint_name references gpkg_data_column_constraints.constraint_name",
				Clause:      "OGC 12-128r13: Requirement 106",
				DependsOn:   []string{columnsExists, constraintsExists},
				Predicate: validate.RowRule{Table: DataColumnsSchema.Table, Rule: validate.Reference{
					Column: "constraint_name", Table: DataColumnConstraintsSchema.Table, RefColumn: "constraint_name", AllowNull: true,
				}},
			},
		},
	}
}

func metadataClass() ConformanceClass {
	mdExists := "metadata.exists"
	refExists := "metadata.reference.exists"
	return ConformanceClass{
		Name:           ClassMetadata,
		RequireEnabled: true,
		Requirements: []Requirement{
			{
				ID:          mdExists,
				Description: "The gpkg_metadata table exists",
				Clause:      "OGC 12-128r13: Requirement 93",
				Predicate:   validate.TableExists{Table: MetadataSchema.Table},
			},
			{
				ID:          "metadata.definition",
				Description: "The gpkg_metadata table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 93",
				DependsOn:   []string{mdExists},
				Predicate:   validate.TableDefinition{Schema: MetadataSchema},
			},
			{
				ID:          "metadata.md_scope",
				Description: "Every gpkg_metadata.md_scope is a metadata scope name",
				Clause:      "OGC 12-128r13: Requirement 94",
				DependsOn:   []string{mdExists},
				Predicate: validate.RowRule{Table: MetadataSchema.Table, Rule: validate.Enumeration{
					Column: "md_scope", Values: metadataScopes,
				}},
			},
			{
				ID:          refExists,
				Description: "The gpkg_metadata_reference table exists",
				Clause:      "OGC 12-128r13: Requirement 95",
				Predicate:   validate.TableExists{Table: MetadataReferenceSchema.Table},
			},
			{
				ID:          "metadata.reference.definition",
				Description: "The gpkg_metadata_reference table is defined per its table definition",
				Clause:      "OGC 12-128r13: Requirement 95",
				DependsOn:   []string{refExists},
				Predicate:   validate.TableDefinition{Schema: MetadataReferenceSchema},
			},
			{
				ID:          "metadata.reference.reference_scope",
				Description: "Every reference_scope is geopackage, table, column, row or row/col",
				Clause:      "OGC 12-128r13: Requirement 96",
				DependsOn:   []string{refExists},
				Predicate: validate.RowRule{Table: MetadataReferenceSchema.Table, Rule: validate.Enumeration{
					Column: "reference_scope", Values: []any{"geopackage", "table", "column", "row", "row/col"},
				}},
			},
			{
				ID:          "metadata.reference.md_file_id",
				Description: "Every md_file_id references gpkg_metadata.id",
				Clause:      "OGC 12-128r13: Requirement 100",
				DependsOn:   []string{mdExists, refExists},
				Predicate: validate.RowRule{Table: MetadataReferenceSchema.Table, Rule: validate.Reference{
					Column: "md_file_id", Table: MetadataSchema.Table, RefColumn: "id",
				}},
			},
			{
				ID:          "metadata.reference.md_parent_id",
				Description: "Every non-null md_parent_id references gpkg_metadata.id",
				Clause:      "OGC 12-128r13: Requirement 101",
				DependsOn:   []string{mdExists, refExists},
				Predicate: validate.RowRule{Table: MetadataReferenceSchema.Table, Rule: validate.Reference{
					Column: "md_parent_id", Table: MetadataSchema.Table, RefColumn: "id", AllowNull: true,
				}},
			},
		},
	}
}
