// Package validate implements the structural, content and extension
// mechanism validators used by conformance requirements.
//
// Every validator reads a Container and never writes to it. Validators do
// not panic on malformed containers: a missing table, an unexpected type or
// an unreadable row is reported as a Fault, not raised.
//
// # Validators
//
//   - ValidateTable compares a table's declared columns against a
//     TableSchema. Each expected column gets a ColumnCheck record of named
//     booleans (Present, TypeOK, NotNullOK, DefaultOK), so one report still
//     says which property of which column failed.
//   - ValidateRows streams a table once and applies a Rule from the closed
//     set Enumeration, Range, Reference. It never stops at the first
//     violation: the report carries the total count plus up to MaxSamples
//     offending rows.
//   - The extension mechanism checks (CheckNoRedefinition,
//     CheckExtensionNames, CheckExtensionColumns, CheckAdditionalColumns)
//     validate the gpkg_extensions registry against the standard tables.
//
// # Predicates
//
// A Predicate wraps one validator call with its fixed arguments. Requirements
// in the catalog hold exactly one Predicate each. Check returns nil on pass
// and a *Fault on failure.
package validate
