// Package catalog holds the registry of conformance classes and their
// requirements, and the inclusion set that selects classes for a run.
//
// A Catalog is built once (Default for GeoPackage 1.2) and shared by every
// run. Class order is evaluation order; requirements may depend only on
// earlier requirements of their own class.
package catalog
