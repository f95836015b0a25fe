// Package config loads run configuration files.
//
// A run configuration is YAML:
//
//	iut: path/to/container.gpkg
//	ics:
//	  - Core
//	  - Extension Mechanism
//	log_level: info
//
// Files are decoded strictly (unknown keys are errors) and then checked
// against the embedded CUE definition #RunConfig. Resolve merges a file with
// command line overrides.
package config
