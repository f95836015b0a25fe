package store

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Container is a read-only handle on a GeoPackage file.
type Container struct {
	db      *sql.DB
	locator string
}

// Open opens the container at locator for reading.
//
// The locator is either a filesystem path or a file:// URI. The database is
// configured with:
//   - mode=ro on the connection URI
//   - query_only so no statement can modify the file
//   - a 5-second busy timeout for files locked by a writer
func Open(locator string) (*Container, error) {
	path, err := ResolveLocator(locator)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("container not accessible: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("container %s is a directory", path)
	}

	dsn, err := readOnlyDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open container: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to container: %w", err)
	}

	// One connection keeps the query_only pragma in effect for every query.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return &Container{db: db, locator: locator}, nil
}

// New wraps an already opened database. The caller keeps ownership of the
// pragmas; New does not change connection settings.
func New(db *sql.DB, locator string) *Container {
	return &Container{db: db, locator: locator}
}

// Close closes the database connection.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Locator returns the locator the container was opened with.
func (c *Container) Locator() string {
	return c.locator
}

// ResolveLocator converts a container locator into a filesystem path.
// Plain paths are returned unchanged; file:// URIs are decoded.
func ResolveLocator(locator string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("empty container locator")
	}
	if !strings.HasPrefix(locator, "file:") {
		return locator, nil
	}

	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("invalid container URI %q: %w", locator, err)
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("unsupported container host %q", u.Host)
	}
	path := u.Path
	if path == "" {
		path = u.Opaque
	}
	if path == "" {
		return "", fmt.Errorf("container URI %q has no path", locator)
	}
	return path, nil
}

// readOnlyDSN builds a read-only SQLite URI for path. The path is made
// absolute and percent-encoded so '#', '?' and '%' stay part of the file name.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve container path %q: %w", path, err)
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	u := &url.URL{Scheme: "file", Path: abs, RawQuery: "mode=ro"}
	return u.String(), nil
}

// applyPragmas sets read-only connection configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
