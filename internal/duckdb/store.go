// Package duckdb caches resolved feature locations in DuckDB so repeated
// runs against the same reference skip resolution.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for caching resolution results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resolutions (
			seq_id VARCHAR,
			location VARCHAR,
			circular_length BIGINT,
			coding BOOLEAN,
			genetic_code BIGINT,
			resolved VARCHAR,
			state VARCHAR,
			PRIMARY KEY (seq_id, location, circular_length, coding, genetic_code)
		)`,
		`CREATE TABLE IF NOT EXISTS insertions (
			seq_id VARCHAR,
			location VARCHAR,
			circular_length BIGINT,
			coding BOOLEAN,
			genetic_code BIGINT,
			ordinal BIGINT,
			start_pos BIGINT,
			stop_pos BIGINT,
			protein_fragment VARCHAR,
			reading_offset BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS sources (
			path VARCHAR PRIMARY KEY,
			size BIGINT,
			mod_time TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
