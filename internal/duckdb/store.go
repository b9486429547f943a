// Package duckdb persists transcript effect counts in DuckDB so that
// transcript selection can be re-run without rescanning the VCF files.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for effect count runs.
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
			return nil, fmt.Errorf("create store directory: %w", err)
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

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id VARCHAR PRIMARY KEY,
			created_at TIMESTAMP,
			highest_only BOOLEAN,
			inputs VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS effect_counts (
			run_id VARCHAR,
			gene VARCHAR,
			transcript VARCHAR,
			effect VARCHAR,
			count BIGINT,
			PRIMARY KEY (run_id, gene, transcript, effect)
		)`,
		`CREATE TABLE IF NOT EXISTS effect_impacts (
			run_id VARCHAR,
			effect VARCHAR,
			impact VARCHAR,
			PRIMARY KEY (run_id, effect)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
