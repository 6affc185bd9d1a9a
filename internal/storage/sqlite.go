// Package storage provides the SQLite persistence layer for the analysis
// pipeline: calls, tenant configs, objections, cost records, and the audit
// log.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/outwell/callscope/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStorage implements every store the processing engine depends on.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	rates  model.CostRates
}

// NewSQLiteStorage opens (creating if necessary) the database at dbPath.
// Use ":memory:" for an ephemeral database in tests.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// SetCostRates configures the per-million token rates the cost ledger uses.
func (s *SQLiteStorage) SetCostRates(rates model.CostRates) {
	s.rates = rates
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
