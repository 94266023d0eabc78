// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package duckdb summarizes pivot cache snapshots with DuckDB. A snapshot's
// records are loaded into an in-memory table, one VARCHAR column per
// database field, and value fields are aggregated by a row field with SQL.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/xuri/pivotcache"
)

// Engine wraps an in-memory DuckDB database holding loaded snapshots.
type Engine struct {
	db          *sql.DB
	mu          sync.RWMutex
	tables      map[string]*TableInfo // snapshot id -> table info
	results     *ResultCache
	initialized bool
}

// TableInfo stores metadata about a snapshot loaded as a DuckDB table.
type TableInfo struct {
	TableName string
	Columns   []string
	RowCount  int
}

// Config holds configuration options for the DuckDB engine.
type Config struct {
	// MemoryLimit sets the maximum memory DuckDB can use (e.g., "1GB")
	MemoryLimit string
	// Threads sets the number of threads DuckDB should use (0 = auto)
	Threads int
}

// DefaultConfig returns the default configuration for the DuckDB engine.
func DefaultConfig() *Config {
	return &Config{MemoryLimit: "1GB"}
}

// NewEngine creates a new DuckDB engine with default configuration.
func NewEngine() (*Engine, error) {
	return NewEngineWithConfig(DefaultConfig())
}

// NewEngineWithConfig creates a new DuckDB engine with custom configuration.
func NewEngineWithConfig(cfg *Config) (*Engine, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB: %w", err)
	}
	e := &Engine{
		db:      db,
		tables:  make(map[string]*TableInfo),
		results: NewResultCache(),
	}
	if err := e.applyConfig(cfg); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply config: %w", err)
	}
	e.initialized = true
	return e, nil
}

// applyConfig applies configuration settings to the DuckDB database.
func (e *Engine) applyConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.MemoryLimit != "" {
		if _, err := e.db.Exec(fmt.Sprintf("SET memory_limit = '%s'", cfg.MemoryLimit)); err != nil {
			return fmt.Errorf("failed to set memory_limit: %w", err)
		}
	}
	if cfg.Threads > 0 {
		if _, err := e.db.Exec(fmt.Sprintf("SET threads = %d", cfg.Threads)); err != nil {
			return fmt.Errorf("failed to set threads: %w", err)
		}
	}
	return nil
}

// LoadSnapshot loads the records of a snapshot into a table, replacing a
// previously loaded snapshot with the same id. Blank values are stored as
// NULL; the row column keeps the record order.
func (e *Engine) LoadSnapshot(ctx context.Context, s *pivotcache.CacheSnapshot) (*TableInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil, fmt.Errorf("engine not initialized")
	}
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("snapshot %s has no columns", s.ID)
	}
	info := &TableInfo{TableName: sanitizeTableName("pivot_" + s.ID), Columns: s.Columns}
	columns := make([]string, 0, len(s.Columns)+1)
	columns = append(columns, "rn BIGINT")
	for i := range s.Columns {
		columns = append(columns, fmt.Sprintf("%s VARCHAR", columnName(i)))
	}
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	createQuery := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", info.TableName, strings.Join(columns, ", "))
	if _, err := tx.ExecContext(ctx, createQuery); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	if len(s.Records) > 0 {
		placeholders := make([]string, len(s.Columns)+1)
		for i := range placeholders {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
			"INSERT INTO %s VALUES (%s)", info.TableName, strings.Join(placeholders, ", "),
		))
		if err != nil {
			return nil, fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for r, row := range s.Records {
			args := make([]interface{}, len(s.Columns)+1)
			args[0] = int64(r)
			for i := range s.Columns {
				if i < len(row) && row[i] != "" {
					args[i+1] = row[i]
				}
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return nil, fmt.Errorf("failed to insert row: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	info.RowCount = len(s.Records)
	e.tables[s.ID] = info
	e.results.Clear()
	return info, nil
}

// Table returns the table info of a loaded snapshot.
func (e *Engine) Table(snapshotID string) (*TableInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	info, ok := e.tables[snapshotID]
	return info, ok
}

// Query executes a raw SQL query and returns the results.
func (e *Engine) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return e.db.QueryContext(ctx, query, args...)
}

// Close closes the DuckDB database connection and releases resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.initialized = false
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// IsInitialized returns whether the engine has been initialized.
func (e *Engine) IsInitialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

var nonIdentChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// sanitizeTableName converts a name to a valid SQL table name.
func sanitizeTableName(name string) string {
	sanitized := nonIdentChars.ReplaceAllString(name, "_")
	if len(sanitized) > 0 && (sanitized[0] >= '0' && sanitized[0] <= '9') {
		sanitized = "t_" + sanitized
	}
	return strings.ToLower(sanitized)
}

// columnName returns the SQL column name of the snapshot column i.
func columnName(i int) string {
	return fmt.Sprintf("c%d", i)
}
