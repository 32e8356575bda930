// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package db runs shell statements against a SQLite database file using the
// pure Go modernc.org/sqlite driver.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrClosed is returned by operations on a closed DB.
var ErrClosed = errors.New("database is closed")

// DB is an open database.
type DB struct {
	db   *sql.DB
	path string
	log  *logrus.Entry
}

// Open opens or creates the database at path.
func Open(path string, log *logrus.Entry) (*DB, error) {
	if path == "" {
		path = MemoryPath
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	if path != MemoryPath && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: an in-memory database exists per connection, and the
	// shell never runs statements concurrently.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set pragma: %w", err)
	}

	log.WithField("path", path).Debug("database opened")
	return &DB{db: db, path: path, log: log}, nil
}

// Path returns the path the database was opened with.
func (d *DB) Path() string {
	return d.path
}

// Close closes the database.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// =============================================================================
// RESULTS
// =============================================================================

// Cell is one result value rendered as text.
type Cell struct {
	Text string
	Null bool
}

// Result is the outcome of one statement.
type Result struct {
	// Columns is empty for statements that return no rows.
	Columns []string
	Rows    [][]Cell
	// RowsAffected is set for statements run without a result set.
	RowsAffected int64
	Elapsed      time.Duration
}

// HasRows reports whether the statement produced a result set.
func (r *Result) HasRows() bool {
	return len(r.Columns) > 0
}

// =============================================================================
// STATEMENTS
// =============================================================================

// queryKeywords start statements that return rows.
var queryKeywords = []string{"SELECT", "WITH", "PRAGMA", "VALUES", "EXPLAIN"}

// returnsRows guesses from the leading keyword whether stmt yields rows.
// Statements with a RETURNING clause do as well.
func returnsRows(stmt string) bool {
	upper := strings.ToUpper(strings.TrimSpace(stmt))
	for _, kw := range queryKeywords {
		if strings.HasPrefix(upper, kw) {
			return true
		}
	}
	return strings.Contains(upper, "RETURNING")
}

// Run executes stmt. Empty statements succeed with an empty result.
func (d *DB) Run(ctx context.Context, stmt string) (*Result, error) {
	if d.db == nil {
		return nil, ErrClosed
	}
	stmt = strings.TrimSpace(stmt)
	if stmt == "" || stmt == ";" {
		return &Result{}, nil
	}

	start := time.Now()
	log := d.log.WithField("statement", stmt)

	if !returnsRows(stmt) {
		res, err := d.db.ExecContext(ctx, stmt)
		if err != nil {
			log.WithError(err).Debug("statement failed")
			return nil, err
		}
		affected, _ := res.RowsAffected()
		log.WithField("affected", affected).Debug("statement executed")
		return &Result{RowsAffected: affected, Elapsed: time.Since(start)}, nil
	}

	rows, err := d.db.QueryContext(ctx, stmt)
	if err != nil {
		log.WithError(err).Debug("query failed")
		return nil, err
	}
	defer rows.Close()

	result, err := collect(rows)
	if err != nil {
		return nil, err
	}
	result.Elapsed = time.Since(start)
	log.WithField("rows", len(result.Rows)).Debug("query executed")
	return result, nil
}

func collect(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := &Result{Columns: cols}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]Cell, len(cols))
		for i, v := range values {
			row[i] = toCell(v)
		}
		result.Rows = append(result.Rows, row)
	}
	return result, rows.Err()
}

func toCell(v any) Cell {
	switch v := v.(type) {
	case nil:
		return Cell{Null: true}
	case []byte:
		return Cell{Text: string(v)}
	case string:
		return Cell{Text: v}
	case int64:
		return Cell{Text: strconv.FormatInt(v, 10)}
	case float64:
		return Cell{Text: strconv.FormatFloat(v, 'g', -1, 64)}
	case bool:
		if v {
			return Cell{Text: "1"}
		}
		return Cell{Text: "0"}
	case time.Time:
		return Cell{Text: v.Format(time.RFC3339Nano)}
	default:
		return Cell{Text: fmt.Sprint(v)}
	}
}

// =============================================================================
// SCHEMA
// =============================================================================

// Tables lists tables and views whose names match the LIKE pattern, sorted
// by name. An empty pattern matches every table. Internal sqlite_ tables are
// left out.
func (d *DB) Tables(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "%"
	}
	return d.names(ctx, `
		SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		  AND name LIKE ?
		ORDER BY name`, pattern)
}

// Indexes lists index names, sorted by name. A non-empty table restricts the
// list to indexes on tables matching that LIKE pattern.
func (d *DB) Indexes(ctx context.Context, table string) ([]string, error) {
	if table == "" {
		table = "%"
	}
	return d.names(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'index'
		  AND tbl_name LIKE ?
		ORDER BY name`, table)
}

func (d *DB) names(ctx context.Context, query string, args ...any) ([]string, error) {
	if d.db == nil {
		return nil, ErrClosed
	}
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
