// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package sqlitestore serves the configdb queries from a SQLite file using
// the pure-Go modernc driver.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cardinalhq/propstore/configdb"
	"github.com/cardinalhq/propstore/internal/sqlitestore/migrations"
)

// sqliteMaxVariables is the historical SQLITE_MAX_VARIABLE_NUMBER default.
const sqliteMaxVariables = 999

// MaxChunkSize leaves one bound parameter for the component id that
// ListPropertiesByKeys binds next to the key list.
const MaxChunkSize = sqliteMaxVariables - 1

// Store implements configdb.Querier over a SQLite database.
type Store struct {
	db *sql.DB
}

var _ configdb.Querier = (*Store)(nil)

// Open opens (creating if needed) the SQLite database at path and applies
// the embedded schema. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path != ":memory:" {
		path = filepath.Clean(path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create iofs driver: %w", err)
	}
	// The driver owns db once created; it is closed through Store.Close.
	dbDriver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{
		MigrationsTable: "gomigrate_propstore",
	})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// DB exposes the handle for loading fixtures.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) MaxChunkSize() int {
	return MaxChunkSize
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// normalizeArgs converts uuid values to the TEXT form stored in SQLite.
func normalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case *uuid.UUID:
			if v == nil {
				out[i] = nil
			} else {
				out[i] = v.String()
			}
		case uuid.UUID:
			out[i] = v.String()
		default:
			out[i] = a
		}
	}
	return out
}

func queryRows[T any](ctx context.Context, db *sql.DB, query string, args []any, scan func(configdb.RowScanner) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, normalizeArgs(args)...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func queryInt64(ctx context.Context, db *sql.DB, query string, args []any) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, query, normalizeArgs(args)...).Scan(&count)
	return count, err
}
