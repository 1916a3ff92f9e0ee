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

package configdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("configdb: no matching row")

func (q *Queries) GetProperty(ctx context.Context, arg GetPropertyParams) (Property, error) {
	query, args := GetPropertySQL(Postgres, arg)
	p, err := ScanProperty(q.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Property{}, ErrNotFound
	}
	return p, err
}

func (q *Queries) ListPropertySetRows(ctx context.Context, arg ListPropertySetRowsParams) ([]Property, error) {
	query, args := ListPropertySetRowsSQL(Postgres, arg)
	return queryRows(ctx, q.db, query, args, ScanProperty)
}

func (q *Queries) ListPropertiesByKeys(ctx context.Context, arg ListPropertiesByKeysParams) ([]Property, error) {
	query, args := ListPropertiesByKeysSQL(Postgres, arg)
	return queryRows(ctx, q.db, query, args, ScanProperty)
}

// queryRows runs query and scans every row with scan.
func queryRows[T any](ctx context.Context, db DBTX, query string, args []any, scan func(RowScanner) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
