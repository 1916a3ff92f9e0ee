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

package sqlitestore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cardinalhq/propstore/configdb"
)

func (s *Store) GetProperty(ctx context.Context, arg configdb.GetPropertyParams) (configdb.Property, error) {
	query, args := configdb.GetPropertySQL(configdb.SQLite, arg)
	p, err := configdb.ScanProperty(s.db.QueryRowContext(ctx, query, normalizeArgs(args)...))
	if errors.Is(err, sql.ErrNoRows) {
		return configdb.Property{}, configdb.ErrNotFound
	}
	return p, err
}

func (s *Store) ListPropertySetRows(ctx context.Context, arg configdb.ListPropertySetRowsParams) ([]configdb.Property, error) {
	query, args := configdb.ListPropertySetRowsSQL(configdb.SQLite, arg)
	return queryRows(ctx, s.db, query, args, configdb.ScanProperty)
}

func (s *Store) ListPropertiesByKeys(ctx context.Context, arg configdb.ListPropertiesByKeysParams) ([]configdb.Property, error) {
	query, args := configdb.ListPropertiesByKeysSQL(configdb.SQLite, arg)
	return queryRows(ctx, s.db, query, args, configdb.ScanProperty)
}
