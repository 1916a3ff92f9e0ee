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

	"github.com/cardinalhq/propstore/configdb"
)

var _ configdb.FixtureWriter = (*Store)(nil)

func (s *Store) InsertProperty(ctx context.Context, arg configdb.InsertPropertyParams) (int64, error) {
	query, args := configdb.InsertPropertySQL(configdb.SQLite, arg)
	return queryInt64(ctx, s.db, query, args)
}

func (s *Store) UpsertUser(ctx context.Context, arg configdb.InsertUserParams) (int64, error) {
	query, args := configdb.UpsertUserSQL(configdb.SQLite, arg)
	return queryInt64(ctx, s.db, query, args)
}

func (s *Store) UpsertGroup(ctx context.Context, arg configdb.InsertGroupParams) (int64, error) {
	query, args := configdb.UpsertGroupSQL(configdb.SQLite, arg)
	return queryInt64(ctx, s.db, query, args)
}

func (s *Store) AddGroupMember(ctx context.Context, arg configdb.AddGroupMemberParams) error {
	query, args := configdb.AddGroupMemberSQL(configdb.SQLite, arg)
	_, err := s.db.ExecContext(ctx, query, normalizeArgs(args)...)
	return err
}
