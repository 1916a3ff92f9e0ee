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

func (s *Store) SelectGroups(ctx context.Context, arg configdb.SelectGroupsParams) ([]configdb.GroupMembership, error) {
	query, args := configdb.SelectGroupsSQL(configdb.SQLite, arg)
	return queryRows(ctx, s.db, query, args, configdb.ScanGroupMembership)
}

func (s *Store) CountGroups(ctx context.Context, arg configdb.CountGroupsParams) (int64, error) {
	query, args := configdb.CountGroupsSQL(configdb.SQLite, arg)
	return queryInt64(ctx, s.db, query, args)
}

func (s *Store) SelectMembers(ctx context.Context, arg configdb.SelectMembersParams) ([]configdb.UserMembership, error) {
	query, args := configdb.SelectMembersSQL(configdb.SQLite, arg)
	return queryRows(ctx, s.db, query, args, configdb.ScanUserMembership)
}

func (s *Store) CountMembers(ctx context.Context, q configdb.UserMembershipQuery) (int64, error) {
	query, args := configdb.CountMembersSQL(configdb.SQLite, q)
	return queryInt64(ctx, s.db, query, args)
}

func (s *Store) SelectGroupsByIDs(ctx context.Context, ids []int64) ([]configdb.Group, error) {
	query, args := configdb.SelectGroupsByIDsSQL(configdb.SQLite, ids)
	return queryRows(ctx, s.db, query, args, configdb.ScanGroup)
}

func (s *Store) CountUsersByGroup(ctx context.Context, groupIDs []int64) ([]configdb.GroupUserCount, error) {
	query, args := configdb.CountUsersByGroupSQL(configdb.SQLite, groupIDs)
	return queryRows(ctx, s.db, query, args, configdb.ScanGroupUserCount)
}

func (s *Store) SelectGroupsByLogins(ctx context.Context, logins []string) ([]configdb.LoginGroup, error) {
	query, args := configdb.SelectGroupsByLoginsSQL(configdb.SQLite, logins)
	return queryRows(ctx, s.db, query, args, configdb.ScanLoginGroup)
}
