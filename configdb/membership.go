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
)

func (q *Queries) SelectGroups(ctx context.Context, arg SelectGroupsParams) ([]GroupMembership, error) {
	query, args := SelectGroupsSQL(Postgres, arg)
	return queryRows(ctx, q.db, query, args, ScanGroupMembership)
}

func (q *Queries) CountGroups(ctx context.Context, arg CountGroupsParams) (int64, error) {
	query, args := CountGroupsSQL(Postgres, arg)
	var count int64
	err := q.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (q *Queries) SelectMembers(ctx context.Context, arg SelectMembersParams) ([]UserMembership, error) {
	query, args := SelectMembersSQL(Postgres, arg)
	return queryRows(ctx, q.db, query, args, ScanUserMembership)
}

func (q *Queries) CountMembers(ctx context.Context, arg UserMembershipQuery) (int64, error) {
	query, args := CountMembersSQL(Postgres, arg)
	var count int64
	err := q.db.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (q *Queries) SelectGroupsByIDs(ctx context.Context, ids []int64) ([]Group, error) {
	query, args := SelectGroupsByIDsSQL(Postgres, ids)
	return queryRows(ctx, q.db, query, args, ScanGroup)
}

func (q *Queries) CountUsersByGroup(ctx context.Context, groupIDs []int64) ([]GroupUserCount, error) {
	query, args := CountUsersByGroupSQL(Postgres, groupIDs)
	return queryRows(ctx, q.db, query, args, ScanGroupUserCount)
}

func (q *Queries) SelectGroupsByLogins(ctx context.Context, logins []string) ([]LoginGroup, error) {
	query, args := SelectGroupsByLoginsSQL(Postgres, logins)
	return queryRows(ctx, q.db, query, args, ScanLoginGroup)
}
