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

// PropertyQuerier reads the properties table.
type PropertyQuerier interface {
	// GetProperty returns ErrNotFound when no row matches.
	GetProperty(ctx context.Context, arg GetPropertyParams) (Property, error)
	ListPropertySetRows(ctx context.Context, arg ListPropertySetRowsParams) ([]Property, error)
	// ListPropertiesByKeys runs one statement; callers chunk arg.Keys.
	ListPropertiesByKeys(ctx context.Context, arg ListPropertiesByKeysParams) ([]Property, error)
}

// MembershipQuerier reads groups, users and their memberships. The methods
// taking identifier lists run one statement; callers chunk the lists.
type MembershipQuerier interface {
	SelectGroups(ctx context.Context, arg SelectGroupsParams) ([]GroupMembership, error)
	CountGroups(ctx context.Context, arg CountGroupsParams) (int64, error)
	SelectMembers(ctx context.Context, arg SelectMembersParams) ([]UserMembership, error)
	CountMembers(ctx context.Context, query UserMembershipQuery) (int64, error)
	SelectGroupsByIDs(ctx context.Context, ids []int64) ([]Group, error)
	CountUsersByGroup(ctx context.Context, groupIDs []int64) ([]GroupUserCount, error)
	SelectGroupsByLogins(ctx context.Context, logins []string) ([]LoginGroup, error)
}

type Querier interface {
	PropertyQuerier
	MembershipQuerier
}

var _ Querier = (*Queries)(nil)
