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
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Membership selects rows by whether the user belongs to the group.
type Membership int

const (
	MembershipAny Membership = iota
	MembershipIn
	MembershipOut
)

func (m Membership) String() string {
	switch m {
	case MembershipAny:
		return "ANY"
	case MembershipIn:
		return "IN"
	case MembershipOut:
		return "OUT"
	default:
		return fmt.Sprintf("Membership(%d)", int(m))
	}
}

// ParseMembership accepts "any", "in", "out" (or "selected"/"deselected"/"all"), case-insensitive.
func ParseMembership(s string) (Membership, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return MembershipAny, nil
	case "in", "selected":
		return MembershipIn, nil
	case "out", "deselected":
		return MembershipOut, nil
	default:
		return MembershipAny, fmt.Errorf("unknown membership %q", s)
	}
}

// GroupMembershipQuery filters the groups listed for one user.
type GroupMembershipQuery struct {
	Membership  Membership
	GroupSearch string
}

// UserMembershipQuery filters the users listed for one group.
type UserMembershipQuery struct {
	GroupID      int64
	Membership   Membership
	MemberSearch string
}

type GetPropertyParams struct {
	Key         string
	ComponentID *uuid.UUID
}

type ListPropertySetRowsParams struct {
	Key         string
	ComponentID *uuid.UUID
}

type ListPropertiesByKeysParams struct {
	Keys        []string
	ComponentID *uuid.UUID
}

type SelectGroupsParams struct {
	Query  GroupMembershipQuery
	UserID int64
	Offset int32
	Limit  int32
}

type CountGroupsParams struct {
	Query  GroupMembershipQuery
	UserID int64
}

type SelectMembersParams struct {
	Query  UserMembershipQuery
	Offset int32
	Limit  int32
}

// containsPattern returns an upper-cased LIKE pattern matching s anywhere,
// with LIKE wildcards in s escaped by '/'.
func containsPattern(s string) string {
	escaped := strings.NewReplacer("/", "//", "%", "/%", "_", "/_").Replace(strings.ToUpper(s))
	return "%" + escaped + "%"
}

// prefixPattern returns a LIKE pattern matching keys that start with prefix.
func prefixPattern(prefix string) string {
	return strings.NewReplacer("/", "//", "%", "/%", "_", "/_").Replace(prefix) + "%"
}
