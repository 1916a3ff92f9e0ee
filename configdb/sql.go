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
	"strconv"
	"strings"
)

// Dialect selects placeholder and list syntax for the generated SQL.
type Dialect int

const (
	// Postgres uses $n placeholders and passes identifier lists as one array parameter.
	Postgres Dialect = iota
	// SQLite uses ? placeholders and expands identifier lists to one parameter per element.
	SQLite
)

// sqlBuilder accumulates a statement and its positional arguments.
type sqlBuilder struct {
	dialect Dialect
	sb      strings.Builder
	args    []any
}

func newSQLBuilder(d Dialect) *sqlBuilder {
	return &sqlBuilder{dialect: d}
}

func (b *sqlBuilder) write(parts ...string) *sqlBuilder {
	for _, p := range parts {
		b.sb.WriteString(p)
	}
	return b
}

// arg binds v and returns its placeholder.
func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	if b.dialect == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(len(b.args))
}

// nullSafeEq writes "column = v" where a NULL v matches NULL column values.
func (b *sqlBuilder) nullSafeEq(column string, v any) *sqlBuilder {
	if b.dialect == SQLite {
		return b.write(column, " IS ", b.arg(v))
	}
	return b.write(column, " IS NOT DISTINCT FROM ", b.arg(v))
}

func (b *sqlBuilder) build() (string, []any) {
	return b.sb.String(), b.args
}

// writeIn writes "column IN (values)" for the builder's dialect.
func writeIn[T any](b *sqlBuilder, column string, values []T) {
	if b.dialect == Postgres {
		b.write(column, " = ANY(", b.arg(values), ")")
		return
	}
	b.write(column, " IN (")
	for i, v := range values {
		if i > 0 {
			b.write(", ")
		}
		b.write(b.arg(v))
	}
	b.write(")")
}

func GetPropertySQL(d Dialect, p GetPropertyParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT id, prop_key, component_uuid, text_value FROM properties WHERE prop_key = ", b.arg(p.Key))
	b.write(" AND user_id IS NULL AND ")
	b.nullSafeEq("component_uuid", p.ComponentID)
	b.write(" ORDER BY id LIMIT 1")
	return b.build()
}

// ListPropertySetRowsSQL selects the rows stored under "<key>." in insertion order.
func ListPropertySetRowsSQL(d Dialect, p ListPropertySetRowsParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT id, prop_key, component_uuid, text_value FROM properties WHERE prop_key LIKE ",
		b.arg(prefixPattern(p.Key+".")), " ESCAPE '/'")
	b.write(" AND user_id IS NULL AND ")
	b.nullSafeEq("component_uuid", p.ComponentID)
	b.write(" ORDER BY id")
	return b.build()
}

func ListPropertiesByKeysSQL(d Dialect, p ListPropertiesByKeysParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT id, prop_key, component_uuid, text_value FROM properties WHERE ")
	writeIn(b, "prop_key", p.Keys)
	b.write(" AND user_id IS NULL AND ")
	b.nullSafeEq("component_uuid", p.ComponentID)
	b.write(" ORDER BY id")
	return b.build()
}

func groupMembershipFrom(b *sqlBuilder, q GroupMembershipQuery, userID int64) {
	b.write(" FROM groups g LEFT JOIN groups_users gu ON gu.group_id = g.id AND gu.user_id = ", b.arg(userID))
	b.write(" WHERE 1 = 1")
	switch q.Membership {
	case MembershipIn:
		b.write(" AND gu.user_id IS NOT NULL")
	case MembershipOut:
		b.write(" AND gu.user_id IS NULL")
	}
	if q.GroupSearch != "" {
		b.write(" AND UPPER(g.name) LIKE ", b.arg(containsPattern(q.GroupSearch)), " ESCAPE '/'")
	}
}

func SelectGroupsSQL(d Dialect, p SelectGroupsParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT g.id, g.name, g.description, gu.user_id")
	groupMembershipFrom(b, p.Query, p.UserID)
	b.write(" ORDER BY g.name LIMIT ", b.arg(p.Limit), " OFFSET ", b.arg(p.Offset))
	return b.build()
}

func CountGroupsSQL(d Dialect, p CountGroupsParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT COUNT(g.id)")
	groupMembershipFrom(b, p.Query, p.UserID)
	return b.build()
}

func userMembershipFrom(b *sqlBuilder, q UserMembershipQuery) {
	b.write(" FROM users u LEFT JOIN groups_users gu ON gu.user_id = u.id AND gu.group_id = ", b.arg(q.GroupID))
	b.write(" WHERE u.active = TRUE")
	switch q.Membership {
	case MembershipIn:
		b.write(" AND gu.group_id IS NOT NULL")
	case MembershipOut:
		b.write(" AND gu.group_id IS NULL")
	}
	if q.MemberSearch != "" {
		pattern := containsPattern(q.MemberSearch)
		b.write(" AND (UPPER(u.login) LIKE ", b.arg(pattern), " ESCAPE '/'")
		b.write(" OR UPPER(u.name) LIKE ", b.arg(pattern), " ESCAPE '/')")
	}
}

func SelectMembersSQL(d Dialect, p SelectMembersParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT u.id, u.login, u.name, gu.group_id")
	userMembershipFrom(b, p.Query)
	b.write(" ORDER BY u.name, u.login LIMIT ", b.arg(p.Limit), " OFFSET ", b.arg(p.Offset))
	return b.build()
}

func CountMembersSQL(d Dialect, q UserMembershipQuery) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT COUNT(u.id)")
	userMembershipFrom(b, q)
	return b.build()
}

func SelectGroupsByIDsSQL(d Dialect, ids []int64) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT id, name, description FROM groups WHERE ")
	writeIn(b, "id", ids)
	b.write(" ORDER BY name")
	return b.build()
}

func CountUsersByGroupSQL(d Dialect, groupIDs []int64) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT g.name, COUNT(gu.user_id) FROM groups g LEFT JOIN groups_users gu ON gu.group_id = g.id WHERE ")
	writeIn(b, "g.id", groupIDs)
	b.write(" GROUP BY g.name ORDER BY g.name")
	return b.build()
}

func SelectGroupsByLoginsSQL(d Dialect, logins []string) (string, []any) {
	b := newSQLBuilder(d)
	b.write("SELECT u.login, g.name FROM groups_users gu" +
		" INNER JOIN users u ON u.id = gu.user_id" +
		" INNER JOIN groups g ON g.id = gu.group_id WHERE ")
	writeIn(b, "u.login", logins)
	b.write(" ORDER BY u.login, g.name, g.created_at")
	return b.build()
}

func ScanProperty(r RowScanner) (Property, error) {
	var p Property
	err := r.Scan(&p.ID, &p.Key, &p.ComponentID, &p.Value)
	return p, err
}

func ScanGroup(r RowScanner) (Group, error) {
	var g Group
	err := r.Scan(&g.ID, &g.Name, &g.Description)
	return g, err
}

func ScanGroupMembership(r RowScanner) (GroupMembership, error) {
	var g GroupMembership
	err := r.Scan(&g.ID, &g.Name, &g.Description, &g.UserID)
	return g, err
}

func ScanUserMembership(r RowScanner) (UserMembership, error) {
	var u UserMembership
	err := r.Scan(&u.ID, &u.Login, &u.Name, &u.GroupID)
	return u, err
}

func ScanGroupUserCount(r RowScanner) (GroupUserCount, error) {
	var c GroupUserCount
	err := r.Scan(&c.GroupName, &c.UserCount)
	return c, err
}

func ScanLoginGroup(r RowScanner) (LoginGroup, error) {
	var l LoginGroup
	err := r.Scan(&l.Login, &l.GroupName)
	return l, err
}
