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

	"github.com/google/uuid"
)

type InsertPropertyParams struct {
	Key         string
	ComponentID *uuid.UUID
	Value       *string
}

type InsertUserParams struct {
	Login  string
	Name   *string
	Active bool
}

type InsertGroupParams struct {
	Name        string
	Description *string
}

type AddGroupMemberParams struct {
	GroupID int64
	UserID  int64
}

// FixtureWriter loads rows for bootstrapping and tests. Users and groups are
// upserted by their unique name and return the row id.
type FixtureWriter interface {
	InsertProperty(ctx context.Context, arg InsertPropertyParams) (int64, error)
	UpsertUser(ctx context.Context, arg InsertUserParams) (int64, error)
	UpsertGroup(ctx context.Context, arg InsertGroupParams) (int64, error)
	AddGroupMember(ctx context.Context, arg AddGroupMemberParams) error
}

var _ FixtureWriter = (*Queries)(nil)

func InsertPropertySQL(d Dialect, p InsertPropertyParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("INSERT INTO properties (prop_key, component_uuid, text_value) VALUES (",
		b.arg(p.Key), ", ", b.arg(p.ComponentID), ", ", b.arg(p.Value), ") RETURNING id")
	return b.build()
}

func UpsertUserSQL(d Dialect, p InsertUserParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("INSERT INTO users (login, name, active) VALUES (",
		b.arg(p.Login), ", ", b.arg(p.Name), ", ", b.arg(p.Active), ")")
	b.write(" ON CONFLICT (login) DO UPDATE SET name = excluded.name, active = excluded.active RETURNING id")
	return b.build()
}

func UpsertGroupSQL(d Dialect, p InsertGroupParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("INSERT INTO groups (name, description) VALUES (", b.arg(p.Name), ", ", b.arg(p.Description), ")")
	b.write(" ON CONFLICT (name) DO UPDATE SET description = excluded.description RETURNING id")
	return b.build()
}

func AddGroupMemberSQL(d Dialect, p AddGroupMemberParams) (string, []any) {
	b := newSQLBuilder(d)
	b.write("INSERT INTO groups_users (group_id, user_id) VALUES (", b.arg(p.GroupID), ", ", b.arg(p.UserID), ")")
	b.write(" ON CONFLICT (group_id, user_id) DO NOTHING")
	return b.build()
}

func (q *Queries) InsertProperty(ctx context.Context, arg InsertPropertyParams) (int64, error) {
	query, args := InsertPropertySQL(Postgres, arg)
	return q.returningID(ctx, query, args)
}

func (q *Queries) UpsertUser(ctx context.Context, arg InsertUserParams) (int64, error) {
	query, args := UpsertUserSQL(Postgres, arg)
	return q.returningID(ctx, query, args)
}

func (q *Queries) UpsertGroup(ctx context.Context, arg InsertGroupParams) (int64, error) {
	query, args := UpsertGroupSQL(Postgres, arg)
	return q.returningID(ctx, query, args)
}

func (q *Queries) AddGroupMember(ctx context.Context, arg AddGroupMemberParams) error {
	query, args := AddGroupMemberSQL(Postgres, arg)
	_, err := q.db.Exec(ctx, query, args...)
	return err
}

func (q *Queries) returningID(ctx context.Context, query string, args []any) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, query, args...).Scan(&id)
	return id, err
}
