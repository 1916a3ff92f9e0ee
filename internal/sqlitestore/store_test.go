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
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/propstore/configdb"
	"github.com/cardinalhq/propstore/internal/groupmembership"
	"github.com/cardinalhq/propstore/internal/largeinput"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func exec(t *testing.T, s *Store, query string, args ...any) {
	t.Helper()
	_, err := s.DB().ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

// seedMembership creates groups admins(1), devs(2), ops(3) and users
// alice(1), bob(2), carol(3, inactive), dave(4).
func seedMembership(t *testing.T, s *Store) {
	t.Helper()
	for _, g := range []string{"admins", "devs", "ops"} {
		exec(t, s, "INSERT INTO groups (name, description) VALUES (?, ?)", g, g+" group")
	}
	exec(t, s, "INSERT INTO users (login, name, active) VALUES ('alice', 'Alice A', TRUE)")
	exec(t, s, "INSERT INTO users (login, name, active) VALUES ('bob', 'Bob B', TRUE)")
	exec(t, s, "INSERT INTO users (login, name, active) VALUES ('carol', 'Carol C', FALSE)")
	exec(t, s, "INSERT INTO users (login, name, active) VALUES ('dave', NULL, TRUE)")
	for _, gu := range [][2]int{{1, 1}, {2, 1}, {2, 2}, {2, 3}, {3, 2}} {
		exec(t, s, "INSERT INTO groups_users (group_id, user_id) VALUES (?, ?)", gu[0], gu[1])
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestOpen_FileIsReopenable(t *testing.T) {
	path := t.TempDir() + "/props.db"
	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	exec(t, s, "INSERT INTO properties (prop_key, text_value) VALUES ('a', 'b')")
	require.NoError(t, s.Close())

	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	p, err := s.GetProperty(context.Background(), configdb.GetPropertyParams{Key: "a"})
	require.NoError(t, err)
	require.NotNil(t, p.Value)
	assert.Equal(t, "b", *p.Value)
}

func TestProperties(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	component := uuid.New()

	exec(t, s, "INSERT INTO properties (prop_key, text_value) VALUES ('sonar.a', 'global')")
	exec(t, s, "INSERT INTO properties (prop_key, component_uuid, text_value) VALUES ('sonar.a', ?, 'scoped')", component.String())
	exec(t, s, "INSERT INTO properties (prop_key, user_id, text_value) VALUES ('sonar.a', 7, 'user')")
	exec(t, s, "INSERT INTO properties (prop_key, text_value) VALUES ('sonar.empty', NULL)")
	exec(t, s, "INSERT INTO properties (prop_key, text_value) VALUES ('foo.2.name', 'b')")
	exec(t, s, "INSERT INTO properties (prop_key, text_value) VALUES ('foo.1.name', 'a')")
	exec(t, s, "INSERT INTO properties (prop_key, text_value) VALUES ('foox.1.name', 'no')")
	exec(t, s, "INSERT INTO properties (prop_key, text_value) VALUES ('foo_1.name', 'no')")

	t.Run("global", func(t *testing.T) {
		p, err := s.GetProperty(ctx, configdb.GetPropertyParams{Key: "sonar.a"})
		require.NoError(t, err)
		assert.Nil(t, p.ComponentID)
		assert.Equal(t, "global", *p.Value)
	})

	t.Run("component", func(t *testing.T) {
		p, err := s.GetProperty(ctx, configdb.GetPropertyParams{Key: "sonar.a", ComponentID: &component})
		require.NoError(t, err)
		require.NotNil(t, p.ComponentID)
		assert.Equal(t, component, *p.ComponentID)
		assert.Equal(t, "scoped", *p.Value)
	})

	t.Run("null value", func(t *testing.T) {
		p, err := s.GetProperty(ctx, configdb.GetPropertyParams{Key: "sonar.empty"})
		require.NoError(t, err)
		assert.Nil(t, p.Value)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.GetProperty(ctx, configdb.GetPropertyParams{Key: "nope"})
		assert.ErrorIs(t, err, configdb.ErrNotFound)
	})

	t.Run("set rows", func(t *testing.T) {
		rows, err := s.ListPropertySetRows(ctx, configdb.ListPropertySetRowsParams{Key: "foo"})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "foo.2.name", rows[0].Key)
		assert.Equal(t, "foo.1.name", rows[1].Key)
	})

	t.Run("by keys", func(t *testing.T) {
		rows, err := s.ListPropertiesByKeys(ctx, configdb.ListPropertiesByKeysParams{
			Keys: []string{"sonar.a", "sonar.empty", "unknown"},
		})
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "sonar.a", rows[0].Key)
		assert.Equal(t, "sonar.empty", rows[1].Key)

		rows, err = s.ListPropertiesByKeys(ctx, configdb.ListPropertiesByKeysParams{
			Keys:        []string{"sonar.a"},
			ComponentID: &component,
		})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "scoped", *rows[0].Value)
	})
}

func TestSelectGroups(t *testing.T) {
	s := openTestStore(t)
	seedMembership(t, s)
	ctx := context.Background()

	all, err := s.SelectGroups(ctx, configdb.SelectGroupsParams{UserID: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "admins", all[0].Name)
	require.NotNil(t, all[0].UserID)
	assert.Equal(t, int64(1), *all[0].UserID)
	assert.Nil(t, all[2].UserID)

	in, err := s.SelectGroups(ctx, configdb.SelectGroupsParams{
		Query:  configdb.GroupMembershipQuery{Membership: configdb.MembershipIn},
		UserID: 2, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, in, 2)
	assert.Equal(t, "devs", in[0].Name)
	assert.Equal(t, "ops", in[1].Name)

	n, err := s.CountGroups(ctx, configdb.CountGroupsParams{
		Query:  configdb.GroupMembershipQuery{Membership: configdb.MembershipOut, GroupSearch: "S"},
		UserID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	page, err := s.SelectGroups(ctx, configdb.SelectGroupsParams{UserID: 1, Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "devs", page[0].Name)
}

func TestSelectMembers(t *testing.T) {
	s := openTestStore(t)
	seedMembership(t, s)
	ctx := context.Background()

	q := configdb.UserMembershipQuery{GroupID: 2, Membership: configdb.MembershipIn}
	members, err := s.SelectMembers(ctx, configdb.SelectMembersParams{Query: q, Limit: 10})
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Login)
	assert.Equal(t, "bob", members[1].Login)

	n, err := s.CountMembers(ctx, configdb.UserMembershipQuery{GroupID: 1, Membership: configdb.MembershipOut})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.CountMembers(ctx, configdb.UserMembershipQuery{GroupID: 1, MemberSearch: "bob b"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.CountMembers(ctx, configdb.UserMembershipQuery{GroupID: 1, MemberSearch: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBatchedLookupsThroughDao(t *testing.T) {
	s := openTestStore(t)
	seedMembership(t, s)
	ctx := context.Background()
	dao := groupmembership.NewDao(s, largeinput.Options{MaxChunkSize: 2, Parallelism: 1})

	groups, err := dao.SelectGroupsByIDs(ctx, []int64{3, 1, 2, 99})
	require.NoError(t, err)
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"admins", "devs", "ops"}, names)

	counts, err := dao.CountUsersByGroups(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"admins": 1, "devs": 3, "ops": 1}, counts)

	byLogin, err := dao.SelectGroupsByLogins(ctx, []string{"alice", "bob", "nobody"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, byLogin.Keys())
	assert.Equal(t, []string{"admins", "devs"}, byLogin.Get("alice"))
	assert.Equal(t, []string{"devs", "ops"}, byLogin.Get("bob"))
}

func groupNames(groups []configdb.Group) []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

func TestBatchedLookups_MatchUnboundedQuery(t *testing.T) {
	s := openTestStore(t)
	seedMembership(t, s)
	ctx := context.Background()
	unbounded := groupmembership.NewDao(s, largeinput.Options{MaxChunkSize: 10})
	chunked := groupmembership.NewDao(s, largeinput.Options{MaxChunkSize: 2})
	parallel := groupmembership.NewDao(s, largeinput.Options{MaxChunkSize: 1, Parallelism: 3})

	ids := []int64{2, 1, 2, 3, 1}
	logins := []string{"bob", "alice", "bob", "alice", "dave"}

	wantGroups, err := unbounded.SelectGroupsByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"admins", "devs", "ops"}, groupNames(wantGroups))

	wantCounts, err := unbounded.CountUsersByGroups(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"admins": 1, "devs": 3, "ops": 1}, wantCounts)

	wantLogins, err := unbounded.SelectGroupsByLogins(ctx, logins)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, wantLogins.Keys())
	assert.Equal(t, []string{"admins", "devs"}, wantLogins.Get("alice"))

	for name, dao := range map[string]*groupmembership.Dao{"chunked": chunked, "parallel": parallel} {
		t.Run(name, func(t *testing.T) {
			groups, err := dao.SelectGroupsByIDs(ctx, ids)
			require.NoError(t, err)
			assert.Equal(t, wantGroups, groups)

			counts, err := dao.CountUsersByGroups(ctx, ids)
			require.NoError(t, err)
			assert.Equal(t, wantCounts, counts)

			byLogin, err := dao.SelectGroupsByLogins(ctx, logins)
			require.NoError(t, err)
			assert.Equal(t, wantLogins.Keys(), byLogin.Keys())
			for _, login := range wantLogins.Keys() {
				assert.Equal(t, wantLogins.Get(login), byLogin.Get(login), login)
			}
			assert.Equal(t, wantLogins.Size(), byLogin.Size())
		})
	}
}

func TestBatchedLookups_ManyIdentifiers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.DB().BeginTx(ctx, nil)
	require.NoError(t, err)
	for i := 1; i <= 2500; i++ {
		_, err := tx.ExecContext(ctx, "INSERT INTO groups (name) VALUES (?)", fmt.Sprintf("g%05d", i))
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())

	ids := make([]int64, 2500)
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	dao := groupmembership.NewDao(s, largeinput.Options{MaxChunkSize: s.MaxChunkSize()})

	groups, err := dao.SelectGroupsByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, groups, 2500)

	counts, err := dao.CountUsersByGroups(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, counts, 2500)
	assert.Equal(t, int64(0), counts["g00042"])
}

func TestMaxChunkSize_FitsVariableLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	component := uuid.New()
	exec(t, s, "INSERT INTO properties (prop_key, component_uuid, text_value) VALUES ('k00997', ?, 'v')", component.String())

	keys := make([]string, s.MaxChunkSize())
	for i := range keys {
		keys[i] = fmt.Sprintf("k%05d", i)
	}
	params := configdb.ListPropertiesByKeysParams{Keys: keys, ComponentID: &component}
	_, args := configdb.ListPropertiesByKeysSQL(configdb.SQLite, params)
	assert.LessOrEqual(t, len(args), sqliteMaxVariables)

	rows, err := s.ListPropertiesByKeys(ctx, params)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "k00997", rows[0].Key)
}

func TestNormalizeArgs(t *testing.T) {
	id := uuid.MustParse("6f1c1f0e-2c35-4e0b-9d4d-9a8f5c3b2a10")
	var nilID *uuid.UUID
	got := normalizeArgs([]any{"k", &id, nilID, id, int32(3)})
	assert.Equal(t, []any{"k", id.String(), nil, id.String(), int32(3)}, got)
}
