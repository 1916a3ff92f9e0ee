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

// Package groupmembership lists groups and their members, batching
// identifier-list lookups that may exceed the store's parameter limit.
package groupmembership

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/cardinalhq/propstore/configdb"
	"github.com/cardinalhq/propstore/internal/largeinput"
	"github.com/cardinalhq/propstore/internal/logctx"
)

// ErrInvalidPage is returned for a negative offset or limit.
var ErrInvalidPage = errors.New("offset and limit must not be negative")

type Dao struct {
	querier configdb.MembershipQuerier
	opts    largeinput.Options
}

func NewDao(querier configdb.MembershipQuerier, opts largeinput.Options) *Dao {
	return &Dao{querier: querier, opts: opts}
}

func checkPage(offset, limit int32) error {
	if offset < 0 || limit < 0 {
		return fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidPage, offset, limit)
	}
	return nil
}

// SelectGroups pages through groups filtered by userID's membership.
func (d *Dao) SelectGroups(ctx context.Context, query configdb.GroupMembershipQuery, userID int64, offset, limit int32) ([]configdb.GroupMembership, error) {
	if err := checkPage(offset, limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		return []configdb.GroupMembership{}, nil
	}
	groups, err := d.querier.SelectGroups(ctx, configdb.SelectGroupsParams{
		Query:  query,
		UserID: userID,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("select groups for user %d: %w", userID, err)
	}
	if groups == nil {
		groups = []configdb.GroupMembership{}
	}
	return groups, nil
}

func (d *Dao) CountGroups(ctx context.Context, query configdb.GroupMembershipQuery, userID int64) (int64, error) {
	n, err := d.querier.CountGroups(ctx, configdb.CountGroupsParams{Query: query, UserID: userID})
	if err != nil {
		return 0, fmt.Errorf("count groups for user %d: %w", userID, err)
	}
	return n, nil
}

// SelectMembers pages through active users filtered by membership of query.GroupID.
func (d *Dao) SelectMembers(ctx context.Context, query configdb.UserMembershipQuery, offset, limit int32) ([]configdb.UserMembership, error) {
	if err := checkPage(offset, limit); err != nil {
		return nil, err
	}
	if limit == 0 {
		return []configdb.UserMembership{}, nil
	}
	members, err := d.querier.SelectMembers(ctx, configdb.SelectMembersParams{
		Query:  query,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("select members of group %d: %w", query.GroupID, err)
	}
	if members == nil {
		members = []configdb.UserMembership{}
	}
	return members, nil
}

func (d *Dao) CountMembers(ctx context.Context, query configdb.UserMembershipQuery) (int64, error) {
	n, err := d.querier.CountMembers(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count members of group %d: %w", query.GroupID, err)
	}
	return n, nil
}

// SelectGroupsByIDs returns the groups with the given ids ordered by name.
// Repeated ids match once.
func (d *Dao) SelectGroupsByIDs(ctx context.Context, ids []int64) ([]configdb.Group, error) {
	ids = distinct(ids)
	d.observe(ctx, largeinput.StrategyConcat, len(ids))
	groups, err := largeinput.Concat(ctx, ids, d.opts, d.querier.SelectGroupsByIDs)
	if err != nil {
		return nil, fmt.Errorf("select groups by id: %w", err)
	}
	// Each chunk is sorted on its own; restore the single-statement order.
	slices.SortStableFunc(groups, func(a, b configdb.Group) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return groups, nil
}

// CountUsersByGroups maps group name to the number of members across all
// of groupIDs. Repeated ids are counted once.
func (d *Dao) CountUsersByGroups(ctx context.Context, groupIDs []int64) (map[string]int64, error) {
	groupIDs = distinct(groupIDs)
	d.observe(ctx, largeinput.StrategySumByKey, len(groupIDs))
	counts, err := largeinput.SumByKey(ctx, groupIDs, d.opts, d.querier.CountUsersByGroup,
		func(c configdb.GroupUserCount) (string, int64) {
			return c.GroupName, c.UserCount
		})
	if err != nil {
		return nil, fmt.Errorf("count users by group: %w", err)
	}
	return counts, nil
}

// SelectGroupsByLogins maps each login to the names of its groups, with
// logins in ascending order. Logins without groups are absent.
func (d *Dao) SelectGroupsByLogins(ctx context.Context, logins []string) (*largeinput.Multimap[string, string], error) {
	// Sorted distinct logins put every login in one chunk and keep chunk
	// order equal to the statement's ORDER BY u.login.
	logins = distinct(logins)
	slices.Sort(logins)
	d.observe(ctx, largeinput.StrategyMultimap, len(logins))
	groups, err := largeinput.Accumulate(ctx, logins, d.opts, d.querier.SelectGroupsByLogins,
		func(lg configdb.LoginGroup) (string, string) {
			return lg.Login, lg.GroupName
		})
	if err != nil {
		return nil, fmt.Errorf("select groups by login: %w", err)
	}
	return groups, nil
}

// distinct returns items without repeats, keeping first occurrences in order.
// The result never aliases items.
func distinct[T comparable](items []T) []T {
	seen := mapset.NewThreadUnsafeSetWithSize[T](len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if seen.Add(item) {
			out = append(out, item)
		}
	}
	return out
}

func (d *Dao) observe(ctx context.Context, strategy largeinput.Strategy, items int) {
	chunks := d.opts.ChunkCount(items)
	recordChunks(ctx, strategy, chunks)
	logctx.FromContext(ctx).Debug("batched membership lookup",
		slog.String("strategy", strategy.String()),
		slog.Int("items", items),
		slog.Int("chunks", chunks))
}
