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

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/propstore/config"
	"github.com/cardinalhq/propstore/configdb"
	"github.com/cardinalhq/propstore/internal/groupmembership"
)

type pageFlags struct {
	membership string
	search     string
	offset     int32
	limit      int32
}

func (p *pageFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&p.membership, "membership", "any", "Membership filter: any, in or out")
	c.Flags().StringVar(&p.search, "search", "", "Case-insensitive substring filter")
	c.Flags().Int32Var(&p.offset, "offset", 0, "Rows to skip")
	c.Flags().Int32Var(&p.limit, "limit", 100, "Maximum rows to return")
}

func init() {
	groupsCmd := &cobra.Command{
		Use:   "groups",
		Short: "Query groups and their members",
	}

	var (
		userID    int64
		listPage  pageFlags
		groupID   int64
		memberPg  pageFlags
		countIDs  string
		loginList string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List groups with the user's membership flag",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCommand("groups.list", func(ctx context.Context) error {
				return withDao(ctx, func(dao *groupmembership.Dao) error {
					membership, err := configdb.ParseMembership(listPage.membership)
					if err != nil {
						return err
					}
					q := configdb.GroupMembershipQuery{Membership: membership, GroupSearch: listPage.search}
					total, err := dao.CountGroups(ctx, q, userID)
					if err != nil {
						return err
					}
					groups, err := dao.SelectGroups(ctx, q, userID, listPage.offset, listPage.limit)
					if err != nil {
						return err
					}
					return writeYAML(os.Stdout, map[string]any{"total": total, "groups": groups})
				})
			})
		},
	}
	listCmd.Flags().Int64Var(&userID, "user", 0, "User id whose membership is shown")
	listPage.register(listCmd)

	membersCmd := &cobra.Command{
		Use:   "members",
		Short: "List active users with their membership of a group",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCommand("groups.members", func(ctx context.Context) error {
				return withDao(ctx, func(dao *groupmembership.Dao) error {
					membership, err := configdb.ParseMembership(memberPg.membership)
					if err != nil {
						return err
					}
					q := configdb.UserMembershipQuery{GroupID: groupID, Membership: membership, MemberSearch: memberPg.search}
					total, err := dao.CountMembers(ctx, q)
					if err != nil {
						return err
					}
					members, err := dao.SelectMembers(ctx, q, memberPg.offset, memberPg.limit)
					if err != nil {
						return err
					}
					return writeYAML(os.Stdout, map[string]any{"total": total, "members": members})
				})
			})
		},
	}
	membersCmd.Flags().Int64Var(&groupID, "group", 0, "Group id (required)")
	memberPg.register(membersCmd)
	_ = membersCmd.MarkFlagRequired("group")

	countCmd := &cobra.Command{
		Use:   "count-users",
		Short: "Count members of each group",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCommand("groups.count_users", func(ctx context.Context) error {
				ids, err := parseIDs(splitList(countIDs))
				if err != nil {
					return err
				}
				return withDao(ctx, func(dao *groupmembership.Dao) error {
					counts, err := dao.CountUsersByGroups(ctx, ids)
					if err != nil {
						return err
					}
					return writeYAML(os.Stdout, counts)
				})
			})
		},
	}
	countCmd.Flags().StringVar(&countIDs, "ids", "", "Comma-separated group ids (required)")
	_ = countCmd.MarkFlagRequired("ids")

	byLoginCmd := &cobra.Command{
		Use:   "by-login",
		Short: "List the group names of each login",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCommand("groups.by_login", func(ctx context.Context) error {
				return withDao(ctx, func(dao *groupmembership.Dao) error {
					groups, err := dao.SelectGroupsByLogins(ctx, splitList(loginList))
					if err != nil {
						return err
					}
					out := make(map[string][]string, groups.Len())
					for login, names := range groups.All() {
						out[login] = names
					}
					return writeYAML(os.Stdout, out)
				})
			})
		},
	}
	byLoginCmd.Flags().StringVar(&loginList, "logins", "", "Comma-separated user logins (required)")
	_ = byLoginCmd.MarkFlagRequired("logins")

	groupsCmd.AddCommand(listCmd, membersCmd, countCmd, byLoginCmd)
	rootCmd.AddCommand(groupsCmd)
}

func withDao(ctx context.Context, fn func(dao *groupmembership.Dao) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()
	return fn(groupmembership.NewDao(store, cfg.Batch.Options(store.MaxChunkSize())))
}

func parseIDs(values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
