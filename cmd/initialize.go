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

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/cardinalhq/propstore/cmd/initialize"
	"github.com/cardinalhq/propstore/config"
	"github.com/cardinalhq/propstore/configdb"
)

func init() {
	var fixturesFile string

	initializeCmd := &cobra.Command{
		Use:   "initialize",
		Short: "Load users, groups and properties from a YAML file",
		Long: `Load users, groups and properties from a YAML fixtures file.

Users and groups are upserted by login and name. Properties are always
inserted. Against PostgreSQL the whole file is loaded in one transaction.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCommand("initialize", func(ctx context.Context) error {
				return runInitialize(ctx, fixturesFile)
			})
		},
	}

	initializeCmd.Flags().StringVarP(&fixturesFile, "file", "f", "", "Path to the fixtures YAML file, or env:NAME (required)")
	if err := initializeCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(initializeCmd)
}

func runInitialize(ctx context.Context, fixturesFile string) error {
	fixtures, err := initialize.LoadFixtures(fixturesFile, initialize.OSFileReader{})
	if err != nil {
		return err
	}

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

	if pg, ok := store.(*configdb.Store); ok {
		return pgx.BeginFunc(ctx, pg.Pool(), func(tx pgx.Tx) error {
			return initialize.Import(ctx, fixtures, pg.WithTx(tx))
		})
	}
	return initialize.Import(ctx, fixtures, store)
}
