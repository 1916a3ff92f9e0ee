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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/cardinalhq/propstore/config"
	"github.com/cardinalhq/propstore/configdb"
	configdbmigrations "github.com/cardinalhq/propstore/configdb/migrations"
	"github.com/cardinalhq/propstore/internal/dbopen"
	"github.com/cardinalhq/propstore/internal/logctx"
	"github.com/cardinalhq/propstore/internal/sqlitestore"
)

var databases string

func init() {
	MigrateCmd.Flags().StringVar(&databases, "databases", "configdb", "Comma-separated list of databases to migrate (configdb,sqlite)")
	rootCmd.AddCommand(MigrateCmd)
}

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  "Run database migrations on specified databases. The sqlite target uses --sqlite or PROPSTORE_SQLITE_PATH.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runCommand("migrate", migrate)
	},
}

func migrate(ctx context.Context) error {
	ll := logctx.FromContext(ctx)
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var errs *multierror.Error
	for _, db := range splitList(databases) {
		switch strings.ToLower(db) {
		case "configdb":
			ll.Info("Running configdb migrations")
			if err := migrateconfigdb(ctx); err != nil {
				errs = multierror.Append(errs, fmt.Errorf("failed to migrate configdb: %w", err))
			} else {
				ll.Info("configdb migrations completed successfully")
			}
		case "sqlite":
			path := resolveSQLitePath(cfg)
			if path == "" {
				errs = multierror.Append(errs, errors.New("sqlite migration requested but no path is configured"))
				continue
			}
			ll.Info("Running sqlite migrations", slog.String("path", path))
			store, err := sqlitestore.Open(ctx, path)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("failed to migrate sqlite: %w", err))
				continue
			}
			_ = store.Close()
			ll.Info("sqlite migrations completed successfully")
		default:
			errs = multierror.Append(errs, fmt.Errorf("unknown database: %s", db))
		}
	}
	return errs.ErrorOrNil()
}

func migrateconfigdb(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	pool, err := configdb.ConnectToConfigDB(ctx, dbopen.SkipMigrationCheck())
	if err != nil {
		if errors.Is(err, dbopen.ErrDatabaseNotConfigured) {
			logctx.FromContext(ctx).Info("ConfigDB not configured, skipping migration")
			return nil
		}
		return err
	}
	defer pool.Close()
	return configdbmigrations.RunMigrationsUp(ctx, pool)
}
