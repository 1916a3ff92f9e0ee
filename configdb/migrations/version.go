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

package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardinalhq/propstore/migrations"
)

// LatestVersion returns the highest version among the embedded migrations.
func LatestVersion() (uint, error) {
	return latestVersion(migrationFiles)
}

func latestVersion(files fs.ReadDirFS) (uint, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return 0, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var maxVersion uint
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		prefix, _, _ := strings.Cut(name, "_")
		version, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		maxVersion = max(maxVersion, uint(version))
	}

	if maxVersion == 0 {
		return 0, fmt.Errorf("no valid migration files found")
	}
	return maxVersion, nil
}

// CheckVersion compares the applied schema version with the embedded one.
// In wait mode it polls until they match or the timeout passes; in warn mode
// a mismatch is logged and ignored; skip mode returns immediately.
func CheckVersion(ctx context.Context, pool *pgxpool.Pool, opts ...migrations.CheckOption) error {
	options := migrations.Apply(opts...)
	if options.Mode == migrations.CheckModeSkip {
		slog.DebugContext(ctx, "configdb migration check skipped")
		return nil
	}

	expected, err := LatestVersion()
	if err != nil {
		return err
	}

	return waitForVersion(ctx, expected, options, func() (uint, bool, error) {
		return currentVersion(pool)
	})
}

func waitForVersion(ctx context.Context, expected uint, options migrations.CheckOptions, current func() (uint, bool, error)) error {
	deadline := time.Now().Add(options.Timeout)
	ticker := time.NewTicker(options.RetryInterval)
	defer ticker.Stop()

	for {
		version, dirty, err := current()
		if err != nil {
			return err
		}

		mismatch := checkVersion(version, dirty, expected, options.AllowDirty)
		if mismatch == nil {
			slog.InfoContext(ctx, "configdb migration version check passed", slog.Uint64("version", uint64(version)))
			return nil
		}

		if options.Mode == migrations.CheckModeWarn {
			slog.WarnContext(ctx, "configdb migration version mismatch", slog.Any("error", mismatch))
			return nil
		}

		if version > expected || (dirty && !options.AllowDirty) || time.Now().After(deadline) {
			return mismatch
		}

		slog.InfoContext(ctx, "waiting for configdb migrations",
			slog.Uint64("current_version", uint64(version)),
			slog.Uint64("expected_version", uint64(expected)),
			slog.Duration("remaining_timeout", time.Until(deadline)))

		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for configdb migrations: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func checkVersion(version uint, dirty bool, expected uint, allowDirty bool) error {
	switch {
	case dirty && !allowDirty:
		return fmt.Errorf("configdb migration is in dirty state at version %d", version)
	case version > expected:
		return fmt.Errorf("configdb version %d is newer than expected version %d", version, expected)
	case version < expected:
		return fmt.Errorf("configdb version %d is older than expected version %d", version, expected)
	}
	return nil
}
