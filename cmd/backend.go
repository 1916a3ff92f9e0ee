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
	"io"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/propstore/config"
	"github.com/cardinalhq/propstore/configdb"
	"github.com/cardinalhq/propstore/internal/dbopen"
	"github.com/cardinalhq/propstore/internal/logctx"
	"github.com/cardinalhq/propstore/internal/propdefs"
	"github.com/cardinalhq/propstore/internal/sqlitestore"
)

// backend is a store the commands can read from and load fixtures into.
type backend interface {
	configdb.Querier
	configdb.FixtureWriter
	MaxChunkSize() int
	Close() error
}

var (
	_ backend = (*configdb.Store)(nil)
	_ backend = (*sqlitestore.Store)(nil)
)

func resolveSQLitePath(cfg *config.Config) string {
	if sqlitePath != "" {
		return sqlitePath
	}
	return cfg.SQLite.Path
}

// openBackend opens SQLite when a path is configured and PostgreSQL otherwise.
func openBackend(ctx context.Context, cfg *config.Config, opts ...dbopen.Options) (backend, error) {
	ll := logctx.FromContext(ctx)
	if path := resolveSQLitePath(cfg); path != "" {
		ll.Debug("Opening SQLite store", slog.String("path", path))
		store, err := sqlitestore.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil
	}

	ll.Debug("Connecting to configdb")
	store, err := configdb.ConfigDBStore(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to configdb: %w", err)
	}
	return store, nil
}

func loadDefinitions(ctx context.Context, cfg *config.Config) (*propdefs.Registry, error) {
	file := definitionsFile
	if file == "" {
		file = cfg.Settings.DefinitionsFile
	}
	if file == "" {
		return propdefs.NewRegistry()
	}
	return propdefs.Load(ctx, file, propdefs.OSFileReader{})
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
