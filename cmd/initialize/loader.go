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

// Package initialize loads users, groups and properties from YAML into a store.
package initialize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cardinalhq/propstore/configdb"
	"github.com/cardinalhq/propstore/internal/logctx"
)

// FileReader interface for testable file operations
type FileReader interface {
	ReadFile(filename string) ([]byte, error)
	Getenv(key string) string
}

// OSFileReader implements FileReader using OS operations
type OSFileReader struct{}

func (r OSFileReader) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

func (r OSFileReader) Getenv(key string) string {
	return os.Getenv(key)
}

// LoadFixtures reads and parses filename. A filename of the form "env:NAME"
// reads the document from that environment variable.
func LoadFixtures(filename string, fileReader FileReader) (Fixtures, error) {
	var contents []byte
	if envVar, ok := strings.CutPrefix(filename, "env:"); ok {
		envContents := fileReader.Getenv(envVar)
		if envContents == "" {
			return Fixtures{}, fmt.Errorf("environment variable %s is not set", envVar)
		}
		contents = []byte(envContents)
	} else {
		var err error
		contents, err = fileReader.ReadFile(filename)
		if err != nil {
			return Fixtures{}, fmt.Errorf("failed to read file %s: %w", filename, err)
		}
	}

	var f Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(contents))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Fixtures{}, fmt.Errorf("failed to parse fixtures YAML: %w", err)
	}
	return f, nil
}

// Import writes f through w: users first, then groups with their members,
// then properties. Unknown member logins fail the import.
func Import(ctx context.Context, f Fixtures, w configdb.FixtureWriter) error {
	ll := logctx.FromContext(ctx)

	userIDs := make(map[string]int64, len(f.Users))
	for i, u := range f.Users {
		login := strings.TrimSpace(u.Login)
		if login == "" {
			return fmt.Errorf("user %d: login is required", i)
		}
		active := true
		if u.Active != nil {
			active = *u.Active
		}
		id, err := w.UpsertUser(ctx, configdb.InsertUserParams{Login: login, Name: u.Name, Active: active})
		if err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", login, err)
		}
		userIDs[login] = id
	}

	memberships := 0
	for i, g := range f.Groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return fmt.Errorf("group %d: name is required", i)
		}
		groupID, err := w.UpsertGroup(ctx, configdb.InsertGroupParams{Name: name, Description: g.Description})
		if err != nil {
			return fmt.Errorf("failed to upsert group %s: %w", name, err)
		}
		for _, login := range g.Members {
			userID, ok := userIDs[strings.TrimSpace(login)]
			if !ok {
				return fmt.Errorf("group %s: unknown member %q", name, login)
			}
			if err := w.AddGroupMember(ctx, configdb.AddGroupMemberParams{GroupID: groupID, UserID: userID}); err != nil {
				return fmt.Errorf("failed to add %s to group %s: %w", login, name, err)
			}
			memberships++
		}
	}

	for i, p := range f.Properties {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			return fmt.Errorf("property %d: key is required", i)
		}
		if _, err := w.InsertProperty(ctx, configdb.InsertPropertyParams{
			Key:         key,
			ComponentID: p.Component,
			Value:       p.Value,
		}); err != nil {
			return fmt.Errorf("failed to insert property %s: %w", key, err)
		}
	}

	ll.Info("Imported fixtures",
		slog.Int("users", len(f.Users)),
		slog.Int("groups", len(f.Groups)),
		slog.Int("memberships", memberships),
		slog.Int("properties", len(f.Properties)))
	return nil
}
