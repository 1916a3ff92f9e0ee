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

package propdefs

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

// Load reads a YAML list of definitions. A filename of the form "env:NAME"
// reads the YAML from environment variable NAME instead of a file.
func Load(ctx context.Context, filename string, reader FileReader) (*Registry, error) {
	ll := logctx.FromContext(ctx)

	contents, err := readContents(filename, reader)
	if err != nil {
		return nil, err
	}

	var defs []Definition
	dec := yaml.NewDecoder(bytes.NewReader(contents))
	dec.KnownFields(true)
	if err := dec.Decode(&defs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse property definitions from %s: %w", filename, err)
	}

	registry, err := NewRegistry(defs...)
	if err != nil {
		return nil, fmt.Errorf("invalid property definitions in %s: %w", filename, err)
	}

	ll.Info("Loaded property definitions",
		slog.String("source", filename),
		slog.Int("definitions", registry.Len()))
	return registry, nil
}

func readContents(filename string, reader FileReader) ([]byte, error) {
	if envVar, ok := strings.CutPrefix(filename, "env:"); ok {
		envContents := reader.Getenv(envVar)
		if envContents == "" {
			return nil, fmt.Errorf("environment variable %s is not set", envVar)
		}
		return []byte(envContents), nil
	}

	contents, err := reader.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return contents, nil
}
