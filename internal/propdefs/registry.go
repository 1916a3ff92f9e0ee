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
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyKey     = errors.New("property definition key is empty")
	ErrDuplicateKey = errors.New("duplicate property definition key")
)

// Registry is a read-only set of definitions indexed by key.
// It is safe for concurrent use once built.
type Registry struct {
	keys []string
	defs map[string]*Definition
}

// NewRegistry builds a registry from defs, keeping declaration order.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		keys: make([]string, 0, len(defs)),
		defs: make(map[string]*Definition, len(defs)),
	}
	for i := range defs {
		def := defs[i]
		def.Key = strings.TrimSpace(def.Key)
		if def.Key == "" {
			return nil, fmt.Errorf("definition %d: %w", i, ErrEmptyKey)
		}
		if _, exists := r.defs[def.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, def.Key)
		}
		def.Fields = slices.Clone(def.Fields)
		r.defs[def.Key] = &def
		r.keys = append(r.keys, def.Key)
	}
	return r, nil
}

// Get returns the definition for key. The returned value must not be modified.
func (r *Registry) Get(key string) (*Definition, bool) {
	if r == nil {
		return nil, false
	}
	def, ok := r.defs[key]
	return def, ok
}

// Keys returns the defined keys in declaration order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.keys)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}
