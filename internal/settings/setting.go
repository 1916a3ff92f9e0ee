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

// Package settings assembles Setting records from persisted property rows.
//
// # Property sets
//
// A setting whose definition is a property set stores each field of each
// sub-record as its own row, keyed "<key>.<setID>.<fieldKey>". The parent row
// holds the scalar value. New regroups the field rows into an ordered list of
// PropertySet values, one per set id, in the order the set ids first appear.
//
// Malformed or duplicated field rows fail the whole build; nothing is dropped.
package settings

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardinalhq/propstore/internal/propdefs"
)

var (
	ErrMalformedPropertyKey   = errors.New("malformed property set key")
	ErrDuplicatePropertyField = errors.New("duplicate property set field")
	ErrMissingDefault         = errors.New("default setting requires a property definition")
	ErrEmptyKey               = errors.New("setting key is empty")
)

// PropertyRow is one persisted key/value row as read from the store.
// A nil ComponentID is a global row.
type PropertyRow struct {
	Key         string
	Value       *string
	ComponentID *uuid.UUID
}

func (r PropertyRow) value() string {
	if r.Value == nil {
		return ""
	}
	return *r.Value
}

// Setting is an immutable, reconstructed configuration entry.
type Setting struct {
	key          string
	value        *string
	componentID  *uuid.UUID
	definition   *propdefs.Definition
	propertySets []PropertySet
	isDefault    bool
}

// New builds a setting from a persisted row and the rows holding its property
// set fields. def may be nil for undeclared keys.
func New(row PropertyRow, setRows []PropertyRow, def *propdefs.Definition) (*Setting, error) {
	if row.Key == "" {
		return nil, ErrEmptyKey
	}
	sets, err := buildPropertySets(row.Key, setRows)
	if err != nil {
		return nil, fmt.Errorf("build property sets for %q: %w", row.Key, err)
	}

	s := &Setting{
		key:          row.Key,
		definition:   def,
		propertySets: sets,
	}
	if row.Value != nil {
		v := *row.Value
		s.value = &v
	}
	if row.ComponentID != nil {
		id := *row.ComponentID
		s.componentID = &id
	}
	return s, nil
}

// NewDefault builds the setting a key takes when nothing is persisted for it.
func NewDefault(def *propdefs.Definition) (*Setting, error) {
	if def == nil {
		return nil, ErrMissingDefault
	}
	if def.Key == "" {
		return nil, ErrEmptyKey
	}
	v := def.DefaultValue
	return &Setting{
		key:          def.Key,
		value:        &v,
		definition:   def,
		propertySets: []PropertySet{},
		isDefault:    true,
	}, nil
}

func (s *Setting) Key() string {
	return s.key
}

// Value returns the scalar value and whether one is present.
func (s *Setting) Value() (string, bool) {
	if s.value == nil {
		return "", false
	}
	return *s.value, true
}

// ComponentID returns the owning component, or nil for a global setting.
func (s *Setting) ComponentID() *uuid.UUID {
	if s.componentID == nil {
		return nil
	}
	id := *s.componentID
	return &id
}

// Definition returns the attached definition, or nil if the key is undeclared.
func (s *Setting) Definition() *propdefs.Definition {
	return s.definition
}

// PropertySets returns a copy of the property sets; never nil.
func (s *Setting) PropertySets() []PropertySet {
	out := make([]PropertySet, len(s.propertySets))
	for i, set := range s.propertySets {
		out[i] = set.clone()
	}
	return out
}

func (s *Setting) IsDefault() bool {
	return s.isDefault
}

