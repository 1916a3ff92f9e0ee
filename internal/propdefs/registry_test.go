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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(
		Definition{Key: " b ", DefaultValue: "2"},
		Definition{Key: "a"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, r.Keys())

	def, ok := r.Get("b")
	require.True(t, ok)
	assert.Equal(t, "2", def.DefaultValue)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestNewRegistry_Errors(t *testing.T) {
	_, err := NewRegistry(Definition{Key: "  "})
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewRegistry(Definition{Key: "x"}, Definition{Key: "x"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRegistry_Nil(t *testing.T) {
	var r *Registry
	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Keys())
}

func TestDefinition_NilReceivers(t *testing.T) {
	var d *Definition
	assert.False(t, d.IsPropertySet())
	assert.False(t, d.HasDefault())
}
