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

package largeinput

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultimap(t *testing.T) {
	m := NewMultimap[string, int]()
	m.Put("b", 1)
	m.Put("a", 2)
	m.Put("b", 3)
	m.Put("b", 1)

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.Equal(t, []int{1, 3, 1}, m.Get("b"))
	assert.Equal(t, []int{2}, m.Get("a"))
	assert.Nil(t, m.Get("missing"))
	assert.True(t, m.Contains("a"))
	assert.False(t, m.Contains("missing"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 4, m.Size())
}

func TestMultimap_GetReturnsCopy(t *testing.T) {
	m := NewMultimap[string, string]()
	m.Put("k", "v")

	got := m.Get("k")
	got[0] = "changed"

	assert.Equal(t, []string{"v"}, m.Get("k"))
}

func TestMultimap_All(t *testing.T) {
	m := NewMultimap[string, string]()
	m.Put("x", "1")
	m.Put("y", "2")
	m.Put("x", "3")

	var keys []string
	var values [][]string
	for k, v := range m.All() {
		keys = append(keys, k)
		values = append(values, v)
	}
	assert.Equal(t, []string{"x", "y"}, keys)
	assert.Equal(t, [][]string{{"1", "3"}, {"2"}}, values)

	count := 0
	for range m.All() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
