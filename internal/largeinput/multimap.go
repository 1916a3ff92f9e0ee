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
	"iter"
	"slices"
)

// Multimap maps each key to a list of values. Keys iterate in first-put
// order and each key's values keep their put order. Not safe for concurrent use.
type Multimap[K comparable, V any] struct {
	keys   []K
	values map[K][]V
	size   int
}

func NewMultimap[K comparable, V any]() *Multimap[K, V] {
	return &Multimap[K, V]{values: make(map[K][]V)}
}

func (m *Multimap[K, V]) Put(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = append(m.values[key], value)
	m.size++
}

// Get returns a copy of the values stored under key.
func (m *Multimap[K, V]) Get(key K) []V {
	return slices.Clone(m.values[key])
}

func (m *Multimap[K, V]) Contains(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the distinct keys in first-put order.
func (m *Multimap[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Len is the number of distinct keys.
func (m *Multimap[K, V]) Len() int {
	return len(m.keys)
}

// Size is the total number of values across all keys.
func (m *Multimap[K, V]) Size() int {
	return m.size
}

// All yields each key with its values, in key order.
func (m *Multimap[K, V]) All() iter.Seq2[K, []V] {
	return func(yield func(K, []V) bool) {
		for _, k := range m.keys {
			if !yield(k, slices.Clone(m.values[k])) {
				return
			}
		}
	}
}
