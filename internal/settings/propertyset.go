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

package settings

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// PropertySet is one structured sub-record of a setting: field keys mapped
// to values, in the order the fields were first seen.
type PropertySet struct {
	keys   []string
	values map[string]string
}

// Keys returns the field keys in insertion order.
func (p PropertySet) Keys() []string {
	return slices.Clone(p.keys)
}

func (p PropertySet) Get(fieldKey string) (string, bool) {
	v, ok := p.values[fieldKey]
	return v, ok
}

func (p PropertySet) Len() int {
	return len(p.keys)
}

// Map returns a copy of the fields as a plain map.
func (p PropertySet) Map() map[string]string {
	if p.values == nil {
		return map[string]string{}
	}
	return maps.Clone(p.values)
}

func (p PropertySet) clone() PropertySet {
	return PropertySet{keys: slices.Clone(p.keys), values: maps.Clone(p.values)}
}

// SplitSetKey decomposes the key of a property set row into its set
// identifier and field key. rowKey must be baseKey + "." + setID + "." + fieldKey;
// empty segments are ignored and segments beyond the field key are not used.
func SplitSetKey(baseKey, rowKey string) (setID, fieldKey string, err error) {
	rest, ok := strings.CutPrefix(rowKey, baseKey+".")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not under %q", ErrMalformedPropertyKey, rowKey, baseKey)
	}
	segments := strings.FieldsFunc(rest, func(r rune) bool { return r == '.' })
	if len(segments) < 2 {
		return "", "", fmt.Errorf("%w: %q has no set id and field key after %q", ErrMalformedPropertyKey, rowKey, baseKey)
	}
	return segments[0], segments[1], nil
}

// buildPropertySets pivots rows keyed "<baseKey>.<setID>.<fieldKey>" into one
// PropertySet per set id, in order of first appearance.
func buildPropertySets(baseKey string, rows []PropertyRow) ([]PropertySet, error) {
	if len(rows) == 0 {
		return []PropertySet{}, nil
	}

	var order []string
	bySetID := make(map[string]*PropertySet)
	for _, row := range rows {
		setID, fieldKey, err := SplitSetKey(baseKey, row.Key)
		if err != nil {
			return nil, err
		}
		set, ok := bySetID[setID]
		if !ok {
			set = &PropertySet{values: make(map[string]string)}
			bySetID[setID] = set
			order = append(order, setID)
		}
		if _, dup := set.values[fieldKey]; dup {
			return nil, fmt.Errorf("%w: set %q field %q of %q", ErrDuplicatePropertyField, setID, fieldKey, baseKey)
		}
		set.keys = append(set.keys, fieldKey)
		set.values[fieldKey] = row.value()
	}

	sets := make([]PropertySet, 0, len(order))
	for _, setID := range order {
		sets = append(sets, *bySetID[setID])
	}
	return sets, nil
}
