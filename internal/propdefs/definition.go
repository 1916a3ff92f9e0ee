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

// Package propdefs holds the property definitions that describe settings:
// their type, default value, and the fields of property sets.
package propdefs

// Property types. Only TypePropertySet changes how a setting is assembled;
// the others are carried for callers.
const (
	TypeString       = "STRING"
	TypeText         = "TEXT"
	TypeBoolean      = "BOOLEAN"
	TypeInteger      = "INTEGER"
	TypeFloat        = "FLOAT"
	TypeSingleSelect = "SINGLE_SELECT_LIST"
	TypePassword     = "PASSWORD"
	TypePropertySet  = "PROPERTY_SET"
)

// Definition declares one setting key.
type Definition struct {
	Key          string            `yaml:"key"`
	Name         string            `yaml:"name,omitempty"`
	Description  string            `yaml:"description,omitempty"`
	Type         string            `yaml:"type,omitempty"`
	DefaultValue string            `yaml:"default_value,omitempty"`
	MultiValues  bool              `yaml:"multi_values,omitempty"`
	Fields       []FieldDefinition `yaml:"fields,omitempty"`
}

// FieldDefinition declares one field of a property set.
type FieldDefinition struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type,omitempty"`
}

// IsPropertySet reports whether values of this definition are stored as
// repeated structured sub-records.
func (d *Definition) IsPropertySet() bool {
	return d != nil && d.Type == TypePropertySet
}

// HasDefault reports whether the definition declares a non-empty default value.
func (d *Definition) HasDefault() bool {
	return d != nil && d.DefaultValue != ""
}
