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

package initialize

import (
	"github.com/google/uuid"
)

// Fixtures is the YAML document accepted by "propstore initialize".
type Fixtures struct {
	Users      []UserFixture     `yaml:"users"`
	Groups     []GroupFixture    `yaml:"groups"`
	Properties []PropertyFixture `yaml:"properties"`
}

type UserFixture struct {
	Login  string  `yaml:"login"`
	Name   *string `yaml:"name,omitempty"`
	Active *bool   `yaml:"active,omitempty"` // Defaults to true if not specified
}

type GroupFixture struct {
	Name        string   `yaml:"name"`
	Description *string  `yaml:"description,omitempty"`
	Members     []string `yaml:"members,omitempty"` // user logins
}

type PropertyFixture struct {
	Key       string     `yaml:"key"`
	Component *uuid.UUID `yaml:"component,omitempty"` // Global when not specified
	Value     *string    `yaml:"value,omitempty"`
}
