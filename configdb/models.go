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

package configdb

import (
	"github.com/google/uuid"
)

// Property is one row of the properties table. A nil ComponentID is a
// global property.
type Property struct {
	ID          int64      `json:"id" yaml:"id"`
	Key         string     `json:"key" yaml:"key"`
	ComponentID *uuid.UUID `json:"component_id" yaml:"component_id"`
	Value       *string    `json:"value" yaml:"value"`
}

type Group struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
}

// GroupMembership is a group as seen by one user. UserID is set when the
// user is a member.
type GroupMembership struct {
	ID          int64   `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description" yaml:"description"`
	UserID      *int64  `json:"user_id" yaml:"user_id"`
}

// UserMembership is an active user as seen by one group. GroupID is set when
// the user is a member.
type UserMembership struct {
	ID      int64   `json:"id" yaml:"id"`
	Login   string  `json:"login" yaml:"login"`
	Name    *string `json:"name" yaml:"name"`
	GroupID *int64  `json:"group_id" yaml:"group_id"`
}

type GroupUserCount struct {
	GroupName string `json:"group_name" yaml:"group_name"`
	UserCount int64  `json:"user_count" yaml:"user_count"`
}

type LoginGroup struct {
	Login     string `json:"login" yaml:"login"`
	GroupName string `json:"group_name" yaml:"group_name"`
}
