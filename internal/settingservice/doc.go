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

// Package settingservice resolves settings for a component with cached
// access to the properties table.
//
// # Fallback Chain
//
// Each key resolves to the component's row, else the global row, else the
// definition's non-empty default. Keys matching none of these are omitted.
//
// # Caching
//
// Only raw rows are cached, keyed by (scope, key), with misses cached too.
// Setting values are rebuilt on every call. Use InvalidateCache after writes.
package settingservice
