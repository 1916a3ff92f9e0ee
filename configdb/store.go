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
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cardinalhq/propstore/internal/largeinput"
)

// Store provides all functions to execute db queries
type Store struct {
	*Queries
	connPool *pgxpool.Pool
}

// NewStore creates a new Store
func NewStore(connPool *pgxpool.Pool) *Store {
	return &Store{
		Queries:  New(connPool),
		connPool: connPool,
	}
}

func (s *Store) Pool() *pgxpool.Pool {
	return s.connPool
}

// MaxChunkSize is the largest identifier list one statement should carry.
func (s *Store) MaxChunkSize() int {
	return largeinput.DefaultMaxChunkSize
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.connPool != nil {
		s.connPool.Close()
	}
	return nil
}
