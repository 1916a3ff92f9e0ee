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

package dbopen

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDatabaseURLFromEnv_URLWins(t *testing.T) {
	t.Setenv("TESTDB_URL", "postgresql://example/db")
	t.Setenv("TESTDB_HOST", "ignored")

	got, err := GetDatabaseURLFromEnv("TESTDB")
	require.NoError(t, err)
	assert.Equal(t, "postgresql://example/db", got)
}

func TestGetDatabaseURLFromEnv_Missing(t *testing.T) {
	t.Setenv("TESTDB_URL", "")
	t.Setenv("TESTDB_HOST", "")
	t.Setenv("TESTDB_DBNAME", "")

	_, err := GetDatabaseURLFromEnv("TESTDB_")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TESTDB_HOST")
	assert.Contains(t, err.Error(), "TESTDB_DBNAME")
}

func TestGetDatabaseURLFromEnv_Components(t *testing.T) {
	t.Setenv("TESTDB_URL", "")
	t.Setenv("TESTDB_HOST", "db.local")
	t.Setenv("TESTDB_DBNAME", "props")
	t.Setenv("TESTDB_PORT", "")
	t.Setenv("TESTDB_USER", "alice")
	t.Setenv("TESTDB_PASSWORD", "s3cret")
	t.Setenv("TESTDB_SSLMODE", "disable")
	t.Setenv("OTEL_SERVICE_NAME", "prop store")

	got, err := GetDatabaseURLFromEnv("TESTDB")
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "postgresql", u.Scheme)
	assert.Equal(t, "db.local:5432", u.Host)
	assert.Equal(t, "/props", u.Path)
	assert.Equal(t, "alice", u.User.Username())
	pass, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "s3cret", pass)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "prop_store", u.Query().Get("application_name"))
}

func TestApplicationName(t *testing.T) {
	assert.Equal(t, "svc-1_a", applicationName("svc-1.a"))
	assert.Len(t, applicationName(strings.Repeat("x", 100)), 63)
	assert.Equal(t, "", applicationName(""))
}
