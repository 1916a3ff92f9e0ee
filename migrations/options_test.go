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

package migrations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApply_Defaults(t *testing.T) {
	assert.Equal(t, DefaultCheckOptions(), Apply())
}

func TestApply_Overrides(t *testing.T) {
	o := Apply(
		WithCheckMode(CheckModeWarn),
		WithTimeout(30*time.Second),
		WithRetryInterval(time.Second),
		WithAllowDirty(true),
	)
	assert.Equal(t, CheckModeWarn, o.Mode)
	assert.Equal(t, 30*time.Second, o.Timeout)
	assert.Equal(t, time.Second, o.RetryInterval)
	assert.True(t, o.AllowDirty)
}

func TestCheckMode_String(t *testing.T) {
	assert.Equal(t, "wait", CheckModeWait.String())
	assert.Equal(t, "warn", CheckModeWarn.String())
	assert.Equal(t, "skip", CheckModeSkip.String())
	assert.Equal(t, "unknown", CheckMode(9).String())
}
