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

// Strategy names how chunk results are merged. It labels logs and metrics;
// the merge itself is chosen by calling Concat, SumByKey or Accumulate.
type Strategy int

const (
	StrategyConcat Strategy = iota
	StrategySumByKey
	StrategyMultimap
)

func (s Strategy) String() string {
	switch s {
	case StrategyConcat:
		return "concat"
	case StrategySumByKey:
		return "sum"
	case StrategyMultimap:
		return "multimap"
	default:
		return "unknown"
	}
}
