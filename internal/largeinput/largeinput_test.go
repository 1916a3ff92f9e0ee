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
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQuery echoes each id back as a row and records the chunks it saw.
type recordingQuery struct {
	mu     sync.Mutex
	chunks [][]int
	calls  atomic.Int32
}

func (q *recordingQuery) query(_ context.Context, chunk []int) ([]int, error) {
	q.calls.Add(1)
	q.mu.Lock()
	q.chunks = append(q.chunks, append([]int(nil), chunk...))
	q.mu.Unlock()
	return append([]int(nil), chunk...), nil
}

func (q *recordingQuery) chunkSizes() []int {
	q.mu.Lock()
	defer q.mu.Unlock()
	sizes := make([]int, len(q.chunks))
	for i, c := range q.chunks {
		sizes[i] = len(c)
	}
	return sizes
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{"empty", nil, 3, nil},
		{"smaller than chunk", []int{1, 2}, 3, [][]int{{1, 2}}},
		{"exact multiple", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"size one", []int{1, 2, 3}, 1, [][]int{{1}, {2}, {3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Partition(tt.items, tt.size))
		})
	}
}

func TestPartition_ChunksDoNotAliasOnAppend(t *testing.T) {
	items := []int{1, 2, 3, 4}
	chunks := Partition(items, 2)
	_ = append(chunks[0], 99)
	assert.Equal(t, []int{1, 2, 3, 4}, items)
}

func TestPartition_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { Partition([]int{1}, 0) })
}

func TestOptions_ChunkCount(t *testing.T) {
	opts := Options{MaxChunkSize: 10}
	assert.Equal(t, 0, opts.ChunkCount(0))
	assert.Equal(t, 1, opts.ChunkCount(10))
	assert.Equal(t, 2, opts.ChunkCount(11))
	assert.Equal(t, 1, Options{}.ChunkCount(DefaultMaxChunkSize))
}

func TestConcat_EmptyInputDoesNotQuery(t *testing.T) {
	q := &recordingQuery{}
	rows, err := Concat(context.Background(), nil, Options{MaxChunkSize: 2}, q.query)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, int32(0), q.calls.Load())
}

func TestConcat_TwoChunksPlusOne(t *testing.T) {
	const maxChunk = 5
	items := seq(2*maxChunk + 1)
	q := &recordingQuery{}

	rows, err := Concat(context.Background(), items, Options{MaxChunkSize: maxChunk}, q.query)
	require.NoError(t, err)

	assert.Equal(t, int32(3), q.calls.Load())
	assert.Equal(t, []int{maxChunk, maxChunk, 1}, q.chunkSizes())
	assert.Equal(t, items, rows)
}

func TestConcat_ParallelKeepsChunkOrder(t *testing.T) {
	items := seq(50)
	// Earlier chunks finish last so completion order is reversed.
	query := func(_ context.Context, chunk []int) ([]int, error) {
		time.Sleep(time.Duration(50-chunk[0]) * time.Millisecond / 5)
		return append([]int(nil), chunk...), nil
	}

	rows, err := Concat(context.Background(), items, Options{MaxChunkSize: 5, Parallelism: 4}, query)
	require.NoError(t, err)
	assert.Equal(t, items, rows)
}

func TestConcat_EmptyChunkContributesNothing(t *testing.T) {
	query := func(_ context.Context, chunk []int) ([]string, error) {
		var out []string
		for _, id := range chunk {
			if id%2 == 0 {
				out = append(out, strconv.Itoa(id))
			}
		}
		return out, nil
	}

	rows, err := Concat(context.Background(), []int{1, 3, 2, 5, 7, 4}, Options{MaxChunkSize: 2}, query)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "4"}, rows)
}

func TestConcat_ChunkErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32
	query := func(_ context.Context, chunk []int) ([]int, error) {
		calls.Add(1)
		if chunk[0] == 2 {
			return nil, boom
		}
		return chunk, nil
	}

	rows, err := Concat(context.Background(), seq(6), Options{MaxChunkSize: 2}, query)
	assert.Nil(t, rows)
	require.ErrorIs(t, err, boom)

	var chunkErr *ChunkError
	require.ErrorAs(t, err, &chunkErr)
	assert.Equal(t, 1, chunkErr.Index)
	assert.Equal(t, 3, chunkErr.Chunks)
	assert.Equal(t, 2, chunkErr.Size)
	assert.Equal(t, int32(2), calls.Load(), "later chunks must not run after a failure")
}

func TestConcat_ParallelChunkError(t *testing.T) {
	boom := errors.New("boom")
	query := func(_ context.Context, chunk []int) ([]int, error) {
		if chunk[0] == 4 {
			return nil, boom
		}
		return chunk, nil
	}

	rows, err := Concat(context.Background(), seq(10), Options{MaxChunkSize: 2, Parallelism: 3}, query)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, boom)
}

type groupCount struct {
	group string
	count int64
}

func TestSumByKey_AddsAcrossChunks(t *testing.T) {
	// Chunk 1 reports g1=3, chunk 2 reports g1=2.
	responses := map[int][]groupCount{
		0: {{"g1", 3}, {"g2", 1}},
		2: {{"g1", 2}},
	}
	query := func(_ context.Context, chunk []int) ([]groupCount, error) {
		return responses[chunk[0]], nil
	}

	got, err := SumByKey(context.Background(), seq(4), Options{MaxChunkSize: 2}, query,
		func(r groupCount) (string, int64) { return r.group, r.count })
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"g1": 5, "g2": 1}, got)
}

func TestSumByKey_NonStringKeys(t *testing.T) {
	query := func(_ context.Context, chunk []int) ([]int, error) {
		return chunk, nil
	}

	got, err := SumByKey(context.Background(), seq(7), Options{MaxChunkSize: 3}, query,
		func(r int) (bool, int64) { return r%2 == 0, int64(r) })
	require.NoError(t, err)
	assert.Equal(t, map[bool]int64{true: 12, false: 9}, got)
}

func TestSumByKey_EmptyInput(t *testing.T) {
	var calls atomic.Int32
	query := func(_ context.Context, chunk []int) ([]groupCount, error) {
		calls.Add(1)
		return nil, nil
	}

	got, err := SumByKey(context.Background(), []int{}, Options{}, query,
		func(r groupCount) (string, int64) { return r.group, r.count })
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSumByKey_ParallelMatchesSequential(t *testing.T) {
	items := seq(97)
	query := func(_ context.Context, chunk []int) ([]groupCount, error) {
		var out []groupCount
		for _, id := range chunk {
			out = append(out, groupCount{group: fmt.Sprintf("g%d", id%7), count: int64(id)})
		}
		return out, nil
	}
	keyCount := func(r groupCount) (string, int64) { return r.group, r.count }

	sequential, err := SumByKey(context.Background(), items, Options{MaxChunkSize: 10}, query, keyCount)
	require.NoError(t, err)
	unbounded, err := SumByKey(context.Background(), items, Options{MaxChunkSize: len(items)}, query, keyCount)
	require.NoError(t, err)
	parallel, err := SumByKey(context.Background(), items, Options{MaxChunkSize: 10, Parallelism: 8}, query, keyCount)
	require.NoError(t, err)

	assert.Equal(t, unbounded, sequential)
	assert.Equal(t, unbounded, parallel)
}

type loginGroup struct {
	login string
	group string
}

func TestAccumulate_PreservesFirstSeenOrderAcrossChunks(t *testing.T) {
	responses := map[string][]loginGroup{
		"alice": {{"alice", "admins"}, {"bob", "devs"}},
		"carol": {{"alice", "users"}, {"carol", "devs"}, {"bob", "admins"}},
	}
	query := func(_ context.Context, chunk []string) ([]loginGroup, error) {
		return responses[chunk[0]], nil
	}

	got, err := Accumulate(context.Background(), []string{"alice", "bob", "carol", "dave"}, Options{MaxChunkSize: 2}, query,
		func(r loginGroup) (string, string) { return r.login, r.group })
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob", "carol"}, got.Keys())
	assert.Equal(t, []string{"admins", "users"}, got.Get("alice"))
	assert.Equal(t, []string{"devs", "admins"}, got.Get("bob"))
	assert.Equal(t, []string{"devs"}, got.Get("carol"))
	assert.False(t, got.Contains("dave"), "missing identifiers are not synthesized")
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, 5, got.Size())
}

func TestAccumulate_EmptyInput(t *testing.T) {
	query := func(_ context.Context, chunk []string) ([]loginGroup, error) {
		t.Fatal("query must not be called")
		return nil, nil
	}

	got, err := Accumulate(context.Background(), nil, Options{}, query,
		func(r loginGroup) (string, string) { return r.login, r.group })
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Len())
}

func TestAccumulate_ParallelIsDeterministic(t *testing.T) {
	logins := make([]string, 40)
	for i := range logins {
		logins[i] = fmt.Sprintf("user%02d", i)
	}
	query := func(_ context.Context, chunk []string) ([]loginGroup, error) {
		n, _ := strconv.Atoi(strings.TrimPrefix(chunk[0], "user"))
		time.Sleep(time.Duration(len(logins)-n) * 100 * time.Microsecond)
		var out []loginGroup
		for _, l := range chunk {
			out = append(out, loginGroup{login: "shared", group: l})
		}
		return out, nil
	}
	pair := func(r loginGroup) (string, string) { return r.login, r.group }

	got, err := Accumulate(context.Background(), logins, Options{MaxChunkSize: 3, Parallelism: 5}, query, pair)
	require.NoError(t, err)
	assert.Equal(t, logins, got.Get("shared"))
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "concat", StrategyConcat.String())
	assert.Equal(t, "sum", StrategySumByKey.String())
	assert.Equal(t, "multimap", StrategyMultimap.String())
	assert.Equal(t, "unknown", Strategy(42).String())
}
