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

// Package largeinput runs a query over an identifier list of any size by
// splitting it into chunks that fit the database's bind parameter limit.
//
// # Aggregation
//
// Each chunk is queried with the same function and the per-chunk rows are
// merged by one of three strategies:
//
//   - Concat appends rows in chunk order.
//   - SumByKey adds the counts reported for the same key by different chunks.
//   - Accumulate collects (key, value) pairs into a Multimap, keeping the
//     first-seen order of keys and of values under each key.
//
// Results never depend on whether chunks ran in parallel: per-chunk rows are
// kept in their own slot and merged in chunk order once every chunk finished.
//
// An empty input returns the strategy's empty value without calling the query.
// The first chunk error aborts the operation and no partial result is returned.
package largeinput

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxChunkSize is the largest IN-list sent in a single statement.
const DefaultMaxChunkSize = 1000

// QueryFunc runs one statement for one chunk of identifiers.
type QueryFunc[T, R any] func(ctx context.Context, chunk []T) ([]R, error)

// Options controls chunking. MaxChunkSize comes from the backing engine's
// parameter limit, not from callers.
type Options struct {
	MaxChunkSize int
	// Parallelism is the number of chunks queried at once. 0 or 1 runs them
	// one after another. The query function must tolerate concurrent calls
	// when this is above 1.
	Parallelism int
}

// DefaultOptions returns sequential execution with DefaultMaxChunkSize.
func DefaultOptions() Options {
	return Options{MaxChunkSize: DefaultMaxChunkSize, Parallelism: 1}
}

func (o Options) chunkSize() int {
	if o.MaxChunkSize <= 0 {
		return DefaultMaxChunkSize
	}
	return o.MaxChunkSize
}

// ChunkCount returns how many statements a list of n identifiers needs.
func (o Options) ChunkCount(n int) int {
	size := o.chunkSize()
	return (n + size - 1) / size
}

// ChunkError reports which chunk failed. It unwraps to the query's error.
type ChunkError struct {
	Index  int
	Chunks int
	Size   int
	Err    error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d of %d (%d items): %v", e.Index+1, e.Chunks, e.Size, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// Partition splits items into contiguous chunks of at most size elements,
// preserving order. The chunks share items' backing array.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic(fmt.Sprintf("largeinput: invalid chunk size %d", size))
	}
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// run queries every chunk and returns the rows of each chunk in chunk order.
func run[T, R any](ctx context.Context, items []T, opts Options, query QueryFunc[T, R]) ([][]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	chunks := Partition(items, opts.chunkSize())
	results := make([][]R, len(chunks))

	if opts.Parallelism <= 1 || len(chunks) == 1 {
		for i, chunk := range chunks {
			rows, err := query(ctx, chunk)
			if err != nil {
				return nil, &ChunkError{Index: i, Chunks: len(chunks), Size: len(chunk), Err: err}
			}
			results[i] = rows
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, chunk := range chunks {
		g.Go(func() error {
			rows, err := query(gctx, chunk)
			if err != nil {
				return &ChunkError{Index: i, Chunks: len(chunks), Size: len(chunk), Err: err}
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Concat runs query per chunk and returns all rows in chunk order.
func Concat[T, R any](ctx context.Context, items []T, opts Options, query QueryFunc[T, R]) ([]R, error) {
	perChunk, err := run(ctx, items, opts, query)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, rows := range perChunk {
		total += len(rows)
	}
	out := make([]R, 0, total)
	for _, rows := range perChunk {
		out = append(out, rows...)
	}
	return out, nil
}

// SumByKey runs query per chunk and adds up the count each row reports for its key.
func SumByKey[T, R any, K comparable](ctx context.Context, items []T, opts Options, query QueryFunc[T, R], keyCount func(R) (K, int64)) (map[K]int64, error) {
	perChunk, err := run(ctx, items, opts, query)
	if err != nil {
		return nil, err
	}
	out := make(map[K]int64)
	for _, rows := range perChunk {
		for _, r := range rows {
			k, n := keyCount(r)
			out[k] += n
		}
	}
	return out, nil
}

// Accumulate runs query per chunk and collects the (key, value) pair of each
// row into a Multimap.
func Accumulate[T, R any, K comparable, V any](ctx context.Context, items []T, opts Options, query QueryFunc[T, R], pair func(R) (K, V)) (*Multimap[K, V], error) {
	perChunk, err := run(ctx, items, opts, query)
	if err != nil {
		return nil, err
	}
	out := NewMultimap[K, V]()
	for _, rows := range perChunk {
		for _, r := range rows {
			out.Put(pair(r))
		}
	}
	return out, nil
}
