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

package settingservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"

	"github.com/cardinalhq/propstore/configdb"
	"github.com/cardinalhq/propstore/internal/largeinput"
	"github.com/cardinalhq/propstore/internal/logctx"
	"github.com/cardinalhq/propstore/internal/propdefs"
	"github.com/cardinalhq/propstore/internal/settings"
)

// GlobalScope is the cache scope of rows not bound to a component.
var GlobalScope = uuid.Nil

const DefaultCacheTTL = 5 * time.Minute

type Options struct {
	CacheTTL time.Duration
	Batch    largeinput.Options
}

func DefaultOptions() Options {
	return Options{
		CacheTTL: DefaultCacheTTL,
		Batch:    largeinput.DefaultOptions(),
	}
}

type rowKind uint8

const (
	kindValue rowKind = iota
	kindSet
)

type rowCacheKey struct {
	Scope uuid.UUID
	Key   string
	Kind  rowKind
}

// rowCacheValue holds the rows found for a key; empty means the key is absent.
type rowCacheValue struct {
	Rows []configdb.Property
}

type Service struct {
	querier configdb.PropertyQuerier
	defs    *propdefs.Registry
	batch   largeinput.Options
	cache   *ttlcache.Cache[rowCacheKey, rowCacheValue]
}

func New(querier configdb.PropertyQuerier, defs *propdefs.Registry, opts Options) *Service {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[rowCacheKey, rowCacheValue](ttl),
	)
	go cache.Start()
	return &Service{
		querier: querier,
		defs:    defs,
		batch:   opts.Batch,
		cache:   cache,
	}
}

// Close stops the cache background goroutine.
func (s *Service) Close() {
	s.cache.Stop()
}

// InvalidateCache drops every cached row.
func (s *Service) InvalidateCache() {
	s.cache.DeleteAll()
}

func scopeOf(componentID *uuid.UUID) uuid.UUID {
	if componentID == nil {
		return GlobalScope
	}
	return *componentID
}

func scopeParam(scope uuid.UUID) *uuid.UUID {
	if scope == GlobalScope {
		return nil
	}
	id := scope
	return &id
}

// Values returns one setting per distinct key, in request order.
func (s *Service) Values(ctx context.Context, componentID *uuid.UUID, keys []string) ([]*settings.Setting, error) {
	keys = distinct(keys)
	if len(keys) == 0 {
		return []*settings.Setting{}, nil
	}

	scopes := []uuid.UUID{GlobalScope}
	if componentID != nil {
		scopes = []uuid.UUID{*componentID, GlobalScope}
	}

	found := make(map[string]configdb.Property, len(keys))
	for _, scope := range scopes {
		pending := make([]string, 0, len(keys))
		for _, k := range keys {
			if _, ok := found[k]; !ok {
				pending = append(pending, k)
			}
		}
		if len(pending) == 0 {
			break
		}
		rows, err := s.rowsByKey(ctx, scope, pending)
		if err != nil {
			return nil, err
		}
		for k, row := range rows {
			found[k] = row
		}
	}

	out := make([]*settings.Setting, 0, len(keys))
	for _, k := range keys {
		def, _ := s.defs.Get(k)
		row, ok := found[k]
		if !ok {
			if def.HasDefault() {
				setting, err := settings.NewDefault(def)
				if err != nil {
					return nil, err
				}
				out = append(out, setting)
			}
			continue
		}

		var setRows []settings.PropertyRow
		if def.IsPropertySet() {
			setProps, err := s.setRows(ctx, scopeOf(row.ComponentID), k)
			if err != nil {
				return nil, err
			}
			setRows = toPropertyRows(setProps)
		}
		setting, err := settings.New(toPropertyRow(row), setRows, def)
		if err != nil {
			return nil, err
		}
		out = append(out, setting)
	}
	return out, nil
}

// rowsByKey returns the first row of each key in scope, serving what it can
// from the cache and fetching the rest in one batched lookup.
func (s *Service) rowsByKey(ctx context.Context, scope uuid.UUID, keys []string) (map[string]configdb.Property, error) {
	out := make(map[string]configdb.Property, len(keys))
	var misses []string
	for _, k := range keys {
		item := s.cache.Get(rowCacheKey{Scope: scope, Key: k, Kind: kindValue})
		if item == nil {
			misses = append(misses, k)
			continue
		}
		if rows := item.Value().Rows; len(rows) > 0 {
			out[k] = rows[0]
		}
	}
	if len(misses) == 0 {
		return out, nil
	}

	param := scopeParam(scope)
	rows, err := largeinput.Concat(ctx, misses, s.batch, func(ctx context.Context, chunk []string) ([]configdb.Property, error) {
		return s.querier.ListPropertiesByKeys(ctx, configdb.ListPropertiesByKeysParams{
			Keys:        chunk,
			ComponentID: param,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	fetched := make(map[string]configdb.Property, len(rows))
	for _, row := range rows {
		if _, seen := fetched[row.Key]; !seen {
			fetched[row.Key] = row
		}
	}
	for _, k := range misses {
		row, ok := fetched[k]
		value := rowCacheValue{}
		if ok {
			value.Rows = []configdb.Property{row}
			out[k] = row
		}
		s.cache.Set(rowCacheKey{Scope: scope, Key: k, Kind: kindValue}, value, ttlcache.DefaultTTL)
	}

	logctx.FromContext(ctx).Debug("loaded properties",
		slog.String("scope", scope.String()),
		slog.Int("requested", len(misses)),
		slog.Int("found", len(fetched)))
	return out, nil
}

// setRows returns the "<key>.*" rows of a property set. Lookup errors are not cached.
func (s *Service) setRows(ctx context.Context, scope uuid.UUID, key string) ([]configdb.Property, error) {
	var loadErr error
	loader := ttlcache.LoaderFunc[rowCacheKey, rowCacheValue](
		func(cache *ttlcache.Cache[rowCacheKey, rowCacheValue], k rowCacheKey) *ttlcache.Item[rowCacheKey, rowCacheValue] {
			rows, err := s.querier.ListPropertySetRows(ctx, configdb.ListPropertySetRowsParams{
				Key:         k.Key,
				ComponentID: scopeParam(k.Scope),
			})
			if err != nil {
				loadErr = err
				return nil
			}
			return cache.Set(k, rowCacheValue{Rows: rows}, ttlcache.DefaultTTL)
		},
	)

	item := s.cache.Get(rowCacheKey{Scope: scope, Key: key, Kind: kindSet}, ttlcache.WithLoader[rowCacheKey, rowCacheValue](loader))
	if loadErr != nil {
		return nil, fmt.Errorf("load property set %q: %w", key, loadErr)
	}
	if item == nil {
		return nil, errors.New("property set lookup returned no result")
	}
	return item.Value().Rows, nil
}

// distinct drops blank and repeated keys, keeping first occurrences in order.
func distinct(keys []string) []string {
	seen := mapset.NewThreadUnsafeSetWithSize[string](len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" || !seen.Add(k) {
			continue
		}
		out = append(out, k)
	}
	return out
}

func toPropertyRow(p configdb.Property) settings.PropertyRow {
	return settings.PropertyRow{
		Key:         p.Key,
		Value:       p.Value,
		ComponentID: p.ComponentID,
	}
}

func toPropertyRows(props []configdb.Property) []settings.PropertyRow {
	if len(props) == 0 {
		return nil
	}
	out := make([]settings.PropertyRow, len(props))
	for i, p := range props {
		out[i] = toPropertyRow(p)
	}
	return out
}
