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

// Package config loads propstore settings from an optional config file and
// PROPSTORE_* environment variables.
package config

import (
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cardinalhq/propstore/internal/largeinput"
)

// Config aggregates configuration for the application.
type Config struct {
	Batch    BatchConfig    `mapstructure:"batch"`
	Settings SettingsConfig `mapstructure:"settings"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
}

// BatchConfig tunes identifier-list lookups. A zero MaxChunkSize uses the
// store's own limit.
type BatchConfig struct {
	MaxChunkSize int `mapstructure:"max_chunk_size"`
	Parallelism  int `mapstructure:"parallelism"`
}

type SettingsConfig struct {
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	DefinitionsFile string        `mapstructure:"definitions_file"`
}

// SQLiteConfig selects a SQLite file instead of PostgreSQL when Path is set.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// Options returns the batching options for a store whose limit is storeMax.
// A configured size larger than storeMax is clamped.
func (b BatchConfig) Options(storeMax int) largeinput.Options {
	size := b.MaxChunkSize
	if size <= 0 || (storeMax > 0 && size > storeMax) {
		size = storeMax
	}
	return largeinput.Options{MaxChunkSize: size, Parallelism: b.Parallelism}
}

func DefaultConfig() *Config {
	return &Config{
		Batch: BatchConfig{Parallelism: 1},
		Settings: SettingsConfig{
			CacheTTL: 5 * time.Minute,
		},
	}
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "PROPSTORE" and the dot character
// in keys is replaced by an underscore. For example, "batch.parallelism"
// becomes "PROPSTORE_BATCH_PARALLELISM".
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("PROPSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.Indirect(reflect.ValueOf(cfg))
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string{}, parts...), tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
