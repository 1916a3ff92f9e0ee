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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cardinalhq/propstore/config"
	"github.com/cardinalhq/propstore/internal/settings"
	"github.com/cardinalhq/propstore/internal/settingservice"
)

func init() {
	var (
		component string
		keys      string
	)

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Read component settings",
	}

	valuesCmd := &cobra.Command{
		Use:   "values",
		Short: "Print the effective value of each key",
		Long: `Print the effective value of each key as YAML.

A key resolves to the component's value, then the global value, then the
definition default. Keys with none of these are left out.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCommand("settings.values", func(ctx context.Context) error {
				return runSettingsValues(ctx, component, splitList(keys))
			})
		},
	}
	valuesCmd.Flags().StringVar(&component, "component", "", "Component UUID; global values only when empty")
	valuesCmd.Flags().StringVar(&keys, "keys", "", "Comma-separated setting keys (required)")
	if err := valuesCmd.MarkFlagRequired("keys"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	settingsCmd.AddCommand(valuesCmd)
	rootCmd.AddCommand(settingsCmd)
}

type settingView struct {
	Key          string              `yaml:"key"`
	Value        *string             `yaml:"value,omitempty"`
	Component    string              `yaml:"component,omitempty"`
	Default      bool                `yaml:"default,omitempty"`
	PropertySets []map[string]string `yaml:"property_sets,omitempty"`
}

func newSettingView(s *settings.Setting) settingView {
	v := settingView{Key: s.Key(), Default: s.IsDefault()}
	if value, ok := s.Value(); ok {
		v.Value = &value
	}
	if id := s.ComponentID(); id != nil {
		v.Component = id.String()
	}
	for _, set := range s.PropertySets() {
		v.PropertySets = append(v.PropertySets, set.Map())
	}
	return v
}

func runSettingsValues(ctx context.Context, component string, keys []string) error {
	if len(keys) == 0 {
		return errors.New("at least one key is required")
	}
	var componentID *uuid.UUID
	if component != "" {
		id, err := uuid.Parse(component)
		if err != nil {
			return fmt.Errorf("invalid component %q: %w", component, err)
		}
		componentID = &id
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defs, err := loadDefinitions(ctx, cfg)
	if err != nil {
		return err
	}
	store, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	svc := settingservice.New(store, defs, settingservice.Options{
		CacheTTL: cfg.Settings.CacheTTL,
		Batch:    cfg.Batch.Options(store.MaxChunkSize()),
	})
	defer svc.Close()

	values, err := svc.Values(ctx, componentID, keys)
	if err != nil {
		return err
	}
	views := make([]settingView, 0, len(values))
	for _, s := range values {
		views = append(views, newSettingView(s))
	}
	return writeYAML(os.Stdout, views)
}
