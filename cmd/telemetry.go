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
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cardinalhq/oteltools/pkg/telemetry"
	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/host"
	iruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/propstore/internal/idgen"
	"github.com/cardinalhq/propstore/internal/logctx"
)

const serviceName = "propstore"

var (
	meter = otel.Meter("github.com/cardinalhq/propstore")

	myInstanceID int64

	commandDuration metric.Float64Histogram
)

// setupTelemetry configures slog and, when enabled, the OpenTelemetry SDK.
// The returned context carries a logger tagged with the command name and a
// fresh operation id, and is cancelled on SIGINT or SIGTERM.
func setupTelemetry(command string) (context.Context, func() error, error) {
	myInstanceID = idgen.InstanceID()

	doneCtx, doneCancel := handleSignals(context.Background())

	f := func() error {
		doneCancel()
		return nil
	}

	var opts *slog.HandlerOptions
	if os.Getenv("DEBUG") != "" || os.Getenv("PROPSTORE_DEBUG") != "" {
		opts = &slog.HandlerOptions{Level: slog.LevelDebug}
	}

	// Logs go to stderr; stdout is reserved for command output.
	if os.Getenv("OTEL_SERVICE_NAME") != "" && os.Getenv("ENABLE_OTLP_TELEMETRY") == "true" {
		slog.SetDefault(slog.New(slogmulti.Fanout(
			slog.NewTextHandler(os.Stderr, opts),
			otelslog.NewHandler(serviceName),
		)).With(
			slog.String("service", serviceName),
			slog.Int64("instanceID", myInstanceID),
		))
		slog.Info("OpenTelemetry exporting enabled")

		otelShutdown, err := telemetry.SetupOTelSDK(doneCtx)
		if err != nil {
			doneCancel()
			return doneCtx, nil, fmt.Errorf("failed to setup OpenTelemetry SDK: %w", err)
		}

		if err := iruntime.Start(iruntime.WithMinimumReadMemStatsInterval(time.Second * 10)); err != nil {
			slog.Warn("failed to start runtime metrics", "error", err.Error())
		}

		if err := host.Start(); err != nil {
			slog.Warn("failed to start host metrics", "error", err.Error())
		}

		f = func() error {
			defer doneCancel()
			slog.Debug("Shutting down OpenTelemetry SDK")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return otelShutdown(ctx)
		}
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, opts)).With(
			slog.String("service", serviceName),
			slog.Int64("instanceID", myInstanceID),
		))
	}

	setupGlobalMetrics()

	ctx := logctx.With(doneCtx,
		slog.String("command", command),
		slog.String("operationID", idgen.OperationID()))
	return ctx, f, nil
}

func setupGlobalMetrics() {
	if commandDuration != nil {
		return
	}
	m, err := meter.Float64Histogram(
		"propstore.command.duration",
		metric.WithUnit("s"),
		metric.WithDescription("The duration in seconds of one propstore command"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create command.duration histogram: %w", err))
	}
	commandDuration = m
}

// runCommand wraps a command body with telemetry setup, timing and shutdown.
func runCommand(command string, body func(ctx context.Context) error) error {
	ctx, shutdown, err := setupTelemetry(command)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(); err != nil {
			slog.Warn("telemetry shutdown failed", slog.Any("error", err))
		}
	}()

	start := time.Now()
	err = body(ctx)
	commandDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("command", command),
		attribute.Bool("success", err == nil),
	))
	if err != nil {
		logctx.FromContext(ctx).Error("command failed", slog.Any("error", err))
	}
	return err
}
