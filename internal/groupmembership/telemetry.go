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

package groupmembership

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cardinalhq/propstore/internal/largeinput"
)

var batchChunks metric.Int64Histogram

func init() {
	meter := otel.Meter("github.com/cardinalhq/propstore/internal/groupmembership")

	var err error
	batchChunks, err = meter.Int64Histogram(
		"propstore.largeinput.chunks",
		metric.WithDescription("Number of statements one batched lookup was split into"),
		metric.WithUnit("{chunk}"),
	)
	if err != nil {
		log.Fatalf("failed to create largeinput.chunks histogram: %v", err)
	}
}

func recordChunks(ctx context.Context, strategy largeinput.Strategy, chunks int) {
	batchChunks.Record(ctx, int64(chunks),
		metric.WithAttributes(attribute.String("strategy", strategy.String())))
}
