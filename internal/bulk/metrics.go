package bulk

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("skyload/bulk")

type instruments struct {
	prepared    metric.Int64Counter
	failed      metric.Int64Counter
	stagedFiles metric.Int64Counter
	notReady    metric.Int64Counter
	mkdirRetry  metric.Int64Counter
}

// Instrument creation only fails for invalid names, so errors are dropped.
func newInstruments() *instruments {
	prepared, _ := meter.Int64Counter("skyload.bulk.prepared",
		metric.WithDescription("Bulk imports staged and handed to the move step"))
	failed, _ := meter.Int64Counter("skyload.bulk.failed",
		metric.WithDescription("Bulk imports aborted while preparing, by kind"))
	stagedFiles, _ := meter.Int64Counter("skyload.bulk.staged_files",
		metric.WithDescription("Data files added to rename maps"))
	notReady, _ := meter.Int64Counter("skyload.bulk.not_ready",
		metric.WithDescription("Readiness polls that asked to be retried, by reason"))
	mkdirRetry, _ := meter.Int64Counter("skyload.bulk.mkdir_retries",
		metric.WithDescription("Bulk directory names that were already taken"))

	return &instruments{
		prepared:    prepared,
		failed:      failed,
		stagedFiles: stagedFiles,
		notReady:    notReady,
		mkdirRetry:  mkdirRetry,
	}
}

func (m *instruments) notReadyFor(ctx context.Context, reason string, delay time.Duration) time.Duration {
	m.notReady.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	return delay
}

func (m *instruments) failure(ctx context.Context, kind Kind) {
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
}
