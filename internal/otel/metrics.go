package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "tmuxedo"

// Outcome values recorded on every counter.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds all OTEL metric instruments for tmuxedo.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Lifecycle operations (partitioned by op: install, update, remove)
	Operations metric.Int64Counter

	// Per-plugin update checks (outcome: update, current, error)
	UpdateChecks metric.Int64Counter

	// Bulk clone/pull during bootstrap (op: clone, pull)
	Seeds metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Operations, err = meter.Int64Counter("plugin.operations",
		metric.WithDescription("Install, update and remove operations partitioned by outcome"))
	if err != nil {
		return nil, err
	}

	m.UpdateChecks, err = meter.Int64Counter("update_checks",
		metric.WithDescription("Per-plugin remote update checks partitioned by outcome (update, current, error)"))
	if err != nil {
		return nil, err
	}

	m.Seeds, err = meter.Int64Counter("seed.operations",
		metric.WithDescription("Bulk clone and pull operations run at bootstrap"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordOperation records a lifecycle operation.
func (m *Metrics) RecordOperation(ctx context.Context, op, outcome string) {
	if m == nil {
		return
	}
	m.Operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

// RecordUpdateCheck records the result of a single update check.
func (m *Metrics) RecordUpdateCheck(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.UpdateChecks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordSeed records a bulk clone or pull.
func (m *Metrics) RecordSeed(ctx context.Context, op, outcome string) {
	if m == nil {
		return
	}
	m.Seeds.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}
