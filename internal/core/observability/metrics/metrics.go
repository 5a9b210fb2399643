// Package metrics exports zone activity as OpenTelemetry instruments.
package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/zone"
)

const instrumentationName = "github.com/zeusync/forcezone/internal/core/zone"

var _ zone.Observer = (*ZoneMetrics)(nil)

// ZoneMetrics counts zone transitions and force deliveries.
type ZoneMetrics struct {
	entries   metric.Int64Counter
	exits     metric.Int64Counter
	emissions metric.Int64Counter
	magnitude metric.Float64Histogram
}

// New registers the zone instruments on meter.
func New(meter metric.Meter) (*ZoneMetrics, error) {
	m := &ZoneMetrics{}
	var err error
	if m.entries, err = meter.Int64Counter("zone.entries",
		metric.WithDescription("Actors that became a zone occupant")); err != nil {
		return nil, fmt.Errorf("zone.entries: %w", err)
	}
	if m.exits, err = meter.Int64Counter("zone.exits",
		metric.WithDescription("Occupants that left a zone")); err != nil {
		return nil, fmt.Errorf("zone.exits: %w", err)
	}
	if m.emissions, err = meter.Int64Counter("zone.emissions",
		metric.WithDescription("Forces delivered to occupants")); err != nil {
		return nil, fmt.Errorf("zone.emissions: %w", err)
	}
	if m.magnitude, err = meter.Float64Histogram("zone.force.magnitude",
		metric.WithDescription("Length of each delivered force vector")); err != nil {
		return nil, fmt.Errorf("zone.force.magnitude: %w", err)
	}
	return m, nil
}

// Provide builds ZoneMetrics on the global meter provider, or on a no-op
// meter when disabled.
func Provide(enabled bool) (*ZoneMetrics, error) {
	if !enabled {
		return New(noop.Meter{})
	}
	return New(otel.GetMeterProvider().Meter(instrumentationName))
}

func (m *ZoneMetrics) OnEnter(name string, _ models.EntityID) {
	m.entries.Add(context.Background(), 1, metric.WithAttributes(attribute.String("zone", name)))
}

func (m *ZoneMetrics) OnExit(name string, _ models.EntityID, reason zone.ExitReason) {
	m.exits.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("zone", name),
		attribute.String("reason", reason.String()),
	))
}

func (m *ZoneMetrics) OnForceApplied(e zone.Emission) {
	attrs := metric.WithAttributes(
		attribute.String("zone", e.Zone),
		attribute.String("mode", e.Mode.String()),
	)
	ctx := context.Background()
	m.emissions.Add(ctx, 1, attrs)
	m.magnitude.Record(ctx, e.Force.Len(), attrs)
}
