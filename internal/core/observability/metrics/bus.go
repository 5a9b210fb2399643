package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/zeusync/forcezone/internal/core/events/bus"
)

const busInstrumentationName = "github.com/zeusync/forcezone/internal/core/events/bus"

var _ bus.EventBusObserver = (*BusMetrics)(nil)

// BusMetrics observes event bus deliveries.
type BusMetrics struct {
	published metric.Int64Counter
	handlers  metric.Int64Counter
	errors    metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewBus registers the event bus instruments on meter.
func NewBus(meter metric.Meter) (*BusMetrics, error) {
	m := &BusMetrics{}
	var err error
	if m.published, err = meter.Int64Counter("bus.published",
		metric.WithDescription("Events published on the bus")); err != nil {
		return nil, fmt.Errorf("bus.published: %w", err)
	}
	if m.handlers, err = meter.Int64Counter("bus.handlers",
		metric.WithDescription("Handler invocations per delivery")); err != nil {
		return nil, fmt.Errorf("bus.handlers: %w", err)
	}
	if m.errors, err = meter.Int64Counter("bus.errors",
		metric.WithDescription("Deliveries where at least one handler failed")); err != nil {
		return nil, fmt.Errorf("bus.errors: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("bus.delivery.duration",
		metric.WithDescription("Time spent delivering one event"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("bus.delivery.duration: %w", err)
	}
	return m, nil
}

// ProvideBus mirrors Provide for the event bus instruments.
func ProvideBus(enabled bool) (*BusMetrics, error) {
	if !enabled {
		return NewBus(noop.Meter{})
	}
	return NewBus(otel.GetMeterProvider().Meter(busInstrumentationName))
}

func (m *BusMetrics) OnPublish(eventType string, _ bus.Event) {
	m.published.Add(context.Background(), 1, metric.WithAttributes(attribute.String("type", eventType)))
}

func (m *BusMetrics) OnDelivered(eventType string, handlers int, err error, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("type", eventType))
	ctx := context.Background()
	m.handlers.Add(ctx, int64(handlers), attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
	}
	m.duration.Record(ctx, duration.Seconds(), attrs)
}
