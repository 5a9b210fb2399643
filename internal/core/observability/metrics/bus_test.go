package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/forcezone/internal/core/events/bus"
)

func TestBusMetricsObservesDeliveries(t *testing.T) {
	meter := &fakeMeter{}
	m, err := NewBus(meter)
	require.NoError(t, err)

	b := bus.New()
	b.AddObserver(m)
	_, _ = b.Subscribe("zone.entered", func(bus.Event) error { return nil })
	_, _ = b.Subscribe("zone.entered", func(bus.Event) error { return errors.New("slow consumer") })

	require.Error(t, b.Publish(bus.NewEvent("zone.entered", "test", nil)))

	byName := map[string]recorded{}
	for _, r := range meter.seen {
		byName[r.name] = r
	}
	require.Contains(t, byName, "bus.published")
	assert.Equal(t, "zone.entered", attr(t, byName["bus.published"].attrs, "type"))
	assert.Equal(t, float64(2), byName["bus.handlers"].value)
	assert.Equal(t, float64(1), byName["bus.errors"].value)
	assert.Contains(t, byName, "bus.delivery.duration")
	assert.GreaterOrEqual(t, byName["bus.delivery.duration"].value, 0.0)
}

func TestBusMetricsSkipsErrorCounterOnSuccess(t *testing.T) {
	meter := &fakeMeter{}
	m, err := NewBus(meter)
	require.NoError(t, err)

	m.OnDelivered("zone.exited", 1, nil, 0)
	for _, r := range meter.seen {
		assert.NotEqual(t, "bus.errors", r.name)
	}
}

func TestProvideBusDisabledIsNoop(t *testing.T) {
	m, err := ProvideBus(false)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.OnPublish("x", nil)
		m.OnDelivered("x", 3, errors.New("x"), 0)
	})
}
