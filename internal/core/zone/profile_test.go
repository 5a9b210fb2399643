package zone

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileValidation(t *testing.T) {
	cases := []struct {
		name  string
		field string
		edit  func(*ProfileConfig)
	}{
		{"multiplier below one", "maxMultiplier", func(c *ProfileConfig) { c.MaxMultiplier = 0.5 }},
		{"infinite multiplier", "maxMultiplier", func(c *ProfileConfig) { c.Ramp = true; c.MaxMultiplier = math.Inf(1) }},
		{"zero ramp", "rampDuration", func(c *ProfileConfig) { c.RampDuration = 0 }},
		{"negative ramp", "rampDuration", func(c *ProfileConfig) { c.RampDuration = -time.Second }},
		{"zero interval", "interval", func(c *ProfileConfig) { c.Interval = 0 }},
		{"authority above one", "controlAuthority", func(c *ProfileConfig) { c.ControlAuthority = 1.5 }},
		{"infinite force", "force", func(c *ProfileConfig) { c.Force = mgl64.Vec3{0, math.Inf(1), 0} }},
		{"unknown mode", "mode", func(c *ProfileConfig) { c.Mode = 7 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultProfileConfig()
			tc.edit(&cfg)

			_, err := NewProfile(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProfile)

			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, tc.field, cerr.Field)
		})
	}
}

func TestDefaultProfileIsValid(t *testing.T) {
	p, err := NewProfile(DefaultProfileConfig())
	require.NoError(t, err)
	assert.True(t, p.Continuous())
	assert.Equal(t, 1.0, p.ControlAuthority())
	assert.Equal(t, mgl64.Vec3{}, p.ComputeForce(3, 1))
}

func TestComputeForceIntervalIgnoresTickDuration(t *testing.T) {
	cfg := DefaultProfileConfig()
	cfg.Force = mgl64.Vec3{1, 2, 3}
	cfg.Continuous = false
	p := MustProfile(cfg)

	assert.Equal(t, mgl64.Vec3{2, 4, 6}, p.ComputeForce(2, 0.016))
	assert.Equal(t, mgl64.Vec3{2, 4, 6}, p.ComputeForce(2, 1))
}

func TestWithForceLeavesOriginalUntouched(t *testing.T) {
	p := MustProfile(DefaultProfileConfig())
	q, err := p.WithForce(mgl64.Vec3{0, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{}, p.Force())
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, q.Force())
}

func TestMustProfilePanics(t *testing.T) {
	assert.Panics(t, func() { MustProfile(ProfileConfig{}) })
}
