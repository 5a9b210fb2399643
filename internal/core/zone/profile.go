package zone

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/forcezone/internal/core/systems/physics"
)

// ProfileConfig is the editable form of a Profile, as found in zone files.
type ProfileConfig struct {
	Force            mgl64.Vec3        `json:"force" yaml:"force"`
	Mode             physics.ForceMode `json:"mode" yaml:"mode"`
	Ramp             bool              `json:"ramp" yaml:"ramp"`
	MaxMultiplier    float64           `json:"maxMultiplier" yaml:"maxMultiplier"`
	RampDuration     time.Duration     `json:"rampDuration" yaml:"rampDuration"`
	OverrideVelocity bool              `json:"overrideVelocity" yaml:"overrideVelocity"`
	Continuous       bool              `json:"continuous" yaml:"continuous"`
	Interval         time.Duration     `json:"interval" yaml:"interval"`
	ResetJumpOnEnter bool              `json:"resetJumpOnEnter" yaml:"resetJumpOnEnter"`
	ControlAuthority float64           `json:"controlAuthority" yaml:"controlAuthority"`
}

// DefaultProfileConfig is a continuous, unramped zone with no force.
func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		Mode:             physics.ModeAcceleration,
		MaxMultiplier:    1,
		RampDuration:     time.Second,
		Continuous:       true,
		Interval:         100 * time.Millisecond,
		ControlAuthority: 1,
	}
}

// UnmarshalYAML fills keys missing from the document with defaults.
func (c *ProfileConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain ProfileConfig
	*c = DefaultProfileConfig()
	return node.Decode((*plain)(c))
}

// Validate reports the first parameter outside its valid range.
func (c ProfileConfig) Validate() error {
	for i, v := range c.Force {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigurationError{Field: "force", Value: c.Force, Reason: "component " + string(rune('x'+i)) + " is not finite"}
		}
	}
	switch {
	case c.Mode > physics.ModeVelocityChange:
		return &ConfigurationError{Field: "mode", Value: c.Mode, Reason: "unknown force mode"}
	case math.IsNaN(c.MaxMultiplier) || math.IsInf(c.MaxMultiplier, 0) || c.MaxMultiplier < 1:
		return &ConfigurationError{Field: "maxMultiplier", Value: c.MaxMultiplier, Reason: "must be finite and >= 1"}
	case c.RampDuration <= 0:
		return &ConfigurationError{Field: "rampDuration", Value: c.RampDuration, Reason: "must be > 0"}
	case c.Interval <= 0:
		return &ConfigurationError{Field: "interval", Value: c.Interval, Reason: "must be > 0"}
	case math.IsNaN(c.ControlAuthority) || c.ControlAuthority < 0 || c.ControlAuthority > 1:
		return &ConfigurationError{Field: "controlAuthority", Value: c.ControlAuthority, Reason: "must be within [0, 1]"}
	}
	return nil
}

// Profile describes how a zone pushes its occupant. The zero value is not
// usable; build one with NewProfile.
type Profile struct {
	cfg ProfileConfig
}

func NewProfile(cfg ProfileConfig) (Profile, error) {
	if err := cfg.Validate(); err != nil {
		return Profile{}, err
	}
	return Profile{cfg: cfg}, nil
}

// MustProfile panics on an invalid configuration. Intended for literals.
func MustProfile(cfg ProfileConfig) Profile {
	p, err := NewProfile(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Profile) Config() ProfileConfig       { return p.cfg }
func (p Profile) Force() mgl64.Vec3           { return p.cfg.Force }
func (p Profile) Mode() physics.ForceMode     { return p.cfg.Mode }
func (p Profile) RampEnabled() bool           { return p.cfg.Ramp }
func (p Profile) MaxMultiplier() float64      { return p.cfg.MaxMultiplier }
func (p Profile) RampDuration() time.Duration { return p.cfg.RampDuration }
func (p Profile) OverrideVelocity() bool      { return p.cfg.OverrideVelocity }
func (p Profile) Continuous() bool            { return p.cfg.Continuous }
func (p Profile) Interval() time.Duration     { return p.cfg.Interval }
func (p Profile) ResetJumpOnEnter() bool      { return p.cfg.ResetJumpOnEnter }
func (p Profile) ControlAuthority() float64   { return p.cfg.ControlAuthority }

// WithForce returns a copy of p pushing along force instead.
func (p Profile) WithForce(force mgl64.Vec3) (Profile, error) {
	cfg := p.cfg
	cfg.Force = force
	return NewProfile(cfg)
}

// ComputeForce scales the base force by multiplier, and additionally by
// tickDuration for continuous profiles.
func (p Profile) ComputeForce(multiplier, tickDuration float64) mgl64.Vec3 {
	f := p.cfg.Force.Mul(multiplier)
	if p.cfg.Continuous {
		f = f.Mul(tickDuration)
	}
	return f
}

// MultiplierAt is the ramp value after dwell seconds of continuous
// occupancy: 1 at entry, MaxMultiplier once RampDuration has elapsed.
func (p Profile) MultiplierAt(dwell float64) float64 {
	if !p.cfg.Ramp {
		return 1
	}
	progress := physics.Clamp01(dwell / p.cfg.RampDuration.Seconds())
	return physics.Lerp(1, p.cfg.MaxMultiplier, progress)
}
