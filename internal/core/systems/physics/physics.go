package physics

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ForceMode tells the receiving integrator how to interpret a force vector.
type ForceMode uint8

const (
	// ModeAcceleration is a mass independent acceleration.
	ModeAcceleration ForceMode = iota
	// ModeImpulse is a momentum change, divided by mass on application.
	ModeImpulse
	// ModeVelocityChange is a direct, mass independent velocity delta.
	ModeVelocityChange
)

func (m ForceMode) String() string {
	switch m {
	case ModeAcceleration:
		return "acceleration"
	case ModeImpulse:
		return "impulse"
	case ModeVelocityChange:
		return "velocity_change"
	default:
		return fmt.Sprintf("ForceMode(%d)", uint8(m))
	}
}

// ParseForceMode accepts the names produced by String.
func ParseForceMode(s string) (ForceMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "acceleration":
		return ModeAcceleration, nil
	case "impulse":
		return ModeImpulse, nil
	case "velocity_change", "velocitychange":
		return ModeVelocityChange, nil
	default:
		return ModeAcceleration, fmt.Errorf("unknown force mode %q", s)
	}
}

func (m *ForceMode) UnmarshalText(text []byte) error {
	parsed, err := ParseForceMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m ForceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Lerp interpolates between a and b; t is not clamped.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	return mgl64.Clamp(t, 0, 1)
}

// ReplaceAlong swaps the component of v along dir for delta. A zero dir
// leaves v unchanged apart from adding delta.
func ReplaceAlong(v, dir, delta mgl64.Vec3) mgl64.Vec3 {
	if dir.Len() == 0 {
		return v.Add(delta)
	}
	n := dir.Normalize()
	return v.Sub(n.Mul(v.Dot(n))).Add(delta)
}
