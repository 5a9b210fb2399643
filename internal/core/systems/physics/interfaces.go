//go:generate mockgen -source=interfaces.go -destination=mocks/physics.go -package=mocks

package physics

import "github.com/go-gl/mathgl/mgl64"

// Capabilities an actor may expose to force zones. Only Pushable is
// required; the others are detected with type assertions.

// Pushable receives external forces. The receiver owns integration: the
// zone never touches position or velocity itself.
type Pushable interface {
	ApplyExternalForce(force mgl64.Vec3, mode ForceMode, overrideVelocity bool)
}

// JumpResetter lets a zone restore an actor's jump budget on entry.
type JumpResetter interface {
	ResetJumpState()
}

// ControlLimiter scales how much of its own input an actor may apply.
// 1 is full authority, 0 suppresses control entirely.
type ControlLimiter interface {
	SetControlAuthority(scale float64)
}
