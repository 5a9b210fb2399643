package physics

import "github.com/go-gl/mathgl/mgl64"

var (
	_ Pushable       = (*PointMass)(nil)
	_ JumpResetter   = (*PointMass)(nil)
	_ ControlLimiter = (*PointMass)(nil)
)

// PointMass is a minimal semi-implicit Euler body. It is the reference
// receiver for zone forces when no physics engine is attached.
type PointMass struct {
	Mass     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3

	// JumpsLeft is restored to MaxJumps by ResetJumpState.
	JumpsLeft int
	MaxJumps  int

	control float64
	accel   mgl64.Vec3
}

func NewPointMass(mass float64, position mgl64.Vec3) *PointMass {
	if mass <= 0 {
		mass = 1
	}
	return &PointMass{Mass: mass, Position: position, control: 1, MaxJumps: 1, JumpsLeft: 1}
}

func (p *PointMass) ApplyExternalForce(force mgl64.Vec3, mode ForceMode, overrideVelocity bool) {
	if mode == ModeAcceleration {
		if overrideVelocity {
			p.Velocity = ReplaceAlong(p.Velocity, force, mgl64.Vec3{})
		}
		p.accel = p.accel.Add(force)
		return
	}

	delta := force
	if mode == ModeImpulse {
		delta = force.Mul(1 / p.Mass)
	}
	if overrideVelocity {
		p.Velocity = ReplaceAlong(p.Velocity, force, delta)
		return
	}
	p.Velocity = p.Velocity.Add(delta)
}

func (p *PointMass) ResetJumpState() { p.JumpsLeft = p.MaxJumps }

func (p *PointMass) SetControlAuthority(scale float64) { p.control = Clamp01(scale) }

// ControlAuthority reports the scale last set by a zone.
func (p *PointMass) ControlAuthority() float64 { return p.control }

// Steer applies the actor's own velocity input, scaled by control authority.
func (p *PointMass) Steer(input mgl64.Vec3) {
	p.Velocity = p.Velocity.Add(input.Mul(p.control))
}

// Integrate consumes accumulated acceleration and advances position.
func (p *PointMass) Integrate(dt float64) {
	p.Velocity = p.Velocity.Add(p.accel.Mul(dt))
	p.accel = mgl64.Vec3{}
	p.Position = p.Position.Add(p.Velocity.Mul(dt))
}
