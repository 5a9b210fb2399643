package chipmunk

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/systems/physics"
)

var (
	_ physics.Pushable       = (*Body)(nil)
	_ physics.JumpResetter   = (*Body)(nil)
	_ physics.ControlLimiter = (*Body)(nil)
)

// Body is a dynamic chipmunk body acting as a zone actor. Chipmunk is a 2D
// engine, so the Z component of every force is dropped.
type Body struct {
	id    models.EntityID
	body  *cp.Body
	shape *cp.Shape

	JumpsLeft int
	MaxJumps  int
	control   float64
}

func (b *Body) ID() models.EntityID { return b.id }
func (b *Body) CP() *cp.Body        { return b.body }

func (b *Body) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, p.Y, 0}
}

func (b *Body) Velocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, v.Y, 0}
}

func (b *Body) SetPosition(p mgl64.Vec3) {
	b.body.SetPosition(cp.Vector{X: p.X(), Y: p.Y()})
}

// ApplyExternalForce maps zone force modes onto chipmunk: acceleration
// becomes a force scaled by mass and is consumed by the next step, impulse
// and velocity change act immediately.
func (b *Body) ApplyExternalForce(force mgl64.Vec3, mode physics.ForceMode, overrideVelocity bool) {
	force = mgl64.Vec3{force.X(), force.Y(), 0}
	at := b.body.Position()

	switch mode {
	case physics.ModeAcceleration:
		if overrideVelocity {
			b.setVelocity(physics.ReplaceAlong(b.Velocity(), force, mgl64.Vec3{}))
		}
		f := force.Mul(b.body.Mass())
		b.body.ApplyForceAtWorldPoint(cp.Vector{X: f.X(), Y: f.Y()}, at)
	case physics.ModeImpulse:
		if overrideVelocity {
			b.setVelocity(physics.ReplaceAlong(b.Velocity(), force, force.Mul(1/b.body.Mass())))
			return
		}
		b.body.ApplyImpulseAtWorldPoint(cp.Vector{X: force.X(), Y: force.Y()}, at)
	default:
		if overrideVelocity {
			b.setVelocity(physics.ReplaceAlong(b.Velocity(), force, force))
			return
		}
		b.setVelocity(b.Velocity().Add(force))
	}
}

func (b *Body) ResetJumpState() { b.JumpsLeft = b.MaxJumps }

func (b *Body) SetControlAuthority(scale float64) { b.control = physics.Clamp01(scale) }

func (b *Body) ControlAuthority() float64 { return b.control }

// Steer adds player input to the velocity, scaled by control authority.
func (b *Body) Steer(input mgl64.Vec3) {
	b.setVelocity(b.Velocity().Add(input.Mul(b.control)))
}

func (b *Body) setVelocity(v mgl64.Vec3) {
	b.body.SetVelocityVector(cp.Vector{X: v.X(), Y: v.Y()})
}
