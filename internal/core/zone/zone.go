// Package zone implements force zones: regions that push the single actor
// overlapping them once per simulation tick.
//
// A Zone is driven entirely by its caller. The collision layer reports
// overlaps through OnOverlapEnter and OnOverlapExit, and the simulation
// loop advances it with Tick. None of the methods are safe for concurrent
// use; all calls are expected on the simulation goroutine.
package zone

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/systems/physics"
)

// Option configures a Zone at construction.
type Option func(*Zone)

func WithName(name string) Option {
	return func(z *Zone) { z.name = name }
}

func WithLogger(logger log.Log) Option {
	return func(z *Zone) {
		if logger != nil {
			z.logger = logger
		}
	}
}

// WithObserver appends an observer; may be given more than once.
func WithObserver(obs Observer) Option {
	return func(z *Zone) {
		if obs != nil {
			z.observers = append(z.observers, obs)
		}
	}
}

// Zone tracks at most one occupant. Later entrants are ignored until the
// occupant leaves or its handle goes stale.
type Zone struct {
	name      string
	profile   Profile
	registry  models.Registry
	observers Observers
	logger    log.Log

	occupant    models.EntityID
	occupied    bool
	dwell       float64
	multiplier  float64
	lastApplied time.Duration
}

// New builds an empty zone. The profile must come from NewProfile.
func New(profile Profile, registry models.Registry, opts ...Option) (*Zone, error) {
	if err := profile.cfg.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, ErrNilRegistry
	}
	z := &Zone{
		name:       "zone",
		profile:    profile,
		registry:   registry,
		logger:     log.NewNop(),
		multiplier: 1,
	}
	for _, opt := range opts {
		opt(z)
	}
	z.logger = z.logger.With(log.String("zone", z.name))
	return z, nil
}

func (z *Zone) Name() string { return z.name }

func (z *Zone) Profile() Profile { return z.profile }

// OnOverlapEnter starts occupancy when the zone is empty and the actor is
// Pushable. It reports whether the actor became the occupant.
func (z *Zone) OnOverlapEnter(id models.EntityID) bool {
	z.dropStaleOccupant()
	if z.occupied {
		return false
	}

	actor, ok := z.registry.Lookup(id)
	if !ok {
		return false
	}
	if _, pushable := actor.(physics.Pushable); !pushable {
		return false
	}

	z.occupant = id
	z.occupied = true
	z.dwell = 0
	z.multiplier = 1

	if z.profile.ResetJumpOnEnter() {
		if jr, ok := actor.(physics.JumpResetter); ok {
			jr.ResetJumpState()
		}
	}
	if cl, ok := actor.(physics.ControlLimiter); ok {
		cl.SetControlAuthority(z.profile.ControlAuthority())
	}

	z.logger.Debug("occupant entered", log.Uint64("actor", uint64(id)))
	z.observers.OnEnter(z.name, id)
	return true
}

// OnOverlapExit empties the zone when id is the occupant. Exits for any
// other actor are ignored.
func (z *Zone) OnOverlapExit(id models.EntityID) {
	z.dropStaleOccupant()
	if !z.occupied || id != z.occupant {
		return
	}
	z.clear(ExitOverlap)
}

// Tick advances dwell time and the ramp, then pushes the occupant if the
// profile's application policy allows it this tick. now is the monotonic
// simulation time used for interval gating.
func (z *Zone) Tick(dt float64, now time.Duration) (Emission, bool) {
	actor, ok := z.resolveOccupant()
	if !ok {
		return Emission{}, false
	}

	if !(dt > 0) {
		dt = 0
	}
	z.dwell += dt
	z.multiplier = z.profile.MultiplierAt(z.dwell)

	var force mgl64.Vec3
	if z.profile.Continuous() {
		force = z.profile.ComputeForce(z.multiplier, dt)
	} else {
		if now < z.lastApplied+z.profile.Interval() {
			return Emission{}, false
		}
		force = z.profile.ComputeForce(z.multiplier, 1)
		z.lastApplied = now
	}

	actor.ApplyExternalForce(force, z.profile.Mode(), z.profile.OverrideVelocity())

	e := Emission{
		Zone:             z.name,
		Actor:            z.occupant,
		Force:            force,
		Mode:             z.profile.Mode(),
		OverrideVelocity: z.profile.OverrideVelocity(),
		Multiplier:       z.multiplier,
		Dwell:            z.dwell,
		At:               now,
	}
	z.observers.OnForceApplied(e)
	return e, true
}

func (z *Zone) IsOccupied() bool {
	z.dropStaleOccupant()
	return z.occupied
}

// Occupant returns the tracked actor, if any.
func (z *Zone) Occupant() (models.EntityID, bool) {
	z.dropStaleOccupant()
	return z.occupant, z.occupied
}

// DwellDuration is the seconds elapsed since the occupant entered.
func (z *Zone) DwellDuration() float64 {
	z.dropStaleOccupant()
	return z.dwell
}

// Multiplier is the ramp value computed on the last tick.
func (z *Zone) Multiplier() float64 {
	z.dropStaleOccupant()
	return z.multiplier
}

// CurrentForce is the base force scaled by the current multiplier, before
// any tick duration scaling.
func (z *Zone) CurrentForce() mgl64.Vec3 {
	z.dropStaleOccupant()
	return z.profile.Force().Mul(z.multiplier)
}

// SetForce replaces the base force from the next tick on. Occupancy, dwell
// and multiplier are untouched.
func (z *Zone) SetForce(force mgl64.Vec3) error {
	p, err := z.profile.WithForce(force)
	if err != nil {
		return err
	}
	z.profile = p
	return nil
}

// SetProfile swaps the whole profile, keeping occupancy state. Control
// authority of a current occupant is updated immediately.
func (z *Zone) SetProfile(p Profile) error {
	if err := p.cfg.Validate(); err != nil {
		return err
	}
	z.profile = p
	if actor, ok := z.resolveOccupant(); ok {
		if cl, ok := actor.(physics.ControlLimiter); ok {
			cl.SetControlAuthority(p.ControlAuthority())
		}
	}
	return nil
}

// resolveOccupant returns the occupant's force capability, coercing a
// stale handle into an exit.
func (z *Zone) resolveOccupant() (physics.Pushable, bool) {
	if !z.occupied {
		return nil, false
	}
	actor, ok := z.registry.Lookup(z.occupant)
	if !ok {
		z.logger.Warn("occupant handle went stale", log.Uint64("actor", uint64(z.occupant)))
		z.clear(ExitStale)
		return nil, false
	}
	pushable, ok := actor.(physics.Pushable)
	if !ok {
		z.clear(ExitStale)
		return nil, false
	}
	return pushable, true
}

func (z *Zone) dropStaleOccupant() {
	if z.occupied && !z.registry.IsValid(z.occupant) {
		z.logger.Warn("occupant handle went stale", log.Uint64("actor", uint64(z.occupant)))
		z.clear(ExitStale)
	}
}

// clear empties the zone and hands full control back to the former
// occupant if it still resolves.
func (z *Zone) clear(reason ExitReason) {
	id := z.occupant
	if actor, ok := z.registry.Lookup(id); ok {
		if cl, ok := actor.(physics.ControlLimiter); ok {
			cl.SetControlAuthority(1)
		}
	}
	z.occupant = models.NoEntity
	z.occupied = false
	z.dwell = 0
	z.multiplier = 1

	z.logger.Debug("occupant left", log.Uint64("actor", uint64(id)), log.String("reason", reason.String()))
	z.observers.OnExit(z.name, id, reason)
}
