package zone

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/systems/physics"
	"github.com/zeusync/forcezone/internal/core/systems/physics/mocks"
)

type push struct {
	force    mgl64.Vec3
	mode     physics.ForceMode
	override bool
}

type fakeActor struct {
	pushes     []push
	jumpResets int
	authority  []float64
}

func (a *fakeActor) ApplyExternalForce(force mgl64.Vec3, mode physics.ForceMode, override bool) {
	a.pushes = append(a.pushes, push{force: force, mode: mode, override: override})
}

func (a *fakeActor) ResetJumpState() { a.jumpResets++ }

func (a *fakeActor) SetControlAuthority(scale float64) { a.authority = append(a.authority, scale) }

type scenery struct{}

type recorder struct {
	enters    []models.EntityID
	exits     []models.EntityID
	reasons   []ExitReason
	emissions []Emission
}

func (r *recorder) OnEnter(_ string, actor models.EntityID) { r.enters = append(r.enters, actor) }

func (r *recorder) OnExit(_ string, actor models.EntityID, reason ExitReason) {
	r.exits = append(r.exits, actor)
	r.reasons = append(r.reasons, reason)
}

func (r *recorder) OnForceApplied(e Emission) { r.emissions = append(r.emissions, e) }

func updraft(mutate func(*ProfileConfig)) Profile {
	cfg := DefaultProfileConfig()
	cfg.Force = mgl64.Vec3{0, 10, 0}
	if mutate != nil {
		mutate(&cfg)
	}
	return MustProfile(cfg)
}

func newZone(t *testing.T, p Profile, opts ...Option) (*Zone, *models.MemoryRegistry) {
	t.Helper()
	reg := models.NewMemoryRegistry()
	z, err := New(p, reg, opts...)
	require.NoError(t, err)
	return z, reg
}

func spawn(t *testing.T, reg *models.MemoryRegistry, actor any) models.EntityID {
	t.Helper()
	id, err := reg.Spawn(actor)
	require.NoError(t, err)
	return id
}

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "component %d of %v", i, got)
	}
}

func TestEmptyBeforeEnterAndAfterExit(t *testing.T) {
	z, reg := newZone(t, updraft(nil))
	assert.False(t, z.IsOccupied())

	id := spawn(t, reg, &fakeActor{})
	require.True(t, z.OnOverlapEnter(id))
	assert.True(t, z.IsOccupied())

	z.OnOverlapExit(id)
	assert.False(t, z.IsOccupied())
	_, ok := z.Occupant()
	assert.False(t, ok)

	_, emitted := z.Tick(0.1, 100*time.Millisecond)
	assert.False(t, emitted)
}

func TestRampScenario(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) {
		c.Ramp = true
		c.MaxMultiplier = 3
		c.RampDuration = 2 * time.Second
	}))
	actor := &fakeActor{}
	id := spawn(t, reg, actor)
	require.True(t, z.OnOverlapEnter(id))
	assert.Equal(t, 1.0, z.Multiplier())

	e, ok := z.Tick(1.0, time.Second)
	require.True(t, ok)
	assert.InDelta(t, 2.0, e.Multiplier, 1e-9)
	assertVec(t, mgl64.Vec3{0, 20, 0}, e.Force)

	e, ok = z.Tick(1.0, 2*time.Second)
	require.True(t, ok)
	assert.InDelta(t, 3.0, e.Multiplier, 1e-9)
	assertVec(t, mgl64.Vec3{0, 30, 0}, e.Force)
	assert.InDelta(t, 2.0, z.DwellDuration(), 1e-9)

	e, ok = z.Tick(1.0, 3*time.Second)
	require.True(t, ok)
	assert.InDelta(t, 3.0, e.Multiplier, 1e-9)
	assertVec(t, mgl64.Vec3{0, 30, 0}, z.CurrentForce())

	require.Len(t, actor.pushes, 3)
	assert.Equal(t, physics.ModeAcceleration, actor.pushes[0].mode)
}

func TestMultiplierMonotonicDuringRamp(t *testing.T) {
	p := updraft(func(c *ProfileConfig) {
		c.Ramp = true
		c.MaxMultiplier = 4
		c.RampDuration = 1500 * time.Millisecond
	})
	assert.Equal(t, 1.0, p.MultiplierAt(0))
	assert.Equal(t, 4.0, p.MultiplierAt(1.5))
	assert.Equal(t, 4.0, p.MultiplierAt(10))

	prev := p.MultiplierAt(0)
	for dwell := 0.01; dwell <= 1.5; dwell += 0.01 {
		m := p.MultiplierAt(dwell)
		assert.GreaterOrEqual(t, m, prev, "dwell %v", dwell)
		prev = m
	}
}

func TestUnrampedMultiplierStaysAtOne(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) { c.MaxMultiplier = 5 }))
	require.True(t, z.OnOverlapEnter(spawn(t, reg, &fakeActor{})))
	for i := 1; i <= 10; i++ {
		e, ok := z.Tick(0.5, time.Duration(i)*500*time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, 1.0, e.Multiplier)
	}
}

func TestContinuousForceScalesWithTickDuration(t *testing.T) {
	p := updraft(nil)
	for _, dt := range []float64{0.001, 1.0 / 60, 0.02, 0.25} {
		assertVec(t, mgl64.Vec3{0, 10 * 2 * dt, 0}, p.ComputeForce(2, dt))
	}
}

func TestIntervalEmitsOncePerFiveTicks(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) {
		c.Continuous = false
		c.Interval = 100 * time.Millisecond
		c.Mode = physics.ModeImpulse
	}))
	actor := &fakeActor{}
	require.True(t, z.OnOverlapEnter(spawn(t, reg, actor)))

	const dt = 20 * time.Millisecond
	for i := 1; i <= 50; i++ {
		_, emitted := z.Tick(dt.Seconds(), time.Duration(i)*dt)
		assert.Equal(t, i%5 == 0, emitted, "tick %d", i)
	}

	require.Len(t, actor.pushes, 10)
	for _, p := range actor.pushes {
		assertVec(t, mgl64.Vec3{0, 10, 0}, p.force)
		assert.Equal(t, physics.ModeImpulse, p.mode)
	}
	assert.InDelta(t, 1.0, z.DwellDuration(), 1e-9)
}

func TestIntervalZoneStillRamps(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) {
		c.Continuous = false
		c.Interval = time.Second
		c.Ramp = true
		c.MaxMultiplier = 2
		c.RampDuration = time.Second
	}))
	require.True(t, z.OnOverlapEnter(spawn(t, reg, &fakeActor{})))

	_, emitted := z.Tick(0.5, 500*time.Millisecond)
	assert.False(t, emitted)
	assert.InDelta(t, 1.5, z.Multiplier(), 1e-9)

	e, emitted := z.Tick(0.5, time.Second)
	require.True(t, emitted)
	assertVec(t, mgl64.Vec3{0, 20, 0}, e.Force)
}

func TestDwellResetsOnReentry(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) {
		c.Ramp = true
		c.MaxMultiplier = 3
		c.RampDuration = time.Second
	}))
	id := spawn(t, reg, &fakeActor{})
	require.True(t, z.OnOverlapEnter(id))

	prev := 0.0
	for i := 1; i <= 5; i++ {
		z.Tick(0.1, time.Duration(i)*100*time.Millisecond)
		d := z.DwellDuration()
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
	assert.Greater(t, z.Multiplier(), 1.0)

	z.OnOverlapExit(id)
	require.True(t, z.OnOverlapEnter(id))
	assert.Equal(t, 0.0, z.DwellDuration())
	assert.Equal(t, 1.0, z.Multiplier())
}

func TestNegativeTickDoesNotRewindDwell(t *testing.T) {
	z, reg := newZone(t, updraft(nil))
	require.True(t, z.OnOverlapEnter(spawn(t, reg, &fakeActor{})))
	z.Tick(0.5, 500*time.Millisecond)
	e, ok := z.Tick(-0.25, 500*time.Millisecond)
	require.True(t, ok)
	assertVec(t, mgl64.Vec3{}, e.Force)
	assert.InDelta(t, 0.5, z.DwellDuration(), 1e-9)
}

func TestNaNTickIsTreatedAsZero(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) {
		c.Ramp = true
		c.MaxMultiplier = 2
		c.RampDuration = time.Second
	}))
	require.True(t, z.OnOverlapEnter(spawn(t, reg, &fakeActor{})))
	z.Tick(0.5, 500*time.Millisecond)

	e, ok := z.Tick(math.NaN(), 500*time.Millisecond)
	require.True(t, ok)
	assertVec(t, mgl64.Vec3{}, e.Force)
	assert.InDelta(t, 0.5, z.DwellDuration(), 1e-9)
	assert.InDelta(t, 1.5, z.Multiplier(), 1e-9)
	assert.False(t, math.IsNaN(z.CurrentForce().Len()))
}

func TestSetForceMidOccupancy(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) {
		c.Ramp = true
		c.MaxMultiplier = 3
		c.RampDuration = 2 * time.Second
	}))
	actor := &fakeActor{}
	require.True(t, z.OnOverlapEnter(spawn(t, reg, actor)))
	z.Tick(1.0, time.Second)

	require.NoError(t, z.SetForce(mgl64.Vec3{5, 0, 0}))
	assert.True(t, z.IsOccupied())
	assert.InDelta(t, 1.0, z.DwellDuration(), 1e-9)
	assert.InDelta(t, 2.0, z.Multiplier(), 1e-9)
	assertVec(t, mgl64.Vec3{10, 0, 0}, z.CurrentForce())

	e, ok := z.Tick(1.0, 2*time.Second)
	require.True(t, ok)
	assertVec(t, mgl64.Vec3{15, 0, 0}, e.Force)
}

func TestSetForceRejectsNonFinite(t *testing.T) {
	z, _ := newZone(t, updraft(nil))
	err := z.SetForce(mgl64.Vec3{math.NaN(), 0, 0})
	require.ErrorIs(t, err, ErrInvalidProfile)
	assertVec(t, mgl64.Vec3{0, 10, 0}, z.Profile().Force())
}

func TestSetProfileKeepsOccupancy(t *testing.T) {
	z, reg := newZone(t, updraft(nil))
	actor := &fakeActor{}
	require.True(t, z.OnOverlapEnter(spawn(t, reg, actor)))
	z.Tick(0.5, 500*time.Millisecond)

	require.NoError(t, z.SetProfile(updraft(func(c *ProfileConfig) {
		c.ControlAuthority = 0.5
		c.OverrideVelocity = true
	})))
	assert.True(t, z.IsOccupied())
	assert.InDelta(t, 0.5, z.DwellDuration(), 1e-9)
	assert.Equal(t, []float64{1, 0.5}, actor.authority)

	require.Error(t, z.SetProfile(Profile{}))
	assert.True(t, z.Profile().OverrideVelocity())
}

func TestSecondEntrantIgnored(t *testing.T) {
	z, reg := newZone(t, updraft(nil))
	first := spawn(t, reg, &fakeActor{})
	second := &fakeActor{}
	secondID := spawn(t, reg, second)

	require.True(t, z.OnOverlapEnter(first))
	assert.False(t, z.OnOverlapEnter(secondID))

	z.OnOverlapExit(secondID)
	occupant, ok := z.Occupant()
	require.True(t, ok)
	assert.Equal(t, first, occupant)

	z.Tick(0.1, 100*time.Millisecond)
	assert.Empty(t, second.pushes)
}

func TestNonPushableActorIgnored(t *testing.T) {
	z, reg := newZone(t, updraft(nil))
	assert.False(t, z.OnOverlapEnter(spawn(t, reg, scenery{})))
	assert.False(t, z.OnOverlapEnter(models.EntityID(9999)))
	assert.False(t, z.IsOccupied())
}

func TestStaleOccupantBecomesExit(t *testing.T) {
	rec := &recorder{}
	z, reg := newZone(t, updraft(nil), WithObserver(rec))
	id := spawn(t, reg, &fakeActor{})
	require.True(t, z.OnOverlapEnter(id))
	z.Tick(0.5, 500*time.Millisecond)

	require.NoError(t, reg.Destroy(id))

	_, emitted := z.Tick(0.1, 600*time.Millisecond)
	assert.False(t, emitted)
	assert.False(t, z.IsOccupied())
	assert.Equal(t, 0.0, z.DwellDuration())
	require.Len(t, rec.reasons, 1)
	assert.Equal(t, ExitStale, rec.reasons[0])

	next := spawn(t, reg, &fakeActor{})
	assert.True(t, z.OnOverlapEnter(next))
}

func TestStaleOccupantDetectedByAccessor(t *testing.T) {
	rec := &recorder{}
	z, reg := newZone(t, updraft(nil), WithObserver(rec))
	id := spawn(t, reg, &fakeActor{})
	require.True(t, z.OnOverlapEnter(id))
	require.NoError(t, reg.Destroy(id))

	assert.Equal(t, 0.0, z.DwellDuration())
	assert.False(t, z.IsOccupied())
	assert.Equal(t, []ExitReason{ExitStale}, rec.reasons)
}

func TestEntryCapabilities(t *testing.T) {
	z, reg := newZone(t, updraft(func(c *ProfileConfig) {
		c.ResetJumpOnEnter = true
		c.ControlAuthority = 0.2
	}))
	actor := &fakeActor{}
	id := spawn(t, reg, actor)

	require.True(t, z.OnOverlapEnter(id))
	assert.Equal(t, 1, actor.jumpResets)
	assert.Equal(t, []float64{0.2}, actor.authority)

	z.OnOverlapExit(id)
	assert.Equal(t, []float64{0.2, 1}, actor.authority)
}

func TestJumpResetOnlyWhenConfigured(t *testing.T) {
	z, reg := newZone(t, updraft(nil))
	actor := &fakeActor{}
	require.True(t, z.OnOverlapEnter(spawn(t, reg, actor)))
	assert.Zero(t, actor.jumpResets)
}

func TestObserverSeesTransitionsAndEmissions(t *testing.T) {
	rec := &recorder{}
	var funcsCalled int
	z, reg := newZone(t, updraft(func(c *ProfileConfig) { c.OverrideVelocity = true }),
		WithName("updraft"),
		WithObserver(rec),
		WithObserver(ObserverFuncs{ForceApplied: func(Emission) { funcsCalled++ }}),
	)
	id := spawn(t, reg, &fakeActor{})

	z.OnOverlapEnter(id)
	z.Tick(0.5, 500*time.Millisecond)
	z.OnOverlapExit(id)

	assert.Equal(t, []models.EntityID{id}, rec.enters)
	assert.Equal(t, []models.EntityID{id}, rec.exits)
	assert.Equal(t, []ExitReason{ExitOverlap}, rec.reasons)
	require.Len(t, rec.emissions, 1)
	e := rec.emissions[0]
	assert.Equal(t, "updraft", e.Zone)
	assert.Equal(t, id, e.Actor)
	assert.True(t, e.OverrideVelocity)
	assert.Equal(t, 500*time.Millisecond, e.At)
	assert.Equal(t, 1, funcsCalled)
}

func TestDeliversThroughPushableCapability(t *testing.T) {
	ctrl := gomock.NewController(t)
	actor := mocks.NewMockPushable(ctrl)
	actor.EXPECT().ApplyExternalForce(mgl64.Vec3{0, 0, 5}, physics.ModeVelocityChange, true).Times(2)

	z, reg := newZone(t, MustProfile(ProfileConfig{
		Force:            mgl64.Vec3{0, 0, 5},
		Mode:             physics.ModeVelocityChange,
		MaxMultiplier:    1,
		RampDuration:     time.Second,
		OverrideVelocity: true,
		Interval:         250 * time.Millisecond,
		ControlAuthority: 1,
	}))
	require.True(t, z.OnOverlapEnter(spawn(t, reg, actor)))

	// pushes at 300ms and 600ms
	for i := 1; i <= 6; i++ {
		z.Tick(0.1, time.Duration(i)*100*time.Millisecond)
	}
}

func TestNewRejectsInvalidInputs(t *testing.T) {
	_, err := New(Profile{}, models.NewMemoryRegistry())
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = New(updraft(nil), nil)
	assert.ErrorIs(t, err, ErrNilRegistry)
}
