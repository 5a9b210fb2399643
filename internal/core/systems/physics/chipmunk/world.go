// Package chipmunk runs zone actors on the chipmunk2d engine. Zone bounds
// become static sensor shapes, and sensor overlaps are forwarded to the
// zone system as enter and exit notifications.
package chipmunk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/systems"
	"github.com/zeusync/forcezone/internal/core/zone"
)

const (
	collisionActor cp.CollisionType = iota + 1
	collisionZone
)

var (
	ErrInvalidBody = errors.New("body mass and radius must be positive")
	ErrZoneExists  = errors.New("zone sensor already exists")
)

var (
	_ systems.System     = (*World)(nil)
	_ models.Registry    = (*World)(nil)
	_ systems.ZonePlacer = (*World)(nil)
)

// OverlapSink receives sensor overlaps. *systems.ZoneSystem satisfies it.
type OverlapSink interface {
	Enter(id systems.ZoneID, actor models.EntityID) bool
	Exit(id systems.ZoneID, actor models.EntityID)
}

type Option func(*World)

func WithGravity(g mgl64.Vec3) Option {
	return func(w *World) { w.space.SetGravity(cp.Vector{X: g.X(), Y: g.Y()}) }
}

func WithLogger(logger log.Log) Option {
	return func(w *World) { w.logger = logger }
}

// World owns the chipmunk space and is the actor registry for zones.
// Bodies and sensors may only be added or removed between steps.
type World struct {
	space  *cp.Space
	sink   OverlapSink
	logger log.Log

	mu      sync.RWMutex
	bodies  map[models.EntityID]*Body
	sensors map[systems.ZoneID]*cp.Shape
	nextID  models.EntityID
}

func NewWorld(opts ...Option) *World {
	w := &World{
		space:   cp.NewSpace(),
		logger:  log.NewNop(),
		bodies:  make(map[models.EntityID]*Body),
		sensors: make(map[systems.ZoneID]*cp.Shape),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(log.String("component", "chipmunk"))

	handler := w.space.NewCollisionHandler(collisionActor, collisionZone)
	handler.UserData = w
	handler.BeginFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) bool {
		world, ok := userData.(*World)
		if !ok || world == nil || world.sink == nil {
			return true
		}
		if actor, zoneID, ok := overlapOf(arb); ok {
			world.sink.Enter(zoneID, actor)
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, _ *cp.Space, userData interface{}) {
		world, ok := userData.(*World)
		if !ok || world == nil || world.sink == nil {
			return
		}
		if actor, zoneID, ok := overlapOf(arb); ok {
			world.sink.Exit(zoneID, actor)
		}
	}
	return w
}

// Attach routes sensor overlaps to sink.
func (w *World) Attach(sink OverlapSink) { w.sink = sink }

func (w *World) Space() *cp.Space { return w.space }

// AddBody spawns a circular actor body at pos.
func (w *World) AddBody(mass, radius float64, pos mgl64.Vec3) (*Body, error) {
	if mass <= 0 || radius <= 0 {
		return nil, ErrInvalidBody
	}
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(cp.Vector{X: pos.X(), Y: pos.Y()})
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionActor)

	w.mu.Lock()
	w.nextID++
	id := w.nextID
	b := &Body{id: id, body: body, shape: shape, control: 1, MaxJumps: 1, JumpsLeft: 1}
	w.bodies[id] = b
	w.mu.Unlock()

	body.UserData = id
	shape.UserData = id
	w.space.AddBody(body)
	w.space.AddShape(shape)
	return b, nil
}

// RemoveBody destroys an actor. Zones still holding its id see a stale
// handle on their next tick.
func (w *World) RemoveBody(id models.EntityID) error {
	w.mu.Lock()
	b, ok := w.bodies[id]
	delete(w.bodies, id)
	w.mu.Unlock()
	if !ok {
		return models.ErrEntityNotFound
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	return nil
}

// PlaceZone places a static sensor covering bounds for zone id.
func (w *World) PlaceZone(id systems.ZoneID, bounds zone.Bounds) error {
	if err := bounds.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sensors[id]; ok {
		return fmt.Errorf("zone %d: %w", id, ErrZoneExists)
	}
	bb := cp.BB{L: bounds.X, B: bounds.Y, R: bounds.X + bounds.Width, T: bounds.Y + bounds.Height}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionZone)
	shape.UserData = id
	w.space.AddShape(shape)
	w.sensors[id] = shape
	return nil
}

func (w *World) RemoveZone(id systems.ZoneID) bool {
	w.mu.Lock()
	shape, ok := w.sensors[id]
	delete(w.sensors, id)
	w.mu.Unlock()
	if ok {
		w.space.RemoveShape(shape)
	}
	return ok
}

func (w *World) Body(id models.EntityID) (*Body, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.bodies[id]
	return b, ok
}

func (w *World) IsValid(id models.EntityID) bool {
	_, ok := w.Body(id)
	return ok
}

func (w *World) Lookup(id models.EntityID) (any, bool) {
	b, ok := w.Body(id)
	if !ok {
		return nil, false
	}
	return b, true
}

func (w *World) Name() string               { return "physics" }
func (w *World) Priority() systems.Priority { return systems.PriorityHigh }

func (w *World) Initialize(_ context.Context) error { return nil }

func (w *World) Update(deltaTime float64, _ time.Duration) error {
	if deltaTime <= 0 {
		return nil
	}
	w.space.Step(deltaTime)
	return nil
}

func (w *World) Shutdown(_ context.Context) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	w.logger.Info("physics world stopped", log.Int("bodies", len(w.bodies)), log.Int("sensors", len(w.sensors)))
	return nil
}

func overlapOf(arb *cp.Arbiter) (models.EntityID, systems.ZoneID, bool) {
	a, b := arb.Shapes()
	if actor, ok := a.UserData.(models.EntityID); ok {
		zoneID, ok := b.UserData.(systems.ZoneID)
		return actor, zoneID, ok
	}
	if actor, ok := b.UserData.(models.EntityID); ok {
		zoneID, ok := a.UserData.(systems.ZoneID)
		return actor, zoneID, ok
	}
	return 0, 0, false
}
