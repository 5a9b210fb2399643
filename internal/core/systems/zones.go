package systems

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/forcezone/internal/core/events/bus"
	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/zone"
)

var (
	_ System        = (*ZoneSystem)(nil)
	_ zone.Observer = (*ZoneSystem)(nil)
)

// ZoneID is a stable identifier derived from the zone name.
type ZoneID uint64

func ZoneIDFor(name string) ZoneID { return ZoneID(xxhash.Sum64String(name)) }

// ZonePlacer gives zones a physical extent, such as a sensor shape in a
// physics space.
type ZonePlacer interface {
	PlaceZone(id ZoneID, bounds zone.Bounds) error
	RemoveZone(id ZoneID) bool
}

// ZoneSystem owns every force zone of a simulation. Overlap notifications
// and Update must come from the simulation goroutine; QueueReload and
// Snapshot may be called from anywhere.
type ZoneSystem struct {
	registry  models.Registry
	bus       bus.EventBus
	logger    log.Log
	observers []zone.Observer
	placer    ZonePlacer

	zones map[ZoneID]*zone.Zone
	order []ZoneID

	reloads chan []zone.Definition

	snapMu   sync.RWMutex
	snapshot []ZoneState
	metrics  Metrics
}

// NewZoneSystem wires zones to registry for actor lookups and to eventBus
// for transition events. Extra observers see every zone's transitions.
func NewZoneSystem(registry models.Registry, eventBus bus.EventBus, logger log.Log, observers ...zone.Observer) *ZoneSystem {
	if logger == nil {
		logger = log.NewNop()
	}
	return &ZoneSystem{
		registry:  registry,
		bus:       eventBus,
		logger:    logger.With(log.String("component", "zone-system")),
		observers: observers,
		zones:     make(map[ZoneID]*zone.Zone),
		reloads:   make(chan []zone.Definition, 4),
	}
}

// SetPlacer makes every zone added from now on also placed through p.
func (s *ZoneSystem) SetPlacer(p ZonePlacer) { s.placer = p }

func (s *ZoneSystem) Name() string       { return "zones" }
func (s *ZoneSystem) Priority() Priority { return PriorityNormal }

func (s *ZoneSystem) Initialize(_ context.Context) error {
	s.refreshSnapshot()
	return nil
}

func (s *ZoneSystem) Shutdown(_ context.Context) error {
	s.logger.Info("zone system stopped", log.Int("zones", len(s.zones)))
	return nil
}

// AddZone builds a zone from def. Names must be unique.
func (s *ZoneSystem) AddZone(def zone.Definition) (ZoneID, error) {
	id := ZoneIDFor(def.Name)
	if _, exists := s.zones[id]; exists {
		return 0, fmt.Errorf("zone %q: %w", def.Name, zone.ErrDuplicateZone)
	}
	profile, err := zone.NewProfile(def.Profile)
	if err != nil {
		return 0, fmt.Errorf("zone %q: %w", def.Name, err)
	}

	opts := []zone.Option{
		zone.WithName(def.Name),
		zone.WithLogger(s.logger),
		zone.WithObserver(s),
	}
	for _, obs := range s.observers {
		opts = append(opts, zone.WithObserver(obs))
	}
	z, err := zone.New(profile, s.registry, opts...)
	if err != nil {
		return 0, fmt.Errorf("zone %q: %w", def.Name, err)
	}
	if s.placer != nil {
		if err := s.placer.PlaceZone(id, def.Bounds); err != nil {
			return 0, fmt.Errorf("zone %q: %w", def.Name, err)
		}
	}

	s.zones[id] = z
	s.order = append(s.order, id)
	s.logger.Debug("zone added", log.String("zone", def.Name), log.Uint64("id", uint64(id)))
	return id, nil
}

// RemoveZone drops a zone. Its occupant, if any, gets no exit event.
func (s *ZoneSystem) RemoveZone(id ZoneID) bool {
	if _, ok := s.zones[id]; !ok {
		return false
	}
	delete(s.zones, id)
	if s.placer != nil {
		s.placer.RemoveZone(id)
	}
	for i, zid := range s.order {
		if zid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *ZoneSystem) Zone(id ZoneID) (*zone.Zone, bool) {
	z, ok := s.zones[id]
	return z, ok
}

// Enter forwards an overlap-enter notification to a zone.
func (s *ZoneSystem) Enter(id ZoneID, actor models.EntityID) bool {
	z, ok := s.zones[id]
	if !ok {
		return false
	}
	return z.OnOverlapEnter(actor)
}

// Exit forwards an overlap-exit notification to a zone.
func (s *ZoneSystem) Exit(id ZoneID, actor models.EntityID) {
	if z, ok := s.zones[id]; ok {
		z.OnOverlapExit(actor)
	}
}

// QueueReload hands new definitions to the simulation goroutine; they are
// applied at the start of the next Update. The oldest pending batch is
// discarded when the queue is full.
func (s *ZoneSystem) QueueReload(defs []zone.Definition) {
	for {
		select {
		case s.reloads <- defs:
			return
		default:
		}
		select {
		case <-s.reloads:
		default:
		}
	}
}

// ApplyDefinitions replaces profiles of known zones and adds new ones.
// Occupancy of existing zones is preserved and their bounds stay where
// they were placed. Zones missing from defs are left untouched. New zones
// are placed before any profile is swapped, and a placement failure removes
// the zones added so far, so either every definition applies or none does.
func (s *ZoneSystem) ApplyDefinitions(defs []zone.Definition) error {
	profiles := make([]zone.Profile, len(defs))
	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
		profile, err := zone.NewProfile(def.Profile)
		if err != nil {
			return fmt.Errorf("zone %q: %w", def.Name, err)
		}
		profiles[i] = profile
	}

	existing := make(map[ZoneID]bool, len(defs))
	for _, def := range defs {
		id := ZoneIDFor(def.Name)
		_, ok := s.zones[id]
		existing[id] = ok
	}

	var added []ZoneID
	for _, def := range defs {
		if existing[ZoneIDFor(def.Name)] {
			continue
		}
		id, err := s.AddZone(def)
		if err != nil {
			for _, a := range added {
				s.RemoveZone(a)
			}
			return err
		}
		added = append(added, id)
	}

	for i, def := range defs {
		id := ZoneIDFor(def.Name)
		if !existing[id] {
			continue
		}
		if err := s.zones[id].SetProfile(profiles[i]); err != nil {
			return fmt.Errorf("zone %q: %w", def.Name, err)
		}
		s.publish(EventZoneReloaded, ZoneEvent{Zone: def.Name, ZoneID: id})
	}
	return nil
}

func (s *ZoneSystem) Update(deltaTime float64, now time.Duration) error {
	start := time.Now()
	err := s.drainReloads()
	for _, id := range s.order {
		s.zones[id].Tick(deltaTime, now)
	}
	s.refreshSnapshot()
	s.metrics.Record(time.Since(start), err)
	return err
}

func (s *ZoneSystem) GetMetrics() Metrics { return s.metrics }

// Snapshot returns the zone states captured after the last Update.
func (s *ZoneSystem) Snapshot() []ZoneState {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	out := make([]ZoneState, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

func (s *ZoneSystem) OnEnter(name string, actor models.EntityID) {
	s.publish(EventZoneEntered, ZoneEvent{Zone: name, ZoneID: ZoneIDFor(name), Actor: actor})
}

func (s *ZoneSystem) OnExit(name string, actor models.EntityID, reason zone.ExitReason) {
	s.publish(EventZoneExited, ZoneEvent{Zone: name, ZoneID: ZoneIDFor(name), Actor: actor, Reason: reason.String()})
}

func (s *ZoneSystem) OnForceApplied(e zone.Emission) {
	s.publish(EventZoneForceApplied, ZoneEvent{
		Zone:       e.Zone,
		ZoneID:     ZoneIDFor(e.Zone),
		Actor:      e.Actor,
		Force:      e.Force,
		Mode:       e.Mode.String(),
		Override:   e.OverrideVelocity,
		Multiplier: e.Multiplier,
		Dwell:      e.Dwell,
		At:         e.At,
	})
}

func (s *ZoneSystem) drainReloads() error {
	for {
		select {
		case defs := <-s.reloads:
			if err := s.ApplyDefinitions(defs); err != nil {
				s.logger.Error("zone reload rejected", log.Error(err))
				return err
			}
			s.logger.Info("zones reloaded", log.Int("definitions", len(defs)))
		default:
			return nil
		}
	}
}

func (s *ZoneSystem) publish(eventType string, data ZoneEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(eventType, eventSource, data)); err != nil {
		s.logger.Warn("zone event handler failed", log.String("event", eventType), log.Error(err))
	}
}

func (s *ZoneSystem) refreshSnapshot() {
	states := make([]ZoneState, 0, len(s.order))
	for _, id := range s.order {
		z := s.zones[id]
		occupant, occupied := z.Occupant()
		states = append(states, ZoneState{
			Name:       z.Name(),
			ID:         id,
			Occupied:   occupied,
			Occupant:   occupant,
			Dwell:      z.DwellDuration(),
			Multiplier: z.Multiplier(),
			Force:      z.CurrentForce(),
			Profile:    z.Profile().Config(),
		})
	}
	s.snapMu.Lock()
	s.snapshot = states
	s.snapMu.Unlock()
}
