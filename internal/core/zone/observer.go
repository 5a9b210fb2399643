package zone

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/systems/physics"
)

// ExitReason tells observers why a zone emptied.
type ExitReason uint8

const (
	// ExitOverlap follows an overlap-exit notification for the occupant.
	ExitOverlap ExitReason = iota
	// ExitStale means the occupant handle stopped resolving.
	ExitStale
)

func (r ExitReason) String() string {
	if r == ExitStale {
		return "stale"
	}
	return "overlap"
}

// Emission is one force delivery to an occupant.
type Emission struct {
	Zone             string
	Actor            models.EntityID
	Force            mgl64.Vec3
	Mode             physics.ForceMode
	OverrideVelocity bool
	Multiplier       float64
	Dwell            float64
	At               time.Duration
}

// Observer receives zone transitions. Callbacks run synchronously inside
// OnOverlapEnter, OnOverlapExit, Tick or an accessor and must not call back
// into the same zone.
type Observer interface {
	OnEnter(zone string, actor models.EntityID)
	OnExit(zone string, actor models.EntityID, reason ExitReason)
	OnForceApplied(e Emission)
}

// ObserverFuncs adapts plain functions to Observer. Nil members are skipped.
type ObserverFuncs struct {
	Enter        func(zone string, actor models.EntityID)
	Exit         func(zone string, actor models.EntityID, reason ExitReason)
	ForceApplied func(e Emission)
}

func (f ObserverFuncs) OnEnter(zone string, actor models.EntityID) {
	if f.Enter != nil {
		f.Enter(zone, actor)
	}
}

func (f ObserverFuncs) OnExit(zone string, actor models.EntityID, reason ExitReason) {
	if f.Exit != nil {
		f.Exit(zone, actor, reason)
	}
}

func (f ObserverFuncs) OnForceApplied(e Emission) {
	if f.ForceApplied != nil {
		f.ForceApplied(e)
	}
}

// Observers fans out to every member in order.
type Observers []Observer

func (o Observers) OnEnter(zone string, actor models.EntityID) {
	for _, obs := range o {
		obs.OnEnter(zone, actor)
	}
}

func (o Observers) OnExit(zone string, actor models.EntityID, reason ExitReason) {
	for _, obs := range o {
		obs.OnExit(zone, actor, reason)
	}
}

func (o Observers) OnForceApplied(e Emission) {
	for _, obs := range o {
		obs.OnForceApplied(e)
	}
}
