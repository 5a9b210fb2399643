package systems

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/forcezone/internal/core/models"
	"github.com/zeusync/forcezone/internal/core/zone"
)

// Event types published on the bus by ZoneSystem.
const (
	EventZoneEntered      = "zone.entered"
	EventZoneExited       = "zone.exited"
	EventZoneForceApplied = "zone.force_applied"
	EventZoneReloaded     = "zone.reloaded"
)

const eventSource = "zone-system"

// ZoneEvent is the payload of every zone event. Fields that do not apply
// to an event type are zero.
type ZoneEvent struct {
	Zone       string          `json:"zone"`
	ZoneID     ZoneID          `json:"zoneId"`
	Actor      models.EntityID `json:"actor,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Force      mgl64.Vec3      `json:"force,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	Override   bool            `json:"override,omitempty"`
	Multiplier float64         `json:"multiplier,omitempty"`
	Dwell      float64         `json:"dwell,omitempty"`
	At         time.Duration   `json:"at,omitempty"`
}

// ZoneState is a read-only view of one zone, refreshed after every update.
type ZoneState struct {
	Name       string             `json:"name"`
	ID         ZoneID             `json:"id"`
	Occupied   bool               `json:"occupied"`
	Occupant   models.EntityID    `json:"occupant,omitempty"`
	Dwell      float64            `json:"dwell"`
	Multiplier float64            `json:"multiplier"`
	Force      mgl64.Vec3         `json:"force"`
	Profile    zone.ProfileConfig `json:"profile"`
}
