// Package noise implements the pooled noise-marker arena, the synchronous
// emission bus, and the movement-telemetry emitter that feeds them.
package noise

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

// Kind classifies an emitted sound.
type Kind uint8

const (
	KindFootstep Kind = iota
	KindJump
	KindLanding
	KindGunshot
	KindDoorSlam
	KindOther
)

// String returns a stable name for telemetry and logs.
func (k Kind) String() string {
	switch k {
	case KindFootstep:
		return "footstep"
	case KindJump:
		return "jump"
	case KindLanding:
		return "landing"
	case KindGunshot:
		return "gunshot"
	case KindDoorSlam:
		return "door_slam"
	default:
		return "other"
	}
}

// Event is the payload delivered synchronously to every bus subscriber at
// publish time. Origin may be the listener itself and must be filterable.
type Event struct {
	Position components.Position
	Radius   float32
	Kind     Kind
	Origin   ecs.Entity
}
