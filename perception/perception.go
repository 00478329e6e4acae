// Package perception defines the pull-style sensory query contracts consumed
// by the decision engine, together with reference implementations of each
// channel. The contracts are the load-bearing part; the implementations keep
// the simulation runnable and are deliberately simple.
package perception

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

// Vision reports the highest-priority sensory signal: a currently visible
// chase target.
type Vision interface {
	CurrentTarget() (ecs.Entity, bool)
}

// Hearing reports a pending noise position and consumes it. Implementations
// subscribe to the noise bus and apply their own retention/selection policy.
type Hearing interface {
	TryGetNoisePosition() (components.Position, bool)
}

// Smell reports an active scent target. Implementations keep reporting for a
// grace period after losing direct contact (hysteresis).
type Smell interface {
	HasScentTarget() bool
	ScentPosition() components.Position
}
