// Package behavior implements the per-agent decision engine: a closed
// three-state machine (Idle, Investigating, Chasing) driven by a throttled
// arbitration pass over the perception channels.
package behavior

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

// StateKind identifies one of the closed set of state variants. The set is
// fixed; dispatch is an exhaustive switch rather than open subclassing.
type StateKind uint8

const (
	StateIdle StateKind = iota
	StateInvestigating
	StateChasing
)

// String returns a stable name for telemetry and logs.
func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateInvestigating:
		return "investigating"
	case StateChasing:
		return "chasing"
	default:
		return "unknown"
	}
}

// Phase is the lifecycle phase reported to the trace hook.
type Phase uint8

const (
	PhaseEnter Phase = iota
	PhaseExecute
	PhaseExit
)

// TraceFunc observes every lifecycle call. Used by telemetry and by tests
// asserting the Enter, Execute*, Exit alternation.
type TraceFunc func(state StateKind, phase Phase)

// Mover is the pathfinding/movement collaborator consumed by the states.
// Issuing a new destination implicitly supersedes the previous request.
type Mover interface {
	SetDestination(components.Position)
	SetSpeed(float32)
	HasActivePath() bool
	RemainingPathEmpty() bool
}

// TargetResolver validates a chase-target handle and returns its live
// position. The controller never holds an owning reference to a target.
type TargetResolver interface {
	Resolve(ecs.Entity) (components.Position, bool)
}

// Mind is the ECS component wrapping an agent's controller.
type Mind struct {
	Controller *Controller
}
