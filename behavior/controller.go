package behavior

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/perception"
)

// Params holds per-agent tuning for the decision engine.
type Params struct {
	WanderSpeed      float32
	ChaseSpeed       float32
	DecisionInterval float64 // seconds between arbitration passes
}

// Deps holds the collaborators a controller pulls from. Any of them may be
// nil: a missing collaborator is treated as a sensory channel that reports
// nothing, never as an error.
type Deps struct {
	Vision  perception.Vision
	Hearing perception.Hearing
	Smell   perception.Smell
	Mover   Mover
	Targets TargetResolver
	Trace   TraceFunc
}

// Controller owns exactly one active state per agent, runs the arbitration
// policy on a throttled cadence, and delegates per-tick behavior to the
// active state.
type Controller struct {
	params Params
	deps   Deps

	state StateKind

	chaseTarget    ecs.Entity
	hasChaseTarget bool

	investigateTarget    components.Position
	hasInvestigateTarget bool

	nextDecision float64

	// Reentrancy guard for ChangeState: a transition requested from inside
	// Enter/Exit is queued and applied after the in-flight swap completes.
	transitioning bool
	pending       StateKind
	hasPending    bool
}

// NewController creates a controller in Idle. The first arbitration pass is
// offset by a uniform random fraction of the decision interval so a herd of
// agents spawned together does not arbitrate on the same tick. Pass a seeded
// rng for deterministic tests; nil falls back to the global source.
func NewController(params Params, deps Deps, now float64, rng *rand.Rand) *Controller {
	c := &Controller{
		params: params,
		deps:   deps,
	}
	var offset float64
	if rng != nil {
		offset = rng.Float64()
	} else {
		offset = rand.Float64()
	}
	c.nextDecision = now + offset*params.DecisionInterval
	c.enterState(StateIdle)
	return c
}

// Tick advances the agent by one simulation step: an arbitration pass when
// due, then unconditionally Execute on the active state.
func (c *Controller) Tick(now float64) {
	if now >= c.nextDecision {
		c.arbitrate()
		c.nextDecision = now + c.params.DecisionInterval
	}
	c.executeState(c.state)
}

// arbitrate evaluates the sensory priority order; the first match wins.
func (c *Controller) arbitrate() {
	// 1. Vision outranks everything. Re-enters Chasing even when already
	// chasing so the chase target is refreshed every pass.
	if c.deps.Vision != nil {
		if target, ok := c.deps.Vision.CurrentTarget(); ok {
			c.chaseTarget = target
			c.hasChaseTarget = true
			c.ChangeState(StateChasing)
			return
		}
	}

	// 2. Vision just lost the target: fall back to its last known position,
	// or to Idle when the target is gone entirely.
	if c.state == StateChasing {
		if c.hasChaseTarget && c.deps.Targets != nil {
			if pos, ok := c.deps.Targets.Resolve(c.chaseTarget); ok {
				c.investigateTarget = pos
				c.hasInvestigateTarget = true
				c.ChangeState(StateInvestigating)
				return
			}
		}
		c.ChangeState(StateIdle)
		return
	}

	// 3. A pending noise position is worth walking over to.
	if c.deps.Hearing != nil {
		if pos, ok := c.deps.Hearing.TryGetNoisePosition(); ok {
			c.investigateTarget = pos
			c.hasInvestigateTarget = true
			if c.deps.Mover != nil {
				c.deps.Mover.SetDestination(pos)
			}
			c.ChangeState(StateInvestigating)
			return
		}
	}

	// 4. Smell never changes state; it only steers idle wandering.
	if c.deps.Smell != nil && c.deps.Smell.HasScentTarget() {
		if c.state == StateIdle && c.deps.Mover != nil {
			c.deps.Mover.SetDestination(c.deps.Smell.ScentPosition())
		}
		return
	}

	// 5. Nothing detected.
	if c.state != StateIdle {
		c.ChangeState(StateIdle)
	}
}

// ChangeState swaps the active state: Exit on the outgoing state, swap the
// reference, Enter on the incoming one. A nested call from Enter/Exit is
// deferred until the current swap completes, so the active-state reference
// is never corrupted mid-transition.
func (c *Controller) ChangeState(next StateKind) {
	if c.transitioning {
		c.pending = next
		c.hasPending = true
		return
	}
	c.transitioning = true
	for {
		c.exitState(c.state)
		c.state = next
		c.enterState(c.state)
		if !c.hasPending {
			break
		}
		next = c.pending
		c.hasPending = false
	}
	c.transitioning = false
}

// ForceChase assigns a chase target and transitions straight to Chasing,
// bypassing arbitration. Used by scripted events and tests.
func (c *Controller) ForceChase(target ecs.Entity) {
	c.chaseTarget = target
	c.hasChaseTarget = true
	c.ChangeState(StateChasing)
}

// State returns the active state kind.
func (c *Controller) State() StateKind { return c.state }

// ChaseTarget returns the current chase target, if any.
func (c *Controller) ChaseTarget() (ecs.Entity, bool) {
	return c.chaseTarget, c.hasChaseTarget
}

// InvestigationTarget returns the current investigation point, if any.
func (c *Controller) InvestigationTarget() (components.Position, bool) {
	return c.investigateTarget, c.hasInvestigateTarget
}

// NextDecisionAt returns the timestamp of the next arbitration pass.
func (c *Controller) NextDecisionAt() float64 { return c.nextDecision }

func (c *Controller) trace(state StateKind, phase Phase) {
	if c.deps.Trace != nil {
		c.deps.Trace(state, phase)
	}
}
