package behavior

import "github.com/mlange-42/ark/ecs"

// Lifecycle dispatch for the closed state set. Each state variant has an
// Enter/Execute/Exit triple; the switches are exhaustive over StateKind.

func (c *Controller) enterState(k StateKind) {
	c.trace(k, PhaseEnter)
	switch k {
	case StateIdle:
		// Wander pace; any stale targets are dropped so a later arbitration
		// pass starts clean.
		if c.deps.Mover != nil {
			c.deps.Mover.SetSpeed(c.params.WanderSpeed)
		}
		c.chaseTarget = ecs.Entity{}
		c.hasChaseTarget = false
		c.hasInvestigateTarget = false

	case StateInvestigating:
		if c.deps.Mover != nil {
			c.deps.Mover.SetSpeed(c.params.WanderSpeed)
			if c.hasInvestigateTarget {
				c.deps.Mover.SetDestination(c.investigateTarget)
			}
		}

	case StateChasing:
		if c.deps.Mover != nil {
			c.deps.Mover.SetSpeed(c.params.ChaseSpeed)
		}
		c.moveTowardChaseTarget()
	}
}

func (c *Controller) executeState(k StateKind) {
	c.trace(k, PhaseExecute)
	switch k {
	case StateIdle:
		// Destination was set by arbitration (scent steering) or the agent
		// free-roams; nothing to do per tick.

	case StateInvestigating:
		// A "no path" signal reads as arrived, so an unreachable target
		// cannot strand the agent in Investigating.
		arrived := c.deps.Mover == nil ||
			!c.deps.Mover.HasActivePath() ||
			c.deps.Mover.RemainingPathEmpty()
		if arrived {
			c.hasInvestigateTarget = false
			c.ChangeState(StateIdle)
		}

	case StateChasing:
		// The target moves; re-issue the move-to every tick.
		c.moveTowardChaseTarget()
	}
}

func (c *Controller) exitState(k StateKind) {
	c.trace(k, PhaseExit)
	switch k {
	case StateIdle:
		// Nothing to release.

	case StateInvestigating:
		c.hasInvestigateTarget = false

	case StateChasing:
		// Chase target survives the exit: arbitration step 2 still needs its
		// last known position.
	}
}

// moveTowardChaseTarget issues a move-to toward the chase target's live
// position. A destroyed target is tolerated; arbitration recovers on the
// next pass.
func (c *Controller) moveTowardChaseTarget() {
	if c.deps.Mover == nil || !c.hasChaseTarget || c.deps.Targets == nil {
		return
	}
	if pos, ok := c.deps.Targets.Resolve(c.chaseTarget); ok {
		c.deps.Mover.SetDestination(pos)
	}
}
