package sim

import (
	"github.com/pthm-cable/horde/telemetry"
)

// Step advances the simulation by one tick.
func (w *World) Step() {
	dt := w.cfg.Sim.DT

	w.perfCollector.StartTick()
	w.now += dt

	// 1. Expire noise markers
	w.perfCollector.StartPhase(telemetry.PhaseNoisePool)
	w.pool.Step(w.now)

	// 2. Run player noise emitters off movement telemetry
	w.perfCollector.StartPhase(telemetry.PhaseEmitters)
	w.updateEmitters(dt)

	// 3. Deposit scent along player paths
	w.perfCollector.StartPhase(telemetry.PhaseScent)
	w.updateScent()

	// 4. Rebuild the quarry spatial index
	w.perfCollector.StartPhase(telemetry.PhaseSpatialGrid)
	w.updateSpatialGrid()

	// 5. Update scent trackers
	w.perfCollector.StartPhase(telemetry.PhasePerception)
	for _, state := range w.agents {
		state.smell.Update(w.now)
	}

	// 6. Run decision engines
	w.perfCollector.StartPhase(telemetry.PhaseBehavior)
	w.updateBehavior()

	// 7. Execute movement
	w.perfCollector.StartPhase(telemetry.PhaseMovement)
	w.movement.Update(w.cfg.Derived.DT32)

	// 8. Flush telemetry
	w.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	w.tick++
	w.flushTelemetry()

	w.perfCollector.EndTick()
}

// Run advances the simulation by n ticks.
func (w *World) Run(n int) {
	for i := 0; i < n; i++ {
		w.Step()
	}
}

// updateEmitters feeds each player's position into its noise emitter.
func (w *World) updateEmitters(dt float64) {
	for entity, p := range w.players {
		if !w.ecsWorld.Alive(entity) {
			continue
		}
		pos := w.posMap.Get(entity)
		if pos == nil {
			continue
		}
		p.emitter.Update(w.now, dt, *pos, p.grounded)
	}
}

// updateScent deposits player positions into the shared trail on a
// fixed cadence.
func (w *World) updateScent() {
	if w.now-w.lastDeposit < w.cfg.Smell.DepositInterval {
		return
	}
	w.lastDeposit = w.now
	for entity := range w.players {
		if !w.ecsWorld.Alive(entity) {
			continue
		}
		if pos := w.posMap.Get(entity); pos != nil {
			w.trail.Deposit(*pos, w.now)
		}
	}
}

// updateSpatialGrid rebuilds the spatial index over quarry entities.
func (w *World) updateSpatialGrid() {
	w.grid.Clear()

	query := w.quarryFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _ := query.Get()
		w.grid.Insert(entity, pos.X, pos.Z)
	}
}

// updateBehavior ticks every agent's decision engine. Each controller
// internally throttles arbitration to its own phase-offset schedule.
func (w *World) updateBehavior() {
	query := w.agentFilter.Query()
	for query.Next() {
		_, mind := query.Get()
		if mind.Controller != nil {
			mind.Controller.Tick(w.now)
		}
	}
}
