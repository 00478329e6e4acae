package sim

import (
	"log/slog"

	"github.com/pthm-cable/horde/behavior"
	"github.com/pthm-cable/horde/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and
// writes output if so.
func (w *World) flushTelemetry() {
	// Pool evictions are drained every tick so eviction events land in
	// the right window.
	if evicted := w.pool.TakeReused(); evicted > 0 {
		w.collector.RecordPoolEvictions(evicted)
		for i := 0; i < evicted; i++ {
			w.emitEvent(telemetry.NewPoolEvictionEvent(w.tick))
		}
	}

	if !w.collector.ShouldFlush(w.tick) {
		return
	}

	idle, investigating, chasing := w.countStates()

	stats := w.collector.Flush(
		w.tick,
		len(w.agents),
		idle, investigating, chasing,
		w.pool.Active(), w.pool.Capacity(),
		w.phaseOffsets(),
	)
	perfStats := w.perfCollector.Stats()

	if w.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if w.outputManager != nil {
		if err := w.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := w.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// countStates tallies agents by their current state.
func (w *World) countStates() (idle, investigating, chasing int) {
	query := w.agentFilter.Query()
	for query.Next() {
		_, mind := query.Get()
		if mind.Controller == nil {
			continue
		}
		switch mind.Controller.State() {
		case behavior.StateIdle:
			idle++
		case behavior.StateInvestigating:
			investigating++
		case behavior.StateChasing:
			chasing++
		}
	}
	return idle, investigating, chasing
}
