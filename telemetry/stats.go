package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population and state mix at window end
	AgentCount         int `csv:"agents"`
	IdleCount          int `csv:"idle"`
	InvestigatingCount int `csv:"investigating"`
	ChasingCount       int `csv:"chasing"`

	// Transitions during window, by incoming state
	ToIdle          int `csv:"to_idle"`
	ToInvestigating int `csv:"to_investigating"`
	ToChasing       int `csv:"to_chasing"`

	// Noise emissions during window, by kind
	Footsteps  int `csv:"footsteps"`
	Jumps      int `csv:"jumps"`
	Landings   int `csv:"landings"`
	Gunshots   int `csv:"gunshots"`
	DoorSlams  int `csv:"door_slams"`
	OtherNoise int `csv:"other_noise"`

	// Noise pool health at window end
	ActiveMarkers int `csv:"active_markers"`
	PoolCapacity  int `csv:"pool_capacity"`
	PoolEvictions int `csv:"pool_evictions"`

	// Lifecycle
	Spawns   int `csv:"spawns"`
	Despawns int `csv:"despawns"`

	// Decision phase spread across agents (load-spreading health):
	// offsets of each agent's next arbitration within its interval.
	PhaseSpreadMean float64 `csv:"phase_spread_mean"`
	PhaseSpreadStd  float64 `csv:"phase_spread_std"`
}

// PhaseSpread computes mean and standard deviation of decision phase
// offsets. A near-zero deviation across many agents means arbitration has
// clumped onto the same ticks and the load-spreading mechanism is failing.
func PhaseSpread(offsets []float64) (mean, std float64) {
	if len(offsets) == 0 {
		return 0, 0
	}
	mean = stat.Mean(offsets, nil)
	if len(offsets) > 1 {
		std = stat.StdDev(offsets, nil)
	}
	return mean, std
}

// LogStats logs window statistics.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.AgentCount,
		"idle", s.IdleCount,
		"investigating", s.InvestigatingCount,
		"chasing", s.ChasingCount,
		"to_idle", s.ToIdle,
		"to_investigating", s.ToInvestigating,
		"to_chasing", s.ToChasing,
		"footsteps", s.Footsteps,
		"jumps", s.Jumps,
		"landings", s.Landings,
		"gunshots", s.Gunshots,
		"door_slams", s.DoorSlams,
		"active_markers", s.ActiveMarkers,
		"pool_evictions", s.PoolEvictions,
		"phase_spread_std", s.PhaseSpreadStd,
	)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.AgentCount),
		slog.Int("idle", s.IdleCount),
		slog.Int("investigating", s.InvestigatingCount),
		slog.Int("chasing", s.ChasingCount),
		slog.Int("to_idle", s.ToIdle),
		slog.Int("to_investigating", s.ToInvestigating),
		slog.Int("to_chasing", s.ToChasing),
		slog.Int("footsteps", s.Footsteps),
		slog.Int("jumps", s.Jumps),
		slog.Int("landings", s.Landings),
		slog.Int("gunshots", s.Gunshots),
		slog.Int("door_slams", s.DoorSlams),
		slog.Int("active_markers", s.ActiveMarkers),
		slog.Int("pool_evictions", s.PoolEvictions),
		slog.Float64("phase_spread_std", s.PhaseSpreadStd),
	)
}
