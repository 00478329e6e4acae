package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float32

	windowStartTick int64

	// Event counters for current window
	toIdle          int
	toInvestigating int
	toChasing       int

	footsteps  int
	jumps      int
	landings   int
	gunshots   int
	doorSlams  int
	otherNoise int

	poolEvictions int
	spawns        int
	despawns      int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int64(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordTransition records a state transition by incoming state name.
func (c *Collector) RecordTransition(to string) {
	switch to {
	case "idle":
		c.toIdle++
	case "investigating":
		c.toInvestigating++
	case "chasing":
		c.toChasing++
	}
}

// RecordNoise records an emission by kind name.
func (c *Collector) RecordNoise(kind string) {
	switch kind {
	case "footstep":
		c.footsteps++
	case "jump":
		c.jumps++
	case "landing":
		c.landings++
	case "gunshot":
		c.gunshots++
	case "door_slam":
		c.doorSlams++
	default:
		c.otherNoise++
	}
}

// RecordPoolEvictions adds pool exhaustion reuses observed since last window.
func (c *Collector) RecordPoolEvictions(n int) {
	c.poolEvictions += n
}

// RecordSpawn records an agent spawn.
func (c *Collector) RecordSpawn() { c.spawns++ }

// RecordDespawn records an agent despawn.
func (c *Collector) RecordDespawn() { c.despawns++ }

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides current population/state counts, the live marker
// count, and the per-agent decision phase offsets for spread statistics.
func (c *Collector) Flush(
	currentTick int64,
	agentCount int,
	idleCount, investigatingCount, chasingCount int,
	activeMarkers, poolCapacity int,
	phaseOffsets []float64,
) WindowStats {
	spreadMean, spreadStd := PhaseSpread(phaseOffsets)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		AgentCount:         agentCount,
		IdleCount:          idleCount,
		InvestigatingCount: investigatingCount,
		ChasingCount:       chasingCount,

		ToIdle:          c.toIdle,
		ToInvestigating: c.toInvestigating,
		ToChasing:       c.toChasing,

		Footsteps:  c.footsteps,
		Jumps:      c.jumps,
		Landings:   c.landings,
		Gunshots:   c.gunshots,
		DoorSlams:  c.doorSlams,
		OtherNoise: c.otherNoise,

		ActiveMarkers: activeMarkers,
		PoolCapacity:  poolCapacity,
		PoolEvictions: c.poolEvictions,

		Spawns:   c.spawns,
		Despawns: c.despawns,

		PhaseSpreadMean: spreadMean,
		PhaseSpreadStd:  spreadStd,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.toIdle = 0
	c.toInvestigating = 0
	c.toChasing = 0
	c.footsteps = 0
	c.jumps = 0
	c.landings = 0
	c.gunshots = 0
	c.doorSlams = 0
	c.otherNoise = 0
	c.poolEvictions = 0
	c.spawns = 0
	c.despawns = 0

	return stats
}
