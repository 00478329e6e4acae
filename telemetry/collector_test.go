package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowBoundary(t *testing.T) {
	// 0.1s window at dt 0.05 = 2 ticks per window.
	c := NewCollector(0.1, 0.05)

	if c.ShouldFlush(0) {
		t.Error("window start should not flush")
	}
	if c.ShouldFlush(1) {
		t.Error("mid-window should not flush")
	}
	if !c.ShouldFlush(2) {
		t.Error("window boundary should flush")
	}

	c.Flush(2, 0, 0, 0, 0, 0, 0, nil)
	if c.ShouldFlush(3) {
		t.Error("tick after a flush should start a fresh window")
	}
	if !c.ShouldFlush(4) {
		t.Error("second window boundary should flush")
	}
}

func TestCollectorMinimumWindowOneTick(t *testing.T) {
	c := NewCollector(0.001, 0.05)
	if !c.ShouldFlush(1) {
		t.Error("sub-tick window should clamp to one tick")
	}
}

func TestCollectorCountsAndReset(t *testing.T) {
	c := NewCollector(1.0, 0.05)

	c.RecordTransition("investigating")
	c.RecordTransition("investigating")
	c.RecordTransition("chasing")
	c.RecordTransition("idle")
	c.RecordNoise("footstep")
	c.RecordNoise("footstep")
	c.RecordNoise("jump")
	c.RecordNoise("landing")
	c.RecordNoise("gunshot")
	c.RecordNoise("door_slam")
	c.RecordNoise("mystery")
	c.RecordPoolEvictions(3)
	c.RecordSpawn()
	c.RecordSpawn()
	c.RecordDespawn()

	stats := c.Flush(20, 5, 3, 1, 1, 4, 64, nil)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 20 {
		t.Errorf("window ticks = [%d, %d], want [0, 20]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if math.Abs(stats.SimTimeSec-1.0) > 1e-6 {
		t.Errorf("sim time = %v, want 1.0", stats.SimTimeSec)
	}
	if stats.AgentCount != 5 || stats.IdleCount != 3 || stats.InvestigatingCount != 1 || stats.ChasingCount != 1 {
		t.Errorf("unexpected population counts: %+v", stats)
	}
	if stats.ToIdle != 1 || stats.ToInvestigating != 2 || stats.ToChasing != 1 {
		t.Errorf("unexpected transition counts: %+v", stats)
	}
	if stats.Footsteps != 2 || stats.Jumps != 1 || stats.Landings != 1 ||
		stats.Gunshots != 1 || stats.DoorSlams != 1 || stats.OtherNoise != 1 {
		t.Errorf("unexpected noise counts: %+v", stats)
	}
	if stats.ActiveMarkers != 4 || stats.PoolCapacity != 64 || stats.PoolEvictions != 3 {
		t.Errorf("unexpected pool stats: %+v", stats)
	}
	if stats.Spawns != 2 || stats.Despawns != 1 {
		t.Errorf("unexpected lifecycle counts: %+v", stats)
	}

	// Counters reset; population values are caller-supplied each flush.
	next := c.Flush(40, 5, 5, 0, 0, 0, 64, nil)
	if next.ToInvestigating != 0 || next.Footsteps != 0 || next.PoolEvictions != 0 || next.Spawns != 0 {
		t.Errorf("counters should reset after flush: %+v", next)
	}
	if next.WindowStartTick != 20 {
		t.Errorf("next window should start at 20, got %d", next.WindowStartTick)
	}
}

func TestPhaseSpread(t *testing.T) {
	mean, std := PhaseSpread(nil)
	if mean != 0 || std != 0 {
		t.Error("empty offsets should return zeros")
	}

	mean, std = PhaseSpread([]float64{0.3})
	if mean != 0.3 || std != 0 {
		t.Errorf("single offset: mean = %v, std = %v", mean, std)
	}

	mean, std = PhaseSpread([]float64{0.1, 0.2, 0.3})
	if math.Abs(mean-0.2) > 1e-9 {
		t.Errorf("mean = %v, want 0.2", mean)
	}
	if math.Abs(std-0.1) > 1e-9 {
		t.Errorf("std = %v, want 0.1", std)
	}
}
