package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path failed: %v", err)
	}

	if cfg.World.Width != 400 || cfg.World.Depth != 400 {
		t.Errorf("unexpected world size %vx%v", cfg.World.Width, cfg.World.Depth)
	}
	if cfg.Agent.DecisionInterval != 0.4 {
		t.Errorf("unexpected decision interval %v", cfg.Agent.DecisionInterval)
	}
	if cfg.Noise.PoolCapacity != 64 {
		t.Errorf("unexpected pool capacity %v", cfg.Noise.PoolCapacity)
	}
	if cfg.Noise.Radius.Gunshot != 80 {
		t.Errorf("unexpected gunshot radius %v", cfg.Noise.Radius.Gunshot)
	}
	if cfg.Smell.TrailLength != 32 {
		t.Errorf("unexpected trail length %v", cfg.Smell.TrailLength)
	}
}

func TestLoadMergesUserConfigOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	userYAML := []byte("agent:\n  chase_speed: 9.0\nnoise:\n  pool_capacity: 8\n")
	if err := os.WriteFile(path, userYAML, 0644); err != nil {
		t.Fatalf("writing user config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Agent.ChaseSpeed != 9.0 {
		t.Errorf("user override not applied, chase speed = %v", cfg.Agent.ChaseSpeed)
	}
	if cfg.Noise.PoolCapacity != 8 {
		t.Errorf("user override not applied, pool capacity = %v", cfg.Noise.PoolCapacity)
	}
	// Fields absent from the user file keep their defaults.
	if cfg.Agent.WanderSpeed != 1.6 {
		t.Errorf("default lost on merge, wander speed = %v", cfg.Agent.WanderSpeed)
	}
	if cfg.Noise.Radius.Walk != 7.0 {
		t.Errorf("default lost on merge, walk radius = %v", cfg.Noise.Radius.Walk)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestDerivedValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Derived.DT32 != float32(cfg.Sim.DT) {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, float32(cfg.Sim.DT))
	}
	if cfg.Derived.WorldW32 != 400 || cfg.Derived.WorldD32 != 400 {
		t.Errorf("unexpected derived world size %vx%v", cfg.Derived.WorldW32, cfg.Derived.WorldD32)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg.Agent.ChaseSpeed = 7.25

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if back.Agent.ChaseSpeed != 7.25 {
		t.Errorf("round-tripped chase speed = %v, want 7.25", back.Agent.ChaseSpeed)
	}
}
