// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Sim       SimConfig       `yaml:"sim"`
	Agent     AgentConfig     `yaml:"agent"`
	Movement  MovementConfig  `yaml:"movement"`
	Vision    VisionConfig    `yaml:"vision"`
	Hearing   HearingConfig   `yaml:"hearing"`
	Smell     SmellConfig     `yaml:"smell"`
	Noise     NoiseConfig     `yaml:"noise"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Observer  ObserverConfig  `yaml:"observer"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width        float64 `yaml:"width"`          // extent along X in world units
	Depth        float64 `yaml:"depth"`          // extent along Z in world units
	GridCellSize float64 `yaml:"grid_cell_size"` // spatial grid cell size
}

// SimConfig holds tick and timing parameters.
type SimConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// AgentConfig holds decision-engine parameters shared by all agents.
type AgentConfig struct {
	DecisionInterval float64 `yaml:"decision_interval"` // seconds between arbitration passes
	WanderSpeed      float64 `yaml:"wander_speed"`
	ChaseSpeed       float64 `yaml:"chase_speed"`
}

// MovementConfig holds move-to execution parameters.
type MovementConfig struct {
	ArrivalRadius float64 `yaml:"arrival_radius"` // distance at which a destination counts as reached
}

// VisionConfig holds parameters for the reference vision implementation.
type VisionConfig struct {
	Range float64 `yaml:"range"`
}

// HearingConfig holds parameters for the bus-backed hearing implementation.
type HearingConfig struct {
	Retention float64 `yaml:"retention"` // seconds an unconsumed noise position stays pending
}

// SmellConfig holds scent trail and tracker parameters.
type SmellConfig struct {
	Radius          float64 `yaml:"radius"`           // detection distance from a trail point
	Hysteresis      float64 `yaml:"hysteresis"`       // seconds a lost scent keeps reporting
	DepositInterval float64 `yaml:"deposit_interval"` // seconds between trail deposits
	TrailLength     int     `yaml:"trail_length"`     // trail ring buffer capacity
	DecayTime       float64 `yaml:"decay_time"`       // seconds for a trail point's strength to fade to zero
}

// NoiseConfig holds emission radii, durations, and telemetry thresholds.
type NoiseConfig struct {
	PoolCapacity int `yaml:"pool_capacity"`

	Radius   NoiseRadiusConfig   `yaml:"radius"`
	Duration NoiseDurationConfig `yaml:"duration"`

	FootstepInterval  float64 `yaml:"footstep_interval"`   // seconds between footsteps while moving
	MovementThreshold float64 `yaml:"movement_threshold"`  // min speed for footsteps, units/sec
	RunSpeedThreshold float64 `yaml:"run_speed_threshold"` // speed at which walk becomes run
	MinAirborneTime   float64 `yaml:"min_airborne_time"`   // debounce for landing emission, seconds
	MinFallDistance   float64 `yaml:"min_fall_distance"`   // min fall height for landing emission
	MaxFallDistance   float64 `yaml:"max_fall_distance"`   // fall height mapping to the max landing radius
}

// NoiseRadiusConfig holds per-kind propagation radii in world units.
type NoiseRadiusConfig struct {
	Crouch     float64 `yaml:"crouch"`
	Walk       float64 `yaml:"walk"`
	Run        float64 `yaml:"run"`
	Jump       float64 `yaml:"jump"`
	Landing    float64 `yaml:"landing"`     // base radius at min fall distance
	MaxLanding float64 `yaml:"max_landing"` // radius at max fall distance
	Gunshot    float64 `yaml:"gunshot"`
	DoorSlam   float64 `yaml:"door_slam"`
}

// NoiseDurationConfig holds marker lifetimes in seconds.
type NoiseDurationConfig struct {
	Footstep float64 `yaml:"footstep"`
	Action   float64 `yaml:"action"` // jumps, landings, gunshots, door slams
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // window length in simulation seconds
}

// ObserverConfig holds debug snapshot streaming parameters.
type ObserverConfig struct {
	SnapshotInterval int `yaml:"snapshot_interval"` // ticks between websocket snapshots
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // Sim.DT as float32
	WorldW32 float32 // World.Width as float32
	WorldD32 float32 // World.Depth as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Sim.DT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldD32 = float32(c.World.Depth)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
