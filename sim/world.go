// Package sim wires the decision engine, noise pipeline, and movement
// systems into a steppable headless world.
package sim

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/behavior"
	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/config"
	"github.com/pthm-cable/horde/noise"
	"github.com/pthm-cable/horde/perception"
	"github.com/pthm-cable/horde/systems"
	"github.com/pthm-cable/horde/telemetry"
)

// agentState holds per-agent runtime resources that live outside the ECS.
type agentState struct {
	entity  ecs.Entity
	hearing *perception.NoiseHearing
	smell   *perception.ScentTracker
}

// World holds the complete simulation state.
type World struct {
	cfg      *config.Config
	ecsWorld *ecs.World
	rng      *rand.Rand

	now  float64
	tick int64

	// Component mappers
	posMap  *ecs.Map1[components.Position]
	moveMap *ecs.Map1[components.MoveRequest]
	mindMap *ecs.Map1[behavior.Mind]

	agentMapper  *ecs.Map3[components.Position, components.MoveRequest, behavior.Mind]
	agentFilter  *ecs.Filter2[components.Position, behavior.Mind]
	quarryMapper *ecs.Map2[components.Position, components.Quarry]
	quarryFilter *ecs.Filter2[components.Position, components.Quarry]

	// Spatial index over quarry entities
	grid *systems.SpatialGrid

	movement *systems.MovementSystem

	// Noise pipeline
	bus  *noise.Bus
	pool *noise.Pool
	tap  noise.Subscription

	// Shared scent trail deposited by players
	trail       *perception.ScentTrail
	lastDeposit float64

	agents  map[ecs.Entity]*agentState
	players map[ecs.Entity]*Player

	resolver entityResolver

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	sinks         []telemetry.Sink
	logStats      bool
}

// NewWorld creates a simulation world from the given configuration.
func NewWorld(cfg *config.Config, seed int64) *World {
	world := ecs.NewWorld()

	w := &World{
		cfg:      cfg,
		ecsWorld: world,
		rng:      rand.New(rand.NewSource(seed)),

		posMap:  ecs.NewMap1[components.Position](world),
		moveMap: ecs.NewMap1[components.MoveRequest](world),
		mindMap: ecs.NewMap1[behavior.Mind](world),

		agentMapper:  ecs.NewMap3[components.Position, components.MoveRequest, behavior.Mind](world),
		agentFilter:  ecs.NewFilter2[components.Position, behavior.Mind](world),
		quarryMapper: ecs.NewMap2[components.Position, components.Quarry](world),
		quarryFilter: ecs.NewFilter2[components.Position, components.Quarry](world),

		bus:  noise.NewBus(),
		pool: noise.NewPool(cfg.Noise.PoolCapacity),

		trail: perception.NewScentTrail(cfg.Smell.TrailLength, cfg.Smell.DecayTime),

		agents:  make(map[ecs.Entity]*agentState),
		players: make(map[ecs.Entity]*Player),

		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.DT32),
		perfCollector: telemetry.NewPerfCollector(int(cfg.Telemetry.StatsWindow / cfg.Sim.DT)),
	}

	w.grid = systems.NewSpatialGrid(cfg.Derived.WorldW32, cfg.Derived.WorldD32, float32(cfg.World.GridCellSize))
	w.movement = systems.NewMovementSystem(world, float32(cfg.Movement.ArrivalRadius))
	w.resolver = entityResolver{world: world, posMap: w.posMap}

	// Telemetry tap records every published noise event.
	w.tap = w.bus.Subscribe(func(ev noise.Event) {
		w.collector.RecordNoise(ev.Kind.String())
		w.emitEvent(telemetry.NewNoiseEvent(w.tick, ev.Origin.ID(), ev.Kind.String(), ev.Position, ev.Radius))
	})

	return w
}

// entityResolver resolves chase targets to live positions.
type entityResolver struct {
	world  *ecs.World
	posMap *ecs.Map1[components.Position]
}

func (r entityResolver) Resolve(e ecs.Entity) (components.Position, bool) {
	if !r.world.Alive(e) {
		return components.Position{}, false
	}
	pos := r.posMap.Get(e)
	if pos == nil {
		return components.Position{}, false
	}
	return *pos, true
}

// SetLogStats enables periodic stats logging to the console.
func (w *World) SetLogStats(enabled bool) {
	w.logStats = enabled
}

// SetOutputManager sets the CSV output destination. May be nil.
func (w *World) SetOutputManager(om *telemetry.OutputManager) {
	w.outputManager = om
}

// AddSink registers an event sink. Sinks receive every discrete
// simulation event as it happens.
func (w *World) AddSink(s telemetry.Sink) {
	w.sinks = append(w.sinks, s)
}

// emitEvent fans an event out to all registered sinks.
func (w *World) emitEvent(ev telemetry.Event) {
	for _, s := range w.sinks {
		s.Record(ev)
	}
}

// SpawnAgent creates a new agent at the given position and returns its entity.
func (w *World) SpawnAgent(pos components.Position) ecs.Entity {
	move := components.MoveRequest{}
	mind := behavior.Mind{}
	entity := w.agentMapper.NewEntity(&pos, &move, &mind)

	selfPos := w.positionGetter(entity)

	vision := perception.NewGridVision(w.grid, w.posMap, entity, selfPos, float32(w.cfg.Vision.Range))
	hearing := perception.NewNoiseHearing(w.bus, entity, selfPos, w.cfg.Hearing.Retention, w.clock)
	smell := perception.NewScentTracker(w.trail, selfPos, float32(w.cfg.Smell.Radius), w.cfg.Smell.Hysteresis)
	mover := systems.NewLocomotor(w.ecsWorld, w.moveMap, entity)

	ctrl := behavior.NewController(
		behavior.Params{
			WanderSpeed:      float32(w.cfg.Agent.WanderSpeed),
			ChaseSpeed:       float32(w.cfg.Agent.ChaseSpeed),
			DecisionInterval: w.cfg.Agent.DecisionInterval,
		},
		behavior.Deps{
			Vision:  vision,
			Hearing: hearing,
			Smell:   smell,
			Mover:   mover,
			Targets: w.resolver,
			Trace:   w.traceFor(entity),
		},
		w.now,
		w.rng,
	)

	if m := w.mindMap.Get(entity); m != nil {
		m.Controller = ctrl
	}

	w.agents[entity] = &agentState{
		entity:  entity,
		hearing: hearing,
		smell:   smell,
	}

	w.collector.RecordSpawn()
	w.emitEvent(telemetry.NewAgentSpawnEvent(w.tick, entity.ID(), pos))

	return entity
}

// DespawnAgent removes an agent and releases its runtime resources.
func (w *World) DespawnAgent(entity ecs.Entity) {
	state, ok := w.agents[entity]
	if !ok {
		return
	}
	state.hearing.Close()
	delete(w.agents, entity)
	w.ecsWorld.RemoveEntity(entity)

	w.collector.RecordDespawn()
	w.emitEvent(telemetry.NewAgentDespawnEvent(w.tick, entity.ID()))
}

// positionGetter returns a closure reading an entity's live position.
// Pointers are never cached across ticks so archetype moves stay safe.
func (w *World) positionGetter(entity ecs.Entity) func() components.Position {
	return func() components.Position {
		if !w.ecsWorld.Alive(entity) {
			return components.Position{}
		}
		pos := w.posMap.Get(entity)
		if pos == nil {
			return components.Position{}
		}
		return *pos
	}
}

// clock returns the current simulation time.
func (w *World) clock() float64 {
	return w.now
}

// traceFor builds a lifecycle trace hook that records state transitions.
func (w *World) traceFor(entity ecs.Entity) behavior.TraceFunc {
	last := ""
	return func(state behavior.StateKind, phase behavior.Phase) {
		if phase != behavior.PhaseEnter {
			return
		}
		to := state.String()
		w.collector.RecordTransition(to)
		w.emitEvent(telemetry.NewStateChangeEvent(w.tick, entity.ID(), last, to))
		last = to
	}
}

// AgentController returns the controller for an agent, or nil.
func (w *World) AgentController(entity ecs.Entity) *behavior.Controller {
	if !w.ecsWorld.Alive(entity) {
		return nil
	}
	mind := w.mindMap.Get(entity)
	if mind == nil {
		return nil
	}
	return mind.Controller
}

// AgentPosition returns an agent's current position.
func (w *World) AgentPosition(entity ecs.Entity) (components.Position, bool) {
	return w.resolver.Resolve(entity)
}

// AgentCount returns the number of live agents.
func (w *World) AgentCount() int { return len(w.agents) }

// Now returns the current simulation time in seconds.
func (w *World) Now() float64 { return w.now }

// Tick returns the current simulation tick.
func (w *World) Tick() int64 { return w.tick }

// Bus returns the noise event bus.
func (w *World) Bus() *noise.Bus { return w.bus }

// Pool returns the noise marker pool.
func (w *World) Pool() *noise.Pool { return w.pool }

// Trail returns the shared scent trail.
func (w *World) Trail() *perception.ScentTrail { return w.trail }

// EachAgent calls fn for every live agent with its position and state.
func (w *World) EachAgent(fn func(entity ecs.Entity, pos components.Position, state behavior.StateKind)) {
	query := w.agentFilter.Query()
	for query.Next() {
		pos, mind := query.Get()
		if mind.Controller == nil {
			continue
		}
		fn(query.Entity(), *pos, mind.Controller.State())
	}
}

// EachPlayer calls fn for every live player with its position.
func (w *World) EachPlayer(fn func(entity ecs.Entity, pos components.Position)) {
	query := w.quarryFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		fn(query.Entity(), *pos)
	}
}

// phaseOffsets collects each agent's decision phase within its interval.
func (w *World) phaseOffsets() []float64 {
	interval := w.cfg.Agent.DecisionInterval
	if interval <= 0 {
		return nil
	}
	offsets := make([]float64, 0, len(w.agents))
	query := w.agentFilter.Query()
	for query.Next() {
		_, mind := query.Get()
		if mind.Controller == nil {
			continue
		}
		offsets = append(offsets, math.Mod(mind.Controller.NextDecisionAt(), interval))
	}
	return offsets
}
