// Package telemetry provides windowed statistics, per-phase timing, and the
// event taxonomy shared by the CSV output, the run recorder, and the
// observer.
package telemetry

import "github.com/pthm-cable/horde/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventStateChange EventType = iota
	EventNoiseEmitted
	EventPoolEviction
	EventAgentSpawn
	EventAgentDespawn
)

// String returns a stable name for persistence.
func (t EventType) String() string {
	switch t {
	case EventStateChange:
		return "state_change"
	case EventNoiseEmitted:
		return "noise_emitted"
	case EventPoolEviction:
		return "pool_eviction"
	case EventAgentSpawn:
		return "agent_spawn"
	case EventAgentDespawn:
		return "agent_despawn"
	default:
		return "unknown"
	}
}

// Event represents a single telemetry event. State and noise kinds are
// carried as their stable names so downstream sinks need no domain imports.
type Event struct {
	Type     EventType
	Tick     int64
	EntityID uint32

	// Optional fields depending on event type
	From     string              // outgoing state for state changes
	To       string              // incoming state for state changes
	Kind     string              // noise kind for emissions
	Position components.Position // emission origin
	Radius   float32             // emission radius
}

// Sink receives telemetry events as they happen. Implementations must not
// block the simulation tick.
type Sink interface {
	Record(Event)
}

// NewStateChangeEvent creates a state transition event.
func NewStateChangeEvent(tick int64, agentID uint32, from, to string) Event {
	return Event{
		Type:     EventStateChange,
		Tick:     tick,
		EntityID: agentID,
		From:     from,
		To:       to,
	}
}

// NewNoiseEvent creates a noise emission event.
func NewNoiseEvent(tick int64, originID uint32, kind string, pos components.Position, radius float32) Event {
	return Event{
		Type:     EventNoiseEmitted,
		Tick:     tick,
		EntityID: originID,
		Kind:     kind,
		Position: pos,
		Radius:   radius,
	}
}

// NewPoolEvictionEvent creates a pool exhaustion event.
func NewPoolEvictionEvent(tick int64) Event {
	return Event{Type: EventPoolEviction, Tick: tick}
}

// NewAgentSpawnEvent creates an agent spawn event.
func NewAgentSpawnEvent(tick int64, agentID uint32, pos components.Position) Event {
	return Event{Type: EventAgentSpawn, Tick: tick, EntityID: agentID, Position: pos}
}

// NewAgentDespawnEvent creates an agent despawn event.
func NewAgentDespawnEvent(tick int64, agentID uint32) Event {
	return Event{Type: EventAgentDespawn, Tick: tick, EntityID: agentID}
}
