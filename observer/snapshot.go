package observer

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/behavior"
	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/noise"
	"github.com/pthm-cable/horde/sim"
)

// AgentSnapshot is one agent's state in a snapshot frame.
type AgentSnapshot struct {
	ID    uint32  `json:"id"`
	X     float32 `json:"x"`
	Y     float32 `json:"y"`
	Z     float32 `json:"z"`
	State string  `json:"state"`
}

// PlayerSnapshot is one player's position in a snapshot frame.
type PlayerSnapshot struct {
	ID uint32  `json:"id"`
	X  float32 `json:"x"`
	Y  float32 `json:"y"`
	Z  float32 `json:"z"`
}

// NoiseSnapshot is one active noise marker in a snapshot frame.
type NoiseSnapshot struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Z         float32 `json:"z"`
	Radius    float32 `json:"radius"`
	Kind      string  `json:"kind"`
	ExpiresAt float64 `json:"expires_at"`
}

// Snapshot is a full world frame sent to observers.
type Snapshot struct {
	Tick    int64            `json:"tick"`
	Time    float64          `json:"time"`
	Agents  []AgentSnapshot  `json:"agents"`
	Players []PlayerSnapshot `json:"players"`
	Noises  []NoiseSnapshot  `json:"noises"`
}

// BuildSnapshot captures the current world state.
func BuildSnapshot(w *sim.World) Snapshot {
	snap := Snapshot{
		Tick: w.Tick(),
		Time: w.Now(),
	}

	w.EachAgent(func(entity ecs.Entity, pos components.Position, state behavior.StateKind) {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			ID:    entity.ID(),
			X:     pos.X,
			Y:     pos.Y,
			Z:     pos.Z,
			State: state.String(),
		})
	})

	w.EachPlayer(func(entity ecs.Entity, pos components.Position) {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID: entity.ID(),
			X:  pos.X,
			Y:  pos.Y,
			Z:  pos.Z,
		})
	})

	w.Pool().EachActive(func(_ noise.Handle, m *noise.Marker) {
		snap.Noises = append(snap.Noises, NoiseSnapshot{
			X:         m.Position.X,
			Y:         m.Position.Y,
			Z:         m.Position.Z,
			Radius:    m.Radius,
			Kind:      m.Kind.String(),
			ExpiresAt: m.ExpiresAt(),
		})
	})

	return snap
}
