package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/noise"
)

// Player is a quarry entity driven from outside the simulation. Its
// movement telemetry feeds the noise emitter, and its position feeds
// the scent trail and the vision grid.
type Player struct {
	world    *World
	entity   ecs.Entity
	emitter  *noise.Emitter
	grounded bool
}

// SpawnPlayer creates a player entity at the given position.
func (w *World) SpawnPlayer(pos components.Position) *Player {
	quarry := components.Quarry{}
	entity := w.quarryMapper.NewEntity(&pos, &quarry)

	p := &Player{
		world:    w,
		entity:   entity,
		emitter:  noise.NewEmitter(w.pool, w.bus, w.cfg.Noise, entity),
		grounded: true,
	}
	w.players[entity] = p
	return p
}

// DespawnPlayer removes a player entity from the world.
func (w *World) DespawnPlayer(p *Player) {
	if _, ok := w.players[p.entity]; !ok {
		return
	}
	delete(w.players, p.entity)
	w.ecsWorld.RemoveEntity(p.entity)
}

// Entity returns the player's ECS entity.
func (p *Player) Entity() ecs.Entity { return p.entity }

// MoveTo teleports the player and updates its grounded flag. The
// emitter derives speed from successive positions on the next step.
func (p *Player) MoveTo(pos components.Position, grounded bool) {
	if !p.world.ecsWorld.Alive(p.entity) {
		return
	}
	if cur := p.world.posMap.Get(p.entity); cur != nil {
		*cur = pos
	}
	p.grounded = grounded
}

// Position returns the player's current position.
func (p *Player) Position() components.Position {
	if !p.world.ecsWorld.Alive(p.entity) {
		return components.Position{}
	}
	if cur := p.world.posMap.Get(p.entity); cur != nil {
		return *cur
	}
	return components.Position{}
}

// SetCrouching toggles the player's crouch stance for footstep radii.
func (p *Player) SetCrouching(crouching bool) {
	p.emitter.SetCrouching(crouching)
}

// Jump emits a jump noise at the player's current position.
func (p *Player) Jump() noise.Handle {
	return p.emitter.EmitJump(p.world.now, p.Position())
}

// FireGunshot emits a gunshot noise at the player's current position.
func (p *Player) FireGunshot() noise.Handle {
	return p.emitter.EmitGunshot(p.world.now, p.Position())
}

// SlamDoor emits a door slam noise at the player's current position.
func (p *Player) SlamDoor() noise.Handle {
	return p.emitter.EmitDoorSlam(p.world.now, p.Position())
}
