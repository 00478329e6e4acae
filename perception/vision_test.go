package perception

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/systems"
)

type visionRig struct {
	world  *ecs.World
	posMap *ecs.Map1[components.Position]
	grid   *systems.SpatialGrid
}

func newVisionRig() *visionRig {
	world := ecs.NewWorld()
	return &visionRig{
		world:  world,
		posMap: ecs.NewMap1[components.Position](world),
		grid:   systems.NewSpatialGrid(200, 200, 32),
	}
}

func (r *visionRig) spawn(pos components.Position) ecs.Entity {
	e := r.posMap.NewEntity(&pos)
	r.grid.Insert(e, pos.X, pos.Z)
	return e
}

func TestVisionPicksNearestQuarry(t *testing.T) {
	rig := newVisionRig()
	far := rig.spawn(components.Position{X: 20, Z: 20})
	near := rig.spawn(components.Position{X: 5, Z: 5})
	self := components.Position{}

	v := NewGridVision(rig.grid, rig.posMap, ecs.Entity{}, func() components.Position { return self }, 30)
	target, ok := v.CurrentTarget()
	if !ok {
		t.Fatal("expected a target inside sight range")
	}
	if target != near {
		t.Errorf("expected nearest quarry %v, got %v (far was %v)", near, target, far)
	}
}

func TestVisionIgnoresOutOfRange(t *testing.T) {
	rig := newVisionRig()
	rig.spawn(components.Position{X: 100, Z: 100})
	self := components.Position{}

	v := NewGridVision(rig.grid, rig.posMap, ecs.Entity{}, func() components.Position { return self }, 30)
	if _, ok := v.CurrentTarget(); ok {
		t.Error("quarry outside sight range should not be targeted")
	}
}

func TestVisionExcludesSelf(t *testing.T) {
	rig := newVisionRig()
	selfEntity := rig.spawn(components.Position{X: 10, Z: 10})
	selfPos := components.Position{X: 10, Z: 10}

	v := NewGridVision(rig.grid, rig.posMap, selfEntity, func() components.Position { return selfPos }, 30)
	if _, ok := v.CurrentTarget(); ok {
		t.Error("an entity should never target itself")
	}
}

func TestVisionTracksGridRebuild(t *testing.T) {
	rig := newVisionRig()
	quarry := rig.spawn(components.Position{X: 5, Z: 5})
	self := components.Position{}

	v := NewGridVision(rig.grid, rig.posMap, ecs.Entity{}, func() components.Position { return self }, 30)
	if _, ok := v.CurrentTarget(); !ok {
		t.Fatal("expected an initial target")
	}

	// Quarry moves out of range; the grid is rebuilt each tick.
	*rig.posMap.Get(quarry) = components.Position{X: 150, Z: 150}
	rig.grid.Clear()
	rig.grid.Insert(quarry, 150, 150)

	if _, ok := v.CurrentTarget(); ok {
		t.Error("target should be lost after the quarry leaves sight range")
	}
}
