package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

type movementRig struct {
	world   *ecs.World
	posMap  *ecs.Map1[components.Position]
	moveMap *ecs.Map1[components.MoveRequest]
	mapper  *ecs.Map2[components.Position, components.MoveRequest]
	system  *MovementSystem
}

func newMovementRig(arrivalRadius float32) *movementRig {
	world := ecs.NewWorld()
	return &movementRig{
		world:   world,
		posMap:  ecs.NewMap1[components.Position](world),
		moveMap: ecs.NewMap1[components.MoveRequest](world),
		mapper:  ecs.NewMap2[components.Position, components.MoveRequest](world),
		system:  NewMovementSystem(world, arrivalRadius),
	}
}

func (r *movementRig) spawn(pos components.Position, req components.MoveRequest) ecs.Entity {
	return r.mapper.NewEntity(&pos, &req)
}

func TestMovementStepsTowardDestination(t *testing.T) {
	rig := newMovementRig(0.1)
	e := rig.spawn(components.Position{}, components.MoveRequest{
		Dest:   components.Position{X: 10},
		Speed:  2,
		Active: true,
	})

	rig.system.Update(0.5)

	pos := rig.posMap.Get(e)
	if math.Abs(float64(pos.X-1)) > 1e-5 {
		t.Errorf("expected X=1 after one step, got %v", pos.X)
	}
	if pos.Z != 0 {
		t.Errorf("expected straight-line motion, got Z=%v", pos.Z)
	}
	if !rig.moveMap.Get(e).Active {
		t.Error("request should stay active mid-route")
	}
}

func TestMovementArrivalDeactivates(t *testing.T) {
	rig := newMovementRig(0.5)
	e := rig.spawn(components.Position{X: 9.6}, components.MoveRequest{
		Dest:   components.Position{X: 10},
		Speed:  2,
		Active: true,
	})

	rig.system.Update(0.1)

	if rig.moveMap.Get(e).Active {
		t.Error("request inside the arrival radius should deactivate")
	}
	// Position is left as-is once within the arrival radius.
	if pos := rig.posMap.Get(e); pos.X != 9.6 {
		t.Errorf("arrival should not snap position, got X=%v", pos.X)
	}
}

func TestMovementOvershootClampsToDestination(t *testing.T) {
	rig := newMovementRig(0.1)
	e := rig.spawn(components.Position{}, components.MoveRequest{
		Dest:   components.Position{X: 1},
		Speed:  100,
		Active: true,
	})

	rig.system.Update(1.0)

	pos := rig.posMap.Get(e)
	if pos.X != 1 {
		t.Errorf("overshooting step should clamp to the destination, got X=%v", pos.X)
	}
	if rig.moveMap.Get(e).Active {
		t.Error("request should deactivate on clamp arrival")
	}
}

func TestMovementSkipsInactiveAndBlocked(t *testing.T) {
	rig := newMovementRig(0.1)
	idle := rig.spawn(components.Position{}, components.MoveRequest{
		Dest:  components.Position{X: 10},
		Speed: 2,
	})
	blocked := rig.spawn(components.Position{}, components.MoveRequest{
		Dest:    components.Position{X: 10},
		Speed:   2,
		Active:  true,
		Blocked: true,
	})

	rig.system.Update(0.5)

	if pos := rig.posMap.Get(idle); pos.X != 0 {
		t.Errorf("inactive request should not move, got X=%v", pos.X)
	}
	if pos := rig.posMap.Get(blocked); pos.X != 0 {
		t.Errorf("blocked request should not move, got X=%v", pos.X)
	}
}

func TestLocomotorDrivesRequest(t *testing.T) {
	rig := newMovementRig(0.1)
	e := rig.spawn(components.Position{}, components.MoveRequest{})
	loc := NewLocomotor(rig.world, rig.moveMap, e)

	if loc.HasActivePath() {
		t.Error("fresh locomotor should have no active path")
	}
	if !loc.RemainingPathEmpty() {
		t.Error("fresh locomotor should report an empty path")
	}

	loc.SetSpeed(4)
	loc.SetDestination(components.Position{X: 2})
	if !loc.HasActivePath() {
		t.Error("locomotor should report an active path after SetDestination")
	}

	rig.system.Update(1.0)
	if !loc.RemainingPathEmpty() {
		t.Error("path should be empty after arriving")
	}
}

func TestLocomotorToleratesDeadEntity(t *testing.T) {
	rig := newMovementRig(0.1)
	e := rig.spawn(components.Position{}, components.MoveRequest{})
	loc := NewLocomotor(rig.world, rig.moveMap, e)
	rig.world.RemoveEntity(e)

	loc.SetDestination(components.Position{X: 5})
	loc.SetSpeed(3)
	if loc.HasActivePath() {
		t.Error("dead entity should never report an active path")
	}
	if !loc.RemainingPathEmpty() {
		t.Error("dead entity should report an empty path")
	}
}
