package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

// MovementSystem executes move-to requests by straight-line steering on the
// XZ plane. It stands in for a real navigation stack: the decision engine
// only ever asks "go toward X at speed S" and "is there path left".
type MovementSystem struct {
	filter        *ecs.Filter2[components.Position, components.MoveRequest]
	arrivalRadius float32
}

// NewMovementSystem creates the system for the given world.
func NewMovementSystem(w *ecs.World, arrivalRadius float32) *MovementSystem {
	return &MovementSystem{
		filter:        ecs.NewFilter2[components.Position, components.MoveRequest](w),
		arrivalRadius: arrivalRadius,
	}
}

// Update advances every active move request by one tick.
func (s *MovementSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		pos, req := query.Get()
		if !req.Active || req.Blocked {
			continue
		}

		dx := req.Dest.X - pos.X
		dz := req.Dest.Z - pos.Z
		dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))

		if dist <= s.arrivalRadius {
			req.Active = false
			continue
		}

		step := req.Speed * dt
		if step >= dist {
			pos.X = req.Dest.X
			pos.Z = req.Dest.Z
			req.Active = false
			continue
		}

		pos.X += dx / dist * step
		pos.Z += dz / dist * step
	}
}

// Locomotor adapts one entity's MoveRequest component to the movement
// contract consumed by the decision engine. It looks the component up per
// call; archetype storage may relocate components, so no pointer is cached.
type Locomotor struct {
	world   *ecs.World
	moveMap *ecs.Map1[components.MoveRequest]
	entity  ecs.Entity
}

// NewLocomotor creates a locomotor for the given entity.
func NewLocomotor(w *ecs.World, moveMap *ecs.Map1[components.MoveRequest], entity ecs.Entity) *Locomotor {
	return &Locomotor{world: w, moveMap: moveMap, entity: entity}
}

func (l *Locomotor) request() *components.MoveRequest {
	if !l.world.Alive(l.entity) {
		return nil
	}
	return l.moveMap.Get(l.entity)
}

// SetDestination issues a new move-to request, superseding any previous one.
func (l *Locomotor) SetDestination(p components.Position) {
	if req := l.request(); req != nil {
		req.Dest = p
		req.Active = true
		req.Blocked = false
	}
}

// SetSpeed sets the movement speed for subsequent motion.
func (l *Locomotor) SetSpeed(speed float32) {
	if req := l.request(); req != nil {
		req.Speed = speed
	}
}

// HasActivePath reports whether a destination is set and routable.
func (l *Locomotor) HasActivePath() bool {
	req := l.request()
	return req != nil && req.Active && !req.Blocked
}

// RemainingPathEmpty reports whether there is nothing left to walk: either
// the destination was reached or no route exists.
func (l *Locomotor) RemainingPathEmpty() bool {
	req := l.request()
	return req == nil || !req.Active || req.Blocked
}
