package perception

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/systems"
)

// GridVision implements Vision as a range query against the quarry spatial
// grid: the nearest quarry inside the sight range is the current target.
// Occlusion and field-of-view belong to a real sight model and are out of
// scope here.
type GridVision struct {
	grid    *systems.SpatialGrid
	posMap  *ecs.Map1[components.Position]
	self    ecs.Entity
	selfPos func() components.Position
	sight   float32

	buf []systems.Neighbor // reused across queries
}

// NewGridVision creates a vision channel for one agent.
func NewGridVision(grid *systems.SpatialGrid, posMap *ecs.Map1[components.Position], self ecs.Entity, selfPos func() components.Position, sight float32) *GridVision {
	return &GridVision{
		grid:    grid,
		posMap:  posMap,
		self:    self,
		selfPos: selfPos,
		sight:   sight,
	}
}

// CurrentTarget returns the nearest quarry within sight range.
func (v *GridVision) CurrentTarget() (ecs.Entity, bool) {
	p := v.selfPos()
	v.buf = v.grid.QueryRadiusInto(v.buf[:0], p.X, p.Z, v.sight, v.self, v.posMap)
	if len(v.buf) == 0 {
		return ecs.Entity{}, false
	}

	best := 0
	for i := 1; i < len(v.buf); i++ {
		if v.buf[i].DistSq < v.buf[best].DistSq {
			best = i
		}
	}
	return v.buf[best].E, true
}
