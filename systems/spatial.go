// Package systems provides the ECS systems shared by the simulation: the
// spatial index and move-to execution.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
// This avoids recomputing deltas and distances in perception.
type Neighbor struct {
	E      ecs.Entity
	DX, DZ float32 // Delta from query origin on the XZ plane
	DistSq float32 // Squared distance (avoid sqrt in hot path)
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid over
// the XZ plane. The world is bounded; positions outside are clamped to the
// edge cells.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	depth    float32
	cells    [][]ecs.Entity // flat grid of entity lists
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, depth, cellSize float32) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(depth/cellSize) + 1

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8) // pre-allocate small capacity
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		depth:    depth,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given XZ position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, z float32) {
	idx := g.cellIndex(x, z)
	g.cells[idx] = append(g.cells[idx], e)
}

// cellIndex maps a position to a flat cell index, clamped to the grid.
func (g *SpatialGrid) cellIndex(x, z float32) int {
	col := int(x / g.cellSize)
	row := int(z / g.cellSize)
	col = clampInt(col, 0, g.cols-1)
	row = clampInt(row, 0, g.rows-1)
	return row*g.cols + col
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
// This prevents density spikes from causing unbounded work.
const MaxQueryResults = 128

// QueryRadiusInto finds entities within radius and appends to dst (up to
// MaxQueryResults). Returns the updated slice. Reuse dst across calls to
// avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, z, radius float32, exclude ecs.Entity, posMap *ecs.Map1[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1

	centerCol := clampInt(int(x/g.cellSize), 0, g.cols-1)
	centerRow := clampInt(int(z/g.cellSize), 0, g.rows-1)

	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			idx := row*g.cols + col

			for _, e := range g.cells[idx] {
				if e == exclude {
					continue
				}

				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx := pos.X - x
				dz := pos.Z - z
				distSq := dx*dx + dz*dz

				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, DX: dx, DZ: dz, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
