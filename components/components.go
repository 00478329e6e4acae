// Package components defines ECS components for the simulation.
package components

import "math"

// Position is an entity's world position. Y is up; agents navigate on the
// XZ plane and Y only matters for fall-height bookkeeping.
type Position struct {
	X, Y, Z float32
}

// DistSqXZ returns the squared horizontal distance to another position.
// Hot-path helper; avoids sqrt where only comparisons are needed.
func (p Position) DistSqXZ(o Position) float32 {
	dx := o.X - p.X
	dz := o.Z - p.Z
	return dx*dx + dz*dz
}

// DistXZ returns the horizontal distance to another position.
func (p Position) DistXZ(o Position) float32 {
	return float32(math.Sqrt(float64(p.DistSqXZ(o))))
}

// Quarry tags entities that vision can acquire as chase targets
// (players, decoys, scripted lures).
type Quarry struct{}

// MoveRequest is the movement collaborator state for one entity. A new
// destination implicitly supersedes the previous one; there is no cancel.
type MoveRequest struct {
	Dest    Position
	Speed   float32 // world units per second
	Active  bool    // destination set and not yet reached
	Blocked bool    // no route to Dest; read as "arrived" by behavior
}

// Lerp linearly interpolates between a and b by t clamped to [0, 1].
func Lerp(a, b, t float32) float32 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
