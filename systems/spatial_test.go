package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

type gridRig struct {
	world  *ecs.World
	posMap *ecs.Map1[components.Position]
	grid   *SpatialGrid
}

func newGridRig() *gridRig {
	world := ecs.NewWorld()
	return &gridRig{
		world:  world,
		posMap: ecs.NewMap1[components.Position](world),
		grid:   NewSpatialGrid(200, 200, 32),
	}
}

func (r *gridRig) spawn(x, z float32) ecs.Entity {
	pos := components.Position{X: x, Z: z}
	e := r.posMap.NewEntity(&pos)
	r.grid.Insert(e, x, z)
	return e
}

func (r *gridRig) query(x, z, radius float32, exclude ecs.Entity) []Neighbor {
	return r.grid.QueryRadiusInto(nil, x, z, radius, exclude, r.posMap)
}

func TestGridQueryRadius(t *testing.T) {
	rig := newGridRig()
	inside := rig.spawn(10, 10)
	rig.spawn(100, 100)

	got := rig.query(0, 0, 20, ecs.Entity{})
	if len(got) != 1 {
		t.Fatalf("expected 1 neighbor inside radius, got %d", len(got))
	}
	if got[0].E != inside {
		t.Errorf("expected neighbor %v, got %v", inside, got[0].E)
	}
}

func TestGridNeighborMetrics(t *testing.T) {
	rig := newGridRig()
	rig.spawn(3, 4)

	got := rig.query(0, 0, 10, ecs.Entity{})
	if len(got) != 1 {
		t.Fatalf("expected 1 neighbor, got %d", len(got))
	}
	n := got[0]
	if n.DX != 3 || n.DZ != 4 {
		t.Errorf("expected delta (3, 4), got (%v, %v)", n.DX, n.DZ)
	}
	if n.DistSq != 25 {
		t.Errorf("expected DistSq 25, got %v", n.DistSq)
	}
}

func TestGridExcludesEntity(t *testing.T) {
	rig := newGridRig()
	self := rig.spawn(1, 1)
	other := rig.spawn(2, 2)

	got := rig.query(0, 0, 10, self)
	if len(got) != 1 || got[0].E != other {
		t.Errorf("expected only %v after excluding %v, got %v", other, self, got)
	}
}

func TestGridCrossesCellBoundaries(t *testing.T) {
	rig := newGridRig()
	// Neighboring cells: 31 and 33 straddle the 32-unit cell edge.
	a := rig.spawn(31, 0)
	b := rig.spawn(33, 0)

	got := rig.query(32, 0, 5, ecs.Entity{})
	if len(got) != 2 {
		t.Fatalf("expected both straddling entities, got %d", len(got))
	}
	seen := map[ecs.Entity]bool{got[0].E: true, got[1].E: true}
	if !seen[a] || !seen[b] {
		t.Errorf("expected %v and %v, got %v", a, b, got)
	}
}

func TestGridClampsOutOfBounds(t *testing.T) {
	rig := newGridRig()
	e := rig.spawn(-5, 250) // clamped to an edge cell

	got := rig.query(0, 200, 60, ecs.Entity{})
	found := false
	for _, n := range got {
		if n.E == e {
			found = true
		}
	}
	if !found {
		t.Error("out-of-bounds insert should land in an edge cell and stay queryable")
	}
}

func TestGridClearEmptiesCells(t *testing.T) {
	rig := newGridRig()
	rig.spawn(10, 10)
	rig.grid.Clear()

	if got := rig.query(10, 10, 50, ecs.Entity{}); len(got) != 0 {
		t.Errorf("expected no neighbors after Clear, got %d", len(got))
	}
}

func TestGridQueryCapsResults(t *testing.T) {
	rig := newGridRig()
	for i := 0; i < MaxQueryResults+20; i++ {
		rig.spawn(float32(i%10), float32(i/10))
	}

	got := rig.query(5, 5, 50, ecs.Entity{})
	if len(got) != MaxQueryResults {
		t.Errorf("expected query capped at %d results, got %d", MaxQueryResults, len(got))
	}
}
