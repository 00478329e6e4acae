package noise

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
)

// Marker is one pooled noise record. It stays in the pool for its duration
// and is reclaimed by the sweep, never deallocated.
type Marker struct {
	Position components.Position
	Radius   float32
	Kind     Kind
	Origin   ecs.Entity

	expireAt float64
	gen      uint32
	active   bool
}

// ExpiresAt returns the simulation time at which the marker is reclaimed.
func (m *Marker) ExpiresAt() float64 { return m.expireAt }

// Handle is a generation-counted reference to a pool slot. A handle goes
// stale as soon as its slot is reclaimed or reused; Resolve validates it.
type Handle struct {
	index int32
	gen   uint32
}

// NilHandle is the invalid handle returned for rejected emissions.
var NilHandle = Handle{index: -1}

// Valid reports whether the handle ever referred to a slot. It does not
// check liveness; use Pool.Resolve for that.
func (h Handle) Valid() bool { return h.index >= 0 }

// Pool is a fixed-capacity arena of reusable noise markers. All slots are
// allocated up front; steady-state acquire/release never allocates.
type Pool struct {
	slots       []Marker
	free        []int32
	activeCount int
	reused      int // emissions that evicted a live slot due to exhaustion
}

// NewPool creates a pool with the given slot capacity (minimum 1).
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	p := &Pool{
		slots: make([]Marker, capacity),
		free:  make([]int32, capacity),
	}
	for i := range p.free {
		p.free[i] = int32(capacity - 1 - i)
	}
	return p
}

// Acquire claims a slot for a new marker and returns its handle. When all
// slots are live the earliest-expiring marker is evicted and its slot reused;
// the pool never grows.
func (p *Pool) Acquire(pos components.Position, radius float32, duration float64, kind Kind, origin ecs.Entity, now float64) Handle {
	var idx int32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
		p.activeCount++
	} else {
		idx = p.earliestExpiring()
		p.slots[idx].gen++ // invalidate handles to the evicted marker
		p.reused++
	}

	m := &p.slots[idx]
	m.Position = pos
	m.Radius = radius
	m.Kind = kind
	m.Origin = origin
	m.expireAt = now + duration
	m.active = true

	return Handle{index: idx, gen: m.gen}
}

// earliestExpiring returns the index of the active slot with the soonest
// expiry. Ties resolve to the lowest slot index. Only called when the pool
// is exhausted, so every slot is active.
func (p *Pool) earliestExpiring() int32 {
	best := int32(0)
	bestAt := p.slots[0].expireAt
	for i := 1; i < len(p.slots); i++ {
		if p.slots[i].expireAt < bestAt {
			best = int32(i)
			bestAt = p.slots[i].expireAt
		}
	}
	return best
}

// Step reclaims every marker whose duration has elapsed. Called once per
// tick, so a marker outlives its duration by at most one tick.
func (p *Pool) Step(now float64) {
	for i := range p.slots {
		m := &p.slots[i]
		if m.active && m.expireAt <= now {
			m.active = false
			m.gen++
			p.free = append(p.free, int32(i))
			p.activeCount--
		}
	}
}

// Resolve returns the marker for a handle, or false if the handle is stale.
func (p *Pool) Resolve(h Handle) (*Marker, bool) {
	if h.index < 0 || int(h.index) >= len(p.slots) {
		return nil, false
	}
	m := &p.slots[h.index]
	if !m.active || m.gen != h.gen {
		return nil, false
	}
	return m, true
}

// EachActive visits every live marker. Used for snapshots and debugging.
func (p *Pool) EachActive(fn func(Handle, *Marker)) {
	for i := range p.slots {
		m := &p.slots[i]
		if m.active {
			fn(Handle{index: int32(i), gen: m.gen}, m)
		}
	}
}

// Active returns the number of live markers.
func (p *Pool) Active() int { return p.activeCount }

// Capacity returns the fixed slot count.
func (p *Pool) Capacity() int { return len(p.slots) }

// ReusedCount returns how many emissions evicted a live slot. Telemetry
// reads and resets it per window via TakeReused.
func (p *Pool) ReusedCount() int { return p.reused }

// TakeReused returns the eviction count and resets it.
func (p *Pool) TakeReused() int {
	n := p.reused
	p.reused = 0
	return n
}
