package perception

import "github.com/pthm-cable/horde/components"

// ScentTrail is a ring buffer of decaying scent deposits left behind by a
// source (the player). A deposit's strength fades linearly from 1 to 0 over
// the decay time; fully-faded points are skipped by queries.
type ScentTrail struct {
	points []scentPoint
	head   int
	count  int
	decay  float64
}

type scentPoint struct {
	pos         components.Position
	depositedAt float64
}

// NewScentTrail creates a trail with the given ring capacity (minimum 1).
func NewScentTrail(capacity int, decayTime float64) *ScentTrail {
	if capacity < 1 {
		capacity = 1
	}
	return &ScentTrail{
		points: make([]scentPoint, capacity),
		decay:  decayTime,
	}
}

// Deposit records a scent point at the source's current position, evicting
// the oldest point when the ring is full.
func (t *ScentTrail) Deposit(pos components.Position, now float64) {
	t.points[t.head] = scentPoint{pos: pos, depositedAt: now}
	t.head = (t.head + 1) % len(t.points)
	if t.count < len(t.points) {
		t.count++
	}
}

// strength returns the point's remaining strength in [0, 1].
func (t *ScentTrail) strength(p scentPoint, now float64) float64 {
	if t.decay <= 0 {
		return 0
	}
	s := 1 - (now-p.depositedAt)/t.decay
	if s < 0 {
		return 0
	}
	return s
}

// StrongestNear returns the strongest unfaded deposit within radius of pos.
func (t *ScentTrail) StrongestNear(pos components.Position, radius float32, now float64) (components.Position, float64, bool) {
	var (
		bestPos      components.Position
		bestStrength float64
		found        bool
	)
	radiusSq := radius * radius
	for i := 0; i < t.count; i++ {
		p := t.points[i]
		if pos.DistSqXZ(p.pos) > radiusSq {
			continue
		}
		s := t.strength(p, now)
		if s <= 0 {
			continue
		}
		if !found || s > bestStrength {
			bestPos = p.pos
			bestStrength = s
			found = true
		}
	}
	return bestPos, bestStrength, found
}

// ScentTracker implements Smell for one agent: strongest-deposit selection
// while in contact, plus a post-exit memory window (hysteresis) during which
// the last scent position keeps being reported.
type ScentTracker struct {
	trail      *ScentTrail
	selfPos    func() components.Position
	radius     float32
	hysteresis float64

	now         float64
	lastScent   components.Position
	lastContact float64
	inContact   bool
	everContact bool
}

// NewScentTracker creates a smell channel for one agent over a shared trail.
func NewScentTracker(trail *ScentTrail, selfPos func() components.Position, radius float32, hysteresis float64) *ScentTracker {
	return &ScentTracker{
		trail:      trail,
		selfPos:    selfPos,
		radius:     radius,
		hysteresis: hysteresis,
	}
}

// Update samples the trail once per tick.
func (s *ScentTracker) Update(now float64) {
	s.now = now
	if pos, _, ok := s.trail.StrongestNear(s.selfPos(), s.radius, now); ok {
		s.lastScent = pos
		s.lastContact = now
		s.inContact = true
		s.everContact = true
		return
	}
	s.inContact = false
}

// HasScentTarget reports contact, extended by the hysteresis window.
func (s *ScentTracker) HasScentTarget() bool {
	if !s.everContact {
		return false
	}
	return s.inContact || s.now-s.lastContact <= s.hysteresis
}

// ScentPosition returns the most recent scent contact position.
func (s *ScentTracker) ScentPosition() components.Position {
	return s.lastScent
}
