package perception

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/noise"
)

// NoiseHearing implements Hearing by subscribing to the noise bus. An event
// becomes a pending position when the listener sits inside its radius; the
// most recent event wins, with the louder one breaking same-instant ties.
// A pending position expires after the retention interval if never consumed.
type NoiseHearing struct {
	self      ecs.Entity
	listener  func() components.Position
	clock     func() float64
	retention float64
	sub       noise.Subscription

	pending       components.Position
	pendingRadius float32
	heardAt       float64
	has           bool
}

// NewNoiseHearing subscribes a listener to the bus. Callers own the returned
// hearing and must Close it before the listening agent is destroyed.
func NewNoiseHearing(bus *noise.Bus, self ecs.Entity, listener func() components.Position, retention float64, clock func() float64) *NoiseHearing {
	h := &NoiseHearing{
		self:      self,
		listener:  listener,
		clock:     clock,
		retention: retention,
	}
	h.sub = bus.Subscribe(h.onNoise)
	return h
}

// onNoise runs inline on the emitter's tick; keep it cheap.
func (h *NoiseHearing) onNoise(ev noise.Event) {
	if ev.Origin == h.self {
		return // own noises are not stimuli
	}
	if h.listener().DistSqXZ(ev.Position) > ev.Radius*ev.Radius {
		return
	}
	now := h.clock()
	if h.has && now == h.heardAt && ev.Radius <= h.pendingRadius {
		return
	}
	h.pending = ev.Position
	h.pendingRadius = ev.Radius
	h.heardAt = now
	h.has = true
}

// TryGetNoisePosition returns and consumes the pending noise position.
func (h *NoiseHearing) TryGetNoisePosition() (components.Position, bool) {
	if !h.has {
		return components.Position{}, false
	}
	if h.clock()-h.heardAt > h.retention {
		h.has = false
		return components.Position{}, false
	}
	h.has = false
	return h.pending, true
}

// Close deregisters the bus subscription.
func (h *NoiseHearing) Close() {
	h.sub.Close()
}
