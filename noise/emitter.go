package noise

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/config"
)

// Emitter converts one origin's per-tick movement telemetry into discrete
// noise emissions. Typically attached to the player; agents only listen.
type Emitter struct {
	pool   *Pool
	bus    *Bus
	cfg    config.NoiseConfig
	origin ecs.Entity

	// Movement telemetry, mutated only by Update.
	lastPos      components.Position
	hasLast      bool
	sinceStep    float64
	grounded     bool
	airborneTime float64
	peakHeight   float32
	crouching    bool
}

// NewEmitter creates an emitter for the given origin entity. The footstep
// timer starts "ready" so the first step after spawning emits immediately.
func NewEmitter(pool *Pool, bus *Bus, cfg config.NoiseConfig, origin ecs.Entity) *Emitter {
	return &Emitter{
		pool:      pool,
		bus:       bus,
		cfg:       cfg,
		origin:    origin,
		sinceStep: cfg.FootstepInterval,
		grounded:  true,
	}
}

// SetCrouching switches footstep emissions to the crouch radius.
func (e *Emitter) SetCrouching(crouching bool) {
	e.crouching = crouching
}

// Crouching reports the current crouch state.
func (e *Emitter) Crouching() bool { return e.crouching }

// Update advances the movement telemetry by one tick and fires any footstep
// or landing emissions it implies.
func (e *Emitter) Update(now, dt float64, pos components.Position, grounded bool) {
	var speed float64
	if e.hasLast && dt > 0 {
		speed = float64(pos.DistXZ(e.lastPos)) / dt
	}

	switch {
	case !grounded && e.grounded:
		// Takeoff edge: start airborne tracking from the takeoff height.
		e.airborneTime = dt
		e.peakHeight = pos.Y
	case !grounded:
		e.airborneTime += dt
		if pos.Y > e.peakHeight {
			e.peakHeight = pos.Y
		}
	case grounded && !e.grounded:
		e.emitLanding(now, pos)
		e.airborneTime = 0
	}

	if grounded {
		if speed >= e.cfg.MovementThreshold {
			e.sinceStep += dt
			if e.sinceStep >= e.cfg.FootstepInterval {
				e.Emit(now, KindFootstep, pos, e.footstepRadius(speed), e.cfg.Duration.Footstep)
				e.sinceStep = 0
			}
		} else {
			// Reset to "ready", not zero: the first step after resuming
			// motion emits immediately.
			e.sinceStep = e.cfg.FootstepInterval
		}
	}

	e.lastPos = pos
	e.hasLast = true
	e.grounded = grounded
}

// footstepRadius picks the radius for the current crouch/walk/run state.
func (e *Emitter) footstepRadius(speed float64) float32 {
	if e.crouching {
		return float32(e.cfg.Radius.Crouch)
	}
	if speed >= e.cfg.RunSpeedThreshold {
		return float32(e.cfg.Radius.Run)
	}
	return float32(e.cfg.Radius.Walk)
}

// emitLanding fires a landing emission on the grounded-transition edge,
// gated by both the airborne-time and fall-distance thresholds.
func (e *Emitter) emitLanding(now float64, pos components.Position) {
	fall := e.peakHeight - pos.Y
	if e.airborneTime < e.cfg.MinAirborneTime || float64(fall) < e.cfg.MinFallDistance {
		return
	}
	span := float32(e.cfg.MaxFallDistance - e.cfg.MinFallDistance)
	var t float32
	if span > 0 {
		t = (fall - float32(e.cfg.MinFallDistance)) / span
	} else {
		t = 1
	}
	radius := components.Lerp(float32(e.cfg.Radius.Landing), float32(e.cfg.Radius.MaxLanding), t)
	e.Emit(now, KindLanding, pos, radius, e.cfg.Duration.Action)
}

// EmitJump fires a jump emission, bypassing telemetry.
func (e *Emitter) EmitJump(now float64, pos components.Position) Handle {
	return e.Emit(now, KindJump, pos, float32(e.cfg.Radius.Jump), e.cfg.Duration.Action)
}

// EmitGunshot fires a gunshot emission, bypassing telemetry.
func (e *Emitter) EmitGunshot(now float64, pos components.Position) Handle {
	return e.Emit(now, KindGunshot, pos, float32(e.cfg.Radius.Gunshot), e.cfg.Duration.Action)
}

// EmitDoorSlam fires a door-slam emission, bypassing telemetry.
func (e *Emitter) EmitDoorSlam(now float64, pos components.Position) Handle {
	return e.Emit(now, KindDoorSlam, pos, float32(e.cfg.Radius.DoorSlam), e.cfg.Duration.Action)
}

// Emit is the shared creation path for all emission kinds: acquire a pooled
// marker, then publish synchronously to the bus. The pool reclaims the marker
// after duration elapses; the emitter never releases it. Emissions with a
// non-positive radius are silently ignored.
func (e *Emitter) Emit(now float64, kind Kind, pos components.Position, radius float32, duration float64) Handle {
	if radius <= 0 {
		return NilHandle
	}
	h := e.pool.Acquire(pos, radius, duration, kind, e.origin, now)
	e.bus.Publish(Event{
		Position: pos,
		Radius:   radius,
		Kind:     kind,
		Origin:   e.origin,
	})
	return h
}
