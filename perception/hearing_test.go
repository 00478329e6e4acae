package perception

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/horde/components"
	"github.com/pthm-cable/horde/noise"
)

// hearingRig wires a NoiseHearing to a bus with a controllable clock.
type hearingRig struct {
	bus     *noise.Bus
	hearing *NoiseHearing
	now     float64
	pos     components.Position
}

func newHearingRig(self ecs.Entity, retention float64) *hearingRig {
	r := &hearingRig{bus: noise.NewBus()}
	r.hearing = NewNoiseHearing(r.bus, self,
		func() components.Position { return r.pos },
		retention,
		func() float64 { return r.now },
	)
	return r
}

func makeEntities(n int) []ecs.Entity {
	world := ecs.NewWorld()
	posMap := ecs.NewMap1[components.Position](world)
	out := make([]ecs.Entity, n)
	for i := range out {
		pos := components.Position{}
		out[i] = posMap.NewEntity(&pos)
	}
	return out
}

func TestHearingCapturesNoiseInRadius(t *testing.T) {
	ents := makeEntities(2)
	r := newHearingRig(ents[0], 3.0)

	r.bus.Publish(noise.Event{
		Position: components.Position{X: 5},
		Radius:   10,
		Kind:     noise.KindGunshot,
		Origin:   ents[1],
	})

	pos, ok := r.hearing.TryGetNoisePosition()
	if !ok {
		t.Fatal("in-radius noise not captured")
	}
	if pos != (components.Position{X: 5}) {
		t.Errorf("captured position wrong: %v", pos)
	}

	// Consumed: a second read returns nothing.
	if _, ok := r.hearing.TryGetNoisePosition(); ok {
		t.Error("noise position not consumed")
	}
}

func TestHearingIgnoresNoiseOutOfRadius(t *testing.T) {
	ents := makeEntities(2)
	r := newHearingRig(ents[0], 3.0)

	r.bus.Publish(noise.Event{
		Position: components.Position{X: 50},
		Radius:   10,
		Origin:   ents[1],
	})

	if _, ok := r.hearing.TryGetNoisePosition(); ok {
		t.Error("out-of-radius noise captured")
	}
}

func TestHearingIgnoresOwnNoise(t *testing.T) {
	ents := makeEntities(1)
	r := newHearingRig(ents[0], 3.0)

	r.bus.Publish(noise.Event{
		Position: components.Position{X: 1},
		Radius:   10,
		Origin:   ents[0],
	})

	if _, ok := r.hearing.TryGetNoisePosition(); ok {
		t.Error("own noise captured as stimulus")
	}
}

func TestHearingRetentionExpiry(t *testing.T) {
	ents := makeEntities(2)
	r := newHearingRig(ents[0], 3.0)

	r.bus.Publish(noise.Event{Position: components.Position{X: 5}, Radius: 10, Origin: ents[1]})

	r.now = 3.5
	if _, ok := r.hearing.TryGetNoisePosition(); ok {
		t.Error("stale noise position survived past retention")
	}
}

func TestHearingMostRecentWins(t *testing.T) {
	ents := makeEntities(2)
	r := newHearingRig(ents[0], 3.0)

	r.bus.Publish(noise.Event{Position: components.Position{X: 1}, Radius: 10, Origin: ents[1]})
	r.now = 0.5
	r.bus.Publish(noise.Event{Position: components.Position{X: 2}, Radius: 5, Origin: ents[1]})

	pos, ok := r.hearing.TryGetNoisePosition()
	if !ok {
		t.Fatal("no pending noise")
	}
	if pos != (components.Position{X: 2}) {
		t.Errorf("later noise did not win: %v", pos)
	}
}

func TestHearingLouderWinsSameInstant(t *testing.T) {
	ents := makeEntities(2)
	r := newHearingRig(ents[0], 3.0)

	r.bus.Publish(noise.Event{Position: components.Position{X: 1}, Radius: 10, Origin: ents[1]})
	r.bus.Publish(noise.Event{Position: components.Position{X: 2}, Radius: 5, Origin: ents[1]})
	r.bus.Publish(noise.Event{Position: components.Position{X: 3}, Radius: 20, Origin: ents[1]})

	pos, ok := r.hearing.TryGetNoisePosition()
	if !ok {
		t.Fatal("no pending noise")
	}
	if pos != (components.Position{X: 3}) {
		t.Errorf("loudest same-instant noise did not win: %v", pos)
	}
}

func TestHearingCloseUnsubscribes(t *testing.T) {
	ents := makeEntities(2)
	r := newHearingRig(ents[0], 3.0)

	if r.bus.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount wrong: got %d, want 1", r.bus.SubscriberCount())
	}
	r.hearing.Close()
	if r.bus.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount after close: got %d, want 0", r.bus.SubscriberCount())
	}

	r.bus.Publish(noise.Event{Position: components.Position{X: 1}, Radius: 10, Origin: ents[1]})
	if _, ok := r.hearing.TryGetNoisePosition(); ok {
		t.Error("closed hearing still capturing")
	}
}
