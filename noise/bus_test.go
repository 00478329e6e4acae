package noise

import "testing"

func TestBusPublishDeliversInOrder(t *testing.T) {
	b := NewBus()

	var order []int
	b.Subscribe(func(Event) { order = append(order, 1) })
	b.Subscribe(func(Event) { order = append(order, 2) })

	b.Publish(Event{Kind: KindFootstep})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("delivery order wrong: %v", order)
	}
}

func TestBusCloseStopsDelivery(t *testing.T) {
	b := NewBus()

	calls := 0
	sub := b.Subscribe(func(Event) { calls++ })

	b.Publish(Event{})
	sub.Close()
	b.Publish(Event{})

	if calls != 1 {
		t.Errorf("calls wrong: got %d, want 1", calls)
	}
	if b.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount wrong: got %d, want 0", b.SubscriberCount())
	}
}

func TestBusCloseIsIdempotentAndNilSafe(t *testing.T) {
	var zero Subscription
	zero.Close() // must not panic

	b := NewBus()
	sub := b.Subscribe(func(Event) {})
	sub.Close()
	sub.Close() // second close is a no-op
	if b.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount wrong: got %d, want 0", b.SubscriberCount())
	}
}

func TestBusSubscribeDuringPublishMissesInFlightEvent(t *testing.T) {
	b := NewBus()

	lateCalls := 0
	b.Subscribe(func(Event) {
		b.Subscribe(func(Event) { lateCalls++ })
	})

	b.Publish(Event{})
	if lateCalls != 0 {
		t.Errorf("late subscriber saw the in-flight event")
	}

	b.Publish(Event{})
	if lateCalls != 1 {
		t.Errorf("late subscriber missed the next event: got %d calls", lateCalls)
	}
}

func TestBusCloseDuringPublish(t *testing.T) {
	b := NewBus()

	var sub Subscription
	calls := 0
	b.Subscribe(func(Event) { sub.Close() })
	sub = b.Subscribe(func(Event) { calls++ })

	// The removal is deferred, so the in-flight event still reaches the
	// closing subscriber.
	b.Publish(Event{})
	if calls != 1 {
		t.Errorf("in-flight delivery wrong: got %d calls, want 1", calls)
	}

	b.Publish(Event{})
	if calls != 1 {
		t.Errorf("closed subscriber still receiving: got %d calls", calls)
	}
}

func TestBusSubscribeThenCloseWithinCallback(t *testing.T) {
	b := NewBus()

	calls := 0
	b.Subscribe(func(Event) {
		sub := b.Subscribe(func(Event) { calls++ })
		sub.Close()
	})

	b.Publish(Event{})
	b.Publish(Event{})

	// The short-lived subscription was closed before fan-out ended, so it
	// must never be registered.
	if calls != 0 {
		t.Errorf("closed subscriber invoked %d times, want 0", calls)
	}
	if b.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount wrong: got %d, want 1", b.SubscriberCount())
	}
}

func TestBusNestedPublish(t *testing.T) {
	b := NewBus()

	var kinds []Kind
	b.Subscribe(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		if ev.Kind == KindGunshot {
			b.Publish(Event{Kind: KindOther})
		}
	})

	b.Publish(Event{Kind: KindGunshot})

	if len(kinds) != 2 || kinds[0] != KindGunshot || kinds[1] != KindOther {
		t.Errorf("nested publish order wrong: %v", kinds)
	}
}
