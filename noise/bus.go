package noise

// Bus is an owned publish point for noise events. Publication is synchronous:
// every subscriber callback runs inline on the emitter's tick before Publish
// returns. Callbacks must be cheap and must not block.
type Bus struct {
	subs   []subscriber
	nextID int

	// Publish depth. Subscribe/Close during fan-out are deferred so the
	// subscriber list is never mutated mid-iteration.
	depth          int
	pendingAdds    []subscriber
	pendingRemoves []int
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscription is the handle returned by Subscribe. Close it before the
// owning agent is destroyed or the bus retains a dangling callback.
type Subscription struct {
	bus *Bus
	id  int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback for every subsequent publish and returns
// its subscription handle. Safe to call from inside a callback; the new
// subscriber does not see the in-flight event.
func (b *Bus) Subscribe(fn func(Event)) Subscription {
	b.nextID++
	sub := subscriber{id: b.nextID, fn: fn}
	if b.depth > 0 {
		b.pendingAdds = append(b.pendingAdds, sub)
	} else {
		b.subs = append(b.subs, sub)
	}
	return Subscription{bus: b, id: sub.id}
}

// Close deregisters the subscription. Safe on the zero value, after a prior
// Close, and from inside a callback (removal then applies after fan-out).
func (s Subscription) Close() {
	if s.bus == nil {
		return
	}
	b := s.bus
	if b.depth > 0 {
		// The subscription may itself still be pending from this publish;
		// strike it there or it would be registered after fan-out anyway.
		for i := range b.pendingAdds {
			if b.pendingAdds[i].id == s.id {
				b.pendingAdds = append(b.pendingAdds[:i], b.pendingAdds[i+1:]...)
				return
			}
		}
		b.pendingRemoves = append(b.pendingRemoves, s.id)
		return
	}
	b.remove(s.id)
}

func (b *Bus) remove(id int) {
	for i := range b.subs {
		if b.subs[i].id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every currently-registered subscriber,
// synchronously and in registration order.
func (b *Bus) Publish(ev Event) {
	b.depth++
	// Iterate by index over the current length: deferral guarantees the
	// backing slice is not mutated while any publish is in flight.
	n := len(b.subs)
	for i := 0; i < n; i++ {
		b.subs[i].fn(ev)
	}
	b.depth--

	if b.depth == 0 {
		for _, id := range b.pendingRemoves {
			b.remove(id)
		}
		b.pendingRemoves = b.pendingRemoves[:0]
		b.subs = append(b.subs, b.pendingAdds...)
		b.pendingAdds = b.pendingAdds[:0]
	}
}

// SubscriberCount returns the number of registered subscribers.
func (b *Bus) SubscriberCount() int {
	return len(b.subs) + len(b.pendingAdds) - len(b.pendingRemoves)
}
