package relay

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

var _ Publisher = (*Relay)(nil)

// subscription implements Subscription.
type subscription struct {
	id      string
	kind    Kind
	handler Handler
	active  bool
	cancel  func()
}

func (s *subscription) ID() string { return s.id }
func (s *subscription) Kind() Kind { return s.kind }
func (s *subscription) IsActive() bool {
	return s.active
}
func (s *subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Relay is a synchronous, in-process pub/sub fan-out keyed by notification kind.
//
// Subscribers of a kind are invoked in registration order on the publisher's
// goroutine. Every Subscribe call adds a new entry; registering the same
// handler twice yields two entries and cancelling one handle leaves the other.
// Publish delivers to the subscriber list as it was when Publish started:
// subscribes and cancels made by handlers apply from the next Publish.
type Relay struct {
	mu sync.RWMutex
	// subs is copy-on-write so Publish can iterate without holding the lock.
	subs      map[Kind][]*subscription
	observers []Observer
}

// New creates an empty Relay.
func New() *Relay {
	return &Relay{
		subs: make(map[Kind][]*subscription),
	}
}

// Subscribe appends handler to the subscribers of kind.
func (r *Relay) Subscribe(kind Kind, handler Handler) Subscription {
	s := &subscription{id: uuid.NewString(), kind: kind, handler: handler, active: true}
	s.cancel = func() { r.remove(s) }

	r.mu.Lock()
	current := r.subs[kind]
	next := make([]*subscription, len(current), len(current)+1)
	copy(next, current)
	r.subs[kind] = append(next, s)
	r.mu.Unlock()

	return s
}

// On subscribes a handler typed by its notification payload.
func On[T Notification](r *Relay, fn func(T)) Subscription {
	var zero T
	return r.Subscribe(zero.Kind(), func(n Notification) {
		if v, ok := n.(T); ok {
			fn(v)
		}
	})
}

// Unsubscribe cancels sub. Nil, foreign and already cancelled subscriptions
// are ignored.
func (r *Relay) Unsubscribe(sub Subscription) {
	if sub == nil {
		return
	}
	s, ok := sub.(*subscription)
	if !ok {
		return
	}
	r.remove(s)
}

func (r *Relay) remove(s *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.subs[s.kind]
	idx := slices.Index(current, s)
	if idx < 0 {
		return
	}
	next := make([]*subscription, 0, len(current)-1)
	next = append(next, current[:idx]...)
	next = append(next, current[idx+1:]...)
	if len(next) == 0 {
		delete(r.subs, s.kind)
	} else {
		r.subs[s.kind] = next
	}
	s.active = false
}

// Publish delivers n to every current subscriber of n.Kind(). Publishing a
// kind nobody listens to does nothing.
func (r *Relay) Publish(n Notification) {
	if n == nil {
		return
	}
	kind := n.Kind()

	r.mu.RLock()
	subs := r.subs[kind]
	observers := r.observers
	r.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(kind, len(subs))
	}
	for _, s := range subs {
		s.handler(n)
	}
}

// Subscribers returns how many handlers are registered for kind.
func (r *Relay) Subscribers(kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[kind])
}

// AddObserver registers an observer to receive publish callbacks.
func (r *Relay) AddObserver(obs Observer) {
	r.mu.Lock()
	r.observers = append(slices.Clone(r.observers), obs)
	r.mu.Unlock()
}

// RemoveObserver unregisters a previously added observer.
func (r *Relay) RemoveObserver(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.Index(r.observers, obs)
	if idx < 0 {
		return
	}
	r.observers = slices.Delete(slices.Clone(r.observers), idx, idx+1)
}
