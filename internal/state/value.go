// Package state provides shared observable values with asynchronous,
// coalescing change notification. A Value is the synchronization primitive
// behind the playhead and playback command state: writes replace the whole
// datum atomically, and observers are notified on their own goroutine on a
// later tick, never from within the writer's call frame.
package state

import "sync"

// Value holds a single shared datum of type T.
type Value[T any] struct {
	mu     sync.Mutex
	cur    T
	subs   map[int]*subscriber[T]
	nextID int
	closed bool
}

type subscriber[T any] struct {
	ch   chan T
	done chan struct{}
}

// Subscription identifies a registered observer and allows its removal.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the observer. Safe to call more than once; after it
// returns no further notifications are started for this subscription.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// NewValue creates a Value holding the given initial datum
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		cur:  initial,
		subs: make(map[int]*subscriber[T]),
	}
}

// Get returns the current datum
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set replaces the current datum and queues a notification for every
// subscriber. Pending notifications are coalesced: an observer that has not
// yet been serviced sees only the latest value, never a backlog.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}

	v.cur = val
	for _, sub := range v.subs {
		sub.offer(val)
	}
}

// Subscribe registers fn to be invoked with each new value. Invocations run
// sequentially on a dedicated goroutine; the observer re-arms automatically
// after each delivery.
func (v *Value[T]) Subscribe(fn func(T)) *Subscription {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return &Subscription{cancel: func() {}}
	}

	id := v.nextID
	v.nextID++

	sub := &subscriber[T]{
		ch:   make(chan T, 1),
		done: make(chan struct{}),
	}
	v.subs[id] = sub

	go func() {
		for {
			select {
			case val := <-sub.ch:
				fn(val)
			case <-sub.done:
				return
			}
		}
	}()

	return &Subscription{cancel: func() { v.unsubscribe(id) }}
}

// Close tears down all subscriptions. Further writes are ignored.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	for id, sub := range v.subs {
		close(sub.done)
		delete(v.subs, id)
	}
}

func (v *Value[T]) unsubscribe(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sub, ok := v.subs[id]; ok {
		close(sub.done)
		delete(v.subs, id)
	}
}

// offer performs a non-blocking send, replacing any value the observer has
// not consumed yet. Callers hold the Value mutex, so there is exactly one
// producer; the only race is with the consuming goroutine, and after one
// drain attempt the buffered slot is guaranteed free.
func (s *subscriber[T]) offer(val T) {
	select {
	case s.ch <- val:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- val:
	default:
	}
}
