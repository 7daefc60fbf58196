// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"sync"
)

// DefaultEventBuffer is the channel capacity of a subscription.
const DefaultEventBuffer = 16

// Emitter fans events out to subscriptions. Publish never blocks: every
// subscription queues without bound and drains into its channel from its
// own goroutine.
type Emitter struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	buffer int
}

func NewEmitter(buffer int) *Emitter {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Emitter{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a subscription that receives every event published
// from now on. It is closed when ctx is done or Close is called.
func (e *Emitter) Subscribe(ctx context.Context) *Subscription {
	s := &Subscription{
		events:  make(chan Event, e.buffer),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		emitter: e,
	}

	e.mu.Lock()
	e.subs[s] = struct{}{}
	e.mu.Unlock()

	go s.pump()
	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				s.Close()
			case <-s.done:
			}
		}()
	}
	return s
}

// Publish queues ev on every current subscription in call order.
func (e *Emitter) Publish(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for s := range e.subs {
		s.enqueue(ev)
	}
}

// Subscribers returns the number of open subscriptions.
func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

func (e *Emitter) remove(s *Subscription) {
	e.mu.Lock()
	delete(e.subs, s)
	e.mu.Unlock()
}

// Subscription is one consumer of an Emitter.
type Subscription struct {
	events  chan Event
	wake    chan struct{}
	done    chan struct{}
	once    sync.Once
	emitter *Emitter

	mu    sync.Mutex
	queue []Event
}

// Events returns the channel events are delivered on. It is closed after
// Close; events still queued at that point are dropped.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Close detaches the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.emitter.remove(s)
		close(s.done)
	})
}

func (s *Subscription) enqueue(ev Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) pump() {
	defer close(s.events)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		ev := s.queue[0]
		s.queue[0] = Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}
