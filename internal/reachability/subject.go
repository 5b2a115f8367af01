package reachability

import "sync"

// Observer exposes the current reachability value and a stream of changes.
//
// Subscribe returns a channel that first yields the current value and then
// every later value in the order it was emitted. The returned func cancels the
// subscription and closes the channel.
type Observer interface {
	Current() bool
	Subscribe() (<-chan bool, func())
}

// Ensure Subject implements Observer at compile time.
var _ Observer = (*Subject)(nil)

// Subject is a replay-latest boolean stream. Every subscriber owns an
// unbounded queue, so Send never blocks on a slow reader and no edge is lost.
type Subject struct {
	mu     sync.Mutex
	value  bool
	subs   map[*subscriber]struct{}
	closed bool
}

// NewSubject returns a Subject holding initial.
func NewSubject(initial bool) *Subject {
	return &Subject{
		value: initial,
		subs:  make(map[*subscriber]struct{}),
	}
}

// Current returns the latest value.
func (s *Subject) Current() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Send records v and delivers it to every subscriber. It is a no-op after Close.
func (s *Subject) Send(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	for sub := range s.subs {
		sub.push(v)
	}
}

// Subscribe registers a new subscriber. After Close the channel carries the
// last value and is then closed.
func (s *Subject) Subscribe() (<-chan bool, func()) {
	s.mu.Lock()
	sub := newSubscriber(s.value)
	if s.closed {
		sub.drain()
	} else {
		s.subs[sub] = struct{}{}
	}
	s.mu.Unlock()

	go sub.pump()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
		sub.stop()
	}
	return sub.out, cancel
}

// Close delivers anything still queued and then closes all subscriber channels.
func (s *Subject) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		sub.drain()
		delete(s.subs, sub)
	}
}

type subscriber struct {
	mu       sync.Mutex
	queue    []bool
	draining bool

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	out      chan bool
}

func newSubscriber(first bool) *subscriber {
	return &subscriber{
		queue: []bool{first},
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		out:   make(chan bool),
	}
}

func (s *subscriber) push(v bool) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	s.notify()
}

// drain makes the pump exit once the queue is empty.
func (s *subscriber) drain() {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()
	s.notify()
}

func (s *subscriber) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *subscriber) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) pump() {
	defer close(s.out)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			draining := s.draining
			s.mu.Unlock()
			if draining {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		v := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- v:
		case <-s.done:
			return
		}
	}
}
