package session

import "sync"

// InvalidationSignal is the registration point through which the network
// layer forces a sign-out when it detects that the current credentials are
// no longer usable.
//
// It holds a single slot: registering while a handler is active replaces
// it. Fire invokes the current handler, if any, and is safe to call
// concurrently with registration.
type InvalidationSignal struct {
	mu      sync.Mutex
	handler func()
	gen     uint64
}

// NewInvalidationSignal creates an empty signal channel.
func NewInvalidationSignal() *InvalidationSignal {
	return &InvalidationSignal{}
}

// Register installs fn as the active handler and returns the function that
// releases the slot. The release is a no-op once a later registration has
// replaced the slot.
func (s *InvalidationSignal) Register(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handler = fn
	s.gen++
	gen := s.gen

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.handler = nil
		}
	}
}

// Fire invokes the registered handler. Firing with no handler is a no-op.
// The handler runs outside the signal's lock so it may re-register or
// unsubscribe.
func (s *InvalidationSignal) Fire() {
	s.mu.Lock()
	fn := s.handler
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}
