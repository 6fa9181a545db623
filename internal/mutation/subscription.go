package mutation

import "sync/atomic"

// Handler is called when a watched region is touched by a mutation.
type Handler func(m Mutation)

// Subscription watches one region of the text. It is cancelled
// automatically by the first mutation that touches the region.
type Subscription struct {
	id      uint64
	bus     *Bus
	handler Handler

	// start and end are guarded by the bus lock.
	start int
	end   int

	cancelled atomic.Bool
}

// ID returns the subscription identifier. IDs increase in subscription order.
func (s *Subscription) ID() uint64 {
	return s.id
}

// Region returns the current region, shifted by preceding mutations.
func (s *Subscription) Region() (start, end int) {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	return s.start, s.end
}

// IsActive returns true until the subscription fires or is cancelled.
func (s *Subscription) IsActive() bool {
	return !s.cancelled.Load()
}

// Cancel removes the subscription from its bus without calling the handler.
// Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	_ = s.bus.remove(s.id)
}
