package mutation

import (
	"sort"
	"sync"
)

// Bus distributes text mutations to region subscriptions.
type Bus struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64

	published uint64
	fired     uint64
}

// Stats reports bus counters.
type Stats struct {
	Published uint64
	Fired     uint64
	Active    int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

// Subscribe watches [start, end). The handler runs once, for the first
// mutation touching the region.
func (b *Bus) Subscribe(start, end int, handler Handler) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if start < 0 || start >= end {
		return nil, ErrInvalidRegion
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		bus:     b,
		handler: handler,
		start:   start,
		end:     end,
	}
	b.subs[sub.id] = sub
	return sub, nil
}

// Publish delivers m. It returns the number of subscriptions that fired.
func (b *Bus) Publish(m Mutation) int {
	b.mu.Lock()
	b.published++

	var touched []*Subscription
	delta := m.Delta()
	for id, sub := range b.subs {
		if m.Touches(sub.start, sub.end) {
			touched = append(touched, sub)
			delete(b.subs, id)
			continue
		}
		if delta != 0 && sub.start >= m.End {
			sub.start += delta
			sub.end += delta
		}
	}
	b.fired += uint64(len(touched))
	b.mu.Unlock()

	sort.Slice(touched, func(i, j int) bool {
		return touched[i].id < touched[j].id
	})
	for _, sub := range touched {
		if sub.cancelled.Swap(true) {
			continue
		}
		sub.handler(m)
	}
	return len(touched)
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Stats returns the current counters.
func (b *Bus) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Published: b.published,
		Fired:     b.fired,
		Active:    len(b.subs),
	}
}

func (b *Bus) remove(id uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[id]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(b.subs, id)
	return nil
}
