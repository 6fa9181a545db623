// Package mutation provides the text mutation bus that region watchers
// subscribe to.
//
// A Subscription covers a half-open byte region [Start, End) of a text
// buffer. When a Mutation is published:
//
//   - every subscription the mutation touches is cancelled and its handler
//     is called once, in subscription order;
//   - every untouched subscription that lies after the mutation is shifted
//     by the mutation's length delta, so regions keep following their text.
//
// A mutation touches a region when the replaced range overlaps it, or when
// it is a pure insertion at an offset inside the region.
//
// Delivery is synchronous: Publish returns after all handlers ran. Handlers
// run without the bus lock held and may subscribe or cancel freely.
//
// Basic usage:
//
//	bus := mutation.NewBus()
//	sub, _ := bus.Subscribe(10, 20, func(m mutation.Mutation) {
//	    // region [10,20) was edited
//	})
//	bus.Publish(mutation.Mutation{Start: 12, End: 13, NewLen: 0})
//	// sub.IsActive() == false
package mutation
