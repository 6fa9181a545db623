package mutation

import "errors"

// Errors returned by bus operations.
var (
	// ErrNilHandler indicates a subscription without a handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrInvalidRegion indicates an empty or inverted region.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrSubscriptionNotFound indicates the subscription is not registered.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
