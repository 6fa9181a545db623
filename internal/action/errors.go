package action

import "errors"

var (
	// ErrNoAction is returned when no action is bound to a target's tag.
	ErrNoAction = errors.New("action: no action for target")

	// ErrEmptyTag is returned when binding an action without a tag.
	ErrEmptyTag = errors.New("action: empty tag")
)
