package canvas

import "errors"

var (
	// ErrGroupTooSmall signals an attempt to group fewer than two elements.
	ErrGroupTooSmall = errors.New("canvas: select at least two elements to group")
	// ErrNotGrouped signals an ungroup request whose anchor has no group.
	ErrNotGrouped = errors.New("canvas: selected element is not part of a group")
	// ErrInvalidElement wraps element records that break the model invariants.
	ErrInvalidElement = errors.New("canvas: invalid element")
	// ErrUnknownIntent is returned by Apply for intents it cannot dispatch.
	ErrUnknownIntent = errors.New("canvas: unknown intent")
)
