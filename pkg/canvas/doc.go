// Package canvas implements the element model behind the form designer: the
// ordered element store, grid-snapped placement with overlap avoidance, the
// type-keyed element factory and the selection/group manager.
//
// Board is the entry point. It owns the elements and the current selection and
// exposes every mutation both as a method and as an Intent consumed by
// Board.Apply, so transports (HTTP handlers, terminal prompts) can translate
// their input events into discrete values instead of mutating state directly.
// Placement helpers (ResolvePosition, Preview, Snap) are pure and can run on
// every drag-over event without touching the store.
package canvas
