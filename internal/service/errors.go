// Package service implements the mission and report lifecycles: the
// single authoritative set of transition functions invoked by both the
// HTTP handlers and the background site monitor. Services hold no
// state of their own; they orchestrate repository calls, re-reading
// current rows before each transition and committing transitions only
// through conditional updates.
package service

import "errors"

// Business outcomes surfaced directly to callers. Handlers translate
// them onto HTTP statuses; none of them is ever retried internally.
var (
	// ErrNotFound: the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: the actor's role or ownership does not allow the
	// operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState: the transition is not permitted from the
	// entity's current state (including losing a transition race).
	ErrInvalidState = errors.New("invalid state")
	// ErrTargetOnline: completion refused because a fresh probe says
	// the target still answers 200.
	ErrTargetOnline = errors.New("target is still online")
)
