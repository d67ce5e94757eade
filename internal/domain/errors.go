package domain

import "errors"

var (
	// ErrInvalidTransition indicates a lifecycle operation that is not legal
	// from the task's current state.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrDependencyLocked indicates an attempt to complete a parent task
	// while at least one direct child remains open.
	ErrDependencyLocked = errors.New("task is locked by incomplete subtasks")

	// ErrMaxDepthExceeded indicates an attempt to nest a subtask beyond the
	// maximum hierarchy depth.
	ErrMaxDepthExceeded = errors.New("maximum subtask depth exceeded")

	// ErrInvariantViolation indicates an attempted structural corruption of
	// the task store (bad depth, missing parent, dangling children). It is
	// fatal to the specific call, never to the process.
	ErrInvariantViolation = errors.New("store invariant violation")
)
