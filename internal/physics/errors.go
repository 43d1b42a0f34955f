package physics

import "errors"

var (
	// ErrStepInProgress is returned when bodies or constraints are changed
	// from inside a physics step, e.g. by a collision listener.
	ErrStepInProgress = errors.New("physics: engine is mid-step")
	// ErrUnknownBody is returned for a handle that doesn't resolve.
	ErrUnknownBody = errors.New("physics: unknown body")
	// ErrUnknownConstraint is returned when removing a constraint that isn't registered.
	ErrUnknownConstraint = errors.New("physics: unknown constraint")
)
