package engine

import "errors"

var (
	ErrInvalidPhysicsHz  = errors.New("physics rate must be positive and finite")
	ErrInvalidIterations = errors.New("constraint iterations must be at least 1")
	ErrInvalidDamping    = errors.New("damping per second must be in (0, 1]")
	ErrInvalidSubstepCap = errors.New("max substeps per frame must be at least 1")
	ErrInvalidEpsilon    = errors.New("movement epsilon must be non-negative")
	ErrInvalidCapacity   = errors.New("particle capacity must be positive")
)
