package physics

import "errors"

// Construction-time errors; the solver itself never fails
var (
	ErrNegativeInvMass   = errors.New("inverse mass must be >= 0")
	ErrStoreFull         = errors.New("particle store capacity exhausted")
	ErrParticleIndex     = errors.New("particle index out of range")
	ErrTooFewParticles   = errors.New("soft body needs at least 3 particles")
	ErrDegenerateEdge    = errors.New("constraint endpoints coincide")
	ErrInvalidStiffness  = errors.New("stiffness must be in (0, 1]")
	ErrInvalidDilation   = errors.New("dilation stiffness must be in [0, 1]")
	ErrInvalidMass       = errors.New("mass must be > 0")
	ErrInvalidPuffiness  = errors.New("puffiness must be > 0")
	ErrInvalidRadius     = errors.New("radius must be > 0")
	ErrInvalidIterations = errors.New("constraint iterations must be >= 1")
	ErrDegenerateArea    = errors.New("rest polygon has no area")
	ErrSharedParticle    = errors.New("particle already belongs to a soft body")
)
