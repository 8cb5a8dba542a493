package parameter

// Solver defaults
const (
	// PhysicsHz is the fixed substep rate, substep dt = 1/PhysicsHz
	PhysicsHz = 120.0

	// ConstraintIterations is the number of distance relaxation passes per substep
	ConstraintIterations = 10

	// DampingPerSecond is the fraction of velocity retained per second of simulated time
	DampingPerSecond = 0.5

	// MaxSubstepsPerFrame caps physics work per scheduling call
	MaxSubstepsPerFrame = 8
)

// Numeric guards
const (
	// LengthEpsilon below which a distance constraint has no defined direction and is skipped
	LengthEpsilon = 1e-9

	// AreaEpsilon is the floor for current polygon area before the dilation square root
	AreaEpsilon = 1e-6

	// MaxDilationFactor bounds the linear growth of one area correction; a collapsed
	// loop reinflates over several substeps instead of in one jump
	MaxDilationFactor = 2.0

	// MovementEpsilon is the per-substep displacement that counts as a visible change
	MovementEpsilon = 1e-4
)

// Gravity defaults to zero; world units per second squared, +Y up
const (
	GravityX = 0.0
	GravityY = 0.0
)
