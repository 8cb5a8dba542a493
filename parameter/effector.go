package parameter

// Effector (cursor) defaults
const (
	// EffectorRadius is the influence radius in world units
	EffectorRadius = 40.0

	// EffectorStrength scales pull/push acceleration per unit of penetration (1/s²)
	EffectorStrength = 400.0

	// EffectorSmoothingFrequency is the harmonica spring angular frequency for cursor follow
	EffectorSmoothingFrequency = 12.0

	// EffectorSmoothingDamping is the harmonica spring damping ratio, 1 = critically damped
	EffectorSmoothingDamping = 1.0
)

// Scripted wander path for headless runs
const (
	// WanderSpeed is noise-space units travelled per second
	WanderSpeed = 0.35

	// WanderReach is the path half-extent as a fraction of the world half-extent
	WanderReach = 0.6

	// WanderSeed seeds the Perlin generator so headless runs repeat
	WanderSeed = 7

	// WanderEngageThreshold engages the effector while the gate channel exceeds it
	WanderEngageThreshold = -0.1
)
