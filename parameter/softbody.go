package parameter

// Soft body (n-gon blob) defaults
const (
	// BodyPoints is the number of particles in the ring
	BodyPoints = 16

	// BodyRadius is the initial ring radius in world units
	BodyRadius = 50.0

	// BodyMass is the per-particle mass, inverse mass = 1/BodyMass
	BodyMass = 1.0

	// BodyStiffness is the fraction of distance correction applied per relaxation pass
	BodyStiffness = 1.0

	// BodyDilationStiffness is the strength of the area correction pass
	BodyDilationStiffness = 1.0

	// BodyPuffiness scales the rest area; values above 1 inflate the blob
	BodyPuffiness = 1.0
)
