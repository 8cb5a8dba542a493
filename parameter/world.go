package parameter

// World bounds, origin at the center, +Y up
const (
	// WorldWidth and WorldHeight are the default playable extents in world units
	WorldWidth  = 640.0
	WorldHeight = 480.0

	// WorldParticleRadius insets the bounds so particle glyphs stay visible
	WorldParticleRadius = 5.0

	// WorldRestitution of 0 zeroes the clamped axis velocity; above 0 reflects it
	WorldRestitution = 0.0
)
