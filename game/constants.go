package game

// Epsilon is the threshold under which a direction component or a length is treated as zero.
const Epsilon = float32(0.0001)

// Player hitbox dimensions, relative to the player's feet.
const (
	HitboxHalfWidth = float32(0.5)
	HitboxHeight    = float32(2.0)

	BodyBottom = float32(0.4)
	BodyTop    = float32(1.4)
	BodyRadius = float32(0.35)

	HeadBottom = float32(1.5)
	HeadTop    = float32(1.9)
	HeadRadius = float32(0.15)
)
