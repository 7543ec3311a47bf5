package combat

import "github.com/oomph-ac/verdict/game"

const (
	DefaultBaseDamage     = float32(20)
	HeadshotMultiplier    = float32(2.5)
	BodyMultiplier        = float32(1)
	LimbMultiplier        = float32(0.75)
	DefaultMaxHitDistance = float32(100)
)

// CalculateDamage returns the damage of a hit on the hitbox kind passed using the default multipliers.
func CalculateDamage(kind game.HitboxKind, base float32) float32 {
	return damage(kind, base, HeadshotMultiplier, BodyMultiplier, LimbMultiplier)
}

func damage(kind game.HitboxKind, base, head, body, limb float32) float32 {
	switch kind {
	case game.HitboxHead:
		return base * head
	case game.HitboxBody:
		return base * body
	case game.HitboxLimb:
		return base * limb
	}
	return 0
}
