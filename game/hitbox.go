package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// HitboxKind is the part of a player's body a ray connected with.
type HitboxKind uint8

const (
	HitboxNone HitboxKind = iota
	HitboxHead
	HitboxBody
	HitboxLimb
)

var hitboxNames = [...]string{"NONE", "HEAD", "BODY", "LIMB"}

func (k HitboxKind) String() string {
	if int(k) < len(hitboxNames) {
		return hitboxNames[k]
	}
	return fmt.Sprintf("HitboxKind(%d)", uint8(k))
}

// MarshalText ...
func (k HitboxKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText ...
func (k *HitboxKind) UnmarshalText(b []byte) error {
	for i, name := range hitboxNames {
		if name == string(b) {
			*k = HitboxKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown hitbox kind %q", b)
}

// Normal returns the fixed normal reported for hits on the kind passed. These are not surface normals.
func (k HitboxKind) Normal() mgl32.Vec3 {
	switch k {
	case HitboxHead:
		return mgl32.Vec3{0, 1, 0}
	case HitboxBody:
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{}
}

// PlayerHitbox is the set of collision volumes standing in for a player at a position. It carries no
// identity and must be rebuilt from the player's position every time it is needed.
type PlayerHitbox struct {
	Position mgl32.Vec3
	Bounds   AABB
	Body     Capsule
	Head     Capsule
}

// HitboxAt builds the hitbox of a player standing at pos.
func HitboxAt(pos mgl32.Vec3) PlayerHitbox {
	return PlayerHitbox{
		Position: pos,
		Bounds: AABB{
			Min: mgl32.Vec3{pos[0] - HitboxHalfWidth, pos[1], pos[2] - HitboxHalfWidth},
			Max: mgl32.Vec3{pos[0] + HitboxHalfWidth, pos[1] + HitboxHeight, pos[2] + HitboxHalfWidth},
		},
		Body: Capsule{
			Start:  mgl32.Vec3{pos[0], pos[1] + BodyBottom, pos[2]},
			End:    mgl32.Vec3{pos[0], pos[1] + BodyTop, pos[2]},
			Radius: BodyRadius,
		},
		Head: Capsule{
			Start:  mgl32.Vec3{pos[0], pos[1] + HeadBottom, pos[2]},
			End:    mgl32.Vec3{pos[0], pos[1] + HeadTop, pos[2]},
			Radius: HeadRadius,
		},
	}
}
