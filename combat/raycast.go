package combat

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/verdict/entity"
	"github.com/oomph-ac/verdict/game"
)

// RaycastHit is the closest hitbox a ray cast against a world state connected with.
type RaycastHit struct {
	EntityID string
	Point    mgl32.Vec3
	// Normal is a fixed normal per hitbox kind, not the normal of the surface hit.
	Normal   mgl32.Vec3
	Distance float32
	Hitbox   game.HitboxKind
}

// RaycastSystem casts rays against the hitboxes of the players in a world state. Hitboxes are rebuilt
// from player positions on every cast.
type RaycastSystem struct {
	// Unbounded makes hitbox capsules infinite cylinders, so that rays passing above or below a capsule's
	// segment still hit it.
	Unbounded bool
}

// Cast casts a ray from origin along direction against every alive player in the world state that is
// not ignored, returning the closest hit within maxDistance. Each player's bounding box is tested first,
// and only players whose box is entered before the closest hit so far have their capsules tested. The
// head is tested before the body and wins whenever it is closer than the closest hit so far.
func (r RaycastSystem) Cast(world entity.WorldState, origin, direction mgl32.Vec3, maxDistance float32, ignore ...string) (RaycastHit, bool) {
	ray := game.NewRay(origin, direction)
	if ray.Direction == (mgl32.Vec3{}) {
		return RaycastHit{}, false
	}

	var (
		hit     RaycastHit
		found   bool
		closest = maxDistance
	)
	for _, p := range world.Players {
		if !p.Alive || slices.Contains(ignore, p.ID) {
			continue
		}

		hitbox := game.HitboxAt(p.Position)
		if t, ok := game.IntersectRayAABB(ray, hitbox.Bounds); !ok || t > closest {
			continue
		}

		if t, ok := r.intersect(ray, hitbox.Head); ok && t < closest {
			closest, found = t, true
			hit = r.hit(ray, p.ID, t, game.HitboxHead)
		} else if t, ok := r.intersect(ray, hitbox.Body); ok && t < closest {
			closest, found = t, true
			hit = r.hit(ray, p.ID, t, game.HitboxBody)
		}
	}
	return hit, found
}

func (r RaycastSystem) intersect(ray game.Ray, c game.Capsule) (float32, bool) {
	if r.Unbounded {
		return game.IntersectRayCylinder(ray, c)
	}
	return game.IntersectRayCapsule(ray, c)
}

func (RaycastSystem) hit(ray game.Ray, id string, t float32, kind game.HitboxKind) RaycastHit {
	return RaycastHit{
		EntityID: id,
		Point:    ray.PointAt(t),
		Normal:   kind.Normal(),
		Distance: t,
		Hitbox:   kind,
	}
}
