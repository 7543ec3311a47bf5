package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line starting at Origin. Direction is expected to be normalized by whoever builds it.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// NewRay returns a ray from origin along the normalized direction.
func NewRay(origin, direction mgl32.Vec3) Ray {
	return Ray{Origin: origin, Direction: Normalize(direction)}
}

// PointAt returns the point t units along the ray.
func (r Ray) PointAt(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectRayAABB performs a slab test of the ray against the box and returns the entry distance. An
// origin inside the box enters at t = 0.
func IntersectRayAABB(ray Ray, box AABB) (float32, bool) {
	tMin, _, ok := slab(ray.Origin, ray.Direction, box, 0, math32.MaxFloat32)
	return tMin, ok
}

// IntersectSegmentAABB returns true if the segment from start to end touches the box at any point,
// including when either endpoint is already inside it.
func IntersectSegmentAABB(start, end mgl32.Vec3, box AABB) bool {
	tMin, tMax, ok := slab(start, end.Sub(start), box, 0, 1)
	return ok && tMin <= tMax && tMin <= 1 && tMax >= 0
}

// slab intersects the parametric line origin + t*dir with the box, starting from the interval
// [tMin, tMax]. Axes on which the line does not move require the origin to already be within the slab.
func slab(origin, dir mgl32.Vec3, box AABB, tMin, tMax float32) (float32, float32, bool) {
	for i := 0; i < 3; i++ {
		if math32.Abs(dir[i]) < Epsilon {
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (box.Min[i] - origin[i]) / dir[i]
		t2 := (box.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math32.Max(tMin, t1)
		tMax = math32.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}
