package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Capsule is a line segment swept by a radius. It approximates a limb, torso or head volume.
type Capsule struct {
	Start  mgl32.Vec3
	End    mgl32.Vec3
	Radius float32
}

// Axis returns the unit direction of the capsule's segment, or the zero vector for a degenerate segment.
func (c Capsule) Axis() mgl32.Vec3 {
	return Normalize(c.End.Sub(c.Start))
}

// IntersectRayCylinder intersects the ray with the infinite cylinder around the capsule's axis. The caps
// are not considered at all, so any ray crossing the cylinder above or below the segment still hits.
// A zero-length segment degenerates into a sphere of the capsule's radius.
func IntersectRayCylinder(ray Ray, c Capsule) (float32, bool) {
	near, far, ok := cylinderRoots(ray, c)
	if !ok {
		return 0, false
	}
	if near >= 0 {
		return near, true
	}
	if far >= 0 {
		return far, true
	}
	return 0, false
}

// IntersectRayCapsule intersects the ray with the capsule's cylinder, only accepting roots whose
// projection on the axis lies within the segment extended by the radius on both ends. The ends are
// flat, not hemispherical.
func IntersectRayCapsule(ray Ray, c Capsule) (float32, bool) {
	near, far, ok := cylinderRoots(ray, c)
	if !ok {
		return 0, false
	}
	axis := c.Axis()
	length := c.End.Sub(c.Start).Len()
	within := func(t float32) bool {
		s := ray.PointAt(t).Sub(c.Start).Dot(axis)
		return s >= -c.Radius && s <= length+c.Radius
	}
	if near >= 0 && within(near) {
		return near, true
	}
	if far >= 0 && within(far) {
		return far, true
	}
	return 0, false
}

// cylinderRoots solves |w0 + t*d - ((w0 + t*d).u)u|^2 = r^2 for t, returning the smaller and larger root.
func cylinderRoots(ray Ray, c Capsule) (near, far float32, ok bool) {
	u := c.Axis()
	d := ray.Direction
	w0 := ray.Origin.Sub(c.Start)

	du := d.Dot(u)
	wu := w0.Dot(u)

	a := d.Dot(d) - du*du
	b := 2 * (d.Dot(w0) - du*wu)
	cc := w0.Dot(w0) - wu*wu - c.Radius*c.Radius

	// Parallel to the axis: the quadratic collapses and has no usable root.
	if math32.Abs(a) < Epsilon {
		return 0, 0, false
	}
	disc := b*b - 4*a*cc
	if !IsFinite(disc) || disc < 0 {
		return 0, 0, false
	}
	sq := math32.Sqrt(disc)
	return (-b - sq) / (2 * a), (-b + sq) / (2 * a), true
}
