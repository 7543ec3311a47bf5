package game

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box described by its minimum and maximum corners.
type AABB struct {
	Min mgl32.Vec3 `json:"min"`
	Max mgl32.Vec3 `json:"max"`
}

// Box returns an AABB spanning the two corners passed. The corners may be given in any order.
func Box(a, b mgl32.Vec3) AABB {
	return FromBBox(cube.Box(a[0], a[1], a[2], b[0], b[1], b[2]))
}

// FromBBox converts a float32-cube bounding box to an AABB.
func FromBBox(b cube.BBox) AABB {
	return AABB{Min: b.Min(), Max: b.Max()}
}

// BBox converts the AABB to a float32-cube bounding box.
func (a AABB) BBox() cube.BBox {
	return cube.Box(a.Min[0], a.Min[1], a.Min[2], a.Max[0], a.Max[1], a.Max[2])
}

// Contains returns true if the point is inside the box. Points on a face count as inside.
func (a AABB) Contains(p mgl32.Vec3) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1] &&
		p[2] >= a.Min[2] && p[2] <= a.Max[2]
}
