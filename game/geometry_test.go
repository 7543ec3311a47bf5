package game

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNormalize(t *testing.T) {
	n := Normalize(mgl32.Vec3{3, 4, 0})
	if !approxEq(n.X(), 0.6) || !approxEq(n.Y(), 0.8) || n.Z() != 0 {
		t.Fatalf("expected (0.6, 0.8, 0), got %v", n)
	}

	for _, v := range []mgl32.Vec3{
		{},
		{0.00001, 0, 0},
		{math32.NaN(), 0, 0},
		{math32.Inf(1), 1, 1},
	} {
		if got := Normalize(v); got != (mgl32.Vec3{}) {
			t.Fatalf("expected %v to normalize to the zero vector, got %v", v, got)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(mgl32.Vec3{}, mgl32.Vec3{3, 4, 0}); d != 5 {
		t.Fatalf("expected distance 5, got %f", d)
	}
}

func TestAABBContains(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{10, 10, 10}}
	tests := []struct {
		p    mgl32.Vec3
		want bool
	}{
		{mgl32.Vec3{5, 5, 5}, true},
		{mgl32.Vec3{0, 0, 0}, true},
		{mgl32.Vec3{10, 10, 10}, true},
		{mgl32.Vec3{-1, 5, 5}, false},
		{mgl32.Vec3{11, 5, 5}, false},
	}
	for _, tt := range tests {
		if got := box.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestAABBBoxRoundTrip(t *testing.T) {
	box := Box(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6})
	if box.Min != (mgl32.Vec3{1, 2, 3}) || box.Max != (mgl32.Vec3{4, 5, 6}) {
		t.Fatalf("unexpected box %+v", box)
	}
	if back := FromBBox(box.BBox()); back != box {
		t.Fatalf("expected %+v after conversion, got %+v", box, back)
	}
}

func TestHitboxAt(t *testing.T) {
	h := HitboxAt(mgl32.Vec3{0, 0, 0})
	if h.Bounds.Min != (mgl32.Vec3{-0.5, 0, -0.5}) || h.Bounds.Max != (mgl32.Vec3{0.5, 2, 0.5}) {
		t.Fatalf("unexpected bounds %+v", h.Bounds)
	}
	if h.Body.Start.Y() != 0.4 || h.Body.End.Y() != 1.4 || h.Body.Radius != 0.35 {
		t.Fatalf("unexpected body capsule %+v", h.Body)
	}
	if h.Head.Start.Y() != 1.5 || h.Head.End.Y() != 1.9 || h.Head.Radius != 0.15 {
		t.Fatalf("unexpected head capsule %+v", h.Head)
	}

	moved := HitboxAt(mgl32.Vec3{10, 1, -2})
	if moved.Bounds.Min != (mgl32.Vec3{9.5, 1, -2.5}) || !approxEq(moved.Head.End.Y(), 2.9) {
		t.Fatalf("hitbox did not follow position: %+v", moved)
	}
}

func TestIntersectRayAABB(t *testing.T) {
	box := AABB{Min: mgl32.Vec3{9.5, 0, -0.5}, Max: mgl32.Vec3{10.5, 2, 0.5}}

	tHit, ok := IntersectRayAABB(NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}), box)
	if !ok || !approxEq(tHit, 9.5) {
		t.Fatalf("expected hit at 9.5, got %f (ok=%v)", tHit, ok)
	}
	if _, ok := IntersectRayAABB(NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{-1, 0, 0}), box); ok {
		t.Fatal("expected no hit for a ray pointing away from the box")
	}
	// Parallel to the x slab but outside of it.
	if _, ok := IntersectRayAABB(NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}), box); ok {
		t.Fatal("expected no hit for a ray outside a parallel slab")
	}
	if tHit, ok := IntersectRayAABB(NewRay(mgl32.Vec3{10, 1, 0}, mgl32.Vec3{1, 0, 0}), box); !ok || tHit != 0 {
		t.Fatalf("expected an origin inside the box to enter at 0, got %f (ok=%v)", tHit, ok)
	}
}

func TestIntersectSegmentAABB(t *testing.T) {
	wall := AABB{Min: mgl32.Vec3{5, 0, -1}, Max: mgl32.Vec3{6, 3, 1}}
	tests := []struct {
		name       string
		start, end mgl32.Vec3
		want       bool
	}{
		{"through", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{10, 1, 0}, true},
		{"short of wall", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{4, 1, 0}, false},
		{"starts inside", mgl32.Vec3{5.5, 1, 0}, mgl32.Vec3{8, 1, 0}, true},
		{"ends inside", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{5.5, 1, 0}, true},
		{"over the top", mgl32.Vec3{0, 4, 0}, mgl32.Vec3{10, 4, 0}, false},
		{"beside", mgl32.Vec3{0, 1, 2}, mgl32.Vec3{10, 1, 2}, false},
		{"stationary outside", mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntersectSegmentAABB(tt.start, tt.end, wall); got != tt.want {
				t.Fatalf("IntersectSegmentAABB() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntersectRayCapsule(t *testing.T) {
	h := HitboxAt(mgl32.Vec3{10, 0, 0})
	bodyRay := NewRay(mgl32.Vec3{0, 0.9, 0}, mgl32.Vec3{1, 0, 0})

	tBody, ok := IntersectRayCapsule(bodyRay, h.Body)
	if !ok || !approxEq(tBody, 9.65) {
		t.Fatalf("expected body hit at 9.65, got %f (ok=%v)", tBody, ok)
	}
	if _, ok := IntersectRayCapsule(bodyRay, h.Head); ok {
		t.Fatal("a ray at body height must not hit the head capsule")
	}
	// The unbounded cylinder has no caps, so the same ray crosses the head's cylinder.
	if tHead, ok := IntersectRayCylinder(bodyRay, h.Head); !ok || !approxEq(tHead, 9.85) {
		t.Fatalf("expected unbounded head hit at 9.85, got %f (ok=%v)", tHead, ok)
	}

	if _, ok := IntersectRayCapsule(NewRay(mgl32.Vec3{0, 0.9, 0}, mgl32.Vec3{-1, 0, 0}), h.Body); ok {
		t.Fatal("expected no hit behind the ray origin")
	}
	if _, ok := IntersectRayCapsule(NewRay(mgl32.Vec3{10, 5, 0}, mgl32.Vec3{0, -1, 0}), h.Body); ok {
		t.Fatal("expected a ray parallel to the axis to be rejected")
	}

	// Origin inside the cylinder takes the far root.
	if tIn, ok := IntersectRayCapsule(NewRay(mgl32.Vec3{10, 0.9, 0}, mgl32.Vec3{1, 0, 0}), h.Body); !ok || !approxEq(tIn, 0.35) {
		t.Fatalf("expected exit root 0.35, got %f (ok=%v)", tIn, ok)
	}
}

func TestAbsDiffInt64(t *testing.T) {
	if d := AbsDiffInt64(80, 96); d != 16 {
		t.Fatalf("expected 16, got %d", d)
	}
	if d := AbsDiffInt64(math.MaxInt64, math.MinInt64); d != math.MaxUint64 {
		t.Fatalf("expected the full uint64 range, got %d", d)
	}
}

func approxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-3
}

func TestAngleBetween(t *testing.T) {
	if a := AngleBetween(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 5}); !approxEq(a, 90) {
		t.Fatalf("expected 90 degrees, got %f", a)
	}
	if a := AngleBetween(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{}); a != 0 {
		t.Fatalf("expected 0 for a zero vector, got %f", a)
	}
}
