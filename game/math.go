package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Normalize returns the unit vector of v. Vectors shorter than Epsilon, or whose length is not a finite
// number, normalize to the zero vector instead of dividing by (near) zero.
func Normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if !IsFinite(l) || l < Epsilon {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b mgl32.Vec3) float32 {
	return b.Sub(a).Len()
}

// IsFinite returns true if f is neither NaN nor an infinity.
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// Vec3Finite returns true if every component of v is finite.
func Vec3Finite(v mgl32.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// AbsDiffInt64 returns |a-b| without overflowing, even for operands at opposite ends of the int64 range.
func AbsDiffInt64(a, b int64) uint64 {
	if a > b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

// AngleBetween returns the angle between a and b in degrees, or zero if either is a zero vector.
func AngleBetween(a, b mgl32.Vec3) float32 {
	a, b = Normalize(a), Normalize(b)
	if a == (mgl32.Vec3{}) || b == (mgl32.Vec3{}) {
		return 0
	}
	return mgl32.RadToDeg(math32.Acos(mgl32.Clamp(a.Dot(b), -1, 1)))
}
