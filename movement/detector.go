package movement

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// motion is a single movement of a player being validated.
type motion struct {
	playerID string
	state    *PlayerMovementState

	from, to mgl32.Vec3
	dt       float32

	// distance saturates to +Inf when the positions are not finite.
	distance   float32
	speed      float32
	maxAllowed float32
}

// detector classifies a movement as a single kind of violation.
type detector interface {
	// Violation returns the violation reported when the detector fails a movement.
	Violation() Violation
	// Detect returns true if the movement should be rejected, along with a short description and the
	// values that led to the rejection.
	Detect(m *motion) (details string, data *orderedmap.OrderedMap[string, any], failed bool)
}
