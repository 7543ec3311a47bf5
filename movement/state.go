package movement

import "github.com/go-gl/mathgl/mgl32"

// PlayerMovementState is the movement state of a player pushed in by the game server, along with the
// state the validator keeps between movements.
type PlayerMovementState struct {
	Sprinting bool `json:"sprinting"`
	Slowed    bool `json:"slowed"`
	// SpeedModifier scales the max allowed speed of the player. Zero is treated as 1.
	SpeedModifier float32 `json:"speed_modifier"`

	// LastPosition is the position of the last movement that was accepted.
	LastPosition mgl32.Vec3 `json:"last_position"`
	// Violations is the amount of movements of the player that were rejected.
	Violations uint32 `json:"violations"`
}

func (s *PlayerMovementState) modifier() float32 {
	if s.SpeedModifier == 0 {
		return 1
	}
	return s.SpeedModifier
}
