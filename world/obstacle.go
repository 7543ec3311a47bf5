package world

import (
	"github.com/oomph-ac/verdict/game"
)

// Obstacle is a piece of static map geometry. Only solid obstacles block movement.
type Obstacle struct {
	Bounds game.AABB `json:"bounds"`
	Solid  bool      `json:"solid"`
}
