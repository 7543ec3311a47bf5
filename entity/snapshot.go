package entity

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PlayerSnapshot is the state of a single player at the moment a WorldState was taken.
type PlayerSnapshot struct {
	ID       string     `json:"id"`
	Position mgl32.Vec3 `json:"position"`
	Velocity mgl32.Vec3 `json:"velocity"`
	Health   float32    `json:"health"`
	Alive    bool       `json:"alive"`
}

// WorldState is a snapshot of every player in a match at a server tick. Timestamp is in milliseconds
// and shares its clock with the timestamps clients send with their hit claims.
type WorldState struct {
	Tick      int64            `json:"tick"`
	Timestamp int64            `json:"timestamp"`
	Players   []PlayerSnapshot `json:"players"`
}

// Player returns a copy of the snapshot of the player with the ID passed, if they are present.
func (s WorldState) Player(id string) (PlayerSnapshot, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerSnapshot{}, false
}

// Clone returns a deep copy of the world state.
func (s WorldState) Clone() WorldState {
	c := s
	if s.Players != nil {
		c.Players = make([]PlayerSnapshot, len(s.Players))
		copy(c.Players, s.Players)
	}
	return c
}
