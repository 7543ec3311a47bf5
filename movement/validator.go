package movement

import (
	"io"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/verdict/detection"
	"github.com/oomph-ac/verdict/game"
	"github.com/oomph-ac/verdict/settings"
	"github.com/oomph-ac/verdict/world"
)

// Update is a movement reported by the game server.
type Update struct {
	PlayerID    string     `json:"player_id"`
	OldPosition mgl32.Vec3 `json:"old_position"`
	NewPosition mgl32.Vec3 `json:"new_position"`
	// DeltaTime is the time in seconds between the two positions.
	DeltaTime float32 `json:"delta_time"`
}

// Validator classifies player movements as legitimate or as one of the movement violations. It keeps
// the movement state of every player it has seen and is not safe for concurrent use.
type Validator struct {
	log     *slog.Logger
	opts    settings.Movement
	handler detection.Handler

	players   map[string]*PlayerMovementState
	obstacles []world.Obstacle

	// detectors run in order and the first one to fail a movement decides its violation.
	detectors []detector
}

// NewValidator returns a Validator using the settings passed. Zero settings fall back to their defaults,
// a nil logger discards everything and a nil handler drops every flag.
func NewValidator(log *slog.Logger, opts settings.Movement, handler detection.Handler) *Validator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if handler == nil {
		handler = detection.NopHandler{}
	}
	v := &Validator{
		log:     log,
		opts:    opts.WithDefaults(),
		handler: handler,
		players: make(map[string]*PlayerMovementState),
	}
	v.detectors = []detector{
		teleportDetector{opts: &v.opts},
		wallClipDetector{obstacles: &v.obstacles},
		speedDetector{},
	}
	return v
}

// Validate validates the movement update passed. See ValidateMovement.
func (v *Validator) Validate(u Update) MovementCheck {
	return v.ValidateMovement(u.PlayerID, u.OldPosition, u.NewPosition, u.DeltaTime)
}

// ValidateMovement validates a player moving from oldPos to newPos in dt seconds. Movements with a dt
// that is not a positive finite number are always valid. A rejected movement increases the violation count of the player
// and is flagged to the detection handler.
func (v *Validator) ValidateMovement(id string, oldPos, newPos mgl32.Vec3, dt float32) MovementCheck {
	if !(dt > 0) || math32.IsInf(dt, 1) {
		return MovementCheck{Valid: true}
	}

	state := v.state(id)
	m := &motion{
		playerID:   id,
		state:      state,
		from:       oldPos,
		to:         newPos,
		dt:         dt,
		distance:   game.Distance(oldPos, newPos),
		maxAllowed: v.maxAllowedSpeed(state),
	}
	if !game.IsFinite(m.distance) {
		m.distance = math32.Inf(1)
	}
	m.speed = m.distance / dt

	for _, d := range v.detectors {
		details, data, failed := d.Detect(m)
		if !failed {
			continue
		}

		state.Violations++
		v.handler.HandleFlag(detection.Flag{
			PlayerID:   id,
			Type:       detection.TypeMovement,
			SubType:    d.Violation().String(),
			Violations: state.Violations,
			ExtraData:  data,
		})
		v.log.Debug("movement rejected", "player", id, "violation", d.Violation(), "vl", state.Violations, "data", detection.ExtraDataString(data))
		return MovementCheck{
			ActualSpeed:     reportedSpeed(m.speed),
			MaxAllowedSpeed: m.maxAllowed,
			Violation:       d.Violation(),
			Details:         details,
		}
	}

	state.LastPosition = newPos
	return MovementCheck{
		Valid:           true,
		ActualSpeed:     m.speed,
		MaxAllowedSpeed: m.maxAllowed,
	}
}

// maxAllowedSpeed returns the fastest the player may move. Sprinting and being slowed stack.
func (v *Validator) maxAllowedSpeed(s *PlayerMovementState) float32 {
	speed := v.opts.BaseSpeed
	if s.Sprinting {
		speed *= v.opts.SprintMultiplier
	}
	if s.Slowed {
		speed *= v.opts.SlowMultiplier
	}
	return speed * s.modifier() * v.opts.Tolerance
}

// reportedSpeed caps infinite and NaN speeds so that checks stay encodable.
func reportedSpeed(speed float32) float32 {
	if math32.IsNaN(speed) {
		return math32.MaxFloat32
	}
	return math32.Min(speed, math32.MaxFloat32)
}

// state returns the state of the player, creating it if the player has not been seen before.
func (v *Validator) state(id string) *PlayerMovementState {
	s, ok := v.players[id]
	if !ok {
		s = &PlayerMovementState{}
		v.players[id] = s
	}
	return s
}

// SetPlayerState updates the sprinting, slowed and speed modifier state of a player. The last position
// and violation count of the player are owned by the validator and are left untouched.
func (v *Validator) SetPlayerState(id string, s PlayerMovementState) {
	state := v.state(id)
	state.Sprinting = s.Sprinting
	state.Slowed = s.Slowed
	state.SpeedModifier = s.SpeedModifier
}

// PlayerState returns a copy of the state of a player, if the player is known.
func (v *Validator) PlayerState(id string) (PlayerMovementState, bool) {
	if s, ok := v.players[id]; ok {
		return *s, true
	}
	return PlayerMovementState{}, false
}

// RemovePlayer forgets all state of a player.
func (v *Validator) RemovePlayer(id string) {
	delete(v.players, id)
}

// ResetViolations sets the violation count of a player back to zero.
func (v *Validator) ResetViolations(id string) {
	if s, ok := v.players[id]; ok {
		s.Violations = 0
	}
}

// Violations returns the violation count of a player, or zero for an unknown player.
func (v *Validator) Violations(id string) uint32 {
	if s, ok := v.players[id]; ok {
		return s.Violations
	}
	return 0
}

// SetObstacles replaces the obstacles movements are checked against.
func (v *Validator) SetObstacles(obstacles []world.Obstacle) {
	v.obstacles = append(v.obstacles[:0], obstacles...)
}

// ClearObstacles removes all obstacles, which disables wall clip detection.
func (v *Validator) ClearObstacles() {
	v.obstacles = v.obstacles[:0]
}

// Obstacles returns a copy of the obstacles movements are checked against.
func (v *Validator) Obstacles() []world.Obstacle {
	obstacles := make([]world.Obstacle, len(v.obstacles))
	copy(obstacles, v.obstacles)
	return obstacles
}
