package combat

import (
	"io"
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/verdict/detection"
	"github.com/oomph-ac/verdict/entity"
	"github.com/oomph-ac/verdict/game"
	"github.com/oomph-ac/verdict/settings"
)

const (
	RejectShooterNotAlive = "shooter_not_alive"
	RejectNoHit           = "no_hit"
)

// HitRequest is a client's claim that it hit another player.
type HitRequest struct {
	ShooterID string `json:"shooter_id"`
	// TargetID is the player the client claims to have hit. It is optional and never trusted.
	TargetID  string     `json:"target_id,omitempty"`
	Origin    mgl32.Vec3 `json:"origin"`
	Direction mgl32.Vec3 `json:"direction"`
	// ClientTimestamp is the time in milliseconds of the world state the client saw when it fired.
	ClientTimestamp int64 `json:"client_timestamp"`
	// MaxDistance is the range of the shot. Zero uses the configured max distance.
	MaxDistance float32 `json:"max_distance,omitempty"`
}

// HitResult is the verdict on a HitRequest.
type HitResult struct {
	Valid    bool            `json:"valid"`
	TargetID string          `json:"target_id,omitempty"`
	HitPoint mgl32.Vec3      `json:"hit_point"`
	Damage   float32         `json:"damage"`
	Hitbox   game.HitboxKind `json:"hitbox"`
	// RejectReason is empty for valid hits, RejectShooterNotAlive or RejectNoHit otherwise.
	RejectReason string `json:"reject_reason,omitempty"`
	// RewindClamped is true if the client timestamp was too far from every saved world state, and the
	// most recent world state was used instead.
	RewindClamped bool `json:"rewind_clamped,omitempty"`
}

// HitValidator validates hit claims by rewinding the world to the moment the shooter fired and casting
// the shot against the hitboxes of that world. It is not safe for concurrent use.
type HitValidator struct {
	log     *slog.Logger
	opts    settings.Combat
	handler detection.Handler

	buffer  *entity.WorldStateBuffer
	raycast RaycastSystem
}

// NewHitValidator returns a HitValidator using the settings passed. Zero settings fall back to their
// defaults, a nil logger discards everything and a nil handler drops every flag.
func NewHitValidator(log *slog.Logger, opts settings.Combat, handler detection.Handler) *HitValidator {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if handler == nil {
		handler = detection.NopHandler{}
	}
	opts = opts.WithDefaults()
	return &HitValidator{
		log:     log,
		opts:    opts,
		handler: handler,
		buffer:  entity.NewWorldStateBuffer(opts.BufferCapacity, opts.MaxRewindMs),
		raycast: RaycastSystem{Unbounded: opts.UnboundedCapsules},
	}
}

// RecordWorldState saves the world state of a tick. It should be called once per tick, in tick order.
func (v *HitValidator) RecordWorldState(tick int64, state entity.WorldState) {
	v.buffer.Save(tick, state)
}

// ValidateHit validates a hit claim. The hit is cast against the world state closest to the client's
// timestamp, so the shooter must have been alive in that world state. The target is always the one the
// server's cast finds, regardless of the target the client claims.
func (v *HitValidator) ValidateHit(req HitRequest) HitResult {
	world, rewind := v.rewind(req.ClientTimestamp)
	res := HitResult{RewindClamped: rewind == entity.RewindClamped}

	if shooter, ok := world.Player(req.ShooterID); !ok || !shooter.Alive {
		res.RejectReason = RejectShooterNotAlive
		v.reject(req, res, world, nil)
		return res
	}

	maxDistance := req.MaxDistance
	if maxDistance <= 0 {
		maxDistance = v.opts.MaxDistance
	}
	hit, ok := v.raycast.Cast(world, req.Origin, req.Direction, maxDistance, req.ShooterID)
	if !ok {
		res.RejectReason = RejectNoHit
		data := orderedmap.NewOrderedMap[string, any]()
		data.Set("rewind", rewind)
		data.Set("max_distance", maxDistance)
		if target, ok := world.Player(req.TargetID); ok {
			data.Set("target_offset", game.Round32(game.AngleBetween(req.Direction, target.Position.Sub(req.Origin)), 2))
		}
		v.reject(req, res, world, data)
		return res
	}

	if req.TargetID != "" && req.TargetID != hit.EntityID {
		v.log.Debug("hit target mismatch", "shooter", req.ShooterID, "claimed", req.TargetID, "hit", hit.EntityID)
	}

	res.Valid = true
	res.TargetID = hit.EntityID
	res.HitPoint = hit.Point
	res.Hitbox = hit.Hitbox
	res.Damage = v.CalculateDamage(hit.Hitbox)
	return res
}

// CalculateDamage returns the damage of a hit on the hitbox kind passed using the configured base damage
// and multipliers.
func (v *HitValidator) CalculateDamage(kind game.HitboxKind) float32 {
	return damage(kind, v.opts.BaseDamage, v.opts.HeadMultiplier, v.opts.BodyMultiplier, v.opts.LimbMultiplier)
}

func (v *HitValidator) rewind(timestamp int64) (entity.WorldState, entity.Rewind) {
	if v.opts.Interpolate {
		return v.buffer.Interpolated(timestamp)
	}
	return v.buffer.Lookup(timestamp)
}

// reject flags a rejected hit to the detection handler. Rejections for dead shooters are only logged.
func (v *HitValidator) reject(req HitRequest, res HitResult, world entity.WorldState, data *orderedmap.OrderedMap[string, any]) {
	v.log.Debug("hit rejected", "shooter", req.ShooterID, "reason", res.RejectReason, "tick", world.Tick, "clamped", res.RewindClamped)
	if res.RejectReason == RejectShooterNotAlive {
		return
	}
	v.handler.HandleFlag(detection.Flag{
		PlayerID:  req.ShooterID,
		Type:      detection.TypeHit,
		SubType:   res.RejectReason,
		ExtraData: data,
	})
}
