package detection

import (
	"log/slog"

	"github.com/elliotchance/orderedmap/v2"
)

const (
	TypeHit      = "Hit"
	TypeMovement = "Movement"
)

// Flag is raised whenever a validator rejects an action. It is handed to a Handler, which is expected to
// forward it to whatever decides on escalation.
type Flag struct {
	// MatchID is the ID of the match the action was performed in.
	MatchID string
	// PlayerID is the ID of the player that performed the rejected action.
	PlayerID string
	// Type is the primary type of the flag, either TypeHit or TypeMovement.
	Type string
	// SubType is the reason the action was rejected, such as "no_hit" or "TELEPORT".
	SubType string
	// Violations is the amount of violations the player has accumulated for Type, if tracked.
	Violations uint32
	// ExtraData holds the values that led to the rejection, in the order they were added.
	ExtraData *orderedmap.OrderedMap[string, any]
}

// Handler handles flags raised by the validators. Handlers are called from the goroutine owning the
// validator and must not block for long.
type Handler interface {
	HandleFlag(f Flag)
}

// NopHandler implements Handler and does nothing.
type NopHandler struct{}

func (NopHandler) HandleFlag(Flag) {}

// Multi returns a Handler that passes every flag to each of the handlers passed, in order.
func Multi(handlers ...Handler) Handler {
	return multiHandler(handlers)
}

type multiHandler []Handler

func (m multiHandler) HandleFlag(f Flag) {
	for _, h := range m {
		h.HandleFlag(f)
	}
}

// InMatch returns a Handler setting the match ID of every flag to id before passing it to h.
func InMatch(id string, h Handler) Handler {
	return matchHandler{id: id, next: h}
}

type matchHandler struct {
	id   string
	next Handler
}

func (m matchHandler) HandleFlag(f Flag) {
	f.MatchID = m.id
	m.next.HandleFlag(f)
}

// Forgetter is implemented by handlers keeping state per player, which should be dropped when a player
// or a whole match goes away.
type Forgetter interface {
	Forget(matchID, playerID string)
	ForgetMatch(matchID string)
}

// LogHandler is a Handler that writes every flag to a logger.
type LogHandler struct {
	Log *slog.Logger
}

func (h LogHandler) HandleFlag(f Flag) {
	h.Log.Warn("player flagged", "match", f.MatchID, "player", f.PlayerID, "type", f.Type, "sub_type", f.SubType, "vl", f.Violations, "data", ExtraDataString(f.ExtraData))
}
