package movement

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/verdict/game"
	"github.com/oomph-ac/verdict/settings"
)

// teleportDetector fails movements covering more distance than even a sprinting player could cover in
// several updates. The bound does not depend on the player's state.
type teleportDetector struct {
	opts *settings.Movement
}

func (teleportDetector) Violation() Violation {
	return ViolationTeleport
}

func (d teleportDetector) Detect(m *motion) (string, *orderedmap.OrderedMap[string, any], bool) {
	limit := d.opts.BaseSpeed * d.opts.SprintMultiplier * m.dt * d.opts.TeleportMultiplier
	if m.distance <= limit {
		return "", nil, false
	}

	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("distance", game.Round32(m.distance, 3))
	data.Set("limit", game.Round32(limit, 3))
	data.Set("dt", m.dt)
	return "position jump detected", data, true
}
