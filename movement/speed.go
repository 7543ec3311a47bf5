package movement

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/verdict/game"
)

// speedDetector fails movements faster than the max allowed speed of the player.
type speedDetector struct{}

func (speedDetector) Violation() Violation {
	return ViolationSpeedhack
}

func (speedDetector) Detect(m *motion) (string, *orderedmap.OrderedMap[string, any], bool) {
	if m.speed <= m.maxAllowed {
		return "", nil, false
	}

	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("speed", game.Round32(m.speed, 3))
	data.Set("max", game.Round32(m.maxAllowed, 3))
	data.Set("sprinting", m.state.Sprinting)
	data.Set("slowed", m.state.Slowed)
	return "speed exceeds maximum allowed", data, true
}
