package movement

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/oomph-ac/verdict/game"
	"github.com/oomph-ac/verdict/world"
)

// wallClipDetector fails movements whose path crosses a solid obstacle.
type wallClipDetector struct {
	obstacles *[]world.Obstacle
}

func (wallClipDetector) Violation() Violation {
	return ViolationWallclip
}

func (d wallClipDetector) Detect(m *motion) (string, *orderedmap.OrderedMap[string, any], bool) {
	for i, o := range *d.obstacles {
		if !o.Solid || !game.IntersectSegmentAABB(m.from, m.to, o.Bounds) {
			continue
		}

		data := orderedmap.NewOrderedMap[string, any]()
		data.Set("obstacle", i)
		if res, ok := trace.BBoxIntercept(o.Bounds.BBox(), m.from, m.to); ok {
			data.Set("entry", res.Position())
		}
		return "wall clipping detected", data, true
	}
	return "", nil, false
}
