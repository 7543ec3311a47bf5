package world

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/verdict/game"
	"github.com/oomph-ac/verdict/oerror"
	"github.com/pelletier/go-toml"
)

// mapFile is the layout of a TOML map file:
//
//	[[obstacle]]
//	min = [5.0, 0.0, -1.0]
//	max = [6.0, 3.0, 1.0]
//	solid = true
type mapFile struct {
	Obstacle []struct {
		Min   []float64 `toml:"min"`
		Max   []float64 `toml:"max"`
		Solid bool      `toml:"solid"`
	} `toml:"obstacle"`
}

// LoadMap reads the obstacles of a TOML map file. Corners may be given in any order.
func LoadMap(path string) ([]Obstacle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading map: %w", err)
	}
	return ParseMap(data)
}

// ParseMap parses the obstacles of a map from TOML data.
func ParseMap(data []byte) ([]Obstacle, error) {
	var m mapFile
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error decoding map: %w", err)
	}

	obstacles := make([]Obstacle, 0, len(m.Obstacle))
	for i, o := range m.Obstacle {
		lo, err := vec3(o.Min)
		if err != nil {
			return nil, oerror.New("obstacle %d: min: %v", i, err)
		}
		hi, err := vec3(o.Max)
		if err != nil {
			return nil, oerror.New("obstacle %d: max: %v", i, err)
		}
		obstacles = append(obstacles, Obstacle{Bounds: game.Box(lo, hi), Solid: o.Solid})
	}
	return obstacles, nil
}

func vec3(v []float64) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, oerror.New("expected 3 components, got %d", len(v))
	}
	vec := mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
	if !game.Vec3Finite(vec) {
		return mgl32.Vec3{}, oerror.New("non-finite vector %v", v)
	}
	return vec, nil
}
