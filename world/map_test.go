package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestLoadMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.toml")
	data := []byte(`
[[obstacle]]
min = [6.0, 3.0, 1.0]
max = [5.0, 0.0, -1.0]
solid = true

[[obstacle]]
min = [0.0, 0.0, 0.0]
max = [1.0, 1.0, 1.0]
solid = false
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	obstacles, err := LoadMap(path)
	if err != nil {
		t.Fatalf("failed to load map: %v", err)
	}
	if len(obstacles) != 2 {
		t.Fatalf("expected 2 obstacles, got %d", len(obstacles))
	}
	// Corners are normalized.
	if obstacles[0].Bounds.Min != (mgl32.Vec3{5, 0, -1}) || obstacles[0].Bounds.Max != (mgl32.Vec3{6, 3, 1}) || !obstacles[0].Solid {
		t.Fatalf("unexpected first obstacle %+v", obstacles[0])
	}
	if obstacles[1].Solid {
		t.Fatal("expected the second obstacle not to be solid")
	}
}

func TestParseMapMalformed(t *testing.T) {
	for name, data := range map[string]string{
		"short vector": "[[obstacle]]\nmin = [1.0, 2.0]\nmax = [1.0, 2.0, 3.0]\n",
		"missing max":  "[[obstacle]]\nmin = [1.0, 2.0, 3.0]\n",
		"not toml":     "[[obstacle",
	} {
		if _, err := ParseMap([]byte(data)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadMapMissing(t *testing.T) {
	if _, err := LoadMap(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing map file")
	}
}
