package movement

import "fmt"

// Violation is the kind of movement cheat a movement was classified as.
type Violation uint8

const (
	ViolationNone Violation = iota
	ViolationSpeedhack
	ViolationTeleport
	ViolationWallclip
)

var violationNames = [...]string{"NONE", "SPEEDHACK", "TELEPORT", "WALLCLIP"}

func (v Violation) String() string {
	if int(v) < len(violationNames) {
		return violationNames[v]
	}
	return fmt.Sprintf("Violation(%d)", uint8(v))
}

// MarshalText ...
func (v Violation) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText ...
func (v *Violation) UnmarshalText(b []byte) error {
	for i, name := range violationNames {
		if name == string(b) {
			*v = Violation(i)
			return nil
		}
	}
	return fmt.Errorf("unknown violation %q", b)
}

// MovementCheck is the verdict on a single movement.
type MovementCheck struct {
	Valid           bool      `json:"valid"`
	ActualSpeed     float32   `json:"actual_speed"`
	MaxAllowedSpeed float32   `json:"max_allowed_speed"`
	Violation       Violation `json:"violation"`
	Details         string    `json:"details,omitempty"`
}
