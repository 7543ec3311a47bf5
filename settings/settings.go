package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Settings contains every tunable value of the validators and the server hosting them.
type Settings struct {
	Combat    Combat
	Movement  Movement
	Detection Detection
	Server    Server
}

// Combat holds the settings of lag-compensated hit validation.
type Combat struct {
	// BufferCapacity is the amount of world states kept per match.
	BufferCapacity int
	// MaxRewindMs is the furthest back in time, in milliseconds, a hit may be rewound to.
	MaxRewindMs int64
	// MaxDistance is the range of a hit ray when the request does not specify one.
	MaxDistance float32

	BaseDamage     float32
	HeadMultiplier float32
	BodyMultiplier float32
	LimbMultiplier float32

	// Interpolate makes the validator interpolate player positions between the two world states
	// bracketing a hit, instead of using the closest state.
	Interpolate bool
	// UnboundedCapsules makes the raycast treat hitbox capsules as infinite cylinders.
	UnboundedCapsules bool
}

// Movement holds the settings of movement validation.
type Movement struct {
	// BaseSpeed is the running speed of a player in units per second.
	BaseSpeed        float32
	SprintMultiplier float32
	SlowMultiplier   float32

	// Tolerance is applied to the max allowed speed to absorb jitter.
	Tolerance float32

	// TeleportMultiplier is how many times the sprinting distance a player may cover in one update
	// before it is considered a teleport.
	TeleportMultiplier float32
}

// Detection holds the settings of flag reporting.
type Detection struct {
	// FlagsPerSecond is the rate at which flags of a single player are logged. Flags over the rate
	// are still counted in metrics. Zero disables the limit.
	FlagsPerSecond float64
	FlagBurst      int
}

// Server holds the settings of the process serving the validators.
type Server struct {
	Address  string
	LogLevel string
	// Lanes is the amount of goroutines matches are spread across. Zero uses the number of CPUs.
	Lanes int
	// MaxMatches is the most matches tracked at once. Operations that would create another match fail.
	// Zero removes the limit.
	MaxMatches int
	// MapFile is an optional TOML file of obstacles applied to every new match.
	MapFile string
	// CORSOrigins is a comma separated list of origins allowed to call the HTTP API from a browser.
	CORSOrigins string
	// StatsViewAddress enables the runtime statistics viewer on the address when not empty.
	StatsViewAddress string
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Combat.BufferCapacity = 64
	s.Combat.MaxRewindMs = 200
	s.Combat.MaxDistance = 100
	s.Combat.BaseDamage = 20
	s.Combat.HeadMultiplier = 2.5
	s.Combat.BodyMultiplier = 1
	s.Combat.LimbMultiplier = 0.75

	s.Movement.BaseSpeed = 5
	s.Movement.SprintMultiplier = 1.5
	s.Movement.SlowMultiplier = 0.5
	s.Movement.Tolerance = 1.1
	s.Movement.TeleportMultiplier = 3

	s.Detection.FlagsPerSecond = 2
	s.Detection.FlagBurst = 10

	s.Server.Address = ":8080"
	s.Server.LogLevel = "info"
	s.Server.MaxMatches = 4096
	return s
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	s := DefaultSettings()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if data, err := toml.Marshal(s); err != nil {
			return fmt.Errorf("failed encoding default settings: %w", err)
		} else if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed creating settings file: %w", err)
		}
		return nil
	}
	return errors.New("settings file already exists")
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Values missing from the file keep their defaults.
func Load(path string) (Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return settings, nil
}

// WithDefaults returns the combat settings with every zero value replaced by its default.
func (c Combat) WithDefaults() Combat {
	def := DefaultSettings().Combat
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = def.BufferCapacity
	}
	if c.MaxRewindMs <= 0 {
		c.MaxRewindMs = def.MaxRewindMs
	}
	if c.MaxDistance <= 0 {
		c.MaxDistance = def.MaxDistance
	}
	if c.BaseDamage == 0 && c.HeadMultiplier == 0 && c.BodyMultiplier == 0 && c.LimbMultiplier == 0 {
		c.BaseDamage = def.BaseDamage
		c.HeadMultiplier, c.BodyMultiplier, c.LimbMultiplier = def.HeadMultiplier, def.BodyMultiplier, def.LimbMultiplier
	}
	return c
}

// WithDefaults returns the movement settings with every zero value replaced by its default.
func (m Movement) WithDefaults() Movement {
	def := DefaultSettings().Movement
	if m.BaseSpeed <= 0 {
		m.BaseSpeed = def.BaseSpeed
	}
	if m.SprintMultiplier <= 0 {
		m.SprintMultiplier = def.SprintMultiplier
	}
	if m.SlowMultiplier <= 0 {
		m.SlowMultiplier = def.SlowMultiplier
	}
	if m.Tolerance <= 0 {
		m.Tolerance = def.Tolerance
	}
	if m.TeleportMultiplier <= 0 {
		m.TeleportMultiplier = def.TeleportMultiplier
	}
	return m
}
