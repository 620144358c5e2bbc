// Package automodconfig is the auto-moderation configuration surface
// (§6 AutoMod) plus the startup validation of §4.10's fatal preconditions.
package automodconfig

import "fmt"

// ViolationConfig is shared shape for the three violations; NoLights and
// WrongWay additionally use MinimumSpeedMs, BlockingRoad uses MaximumSpeedMs
// (§6) — both fields are present on every violation and the director reads
// only the one its predicate needs, which keeps the struct uniform instead
// of three near-identical types.
type ViolationConfig struct {
	Enabled         bool
	DurationSeconds int
	PitsBeforeKick  int
	MinimumSpeedMs  float32
	MaximumSpeedMs  float32
}

type Config struct {
	NoLights     ViolationConfig
	WrongWay     ViolationConfig
	BlockingRoad ViolationConfig

	EnableClientMessages bool
}

func DefaultConfig() Config {
	return Config{
		NoLights: ViolationConfig{
			Enabled:         true,
			DurationSeconds: 30,
			PitsBeforeKick:  2,
			MinimumSpeedMs:  10,
		},
		WrongWay: ViolationConfig{
			Enabled:         true,
			DurationSeconds: 10,
			PitsBeforeKick:  2,
			MinimumSpeedMs:  5,
		},
		BlockingRoad: ViolationConfig{
			Enabled:         true,
			DurationSeconds: 60,
			PitsBeforeKick:  2,
			MaximumSpeedMs:  1,
		},
		EnableClientMessages: true,
	}
}

// ConfigurationError is fatal at startup (§7 Error kinds).
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("automod: configuration error: %s", e.Reason)
}

// Validate enforces §4.10's startup preconditions: WrongWayKick and
// BlockingRoadKick require an AI spline, NoLightsKick requires a non-null
// sun position. hasSpline/hasSunPosition are supplied by the caller because
// this package does not import iface/spline (avoiding a dependency just to
// check two booleans).
func (c Config) Validate(hasSpline, hasSunPosition bool) error {
	if c.WrongWay.Enabled && !hasSpline {
		return &ConfigurationError{Reason: "WrongWay auto-moderation requires an AI spline"}
	}
	if c.BlockingRoad.Enabled && !hasSpline {
		return &ConfigurationError{Reason: "BlockingRoad auto-moderation requires an AI spline"}
	}
	if c.NoLights.Enabled && !hasSunPosition {
		return &ConfigurationError{Reason: "NoLights auto-moderation requires a sun position"}
	}
	return nil
}
