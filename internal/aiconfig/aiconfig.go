// Package aiconfig is the AI director's tuning surface (§6 Configuration
// surface — AI). The teacher hardcodes its equivalents (maxSpeed,
// acceleration, turnSpeed, ...) as package constants; this module's surface
// is operator-tunable so it is a struct with a DefaultConfig constructor
// carrying the same constants as sensible defaults.
package aiconfig

import "time"

type Config struct {
	AiPerPlayerTarget   float64
	TrafficDensity      float64
	MaxAiTarget         int
	BehaviorUpdateInterval time.Duration

	MinSpawnDistancePoints int
	MaxSpawnDistancePoints int

	PlayerRadiusSq              float32
	PlayerPositionOffsetM       float32
	MaxPlayerDistanceToSplineSq float32
	SpawnSafetyDistanceToPlayerSq float32

	PlayerAfkTimeout time.Duration

	TwoWayTraffic             bool
	WrongWayTraffic           bool
	PrioritizePlayerTraffic   bool
	SameDirectionTrafficProbability float64

	LaneWidthM float32

	Debug bool

	// SpawnProtectionMs is not in the spec's enumerated list but is
	// required to compute AiState.SpawnProtectionEnds (§3); it defaults to
	// a value long enough to cover one director tick's worth of jitter.
	SpawnProtectionMs int64

	// DefaultSpawnSpeedMs/DefaultMaxSpeedMs seed a freshly-teleported
	// AiState's current/target and max speed (§3 AiState); the spec leaves
	// the exact figures to the vehicle/track data the original system
	// pulls from elsewhere, so these are the module's reasonable defaults.
	DefaultSpawnSpeedMs float32
	DefaultMaxSpeedMs   float32

	// MinHeadwayM and MaxSpeedClassDeltaMs are the "minimum headway" and
	// "compatible speed class" thresholds §4.3 step 4's can_spawn gate
	// requires but leaves unspecified.
	MinHeadwayM           float32
	MaxSpeedClassDeltaMs  float32

	// AiAiMinSeparationM is the minimum separation an AI slot's own
	// safety predicate enforces against other AI when asked whether it
	// rejects a candidate spawn point (§4.5 is_position_safe).
	AiAiMinSeparationM float32
}

func DefaultConfig() Config {
	return Config{
		AiPerPlayerTarget:               3,
		TrafficDensity:                  1.0,
		MaxAiTarget:                     50,
		BehaviorUpdateInterval:          1000 * time.Millisecond,
		MinSpawnDistancePoints:          40,
		MaxSpawnDistancePoints:          150,
		PlayerRadiusSq:                  250 * 250,
		PlayerPositionOffsetM:           20,
		MaxPlayerDistanceToSplineSq:     40 * 40,
		SpawnSafetyDistanceToPlayerSq:   30 * 30,
		PlayerAfkTimeout:                10 * time.Second,
		TwoWayTraffic:                   true,
		WrongWayTraffic:                 false,
		PrioritizePlayerTraffic:         true,
		SameDirectionTrafficProbability: 0.8,
		LaneWidthM:                      4,
		Debug:                           false,
		SpawnProtectionMs:               5000,
		DefaultSpawnSpeedMs:             20,
		DefaultMaxSpeedMs:               30,
		MinHeadwayM:                     15,
		MaxSpeedClassDeltaMs:            10,
		AiAiMinSeparationM:              8,
	}
}

// LaneRadiusSq is the lane radius auto-moderation's WrongWay/BlockingRoad
// predicates use (§4.10): (lane_width_m/2 * 1.25)^2.
func (c Config) LaneRadiusSq() float32 {
	r := c.LaneWidthM / 2 * 1.25
	return r * r
}
