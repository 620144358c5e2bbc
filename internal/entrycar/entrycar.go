// Package entrycar implements the shared slot model (§3 EntryCar, AiState)
// that both the AI director and the auto-moderation director read and write.
// It generalizes the teacher's CarServer.carStates/carInfos split — a fixed
// array of per-car identity plus a parallel map of mutable live state — into
// a single indexed table of slots that can each flip between player-owned
// and AI-owned.
package entrycar

import (
	"sync"
	"time"

	"github.com/racecraft/aidirector/internal/geom"
)

// AiMode controls whether a slot may ever host AI identities.
type AiMode int

const (
	AiModeNone AiMode = iota
	AiModeFixed
	AiModeAuto
)

// StatusFlags is the bitfield carried on the wire status update.
type StatusFlags uint32

const (
	LightsOn StatusFlags = 1 << iota
)

// Client is the minimal handle to a connected human the core needs. The
// real network session lives with the external EntryCarManager; this is the
// narrow slice of it the director and auto-moderation read.
type Client interface {
	HasSentFirstUpdate() bool
	IsAdministrator() bool
}

// AiState is one AI identity multiplexed onto a slot (§3 AiState).
type AiState struct {
	// ID is the identity the AI director keys its per-identity
	// JunctionEvaluator on; it is not part of the wire protocol, not carried
	// in debug telemetry, and is kept unchanged across despawn and respawn.
	// Grounded on race_control.go's use of uuid.New() for Collision.ID.
	ID string

	Initialized bool

	Position Vec3Status
	Velocity geom.Vec3

	CurrentSpeed float32 // m/s
	TargetSpeed  float32 // m/s
	MaxSpeed     float32 // m/s

	SplinePointID int // -1 when not on the graph

	// SpawnProtectionEnds is a monotonic-clock deadline (ms); the director
	// must not despawn this state while now < SpawnProtectionEnds (§8 I3).
	SpawnProtectionEnds int64

	// ClosestAiObstacleDistanceCm is obstacle telemetry in centimetres,
	// packed to 16 bits on the debug wire (§4.7).
	ClosestAiObstacleDistanceCm int16
}

// Vec3Status is a type alias kept distinct from geom.Vec3 only for field
// naming clarity at call sites (Position vs Velocity reads oddly as the
// same type name); they are structurally identical.
type Vec3Status = geom.Vec3

// NewAiState returns a pooled, uninitialized AiState ready to be reused by
// the director's spawn logic. AiState objects are never destroyed (§3
// Lifecycle) — callers reset one in place rather than allocating anew.
func NewAiState(id string) *AiState {
	return &AiState{ID: id, Initialized: false, SplinePointID: -1}
}

// Despawn resets an AiState to its pooled, invisible form.
func (s *AiState) Despawn() {
	s.Initialized = false
	s.SplinePointID = -1
}

// Teleport promotes a pooled AiState to an initialized one at the given
// spline point, arming spawn protection for protectionMs from now.
func (s *AiState) Teleport(pointID int, pos geom.Vec3, forward geom.Vec3, speed, targetSpeed, maxSpeed float32, nowMs int64, protectionMs int64) {
	s.Initialized = true
	s.SplinePointID = pointID
	s.Position = pos
	s.Velocity = forward.Normalize().Scale(speed)
	s.CurrentSpeed = speed
	s.TargetSpeed = targetSpeed
	s.MaxSpeed = maxSpeed
	s.SpawnProtectionEnds = nowMs + protectionMs
}

// EntryCar is one fixed slot (§3 EntryCar).
type EntryCar struct {
	SessionID uint8
	AiMode    AiMode

	mu            sync.Mutex
	client        Client
	aiControlled  bool

	Position   geom.Vec3
	Velocity   geom.Vec3
	Flags      StatusFlags
	LastActive time.Time

	AiStates []*AiState

	// TimeOffset is the per-slot wall-clock offset used in
	// CurrentSessionUpdate packets (§4.10 pit teleport).
	TimeOffset time.Duration

	// Overbooking is the number of AI identities this slot may multiplex,
	// recomputed by the overbooking pass (§4.9).
	Overbooking int
}

// New returns a slot with no client and, if aiMode allows it, under AI
// control from the start.
func New(sessionID uint8, aiMode AiMode) *EntryCar {
	return &EntryCar{
		SessionID:    sessionID,
		AiMode:       aiMode,
		aiControlled: aiMode != AiModeNone,
	}
}

// AiControlled reports whether the slot is currently AI-owned. A slot with
// a client is never AI-controlled; a slot without one is AI-controlled
// exactly when its AiMode is not AiModeNone.
func (c *EntryCar) AiControlled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aiControlled
}

func (c *EntryCar) Client() Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// SetClient is called by the network layer's connection callbacks
// (checksum-passed / disconnected, §4.8). It is the only place
// ai_controlled flips outside the director's own bookkeeping, which is why
// it takes its own lock rather than relying on the director's single-writer
// discipline — the design note in §9 explicitly allows this mutex as the
// simpler alternative to marshalling the event onto the director's queue.
func (c *EntryCar) SetClient(client Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
	if client != nil {
		c.aiControlled = false
	} else {
		c.aiControlled = c.AiMode != AiModeNone
	}
}

// ActivePlayer reports the client/AFK half of the §4.1 eligible-player
// predicate: !ai_controlled ∧ has_sent_first_update ∧ recently active. The
// remaining directional clause (two_way_traffic ∨ wrong_way_traffic ∨
// driving_right_way) needs the spline's forward vector, so it is evaluated
// by the caller (internal/aidirector), not here.
func (c *EntryCar) ActivePlayer(now time.Time, afkTimeout time.Duration) bool {
	client := c.Client()
	if c.AiControlled() || client == nil || !client.HasSentFirstUpdate() {
		return false
	}
	return now.Sub(c.LastActive) < afkTimeout
}
