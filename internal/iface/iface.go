// Package iface declares the external collaborators this module consumes
// but never implements for production use (§6 Consumed interfaces): the
// network/session/weather layers and the AI spline are someone else's
// subsystem. Keeping them as narrow interfaces here — rather than importing
// a concrete transport package — is what lets internal/aidirector and
// internal/automod stay testable against fakes, the way the teacher's
// CarServer is itself the thing under test with no further collaborator to
// fake.
package iface

import (
	"time"

	"github.com/racecraft/aidirector/internal/geom"
)

// AiSpline is the immutable directed graph of spline points the AI director
// and auto-moderation both query (§2).
type AiSpline interface {
	// WorldToSpline returns the nearest spline point to pos and the squared
	// distance to it, or (-1, 0) if the spline is empty.
	WorldToSpline(pos geom.Vec3) (pointID int, distSq float32)
	// Position returns a point's fixed world position — needed to place a
	// freshly-teleported AiState and to run the safety/headway distance
	// checks in §4.5; spec §2's prose list of spline operations doesn't
	// name it explicitly, but a graph whose points can't report where they
	// are could not support world_to_spline's inverse (Teleport).
	Position(pointID int) geom.Vec3
	Forward(pointID int) geom.Vec3
	Next(pointID int) int
	Previous(pointID int) int
	Lanes(pointID int) []int
	IsSameDirection(a, b int) bool
	RandomLane(pointID int) int
	// HasNext reports whether the point has any successor at all; spawn
	// search fails outright when it does not (§4.5 step 1).
	HasNext(pointID int) bool
}

// SessionConfig is the subset of SessionManager.current_session the pit
// teleport packet needs (§6).
type SessionConfig struct {
	Configuration string
	Grid          string
	StartTimeMs   int64
}

// SessionManager exposes server clock and session configuration (§6).
type SessionManager interface {
	ServerTimeMs() int64
	CurrentSession() SessionConfig
}

// WeatherManager exposes the two weather facts the directors consume (§6).
// SunAltitudeDeg's second return is false when no sun position is modeled
// at all, which is what NoLightsKick's startup validation checks for (§4.10).
type WeatherManager interface {
	TrackGrip() float32
	SunAltitudeDeg() (altitude float64, ok bool)
}

// ScriptProvider registers CSP client-side scripts (§6
// CspServerScriptProvider).
type ScriptProvider interface {
	AddScript(data []byte, name string) error
}

// PacketSink is the narrow slice of EntryCarManager the directors use to
// emit wire packets and fire-and-forget kicks (§6). BroadcastPacket and
// SendPacket failures are swallowed by the caller per §7
// PacketSendFailure/TransientKickFailure — this interface returns an error
// only so a caller that does want to log it can.
type PacketSink interface {
	BroadcastPacket(p any) error
	SendPacket(sessionID uint8, p any) error
	KickAsync(sessionID uint8, reason string)
}

// Clock abstracts time.Now so ticks are testable without sleeping.
type Clock func() time.Time
