// Package automod implements the per-vehicle auto-moderation state
// machines (§3 AutoModInstance, §4.10): no-lights, wrong-way, and
// blocking-road, each escalating warning -> pit-teleport -> kick.
package automod

import "github.com/racecraft/aidirector/internal/wire"

// ViolationState is one violation's counters (§3): seconds elapsed this
// violating streak, times teleported to pits before kick, and whether the
// duration/2 warning has already fired for this streak.
type ViolationState struct {
	Seconds     int
	PitCount    int
	WarningSent bool
}

// reset zeroes the counter and warning bit (§3 Invariants, §8 AutoMod reset
// law). PitCount is deliberately NOT reset here — it persists across
// streaks within a session so escalation to kick still triggers even if a
// player re-offends after briefly correcting, matching the table's
// "pit_count >= limit" wording which has no reset clause of its own.
func (v *ViolationState) reset() {
	v.Seconds = 0
	v.WarningSent = false
}

// Instance is one EntryCar's auto-moderation bookkeeping (§3
// AutoModInstance), one per connected, non-administrator client.
type Instance struct {
	NoLights     ViolationState
	WrongWay     ViolationState
	BlockingRoad ViolationState

	CurrentFlags wire.AutoModerationFlag

	CurrentSplinePointID               int
	CurrentSplinePointDistanceSquared float32
}

func NewInstance() *Instance {
	return &Instance{CurrentSplinePointID: -1}
}
