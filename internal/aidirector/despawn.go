package aidirector

import "github.com/racecraft/aidirector/internal/entrycar"

// unsafeBecauseOffSpline is the per-state gate
// EntryCar.RemoveUnsafeStates delegates to (§4.3 "a per-slot policy that
// may demote individual AiState objects"). The spec leaves the concrete
// predicate unspecified beyond "unsafe"; this module's reading (an Open
// Question decision, recorded in DESIGN.md) is that a state which has
// fallen off the spline entirely — SplinePointID < 0, which only happens
// via an external mutation like a collision shove — is the one condition a
// slot can detect about itself without consulting any other slot, which is
// what distinguishes it from the global distance-based rule that follows.
func unsafeBecauseOffSpline(s *entrycar.AiState) bool {
	return s.Initialized && s.SplinePointID < 0
}

// removeUnsafeStates is EntryCar.remove_unsafe_states (§4.3): despawns any
// of the slot's own initialized states that fail the per-slot safety gate,
// independent of player distance. Spawn protection (§8 I3) is absolute, so
// it is checked here too, not just in the distance-based path below.
func removeUnsafeStates(nowMs int64, car *entrycar.EntryCar) {
	for _, s := range car.AiStates {
		if unsafeBecauseOffSpline(s) && nowMs >= s.SpawnProtectionEnds {
			s.Despawn()
		}
	}
}

// safeRemoveUnsafeStates wraps removeUnsafeStates in its own recover so a
// panic evaluating one slot's safety gate never stops the rest of the
// slots in this tick from being swept (§4.7/§7).
func (d *Director) safeRemoveUnsafeStates(nowMs int64, car *entrycar.EntryCar) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("session_id", car.SessionID).WithField("panic", r).Error("ai director: tick panic recovered during despawn")
		}
	}()
	removeUnsafeStates(nowMs, car)
}

// despawnAndCollectCandidates implements the rest of §4.3's Phase 4: run
// each AI slot's remove_unsafe_states, then move any state that is both
// past spawn protection and farther than player_radius^2 from every
// eligible player into the uninitialized spawn-candidate pool.
func (d *Director) despawnAndCollectCandidates(nowMs int64, cat *categorized, aiMinDist []distRank[*entrycar.AiState]) {
	minDist := make(map[*entrycar.AiState]float32, len(aiMinDist))
	for _, r := range aiMinDist {
		minDist[r.item] = r.distSq
	}

	for _, car := range cat.aiSlots {
		d.safeRemoveUnsafeStates(nowMs, car)
	}

	var stillInitialized []*entrycar.AiState
	for _, s := range cat.initialized {
		if !s.Initialized {
			// Despawned above by removeUnsafeStates; it already joins the
			// candidate pool, no additional distance check needed.
			cat.uninitialized = append(cat.uninitialized, s)
			continue
		}

		distSq, known := minDist[s]
		farFromEveryPlayer := known && distSq > d.cfg.PlayerRadiusSq
		pastProtection := nowMs >= s.SpawnProtectionEnds
		if farFromEveryPlayer && pastProtection {
			s.Despawn()
			cat.uninitialized = append(cat.uninitialized, s)
			continue
		}
		stillInitialized = append(stillInitialized, s)
	}
	cat.initialized = stillInitialized
}
