package aidirector

import (
	"time"

	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
)

// collisionRadiusSq is the 25 m client-vs-AI trigger distance (§4.8).
const collisionRadiusSq = 25 * 25

// OnClientCollision implements §4.8's client-vs-AI collision handling: a
// connected player within 25 m of an initialized AI state *schedules*
// stop_for_collision() on that state after a uniformly random delay in
// [100, 500] ms — the call itself fires once the delay elapses, not
// immediately, which is what de-synchronizes adjacent AI's reactions.
// Grounded on RaceControl.OnCollisionWithCar (assetto-server-manager's
// race_control.go): one collision event handled per call, no accumulated
// backlog.
func (d *Director) OnClientCollision(player *entrycar.EntryCar, aiCar *entrycar.EntryCar) {
	for _, s := range aiCar.AiStates {
		if !s.Initialized {
			continue
		}
		if geom.DistSq(player.Position, s.Position) > collisionRadiusSq {
			continue
		}
		delay := time.Duration(100+d.rng.Intn(401)) * time.Millisecond
		time.AfterFunc(delay, func() {
			d.stopForCollision(s)
		})
	}
}

// stopForCollision is the scheduled effect: it zeroes the state's target
// speed, then restores it to the state's own MaxSpeed 550 ms later so a
// queue of stopped AI doesn't stall forever. It is a no-op if the state
// despawned before the timer fired.
func (d *Director) stopForCollision(s *entrycar.AiState) {
	if !s.Initialized {
		return
	}
	resumeSpeed := s.MaxSpeed
	s.TargetSpeed = 0
	time.AfterFunc(550*time.Millisecond, func() {
		if s.Initialized {
			s.TargetSpeed = resumeSpeed
		}
	})
}
