package aidirector

import (
	"math/rand"

	"github.com/racecraft/aidirector/internal/aiconfig"
	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/iface"
)

// selectLaneForPlayer implements §4.6. It always returns a valid point id
// (random_lane never fails, per the graph's contract).
func selectLaneForPlayer(cfg aiconfig.Config, sp iface.AiSpline, rng *rand.Rand, pointID int, player *entrycar.EntryCar) int {
	if !(cfg.PrioritizePlayerTraffic && cfg.TwoWayTraffic) {
		return sp.RandomLane(pointID)
	}

	lanes := sp.Lanes(pointID)
	if len(lanes) <= 1 {
		return sp.RandomLane(pointID)
	}

	playerPointID, _ := sp.WorldToSpline(player.Position)
	if playerPointID < 0 {
		return sp.RandomLane(pointID)
	}

	var sameDir, oppositeDir []int
	for _, l := range lanes {
		if sp.IsSameDirection(playerPointID, l) {
			sameDir = append(sameDir, l)
		} else {
			oppositeDir = append(oppositeDir, l)
		}
	}

	switch {
	case len(sameDir) > 0 && len(oppositeDir) > 0:
		if rng.Float64() < cfg.SameDirectionTrafficProbability {
			return sameDir[rng.Intn(len(sameDir))]
		}
		return oppositeDir[rng.Intn(len(oppositeDir))]
	case len(sameDir) > 0:
		return sameDir[rng.Intn(len(sameDir))]
	case len(oppositeDir) > 0:
		return oppositeDir[rng.Intn(len(oppositeDir))]
	default:
		return sp.RandomLane(pointID)
	}
}
