package aidirector

import (
	"math"
	"sort"

	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
)

// offsetPosition implements §4.2's offset position: pos + normalize(velocity)
// * player_position_offset_m, zero offset when stationary (Normalize
// already returns the zero vector for a zero-length velocity).
func offsetPosition(p *entrycar.EntryCar, offsetM float32) geom.Vec3 {
	return p.Position.Add(p.Velocity.Normalize().Scale(offsetM))
}

// distRank pairs an entity with its distance for the descending sort both
// halves of §4.2 need.
type distRank[T any] struct {
	item     T
	distSq   float32
}

// computeDistanceMatrix implements §4.2: the |AI| x |players| squared
// distance matrix, reduced to ai_min_distance_to_player and
// player_min_distance_to_ai, both sorted descending by distance.
func computeDistanceMatrix(ai []*entrycar.AiState, players []*entrycar.EntryCar, offsets map[*entrycar.EntryCar]geom.Vec3) (
	aiMinDistance []distRank[*entrycar.AiState],
	playerMinDistance []distRank[*entrycar.EntryCar],
) {
	aiMin := make(map[*entrycar.AiState]float32, len(ai))
	playerMin := make(map[*entrycar.EntryCar]float32, len(players))

	for _, a := range ai {
		best := float32(-1)
		for _, p := range players {
			d := geom.DistSq(a.Position, offsets[p])
			if best < 0 || d < best {
				best = d
			}
			if pm, ok := playerMin[p]; !ok || d < pm {
				playerMin[p] = d
			}
		}
		if best >= 0 {
			aiMin[a] = best
		}
	}

	// A player with no initialized AI state anywhere near it still needs a
	// rank for §4.4's weighted selection — it is the player a spawn should
	// serve first, not one computeDistanceMatrix silently drops because the
	// ai x players loop above never touched it when ai is empty.
	for _, p := range players {
		if _, ok := playerMin[p]; !ok {
			playerMin[p] = math.MaxFloat32
		}
	}

	for a, d := range aiMin {
		aiMinDistance = append(aiMinDistance, distRank[*entrycar.AiState]{item: a, distSq: d})
	}
	for p, d := range playerMin {
		playerMinDistance = append(playerMinDistance, distRank[*entrycar.EntryCar]{item: p, distSq: d})
	}

	sort.Slice(aiMinDistance, func(i, j int) bool { return aiMinDistance[i].distSq > aiMinDistance[j].distSq })
	sort.Slice(playerMinDistance, func(i, j int) bool { return playerMinDistance[i].distSq > playerMinDistance[j].distSq })
	return aiMinDistance, playerMinDistance
}
