package aidirector

import (
	"time"

	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
	"github.com/racecraft/aidirector/internal/spline"
)

func signOrPositive(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1 // §4.5 step 2: ties resolve to +1.
}

// findSpawnPoint implements §4.5. The traversal uses a fresh
// JunctionEvaluator scoped to this one search: no AI identity owns the
// search itself (the identity is only assigned once an uninitialized
// AiState actually gets teleported to the result), so there is nothing to
// remember across calls here — the per-identity JunctionEvaluator (§9) is
// instead kept for that state's own subsequent travel, not this lookup.
func (d *Director) findSpawnPoint(player *entrycar.EntryCar, cat *categorized) (int, bool) {
	pointID, distSq := d.spline.WorldToSpline(player.Position)
	if pointID < 0 || !d.spline.HasNext(pointID) || distSq > d.cfg.MaxPlayerDistanceToSplineSq {
		return 0, false
	}

	direction := signOrPositive(d.spline.Forward(pointID).Dot(player.Velocity))
	spawnDistance := d.cfg.MinSpawnDistancePoints
	if d.cfg.MaxSpawnDistancePoints > d.cfg.MinSpawnDistancePoints {
		spawnDistance += d.rng.Intn(d.cfg.MaxSpawnDistancePoints - d.cfg.MinSpawnDistancePoints + 1)
	}

	ev := spline.NewJunctionEvaluator()
	candidate, err := d.traverse(pointID, spawnDistance*int(direction), ev)
	if err != nil {
		return 0, false
	}
	candidate = selectLaneForPlayer(d.cfg, d.spline, d.rng, candidate, player)

	if d.spline.HasNext(candidate) {
		direction = signOrPositive(d.spline.Forward(candidate).Dot(player.Velocity))
	}

	budget := d.cfg.MaxSpawnDistancePoints - spawnDistance
	traveled := 0
	for !d.isPositionSafe(candidate, cat) {
		stepped, err := d.traverse(candidate, 5*int(direction), ev)
		if err != nil {
			return 0, false
		}
		candidate = stepped
		// §9 Open Question "search-distance accounting": this measures
		// progress in fixed 5-point steps, which only means something for
		// contiguous graph regions — at a junction the same step count can
		// cover a very different physical distance. The original system has
		// the same property; it is preserved here rather than "fixed".
		traveled += 5
		if traveled > budget {
			return 0, false
		}
	}

	candidate = selectLaneForPlayer(d.cfg, d.spline, d.rng, candidate, player)
	return candidate, true
}

// traverse walks the spline by steps points. When the concrete spline is a
// *spline.Graph it delegates to Graph.Traverse, which consults ev at
// junctions; any other iface.AiSpline is walked by plain Next-following,
// and ev is not used. Backward steps use Previous.
func (d *Director) traverse(id int, steps int, ev *spline.JunctionEvaluator) (int, error) {
	if g, ok := d.spline.(*spline.Graph); ok {
		return g.Traverse(id, steps, ev)
	}
	cur := id
	if steps >= 0 {
		for i := 0; i < steps; i++ {
			if !d.spline.HasNext(cur) {
				return cur, spline.ErrNoSuccessor
			}
			cur = d.spline.Next(cur)
		}
		return cur, nil
	}
	for i := 0; i < -steps; i++ {
		prev := d.spline.Previous(cur)
		if prev < 0 {
			return cur, spline.ErrNoSuccessor
		}
		cur = prev
	}
	return cur, nil
}

// isPositionSafe implements §4.5's is_position_safe: false if any AI slot
// rejects the point via its own proximity predicate, or any connected
// player is within spawn_safety_distance_to_player^2 of it.
func (d *Director) isPositionSafe(pointID int, cat *categorized) bool {
	point := d.spline.Position(pointID)

	for _, car := range cat.aiSlots {
		for _, s := range car.AiStates {
			if s.Initialized && geom.DistSq(s.Position, point) < d.cfg.AiAiMinSeparationM*d.cfg.AiAiMinSeparationM {
				return false
			}
		}
	}
	for _, p := range cat.eligiblePlayers {
		if geom.DistSq(p.Position, point) < d.cfg.SpawnSafetyDistanceToPlayerSq {
			return false
		}
	}
	return true
}

// canSpawn implements §4.3 step 4's per-state spawn gate: minimum headway
// to the nearest neighboring AI along the graph, and a compatible speed
// class (candidateMaxSpeed within MaxSpeedClassDeltaMs of the neighbor it
// would be following/leading). candidateMaxSpeed is the specific candidate
// AiState's own MaxSpeed, not a fixed config constant, so that different
// candidates in cat.uninitialized can actually be accepted or rejected
// differently at the same spawn point (§4.3 step 4's "try the next
// candidate").
func (d *Director) canSpawn(spawnPos geom.Vec3, previousAi, nextAi *entrycar.AiState, candidateMaxSpeed float32) bool {
	minHeadwaySq := d.cfg.MinHeadwayM * d.cfg.MinHeadwayM
	for _, neighbor := range []*entrycar.AiState{previousAi, nextAi} {
		if neighbor == nil {
			continue
		}
		if geom.DistSq(spawnPos, neighbor.Position) < minHeadwaySq {
			return false
		}
		if abs32(neighbor.MaxSpeed-candidateMaxSpeed) > d.cfg.MaxSpeedClassDeltaMs {
			return false
		}
	}
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// closestAlongGraph walks Previous (backward=true) or Next from id up to
// 50 m of points looking for an occupied point (§4.3 step 3). It works in
// point-count, not metres, for the same reason findSpawnPoint's safety-loop
// budget does (§9 search-distance accounting) — "50 m" is read as "50
// points" absent a per-point length-weighted walk.
func (d *Director) closestAlongGraph(id int, maxPoints int, backward bool, occupied map[int]*entrycar.AiState) *entrycar.AiState {
	cur := id
	for i := 0; i < maxPoints; i++ {
		var next int
		if backward {
			next = d.spline.Previous(cur)
		} else {
			next = d.spline.Next(cur)
		}
		if next < 0 {
			return nil
		}
		cur = next
		if s, ok := occupied[cur]; ok {
			return s
		}
	}
	return nil
}

const spawnNeighborSearchPoints = 50

// spawn implements §4.3 steps 1-4 and §4.4's player selection.
func (d *Director) spawn(now time.Time, nowMs int64, cat *categorized, playerMinDist []distRank[*entrycar.EntryCar]) {
	if d.spline == nil {
		return
	}
	players := append([]distRank[*entrycar.EntryCar]{}, playerMinDist...)

	for len(players) > 0 && len(cat.uninitialized) > 0 {
		idx := triangularIndex(len(players), d.rng)
		player := players[idx].item
		players = append(players[:idx], players[idx+1:]...)

		pointID, ok := d.findSpawnPoint(player, cat)
		if !ok {
			continue
		}

		occupied := make(map[int]*entrycar.AiState, len(cat.initialized))
		for _, s := range cat.initialized {
			occupied[s.SplinePointID] = s
		}
		previousAi := d.closestAlongGraph(pointID, spawnNeighborSearchPoints, true, occupied)
		nextAi := d.closestAlongGraph(pointID, spawnNeighborSearchPoints, false, occupied)

		spawnPos := d.spline.Position(pointID)
		spawnForward := d.spline.Forward(pointID)

		for i, s := range cat.uninitialized {
			candidateMaxSpeed := s.MaxSpeed
			if candidateMaxSpeed == 0 {
				// Never spawned yet: Teleport below gives it DefaultMaxSpeedMs.
				candidateMaxSpeed = d.cfg.DefaultMaxSpeedMs
			}
			if !d.canSpawn(spawnPos, previousAi, nextAi, candidateMaxSpeed) {
				continue
			}
			s.Teleport(pointID, spawnPos, spawnForward, d.cfg.DefaultSpawnSpeedMs, d.cfg.DefaultSpawnSpeedMs, d.cfg.DefaultMaxSpeedMs, nowMs, d.cfg.SpawnProtectionMs)
			d.junctionEvaluatorFor(s) // arm a traversal memory for this identity's own future travel.
			cat.initialized = append(cat.initialized, s)
			cat.uninitialized = append(cat.uninitialized[:i], cat.uninitialized[i+1:]...)
			break
		}
		// If no uninitialized candidate accepted this point, the spawn
		// point (and the player it was computed for) is simply discarded
		// for this tick — it is not retried with a different player (§4.3).
	}
}
