package aidirector

import (
	"math"

	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
	"github.com/racecraft/aidirector/internal/iface"
	"github.com/racecraft/aidirector/internal/telemetry"
	"github.com/sirupsen/logrus"
)

// ObstacleDetector runs the 100 ms obstacle-detection tick (§4.7). It is a
// distinct type from Director — not just a distinct method — so the §5
// partition ("the director never touches target_speed/
// closest_ai_obstacle_distance and the obstacle-detection worker never
// touches initialized/spline_point_id/spawn_protection_ends") is visible at
// the call site: nothing about ObstacleDetector's API lets it reach the
// fields Director owns. It does still read spline_point_id — §5 only
// forbids *writing* it from this loop.
type ObstacleDetector struct {
	spline iface.AiSpline
	sink   wirePacketSink
	log    *logrus.Entry
	debug  bool
}

// wirePacketSink is the slice of iface.PacketSink obstacle detection needs:
// only BroadcastPacket, so a sink without SendPacket/KickAsync suffices.
type wirePacketSink interface {
	BroadcastPacket(p any) error
}

func NewObstacleDetector(sp iface.AiSpline, sink wirePacketSink, log *logrus.Entry, debug bool) *ObstacleDetector {
	return &ObstacleDetector{spline: sp, sink: sink, log: log, debug: debug}
}

// obstacleSearchPoints bounds the forward walk through the slowest_ai_state
// index the same way the spawn search's neighbor lookup is bounded (§9
// search-distance accounting applies here too: point-count, not metres).
const obstacleSearchPoints = 50

// buildSlowestAiStateIndex is §2/§4.7's auxiliary slowest_ai_state[point_id]
// index: for every occupied spline point, the slowest AI state sitting
// there, across every AI-controlled slot — not just one slot's own
// siblings. Keeping the slowest occupant at a contested point is what lets
// a following AI brake for whichever car ahead of it is most likely to be
// the actual bottleneck.
func buildSlowestAiStateIndex(cars []*entrycar.EntryCar) map[int]*entrycar.AiState {
	index := make(map[int]*entrycar.AiState)
	for _, car := range cars {
		if !car.AiControlled() {
			continue
		}
		for _, s := range car.AiStates {
			if !s.Initialized || s.SplinePointID < 0 {
				continue
			}
			existing, ok := index[s.SplinePointID]
			if !ok || s.CurrentSpeed < existing.CurrentSpeed {
				index[s.SplinePointID] = s
			}
		}
	}
	return index
}

// closestAhead walks forward from a state's own spline point through the
// slowest_ai_state index looking for the nearest other AI ahead of it on
// the shared graph, regardless of which slot hosts it.
func closestAhead(sp iface.AiSpline, from int, self *entrycar.AiState, index map[int]*entrycar.AiState) *entrycar.AiState {
	if sp == nil || from < 0 {
		return nil
	}
	cur := from
	for i := 0; i < obstacleSearchPoints; i++ {
		if !sp.HasNext(cur) {
			return nil
		}
		cur = sp.Next(cur)
		if s, ok := index[cur]; ok && s != self {
			return s
		}
	}
	return nil
}

// Tick recomputes every AI-controlled slot's obstacle telemetry and, if
// debug is enabled, broadcasts a batch of AiDebugPackets (§4.7). Per §4.7/§7,
// a panic while processing one slot is logged and swallowed so every other
// slot's telemetry for this tick still gets computed and sent.
func (o *ObstacleDetector) Tick(cars []*entrycar.EntryCar) {
	index := buildSlowestAiStateIndex(cars)

	var entries []telemetry.Entry
	for _, car := range cars {
		if !car.AiControlled() {
			continue
		}
		o.tickOne(car, index, &entries)
	}

	if !o.debug || len(entries) == 0 {
		return
	}
	for _, p := range telemetry.BuildPackets(entries) {
		_ = o.sink.BroadcastPacket(p)
	}
}

func (o *ObstacleDetector) tickOne(car *entrycar.EntryCar, index map[int]*entrycar.AiState, entries *[]telemetry.Entry) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithField("session_id", car.SessionID).WithField("panic", r).Error("obstacle detection: tick panic recovered")
		}
	}()

	o.aiObstacleDetection(car, index)
	if !o.debug {
		return
	}
	for _, s := range car.AiStates {
		if !s.Initialized {
			continue
		}
		*entries = append(*entries, telemetry.Entry{
			SessionID:           car.SessionID,
			ClosestAiObstacleCm: s.ClosestAiObstacleDistanceCm,
			CurrentSpeedMs:      s.CurrentSpeed,
			TargetSpeedMs:       s.TargetSpeed,
			MaxSpeedMs:          s.MaxSpeed,
		})
	}
}

// aiObstacleDetection is EntryCar.ai_obstacle_detection() (§4.7): it
// recomputes each of the slot's AiStates' target speed and closest-obstacle
// distance, checking both same-slot siblings and, via the slowest_ai_state
// index, the nearest AI ahead hosted by any other slot.
func (o *ObstacleDetector) aiObstacleDetection(car *entrycar.EntryCar, index map[int]*entrycar.AiState) {
	for i, s := range car.AiStates {
		if !s.Initialized {
			continue
		}
		closest := float32(-1)
		for j, other := range car.AiStates {
			if i == j || !other.Initialized {
				continue
			}
			d := geom.DistSq(s.Position, other.Position)
			if closest < 0 || d < closest {
				closest = d
			}
		}
		if ahead := closestAhead(o.spline, s.SplinePointID, s, index); ahead != nil {
			d := geom.DistSq(s.Position, ahead.Position)
			if closest < 0 || d < closest {
				closest = d
			}
		}
		if closest < 0 {
			s.ClosestAiObstacleDistanceCm = 32767
			s.TargetSpeed = s.MaxSpeed
			continue
		}
		distM := sqrt32(closest)
		s.ClosestAiObstacleDistanceCm = cmClamp(distM * 100)
		s.TargetSpeed = targetSpeedForObstacle(distM, s.MaxSpeed)
	}
}

// targetSpeedForObstacle linearly backs off target speed as the nearest
// obstacle gets inside a 50 m braking window, floored at a crawl speed
// rather than zero so a queue of AI doesn't fully stall.
func targetSpeedForObstacle(distM float32, maxSpeed float32) float32 {
	const brakingWindowM = 50
	const crawlSpeedMs = 2
	if distM >= brakingWindowM {
		return maxSpeed
	}
	if distM <= 0 {
		return crawlSpeedMs
	}
	scaled := maxSpeed * (distM / brakingWindowM)
	if scaled < crawlSpeedMs {
		return crawlSpeedMs
	}
	return scaled
}

func cmClamp(cm float32) int16 {
	if cm > 32767 {
		return 32767
	}
	if cm < -32768 {
		return -32768
	}
	return int16(cm)
}

func sqrt32(distSq float32) float32 {
	return float32(math.Sqrt(float64(distSq)))
}
