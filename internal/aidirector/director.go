// Package aidirector implements the AI traffic director (§4.1-§4.9): vehicle
// categorization, distance computation, despawn, spawn-point selection,
// lane selection, obstacle detection, overbooking, and the debug telemetry
// side channel. It generalizes the teacher's single physicsLoop into three
// independently-cadenced passes over the same EntryCar table, per §5's
// partitioned read/write contract.
package aidirector

import (
	"math/rand"
	"sync"
	"time"

	"github.com/racecraft/aidirector/internal/aiconfig"
	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
	"github.com/racecraft/aidirector/internal/iface"
	"github.com/racecraft/aidirector/internal/spline"
	"github.com/sirupsen/logrus"
)

// Director owns the AI director tick (§4.1-§4.3) and the overbooking
// pass (§4.9). The 100 ms obstacle-detection tick is a
// separate entry point (ObstacleDetector.Tick, obstacle.go) by design: §5 requires
// the two to never touch each other's fields, and splitting them into
// different receivers makes that partition visible in the type system
// instead of just in a comment.
type Director struct {
	cfg    aiconfig.Config
	spline iface.AiSpline
	sink   iface.PacketSink
	log    *logrus.Entry
	rng    *rand.Rand

	// junctionEvaluators is one JunctionEvaluator per AiState identity,
	// keyed by AiState.ID (§9 "JunctionEvaluator as iterator with memory").
	junctionEvaluators map[string]*spline.JunctionEvaluator

	overbookingMu sync.Mutex
}

func New(cfg aiconfig.Config, sp iface.AiSpline, sink iface.PacketSink, log *logrus.Entry) *Director {
	return &Director{
		cfg:                cfg,
		spline:             sp,
		sink:               sink,
		log:                log,
		rng:                rand.New(rand.NewSource(time.Now().UnixNano())),
		junctionEvaluators: make(map[string]*spline.JunctionEvaluator),
	}
}

func (d *Director) junctionEvaluatorFor(state *entrycar.AiState) *spline.JunctionEvaluator {
	ev, ok := d.junctionEvaluators[state.ID]
	if !ok {
		ev = spline.NewJunctionEvaluator()
		d.junctionEvaluators[state.ID] = ev
	}
	return ev
}

// categorized is the working state rebuilt fresh every tick (§4.1): cleared
// collections, not carried over, so a player who goes AFK mid-tick simply
// fails to appear in the next one.
type categorized struct {
	eligiblePlayers []*entrycar.EntryCar
	aiSlots         []*entrycar.EntryCar
	initialized     []*entrycar.AiState
	uninitialized   []*entrycar.AiState
}

// categorize implements §4.1.
func (d *Director) categorize(now time.Time, cars []*entrycar.EntryCar) categorized {
	var c categorized
	for _, car := range cars {
		d.categorizeOne(now, car, &c)
	}
	return c
}

// categorizeOne processes a single slot's contribution to categorized,
// wrapped in its own recover so a panic on one malformed slot (e.g. a bad
// world_to_spline query in drivingEligible) never drops every slot after it
// from this tick's categorization — §4.7/§7's "a single bad AI slot never
// halts the directors" applies here just as much as to obstacle detection.
func (d *Director) categorizeOne(now time.Time, car *entrycar.EntryCar, c *categorized) {
	defer func() {
		if r := recover(); r != nil {
			d.log.WithField("session_id", car.SessionID).WithField("panic", r).Error("ai director: tick panic recovered during categorization")
		}
	}()

	if car.AiControlled() {
		c.aiSlots = append(c.aiSlots, car)
		for _, s := range car.AiStates {
			if s.Initialized {
				c.initialized = append(c.initialized, s)
			} else {
				c.uninitialized = append(c.uninitialized, s)
			}
		}
		return
	}
	if !car.ActivePlayer(now, d.cfg.PlayerAfkTimeout) {
		return
	}
	if d.drivingEligible(car) {
		c.eligiblePlayers = append(c.eligiblePlayers, car)
	}
}

// drivingEligible is the directional clause of §4.1's eligible-player
// predicate: two_way_traffic ∨ wrong_way_traffic ∨ driving_right_way, where
// driving_right_way ≡ dot(forward(world_to_spline(pos).point_id), velocity) > 0.
func (d *Director) drivingEligible(car *entrycar.EntryCar) bool {
	if d.cfg.TwoWayTraffic || d.cfg.WrongWayTraffic {
		return true
	}
	if d.spline == nil {
		return false
	}
	pointID, _ := d.spline.WorldToSpline(car.Position)
	if pointID < 0 {
		return false
	}
	return d.spline.Forward(pointID).Dot(car.Velocity) > 0
}

// Tick runs one full AI director pass (§4.1-§4.3). now is the tick's
// reference time and nowMs its monotonic-ms equivalent for
// SpawnProtectionEnds bookkeeping.
func (d *Director) Tick(now time.Time, nowMs int64, cars []*entrycar.EntryCar) {
	cat := d.categorize(now, cars)

	if len(cat.eligiblePlayers) == 0 {
		// §4.1 "empty world" rule: despawn everything and stop early.
		for _, s := range cat.initialized {
			s.Despawn()
		}
		return
	}

	offsets := make(map[*entrycar.EntryCar]geom.Vec3, len(cat.eligiblePlayers))
	for _, p := range cat.eligiblePlayers {
		offsets[p] = offsetPosition(p, d.cfg.PlayerPositionOffsetM)
	}

	aiMinDist, playerMinDist := computeDistanceMatrix(cat.initialized, cat.eligiblePlayers, offsets)

	d.despawnAndCollectCandidates(nowMs, &cat, aiMinDist)
	d.spawn(now, nowMs, &cat, playerMinDist)
}
