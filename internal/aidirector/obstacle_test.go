package aidirector

import (
	"testing"

	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
	"github.com/sirupsen/logrus"
)

func newTestObstacleDetector(sp *fakeForwardSpline) *ObstacleDetector {
	return NewObstacleDetector(sp, &nopSink{}, logrus.NewEntry(logrus.New()), false)
}

type nopSink struct{}

func (nopSink) BroadcastPacket(p any) error { return nil }

// fakeForwardSpline is a minimal iface.AiSpline double whose Next actually
// advances point-to-point, unlike fakeLaneSpline's identity Next/Previous —
// obstacle detection's forward walk through the slowest_ai_state index
// needs real traversal to exercise cross-slot lookahead.
type fakeForwardSpline struct {
	n int
}

func forwardLine(n int) *fakeForwardSpline { return &fakeForwardSpline{n: n} }

func (f *fakeForwardSpline) WorldToSpline(pos geom.Vec3) (int, float32) { return 0, 0 }
func (f *fakeForwardSpline) Position(id int) geom.Vec3                  { return geom.Vec3{} }
func (f *fakeForwardSpline) Forward(id int) geom.Vec3                   { return geom.Vec3{X: 1} }
func (f *fakeForwardSpline) Next(id int) int {
	if id+1 < f.n {
		return id + 1
	}
	return id
}
func (f *fakeForwardSpline) Previous(id int) int {
	if id > 0 {
		return id - 1
	}
	return id
}
func (f *fakeForwardSpline) Lanes(id int) []int          { return nil }
func (f *fakeForwardSpline) IsSameDirection(a, b int) bool { return true }
func (f *fakeForwardSpline) RandomLane(id int) int        { return id }
func (f *fakeForwardSpline) HasNext(id int) bool          { return id+1 < f.n }

func TestTargetSpeedForObstacle(t *testing.T) {
	cases := []struct {
		name     string
		distM    float32
		maxSpeed float32
		want     float32
	}{
		{"beyond braking window returns max speed", 60, 30, 30},
		{"at zero distance returns crawl speed", 0, 30, 2},
		{"halfway through window scales linearly", 25, 30, 15},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := targetSpeedForObstacle(c.distM, c.maxSpeed)
			if got != c.want {
				t.Errorf("targetSpeedForObstacle(%v, %v) = %v, want %v", c.distM, c.maxSpeed, got, c.want)
			}
		})
	}
}

func TestAiObstacleDetectionNoOtherStatesGivesMaxRange(t *testing.T) {
	o := newTestObstacleDetector(forwardLine(1))

	s := &entrycar.AiState{Initialized: true, Position: geom.Vec3{}, MaxSpeed: 30, SplinePointID: -1}
	car := entrycar.New(0, entrycar.AiModeAuto)
	car.AiStates = []*entrycar.AiState{s}

	o.aiObstacleDetection(car, buildSlowestAiStateIndex([]*entrycar.EntryCar{car}))

	if s.ClosestAiObstacleDistanceCm != 32767 {
		t.Errorf("ClosestAiObstacleDistanceCm = %d, want 32767 (no obstacle)", s.ClosestAiObstacleDistanceCm)
	}
	if s.TargetSpeed != s.MaxSpeed {
		t.Errorf("TargetSpeed = %v, want MaxSpeed %v with no obstacle", s.TargetSpeed, s.MaxSpeed)
	}
}

func TestAiObstacleDetectionClosesInOnSameSlotNeighbor(t *testing.T) {
	o := newTestObstacleDetector(forwardLine(1))

	a := &entrycar.AiState{Initialized: true, Position: geom.Vec3{X: 0}, MaxSpeed: 30, SplinePointID: -1}
	b := &entrycar.AiState{Initialized: true, Position: geom.Vec3{X: 10}, MaxSpeed: 30, SplinePointID: -1}
	car := entrycar.New(0, entrycar.AiModeAuto)
	car.AiStates = []*entrycar.AiState{a, b}

	o.aiObstacleDetection(car, buildSlowestAiStateIndex([]*entrycar.EntryCar{car}))

	if a.ClosestAiObstacleDistanceCm != 1000 {
		t.Errorf("a.ClosestAiObstacleDistanceCm = %d, want 1000 (10m)", a.ClosestAiObstacleDistanceCm)
	}
	if a.TargetSpeed >= a.MaxSpeed {
		t.Errorf("expected a to slow down with an obstacle 10m ahead, got TargetSpeed=%v MaxSpeed=%v", a.TargetSpeed, a.MaxSpeed)
	}
}

// TestAiObstacleDetectionClosesInOnCrossSlotNeighbor verifies the
// slowest_ai_state[point_id] index (§2, §4.7) lets an AI state hosted by
// one slot brake for an AI state hosted by a different slot further along
// the shared spline — not just its own same-slot siblings.
func TestAiObstacleDetectionClosesInOnCrossSlotNeighbor(t *testing.T) {
	sp := forwardLine(5)
	o := newTestObstacleDetector(sp)

	following := &entrycar.AiState{Initialized: true, Position: geom.Vec3{X: 0}, MaxSpeed: 30, SplinePointID: 0}
	followingCar := entrycar.New(0, entrycar.AiModeAuto)
	followingCar.AiStates = []*entrycar.AiState{following}

	ahead := &entrycar.AiState{Initialized: true, Position: geom.Vec3{X: 10}, MaxSpeed: 30, SplinePointID: 2}
	aheadCar := entrycar.New(1, entrycar.AiModeAuto)
	aheadCar.AiStates = []*entrycar.AiState{ahead}

	cars := []*entrycar.EntryCar{followingCar, aheadCar}
	index := buildSlowestAiStateIndex(cars)

	o.aiObstacleDetection(followingCar, index)

	if following.ClosestAiObstacleDistanceCm != 1000 {
		t.Errorf("following.ClosestAiObstacleDistanceCm = %d, want 1000 (10m to the cross-slot AI ahead)", following.ClosestAiObstacleDistanceCm)
	}
	if following.TargetSpeed >= following.MaxSpeed {
		t.Errorf("expected following to slow down for a cross-slot obstacle, got TargetSpeed=%v MaxSpeed=%v", following.TargetSpeed, following.MaxSpeed)
	}
}

func TestBuildSlowestAiStateIndexKeepsSlowestAtContestedPoint(t *testing.T) {
	fast := &entrycar.AiState{Initialized: true, SplinePointID: 3, CurrentSpeed: 25}
	slow := &entrycar.AiState{Initialized: true, SplinePointID: 3, CurrentSpeed: 5}
	car1 := entrycar.New(0, entrycar.AiModeAuto)
	car1.AiStates = []*entrycar.AiState{fast}
	car2 := entrycar.New(1, entrycar.AiModeAuto)
	car2.AiStates = []*entrycar.AiState{slow}

	index := buildSlowestAiStateIndex([]*entrycar.EntryCar{car1, car2})

	if index[3] != slow {
		t.Errorf("index[3] = %v, want the slower state", index[3])
	}
}

// panicAtPointSpline panics from HasNext when queried with a specific
// point id, simulating a malformed AI slot's spline query blowing up.
type panicAtPointSpline struct {
	*fakeForwardSpline
	panicID int
}

func (f *panicAtPointSpline) HasNext(id int) bool {
	if id == f.panicID {
		panic("simulated spline failure")
	}
	return f.fakeForwardSpline.HasNext(id)
}

// TestObstacleDetectorTickIsolatesPanickingSlot verifies §4.7/§7: a panic
// while processing one AI-controlled slot is recovered and logged per slot,
// so every other slot in the same tick still gets its telemetry computed.
func TestObstacleDetectorTickIsolatesPanickingSlot(t *testing.T) {
	sp := &panicAtPointSpline{fakeForwardSpline: forwardLine(5), panicID: 3}
	o := NewObstacleDetector(sp, &nopSink{}, logrus.NewEntry(logrus.New()), false)

	badCar := entrycar.New(0, entrycar.AiModeAuto)
	badCar.AiStates = []*entrycar.AiState{{Initialized: true, Position: geom.Vec3{}, MaxSpeed: 30, SplinePointID: 3}}

	okCar := entrycar.New(1, entrycar.AiModeAuto)
	okCar.AiStates = []*entrycar.AiState{{Initialized: true, Position: geom.Vec3{}, MaxSpeed: 30, SplinePointID: -1}}

	o.Tick([]*entrycar.EntryCar{badCar, okCar})

	if okCar.AiStates[0].TargetSpeed != okCar.AiStates[0].MaxSpeed {
		t.Errorf("expected the slot after the panicking one to still be processed, got TargetSpeed=%v", okCar.AiStates[0].TargetSpeed)
	}
}
