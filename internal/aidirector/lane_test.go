package aidirector

import (
	"math/rand"
	"testing"

	"github.com/racecraft/aidirector/internal/aiconfig"
	"github.com/racecraft/aidirector/internal/entrycar"
	"github.com/racecraft/aidirector/internal/geom"
)

// fakeLaneSpline is a minimal iface.AiSpline double exercising only the
// methods selectLaneForPlayer calls.
type fakeLaneSpline struct {
	lanes           map[int][]int
	directionClass  map[int]int
	worldToSplineID int
}

func (f *fakeLaneSpline) WorldToSpline(pos geom.Vec3) (int, float32) { return f.worldToSplineID, 0 }
func (f *fakeLaneSpline) Position(id int) geom.Vec3                  { return geom.Vec3{} }
func (f *fakeLaneSpline) Forward(id int) geom.Vec3                   { return geom.Vec3{X: 1} }
func (f *fakeLaneSpline) Next(id int) int                            { return id }
func (f *fakeLaneSpline) Previous(id int) int                        { return id }
func (f *fakeLaneSpline) Lanes(id int) []int                         { return f.lanes[id] }
func (f *fakeLaneSpline) IsSameDirection(a, b int) bool {
	return f.directionClass[a] == f.directionClass[b]
}
func (f *fakeLaneSpline) RandomLane(id int) int { return id }
func (f *fakeLaneSpline) HasNext(id int) bool   { return true }

func TestSelectLaneForPlayerFallsBackWithoutPrioritization(t *testing.T) {
	cfg := aiconfig.DefaultConfig()
	cfg.PrioritizePlayerTraffic = false
	sp := &fakeLaneSpline{lanes: map[int][]int{5: {5, 6}}}
	player := entrycar.New(0, entrycar.AiModeNone)

	got := selectLaneForPlayer(cfg, sp, rand.New(rand.NewSource(1)), 5, player)
	if got != 5 {
		t.Errorf("expected RandomLane fallback to return the fake's id (5), got %d", got)
	}
}

func TestSelectLaneForPlayerSingleLaneFallsBack(t *testing.T) {
	cfg := aiconfig.DefaultConfig()
	cfg.PrioritizePlayerTraffic = true
	cfg.TwoWayTraffic = true
	sp := &fakeLaneSpline{lanes: map[int][]int{5: {5}}}
	player := entrycar.New(0, entrycar.AiModeNone)

	got := selectLaneForPlayer(cfg, sp, rand.New(rand.NewSource(1)), 5, player)
	if got != 5 {
		t.Errorf("expected RandomLane fallback for a single-lane point, got %d", got)
	}
}

func TestSelectLaneForPlayerPicksSameDirectionWhenOnlyOptionAvailable(t *testing.T) {
	cfg := aiconfig.DefaultConfig()
	cfg.PrioritizePlayerTraffic = true
	cfg.TwoWayTraffic = true
	sp := &fakeLaneSpline{
		lanes:          map[int][]int{10: {10, 11}},
		directionClass: map[int]int{10: 0, 11: 0, 99: 0}, // all same direction
		worldToSplineID: 99,
	}
	player := entrycar.New(0, entrycar.AiModeNone)
	player.Position = geom.Vec3{X: 1}

	got := selectLaneForPlayer(cfg, sp, rand.New(rand.NewSource(1)), 10, player)
	if got != 10 && got != 11 {
		t.Errorf("expected one of the same-direction lanes, got %d", got)
	}
}
