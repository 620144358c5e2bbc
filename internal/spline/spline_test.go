package spline

import (
	"testing"

	"github.com/racecraft/aidirector/internal/geom"
)

func fourPointLine() *Graph {
	return NewGraph([]Point{
		{Position: geom.Vec3{X: 0}, Forward: geom.Vec3{X: 1}, NextID: 1, PrevID: -1},
		{Position: geom.Vec3{X: 10}, Forward: geom.Vec3{X: 1}, NextID: 2, PrevID: 0},
		{Position: geom.Vec3{X: 20}, Forward: geom.Vec3{X: 1}, NextID: 3, PrevID: 1},
		{Position: geom.Vec3{X: 30}, Forward: geom.Vec3{X: 1}, NextID: -1, PrevID: 2},
	})
}

func TestWorldToSplineFindsNearest(t *testing.T) {
	g := fourPointLine()
	id, distSq := g.WorldToSpline(geom.Vec3{X: 21})
	if id != 2 {
		t.Errorf("WorldToSpline(21) nearest id = %d, want 2", id)
	}
	if distSq != 1 {
		t.Errorf("WorldToSpline(21) distSq = %v, want 1", distSq)
	}
}

func TestHasNextDeadEnd(t *testing.T) {
	g := fourPointLine()
	if !g.HasNext(0) {
		t.Error("point 0 should have a successor")
	}
	if g.HasNext(3) {
		t.Error("point 3 is a dead end and should report no successor")
	}
}

func TestTraverseForwardAndBackward(t *testing.T) {
	g := fourPointLine()
	ev := NewJunctionEvaluator()

	id, err := g.Traverse(0, 2, ev)
	if err != nil || id != 2 {
		t.Errorf("Traverse(0, 2) = (%d, %v), want (2, nil)", id, err)
	}

	id, err = g.Traverse(3, -2, ev)
	if err != nil || id != 1 {
		t.Errorf("Traverse(3, -2) = (%d, %v), want (1, nil)", id, err)
	}
}

func TestTraverseStopsShortAtDeadEnd(t *testing.T) {
	g := fourPointLine()
	ev := NewJunctionEvaluator()

	id, err := g.Traverse(2, 5, ev)
	if err != ErrNoSuccessor {
		t.Errorf("expected ErrNoSuccessor walking past the dead end, got %v", err)
	}
	if id != 3 {
		t.Errorf("Traverse should stop at the last valid point 3, got %d", id)
	}
}

func TestRandomLaneWithNoLanesReturnsSelf(t *testing.T) {
	g := fourPointLine()
	if got := g.RandomLane(0); got != 0 {
		t.Errorf("RandomLane with no lanes = %d, want 0", got)
	}
}

func TestJunctionEvaluatorRemembersChoice(t *testing.T) {
	ev := NewJunctionEvaluator()
	first := ev.Choose(5, []int{10, 20, 30})
	for i := 0; i < 20; i++ {
		if got := ev.Choose(5, []int{10, 20, 30}); got != first {
			t.Fatalf("JunctionEvaluator.Choose(5, ...) = %d on repeat, want stable choice %d", got, first)
		}
	}
}
