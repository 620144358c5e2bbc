// Package spline implements the immutable AI spline graph (§2, §3
// SplinePoint) and the query surface both directors use:
// world_to_spline, forward, next/previous, lanes, is_same_direction, and
// random_lane. It is built once (loaded the way the teacher's
// loadTrackFromCSV builds a *pb.TrackInfo from a CSV file) and never
// mutated afterward — AI identities reference it by integer point id, never
// by pointer (§9 "Graph identity and aliasing").
package spline

import (
	"errors"
	"math/rand"

	"github.com/racecraft/aidirector/internal/geom"
)

// Point is one immutable node of the graph (§3 SplinePoint).
type Point struct {
	Position geom.Vec3
	Forward  geom.Vec3
	Length   float32

	NextID int // -1 if this point is a dead end
	PrevID int // -1 if this point has no predecessor

	// JunctionSuccessors holds the alternate successors at a branch point,
	// in addition to NextID. Empty for an ordinary (non-junction) point.
	JunctionSuccessors []int

	// LaneIDs are sibling points at the same longitudinal position,
	// possibly with an opposite direction class (GLOSSARY "Lane").
	LaneIDs []int

	// DirectionClass distinguishes physically-opposite carriageways at the
	// same location; IsSameDirection compares two points' classes.
	DirectionClass int
}

// Graph is the full, immutable spline (§2 AI spline).
type Graph struct {
	points []Point
}

func NewGraph(points []Point) *Graph {
	return &Graph{points: points}
}

func (g *Graph) Len() int { return len(g.points) }

func (g *Graph) Point(id int) Point {
	return g.points[id]
}

// WorldToSpline returns the nearest point to pos by brute-force linear scan
// and the squared distance to it, grounded on the teacher's
// calculateTrackProgress nearest-point loop (track.go) generalized from a
// 2D centerline to the full 3D point set. Real AssettoServer-derived
// splines use a spatial grid for this; a production port of this module
// would swap the scan for one without changing the interface.
func (g *Graph) WorldToSpline(pos geom.Vec3) (int, float32) {
	if len(g.points) == 0 {
		return -1, 0
	}
	best := 0
	bestDistSq := geom.DistSq(pos, g.points[0].Position)
	for i := 1; i < len(g.points); i++ {
		d := geom.DistSq(pos, g.points[i].Position)
		if d < bestDistSq {
			bestDistSq = d
			best = i
		}
	}
	return best, bestDistSq
}

func (g *Graph) Position(id int) geom.Vec3 { return g.points[id].Position }
func (g *Graph) Forward(id int) geom.Vec3  { return g.points[id].Forward }
func (g *Graph) Next(id int) int          { return g.points[id].NextID }
func (g *Graph) Previous(id int) int      { return g.points[id].PrevID }
func (g *Graph) Lanes(id int) []int       { return g.points[id].LaneIDs }
func (g *Graph) HasNext(id int) bool      { return id >= 0 && id < len(g.points) && g.points[id].NextID >= 0 }

func (g *Graph) IsSameDirection(a, b int) bool {
	return g.points[a].DirectionClass == g.points[b].DirectionClass
}

func (g *Graph) RandomLane(id int) int {
	lanes := g.points[id].LaneIDs
	if len(lanes) == 0 {
		return id
	}
	all := append([]int{id}, lanes...)
	return all[rand.Intn(len(all))]
}

var ErrNoSuccessor = errors.New("spline: point has no successor")

// Traverse walks forward (steps > 0) or backward (steps < 0) from id by the
// given number of points, consulting ev for the branch choice at any
// junction. It stops short of walking off the end of the graph and returns
// the last valid point plus ErrNoSuccessor if it could not complete the
// full distance.
func (g *Graph) Traverse(id int, steps int, ev *JunctionEvaluator) (int, error) {
	if steps >= 0 {
		for i := 0; i < steps; i++ {
			next, ok := g.stepForward(id, ev)
			if !ok {
				return id, ErrNoSuccessor
			}
			id = next
		}
		return id, nil
	}
	for i := 0; i < -steps; i++ {
		prev := g.points[id].PrevID
		if prev < 0 {
			return id, ErrNoSuccessor
		}
		id = prev
	}
	return id, nil
}

func (g *Graph) stepForward(id int, ev *JunctionEvaluator) (int, bool) {
	p := g.points[id]
	if len(p.JunctionSuccessors) == 0 {
		if p.NextID < 0 {
			return id, false
		}
		return p.NextID, true
	}
	choices := append([]int{p.NextID}, p.JunctionSuccessors...)
	valid := choices[:0:0]
	for _, c := range choices {
		if c >= 0 {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return id, false
	}
	return ev.Choose(id, valid), true
}
