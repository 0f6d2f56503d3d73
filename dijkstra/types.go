// Package dijkstra defines the result type and sentinel errors of the
// explorer's shortest-path search over a planet.Map.
//
// Distances are sums of planet.Weight values. Blocked paths (weight -1)
// are never relaxed. Every other stored weight is positive, because
// planet.Map rejects 0 on insertion.
//
// Errors (sentinel):
//
//	– ErrNilMap   if the provided map pointer is nil.
//	– ErrNoRoute  if the target is unknown or cannot be reached from the start.
package dijkstra

import (
	"errors"
	"fmt"
	"math"

	"github.com/kaczynskimat/robolab/planet"
)

// Sentinel errors returned by the search.
var (
	// ErrNilMap indicates that a nil *planet.Map was passed.
	ErrNilMap = errors.New("dijkstra: map is nil")

	// ErrNoRoute indicates the target is not reachable with current knowledge.
	ErrNoRoute = errors.New("dijkstra: no route")
)

// Unreachable is the distance reported for vertices the search never reached.
const Unreachable = planet.Weight(math.MaxInt64)

// Tree is the outcome of a full single-source search: the final distance
// of every known vertex and, for every reached vertex except the source,
// the departure that leads into it on the chosen shortest route.
type Tree struct {
	Source planet.Coordinate
	Dist   map[planet.Coordinate]planet.Weight
	Prev   map[planet.Coordinate]planet.Step
}

// Distance returns the shortest distance from Source to c, or false when
// c was not reached.
func (t *Tree) Distance(c planet.Coordinate) (planet.Weight, bool) {
	d, ok := t.Dist[c]
	if !ok || d == Unreachable {
		return 0, false
	}

	return d, true
}

// RouteTo walks the predecessor links back from target and returns the
// departures in start-to-target order. target == Source yields an empty,
// non-nil route. A broken chain yields ErrNoRoute.
func (t *Tree) RouteTo(target planet.Coordinate) (planet.Route, error) {
	if target == t.Source {
		return planet.Route{}, nil
	}
	if _, ok := t.Distance(target); !ok {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoRoute, t.Source, target)
	}

	// 1) Collect departures from target back to Source.
	var rev planet.Route
	for at := target; at != t.Source; {
		step, ok := t.Prev[at]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s (chain broken at %s)", ErrNoRoute, t.Source, target, at)
		}
		rev = append(rev, step)
		at = step.From
		// A chain longer than the vertex count can only be a cycle.
		if len(rev) > len(t.Dist) {
			return nil, fmt.Errorf("%w: %s -> %s (predecessor cycle)", ErrNoRoute, t.Source, target)
		}
	}

	// 2) Reverse into start-to-target order.
	route := make(planet.Route, len(rev))
	for i, s := range rev {
		route[len(rev)-1-i] = s
	}

	return route, nil
}
