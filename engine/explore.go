package engine

import (
	"sort"

	"github.com/kaczynskimat/robolab/dijkstra"
	"github.com/kaczynskimat/robolab/planet"
)

// IntelligentExplore picks the direction to leave current when there is no
// reachable target.
//
// Behavior:
//  1. If current still has unexplored directions, return the first one in
//     scan order.
//  2. Otherwise consider every occupied vertex with pending directions and
//     every reported-but-unvisited vertex. Skip candidates without a route
//     and candidates equal to current.
//  3. Return the first departure towards the candidate with the smallest
//     total route weight. Equal weights go to the smaller coordinate.
//
// Returns false when no candidate qualifies: the reachable planet is
// fully explored.
func (e *Engine) IntelligentExplore(current planet.Coordinate) (planet.Direction, bool) {
	// 1) Finish the local vertex first.
	if dirs := e.visited[current]; len(dirs) > 0 {
		return dirs[0], true
	}

	// 2) One exhaustive search from current serves every candidate.
	tree, err := dijkstra.Search(e.paths, current)
	if err != nil {
		e.logger.Error("engine: search failed", "from", current.String(), "err", err)
		return 0, false
	}

	var (
		best     planet.Coordinate
		bestCost planet.Weight
		bestDir  planet.Direction
		found    bool
	)
	for _, cand := range e.frontier() {
		route, err := tree.RouteTo(cand)
		if err != nil || len(route) == 0 {
			continue
		}
		cost, _ := tree.Distance(cand)
		// Candidates arrive in coordinate order, so "<" keeps the smaller coordinate on ties.
		if !found || cost < bestCost {
			best, bestCost, bestDir, found = cand, cost, route[0].Dir, true
		}
	}

	if !found {
		e.logger.Info("engine: no reachable frontier", "at", current.String())
		return 0, false
	}
	e.logger.Debug("engine: heading for frontier",
		"from", current.String(), "to", best.String(), "cost", int64(bestCost), "dir", bestDir.String())

	return bestDir, true
}

// NextDirection returns the first departure towards target when target is
// set and reachable, and falls back to IntelligentExplore otherwise.
func (e *Engine) NextDirection(target *planet.Coordinate, current planet.Coordinate) (planet.Direction, bool) {
	if target != nil {
		route, err := dijkstra.ShortestPath(e.paths, current, *target)
		if d, ok := route.First(); err == nil && ok {
			return d, true
		}
		e.logger.Debug("engine: target not reachable yet, exploring",
			"target", target.String(), "at", current.String())
	}

	return e.IntelligentExplore(current)
}

// frontier lists every vertex that still has exploration value, sorted by
// coordinate and without duplicates.
func (e *Engine) frontier() []planet.Coordinate {
	seen := make(map[planet.Coordinate]bool, len(e.visited)+len(e.unvisited))
	out := make([]planet.Coordinate, 0, len(e.visited)+len(e.unvisited))
	for c, dirs := range e.visited {
		if len(dirs) > 0 && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range e.unvisited {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}
