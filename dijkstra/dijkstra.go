// Package dijkstra implements Dijkstra's shortest-path search over the
// explorer's planet.Map.
//
// Notes on implementation choices:
//
//   - A binary heap with "lazy" decrease-key: improved distances are pushed
//     again and stale entries are skipped when popped.
//   - Frontier ties are broken explicitly: among equal tentative distances the
//     smaller planet.Coordinate (X, then Y) is finalized first.
//   - Egress of a vertex is relaxed in N, E, S, W order and a predecessor is
//     only replaced on a strictly shorter distance, so of several equal-cost
//     routes the one discovered first is kept.
//   - Blocked paths (weight -1) are skipped.
package dijkstra

import (
	"container/heap"
	"fmt"

	"github.com/kaczynskimat/robolab/planet"
)

// ShortestPath returns the cheapest route from start to target using only
// what m currently knows.
//
// Returns:
//
//   - ErrNoRoute if m is empty, target is unknown, or target is unreachable.
//   - an empty, non-nil route if start == target (and target is known).
//   - otherwise one departure per driven path, start first.
//
// The search stops as soon as target is finalized.
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func ShortestPath(m *planet.Map, start, target planet.Coordinate) (planet.Route, error) {
	// 1) Validate inputs.
	if m == nil {
		return nil, ErrNilMap
	}
	if m.Len() == 0 || !m.HasVertex(target) {
		return nil, fmt.Errorf("%w: %s is not on the map", ErrNoRoute, target)
	}
	if start == target {
		return planet.Route{}, nil
	}
	if !m.HasVertex(start) {
		return nil, fmt.Errorf("%w: %s is not on the map", ErrNoRoute, start)
	}

	// 2) Run the search until target is final.
	r := newRunner(m, start)
	r.process(&target)

	// 3) Reconstruct.
	return r.tree().RouteTo(target)
}

// Search runs an exhaustive search from start and returns distances and
// predecessors for every known vertex. For any target, Tree.RouteTo yields
// exactly the route ShortestPath(m, start, target) returns.
func Search(m *planet.Map, start planet.Coordinate) (*Tree, error) {
	if m == nil {
		return nil, ErrNilMap
	}
	r := newRunner(m, start)
	if m.HasVertex(start) {
		r.process(nil)
	}

	return r.tree(), nil
}

// runner holds the mutable state for a single search.
type runner struct {
	m       *planet.Map                         // read-only within the search
	source  planet.Coordinate                   // start vertex
	dist    map[planet.Coordinate]planet.Weight // best-known distance from source
	prev    map[planet.Coordinate]planet.Step   // departure leading into a vertex
	visited map[planet.Coordinate]bool          // finalized vertices
	pq      nodePQ                              // lazy min-heap
}

// newRunner sets dist[v] = Unreachable for every known vertex, dist[source] = 0,
// and seeds the heap with the source.
func newRunner(m *planet.Map, source planet.Coordinate) *runner {
	vertices := m.Vertices()
	r := &runner{
		m:       m,
		source:  source,
		dist:    make(map[planet.Coordinate]planet.Weight, len(vertices)),
		prev:    make(map[planet.Coordinate]planet.Step, len(vertices)),
		visited: make(map[planet.Coordinate]bool, len(vertices)),
		pq:      make(nodePQ, 0, len(vertices)),
	}
	for _, v := range vertices {
		r.dist[v] = Unreachable
	}
	r.dist[source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{at: source, dist: 0})

	return r
}

// process pops the closest unfinalized vertex and relaxes its egress until
// the heap is empty or, when stop is set, *stop has been finalized.
func (r *runner) process(stop *planet.Coordinate) {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.at

		// Skip stale entries.
		if r.visited[u] {
			continue
		}
		r.visited[u] = true

		if stop != nil && u == *stop {
			return
		}
		r.relax(u)
	}
}

// relax tries to improve the distance of every neighbour reachable from u
// over a non-blocked path.
func (r *runner) relax(u planet.Coordinate) {
	for _, d := range r.m.Egress(u) {
		e, _ := r.m.Edge(u, d)
		if e.Weight.IsBlocked() {
			continue
		}
		v := e.Target
		if r.visited[v] {
			continue
		}

		newDist := r.dist[u] + e.Weight
		// Strictly better only: equal-cost routes keep their first predecessor.
		if cur, ok := r.dist[v]; ok && newDist >= cur {
			continue
		}
		r.dist[v] = newDist
		r.prev[v] = planet.Step{From: u, Dir: d}
		heap.Push(&r.pq, &nodeItem{at: v, dist: newDist})
	}
}

func (r *runner) tree() *Tree {
	return &Tree{Source: r.source, Dist: r.dist, Prev: r.prev}
}

// nodeItem is a heap entry: a vertex and the tentative distance it was pushed with.
type nodeItem struct {
	at   planet.Coordinate
	dist planet.Weight
}

// nodePQ is a min-heap ordered by (dist, coordinate).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

// Less orders by distance, then by coordinate, so the frontier order never
// depends on map iteration.
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].at.Less(pq[j].at)
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
