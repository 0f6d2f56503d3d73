// Package dijkstra computes minimum-cost routes over the partial planet the
// robot has discovered so far.
//
// Overview:
//
//   - ShortestPath returns the departures (vertex, direction) that lead from a
//     start vertex to a target vertex at minimum total weight.
//   - Search runs the same algorithm to exhaustion and returns a Tree, so a
//     caller that needs routes to many targets from one vertex pays for a
//     single search.
//
// Result shapes:
//
//   - ErrNoRoute:        the map is empty, the target is unknown, or the target
//     is disconnected from the start with current knowledge.
//   - empty route:       start equals target. This is not an error.
//   - non-empty route:   one step per driven path. The arrival vertex is not
//     listed.
//
// Tie-break policy:
//
//   - The frontier is a min-heap keyed by (distance, X, Y). Among vertices with
//     equal tentative distance the one with the smaller coordinate is finalized
//     first.
//   - Egress is relaxed in N, E, S, W order and predecessors change only on a
//     strictly shorter distance.
//   - Together these make the chosen route among equal-cost alternatives a pure
//     function of the map contents: repeated calls on the same map return the
//     same route.
//
// Complexity:
//
//   - Time:  O((V + E) log V), E ≤ 4V on a grid.
//   - Space: O(V + E) for distances, predecessors and the lazy heap.
//
// Thread safety:
//
//   - The search only reads the map. It is not safe to mutate the map
//     concurrently with a search.
package dijkstra
