// Package engine is the Map Engine of the robolab explorer. It combines the
// Graph Store (package planet) and the shortest-path search (package
// dijkstra) with the bookkeeping needed to explore an unknown planet.
//
// What:
//
//   - Visited: for every vertex the robot has occupied, the directions it
//     scanned but has not yet driven, in scan order.
//   - Unvisited: vertices the mothership reported but the robot never reached,
//     in the order they were first reported.
//   - Exploration policy: IntelligentExplore and NextDirection.
//   - Discovery ingestion: HandleUnveiledPaths, RemoveIfBlocked,
//     RemoveDrivenPaths, plus RecordScan and PruneKnown for the control loop.
//
// Outcomes:
//
//   - No route and exhausted frontier are ordinary results (an error wrapping
//     dijkstra.ErrNoRoute, or false from the exploration calls).
//   - ErrInconsistent marks a bookkeeping defect and aborts the operation
//     before any state changes.
//
// Frontier tie-break:
//
//   - IntelligentExplore picks the candidate with the smallest route weight;
//     among equal weights the smaller coordinate (X, then Y) wins. The route
//     towards the winner follows the dijkstra tie-break.
//
// An Engine is created per run and owned by a single control loop.
package engine
