// Package planet is the Graph Store of the robolab explorer.
//
// What:
//
//   - Coordinate, Direction, Weight and Endpoint describe a grid vertex and
//     the paths leaving it.
//   - Map keeps every known path as two directed records, one per endpoint,
//     so the store is always symmetric.
//   - Snapshot is a detached copy of the store for inspection and tests.
//
// Weights:
//
//   - Blocked (-1) marks a path that exists but can never be driven.
//   - Positive values are traversal costs.
//   - 0 never comes from the server and is rejected with ErrZeroWeight.
//
// Overwrites:
//
//   - AddPath is last-write-wins. An overwrite that changes the target or the
//     weight of a record is logged at WARN and kept in Map.Conflicts.
//
// Example:
//
//	m := planet.NewMap()
//	_ = m.AddPath(
//	    planet.Endpoint{Coord: planet.Coordinate{X: 0, Y: 0}, Dir: planet.North},
//	    planet.Endpoint{Coord: planet.Coordinate{X: 0, Y: 1}, Dir: planet.South},
//	    1,
//	)
package planet
