// Package fixture builds small, deterministic planets shared by the tests
// of several packages.
package fixture

import (
	"github.com/kaczynskimat/robolab/planet"
)

// C is shorthand for a coordinate literal.
func C(x, y int) planet.Coordinate { return planet.Coordinate{X: x, Y: y} }

// E is shorthand for an endpoint literal.
func E(x, y int, d planet.Direction) planet.Endpoint {
	return planet.Endpoint{Coord: C(x, y), Dir: d}
}

// Path is one AddPath call.
type Path struct {
	From, To planet.Endpoint
	Weight   planet.Weight
}

// SamplePaths is the reference planet used throughout the tests:
//
//	                  2,3 --- 3,3
//	                   |
//	  0,2 --- 1,2 --- 2,2
//	   |       |       |
//	  0,1 --- 1,1 --- 2,1 --- 3,1
//	   |       |       |
//	  0,0 --- 1,0 --- 2,0
//
// Vertical paths weigh 1, horizontal paths weigh 3.
func SamplePaths() []Path {
	return []Path{
		{E(0, 0, planet.East), E(1, 0, planet.West), 3},
		{E(1, 0, planet.East), E(2, 0, planet.West), 3},
		{E(0, 0, planet.North), E(0, 1, planet.South), 1},
		{E(0, 1, planet.North), E(0, 2, planet.South), 1},
		{E(0, 1, planet.East), E(1, 1, planet.West), 3},
		{E(1, 0, planet.North), E(1, 1, planet.South), 1},
		{E(1, 1, planet.East), E(2, 1, planet.West), 3},
		{E(1, 1, planet.North), E(1, 2, planet.South), 1},
		{E(0, 2, planet.East), E(1, 2, planet.West), 3},
		{E(1, 2, planet.East), E(2, 2, planet.West), 3},
		{E(2, 1, planet.North), E(2, 2, planet.South), 1},
		{E(2, 2, planet.North), E(2, 3, planet.South), 1},
		{E(2, 1, planet.East), E(3, 1, planet.West), 3},
		{E(2, 3, planet.East), E(3, 3, planet.West), 3},
		{E(2, 1, planet.South), E(2, 0, planet.North), 1},
	}
}

// Load applies paths to m and panics on the first error; fixtures are
// static, so an error is a bug in the fixture itself.
func Load(m *planet.Map, paths []Path) *planet.Map {
	for _, p := range paths {
		if err := m.AddPath(p.From, p.To, p.Weight); err != nil {
			panic(err)
		}
	}

	return m
}

// SampleMap returns a fresh Map loaded with SamplePaths.
func SampleMap() *planet.Map {
	return Load(planet.NewMap(), SamplePaths())
}
