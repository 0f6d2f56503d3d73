package engine

import "github.com/kaczynskimat/robolab/planet"

// SetPending lets tests prepare Visited without replaying a full drive.
func SetPending(e *Engine, c planet.Coordinate, dirs []planet.Direction) {
	e.visited[c] = append([]planet.Direction{}, dirs...)
}
