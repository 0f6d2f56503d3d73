package engine

import (
	"errors"
	"io"
	"log/slog"

	"github.com/kaczynskimat/robolab/dijkstra"
	"github.com/kaczynskimat/robolab/planet"
)

// ErrInconsistent indicates that an operation referenced bookkeeping the
// engine does not hold: a coordinate missing from Visited or Unvisited, or
// a direction that should be pending but is not. It is a defect, not a
// routing outcome.
var ErrInconsistent = errors.New("engine: inconsistent exploration state")

// Engine owns everything the robot knows during one exploration run: the
// Graph Store, the unexplored directions of every occupied vertex
// (Visited) and the vertices known only from reports (Unvisited).
//
// An Engine is owned by one control loop and is not safe for concurrent use.
type Engine struct {
	paths     *planet.Map
	visited   map[planet.Coordinate][]planet.Direction
	unvisited []planet.Coordinate
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for the engine and its Graph Store.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New returns an Engine with an empty map and empty bookkeeping.
func New(opts ...Option) *Engine {
	e := &Engine{
		visited: make(map[planet.Coordinate][]planet.Direction),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.paths = planet.NewMap(planet.WithLogger(e.logger))

	return e
}

// AddPath records a driven or reported path in the Graph Store.
func (e *Engine) AddPath(start, end planet.Endpoint, w planet.Weight) error {
	return e.paths.AddPath(start, end, w)
}

// Paths returns a detached copy of the Graph Store.
func (e *Engine) Paths() planet.Snapshot { return e.paths.Paths() }

// Conflicts returns the conflicting overwrites seen by the Graph Store.
func (e *Engine) Conflicts() []planet.Conflict { return e.paths.Conflicts() }

// ShortestPath routes over the current map. See dijkstra.ShortestPath.
func (e *Engine) ShortestPath(start, target planet.Coordinate) (planet.Route, error) {
	return dijkstra.ShortestPath(e.paths, start, target)
}

// Visited returns a deep copy of the unexplored-direction lists.
func (e *Engine) Visited() map[planet.Coordinate][]planet.Direction {
	out := make(map[planet.Coordinate][]planet.Direction, len(e.visited))
	for c, dirs := range e.visited {
		out[c] = append([]planet.Direction{}, dirs...)
	}

	return out
}

// Unexplored returns the pending directions of c and whether c has been
// occupied at all.
func (e *Engine) Unexplored(c planet.Coordinate) ([]planet.Direction, bool) {
	dirs, ok := e.visited[c]
	if !ok {
		return nil, false
	}

	return append([]planet.Direction{}, dirs...), true
}

// IsVisited reports whether the robot has occupied c.
func (e *Engine) IsVisited(c planet.Coordinate) bool {
	_, ok := e.visited[c]

	return ok
}

// Unvisited returns a copy of the coordinates known only from reports, in
// the order they were first reported.
func (e *Engine) Unvisited() []planet.Coordinate {
	return append([]planet.Coordinate{}, e.unvisited...)
}

func (e *Engine) unvisitedIndex(c planet.Coordinate) int {
	for i, u := range e.unvisited {
		if u == c {
			return i
		}
	}

	return -1
}

// removeDirection deletes the first occurrence of d from dirs.
func removeDirection(dirs []planet.Direction, d planet.Direction) ([]planet.Direction, bool) {
	for i, x := range dirs {
		if x == d {
			return append(dirs[:i:i], dirs[i+1:]...), true
		}
	}

	return dirs, false
}
