// SPDX-License-Identifier: MIT
// File: map.go
// Role: the symmetric Graph Store.
// Determinism:
//   - Vertices() and Egress() return sorted results; map iteration order never leaks.
// Concurrency:
//   - Map is owned by a single control loop and is not synchronized.

package planet

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
)

// Map stores every path the robot knows about. Each AddPath writes both
// directed records, so whenever (A, dA) -> (B, dB, w) exists the record
// (B, dB) -> (A, dA, w) exists as well.
type Map struct {
	paths     map[Coordinate]map[Direction]Edge
	conflicts []Conflict
	logger    *slog.Logger
}

// Conflict records an AddPath that replaced an existing record with a
// different target or weight.
type Conflict struct {
	At  Endpoint
	Old Edge
	New Edge
}

// Option configures a Map.
type Option func(*Map)

// WithLogger routes conflict warnings to l.
func WithLogger(l *slog.Logger) Option {
	return func(m *Map) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMap returns an empty Map.
func NewMap(opts ...Option) *Map {
	m := &Map{
		paths:  make(map[Coordinate]map[Direction]Edge),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// AddPath inserts the path start <-> target with weight w in both
// directions. An existing record for either key is overwritten (last write
// wins); a differing record is logged and kept in Conflicts.
//
// Returns ErrZeroWeight for w == 0 and ErrBadDirection for an invalid
// direction. Nothing is written when an error is returned.
func (m *Map) AddPath(start, target Endpoint, w Weight) error {
	// 1) Validate before touching the store.
	if w == 0 {
		return fmt.Errorf("%w: %s -> %s", ErrZeroWeight, start, target)
	}
	if !start.Dir.Valid() || !target.Dir.Valid() {
		return fmt.Errorf("%w: %s -> %s", ErrBadDirection, start, target)
	}

	// 2) Write forward and reverse records.
	m.put(start, Edge{Target: target.Coord, TargetDir: target.Dir, Weight: w})
	m.put(target, Edge{Target: start.Coord, TargetDir: start.Dir, Weight: w})

	return nil
}

// put writes a single directed record and flags a conflicting overwrite.
func (m *Map) put(at Endpoint, e Edge) {
	egress, ok := m.paths[at.Coord]
	if !ok {
		egress = make(map[Direction]Edge, len(Directions))
		m.paths[at.Coord] = egress
	}
	if old, exists := egress[at.Dir]; exists && old != e {
		m.conflicts = append(m.conflicts, Conflict{At: at, Old: old, New: e})
		m.logger.Warn("planet: path record overwritten",
			"at", at.String(),
			"old_target", Endpoint{Coord: old.Target, Dir: old.TargetDir}.String(),
			"old_weight", int64(old.Weight),
			"new_target", Endpoint{Coord: e.Target, Dir: e.TargetDir}.String(),
			"new_weight", int64(e.Weight),
		)
	}
	egress[at.Dir] = e
}

// Paths returns a deep copy of the store. Mutating the result has no
// effect on the Map.
func (m *Map) Paths() Snapshot {
	out := make(Snapshot, len(m.paths))
	for c, egress := range m.paths {
		cp := make(map[Direction]Edge, len(egress))
		for d, e := range egress {
			cp[d] = e
		}
		out[c] = cp
	}

	return out
}

// Conflicts returns the overwrites observed so far, oldest first.
func (m *Map) Conflicts() []Conflict {
	out := make([]Conflict, len(m.conflicts))
	copy(out, m.conflicts)

	return out
}

// Len returns the number of known vertices.
func (m *Map) Len() int { return len(m.paths) }

// HasVertex reports whether c has at least one recorded path.
func (m *Map) HasVertex(c Coordinate) bool {
	_, ok := m.paths[c]

	return ok
}

// Edge returns the record for leaving c in direction d.
func (m *Map) Edge(c Coordinate, d Direction) (Edge, bool) {
	e, ok := m.paths[c][d]

	return e, ok
}

// Egress returns the recorded directions of c in canonical N, E, S, W order.
func (m *Map) Egress(c Coordinate) []Direction {
	egress := m.paths[c]
	out := make([]Direction, 0, len(egress))
	for _, d := range Directions {
		if _, ok := egress[d]; ok {
			out = append(out, d)
		}
	}

	return out
}

// Vertices returns every known coordinate sorted by Coordinate.Less.
func (m *Map) Vertices() []Coordinate {
	out := make([]Coordinate, 0, len(m.paths))
	for c := range m.paths {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}

// Cost sums the weights along r. A step without a record, or a step over
// a blocked path, means r was not produced from this Map and yields
// ErrInconsistent.
func (m *Map) Cost(r Route) (Weight, error) {
	var total Weight
	for i, s := range r {
		e, ok := m.Edge(s.From, s.Dir)
		if !ok {
			return 0, fmt.Errorf("%w: step %d leaves %s %s without a record", ErrInconsistent, i, s.From, s.Dir)
		}
		if e.Weight.IsBlocked() {
			return 0, fmt.Errorf("%w: step %d leaves %s %s over a blocked path", ErrInconsistent, i, s.From, s.Dir)
		}
		total += e.Weight
	}

	return total, nil
}
