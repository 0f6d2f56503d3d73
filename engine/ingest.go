package engine

import (
	"fmt"

	"github.com/kaczynskimat/robolab/planet"
)

// HandleUnveiledPaths merges paths reported by the mothership.
//
// Behavior:
//  1. Validate every report (weight, directions, status). An invalid report
//     rejects the whole batch before anything is written.
//  2. Endpoint coordinates that are neither visited nor already unvisited
//     are appended to Unvisited.
//  3. Every report is written with AddPath, novel or not.
//  4. Each touched coordinate that has been visited loses the pending
//     directions that now carry a record.
//
// Applying the same batch twice leaves the engine as applying it once.
func (e *Engine) HandleUnveiledPaths(reports []planet.Report) error {
	// 1) Validate.
	for i, r := range reports {
		if err := validateReport(r); err != nil {
			return fmt.Errorf("engine: unveiled path %d (%s -> %s): %w", i, r.Start, r.End, err)
		}
	}

	// 2) + 3) Register novel vertices and write the paths.
	touched := make([]planet.Coordinate, 0, 2*len(reports))
	for _, r := range reports {
		for _, c := range [2]planet.Coordinate{r.Start.Coord, r.End.Coord} {
			touched = append(touched, c)
			if !e.IsVisited(c) && e.unvisitedIndex(c) < 0 {
				e.unvisited = append(e.unvisited, c)
				e.logger.Debug("engine: new unvisited vertex", "at", c.String())
			}
		}
		if err := e.paths.AddPath(r.Start, r.End, r.Weight); err != nil {
			return fmt.Errorf("engine: unveiled path %s -> %s: %w", r.Start, r.End, err)
		}
	}

	// 4) Pending directions with a record are no longer unexplored.
	for _, c := range touched {
		e.PruneKnown(c)
	}

	return nil
}

func validateReport(r planet.Report) error {
	if r.Weight == 0 {
		return planet.ErrZeroWeight
	}
	if !r.Start.Dir.Valid() || !r.End.Dir.Valid() {
		return planet.ErrBadDirection
	}
	if r.Status != planet.Free && r.Status != planet.StatusBlocked {
		return fmt.Errorf("%w: %q", planet.ErrBadStatus, r.Status)
	}

	return nil
}

// RemoveIfBlocked turns a reported vertex into a visited one after the
// robot scanned it: the scanned directions minus every direction already
// recorded as blocked become the vertex's unexplored list, and the vertex
// leaves Unvisited. The caller's slice is not modified.
//
// Returns ErrInconsistent, without changing anything, when c is not in
// Unvisited or a recorded blocked direction was not scanned.
func (e *Engine) RemoveIfBlocked(c planet.Coordinate, scanned []planet.Direction) error {
	idx := e.unvisitedIndex(c)
	if idx < 0 {
		return fmt.Errorf("%w: %s is not an unvisited vertex", ErrInconsistent, c)
	}

	remaining := append([]planet.Direction{}, scanned...)
	for _, d := range e.paths.Egress(c) {
		edge, _ := e.paths.Edge(c, d)
		if !edge.Weight.IsBlocked() {
			continue
		}
		var ok bool
		if remaining, ok = removeDirection(remaining, d); !ok {
			return fmt.Errorf("%w: blocked direction %s of %s was not scanned", ErrInconsistent, d, c)
		}
	}

	e.unvisited = append(e.unvisited[:idx:idx], e.unvisited[idx+1:]...)
	e.visited[c] = remaining
	e.logger.Debug("engine: reported vertex reached", "at", c.String(), "pending", len(remaining))

	return nil
}

// RemoveDrivenPaths marks both ends of a driven path as explored: the
// departure direction at start and, unless start and end are the same
// endpoint, the arrival direction at end.
//
// Unlike RemoveIfBlocked, a direction missing from the pending list is not
// an inconsistency here: driving a known path again is normal, so the list
// is left as it is.
//
// Returns ErrInconsistent, without changing anything, when either
// coordinate has never been visited.
func (e *Engine) RemoveDrivenPaths(start, end planet.Endpoint) error {
	if !e.IsVisited(start.Coord) {
		return fmt.Errorf("%w: departure %s was never visited", ErrInconsistent, start)
	}
	if !e.IsVisited(end.Coord) {
		return fmt.Errorf("%w: arrival %s was never visited", ErrInconsistent, end)
	}

	e.visited[start.Coord], _ = removeDirection(e.visited[start.Coord], start.Dir)
	if start != end {
		e.visited[end.Coord], _ = removeDirection(e.visited[end.Coord], end.Dir)
	}

	return nil
}

// RecordScan stores the directions scanned on the first arrival at c. A
// vertex known from reports goes through RemoveIfBlocked; any other vertex
// takes the scan as is. Scans of an already visited vertex are ignored.
func (e *Engine) RecordScan(c planet.Coordinate, scanned []planet.Direction) error {
	for _, d := range scanned {
		if !d.Valid() {
			return fmt.Errorf("engine: scan at %s: %w", c, planet.ErrBadDirection)
		}
	}
	if e.IsVisited(c) {
		e.logger.Debug("engine: rescan ignored", "at", c.String())
		return nil
	}
	if e.unvisitedIndex(c) >= 0 {
		return e.RemoveIfBlocked(c, scanned)
	}
	e.visited[c] = append([]planet.Direction{}, scanned...)

	return nil
}

// PruneKnown drops every pending direction of c that already has a record
// in the Graph Store. It is a no-op for vertices that were never visited.
func (e *Engine) PruneKnown(c planet.Coordinate) {
	dirs, ok := e.visited[c]
	if !ok {
		return
	}
	kept := dirs[:0:0]
	for _, d := range dirs {
		if _, known := e.paths.Edge(c, d); known {
			continue
		}
		kept = append(kept, d)
	}
	e.visited[c] = kept
}
