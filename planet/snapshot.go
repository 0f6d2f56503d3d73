// SPDX-License-Identifier: MIT

package planet

import (
	"fmt"
	"sort"
	"strings"
)

// Snapshot is a detached copy of the Graph Store, as returned by Map.Paths.
type Snapshot map[Coordinate]map[Direction]Edge

// Symmetric reports the first record whose reverse record is missing or
// differs. It returns nil for a consistent snapshot.
func (s Snapshot) Symmetric() error {
	for _, c := range s.sortedCoords() {
		for _, d := range Directions {
			e, ok := s[c][d]
			if !ok {
				continue
			}
			back, ok := s[e.Target][e.TargetDir]
			if !ok || back.Target != c || back.TargetDir != d || back.Weight != e.Weight {
				return fmt.Errorf("%w: %s has no matching reverse record", ErrInconsistent, Endpoint{Coord: c, Dir: d})
			}
		}
	}

	return nil
}

// String renders the snapshot one vertex per line in sorted order, for
// diagnostics and golden tests.
func (s Snapshot) String() string {
	var b strings.Builder
	for _, c := range s.sortedCoords() {
		b.WriteString(c.String())
		b.WriteString(":")
		for _, d := range Directions {
			e, ok := s[c][d]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, " %s->%s/%s(%d)", d, e.Target, e.TargetDir, e.Weight)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (s Snapshot) sortedCoords() []Coordinate {
	out := make([]Coordinate, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })

	return out
}
