// SPDX-License-Identifier: MIT
// Package planet defines the Graph Store of the explorer: coordinates,
// directions, weights and the symmetric edge map the robot builds while
// it drives across an unknown planet.
//
// This file declares the value types and the sentinel errors.
//
// Errors:
//
//	ErrZeroWeight     - a weight of 0 was supplied (never produced by the server).
//	ErrBadDirection   - a direction outside {0, 90, 180, 270}.
//	ErrBadStatus      - a path status outside {free, blocked}.
//	ErrInconsistent   - the store does not hold data a caller relied on.
package planet

import (
	"errors"
	"fmt"
)

// Sentinel errors for planet operations.
var (
	// ErrZeroWeight indicates a weight of 0 was passed to AddPath.
	ErrZeroWeight = errors.New("planet: weight 0 is not a valid path weight")

	// ErrBadDirection indicates a direction that is not one of the four cardinal values.
	ErrBadDirection = errors.New("planet: direction must be one of 0, 90, 180, 270")

	// ErrBadStatus indicates a path status that is neither free nor blocked.
	ErrBadStatus = errors.New("planet: unknown path status")

	// ErrInconsistent indicates a lookup for data the store is expected to hold failed.
	ErrInconsistent = errors.New("planet: inconsistent map state")
)

// Coordinate identifies a vertex (grid intersection) on the planet.
type Coordinate struct {
	X, Y int
}

// Less orders coordinates by X, then Y. Every deterministic tie-break in
// the explorer is expressed through this order.
func (c Coordinate) Less(o Coordinate) bool {
	if c.X != o.X {
		return c.X < o.X
	}

	return c.Y < o.Y
}

// String renders the coordinate as "(x,y)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is a cardinal egress direction expressed in degrees.
type Direction int

const (
	North Direction = 0
	East  Direction = 90
	South Direction = 180
	West  Direction = 270
)

// Directions lists the four directions in canonical iteration order.
var Directions = [4]Direction{North, East, South, West}

// Valid reports whether d is one of the four cardinal directions.
func (d Direction) Valid() bool {
	return d == North || d == East || d == South || d == West
}

// Opposite returns (d + 180) mod 360.
func (d Direction) Opposite() Direction {
	return (d + 180) % 360
}

// String returns the upper-case direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	}

	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection validates a raw degree value.
func ParseDirection(deg int) (Direction, error) {
	d := Direction(deg)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrBadDirection, deg)
	}

	return d, nil
}

// Weight is the traversal cost of a path. Blocked marks a path that can never be driven.
type Weight int64

// Blocked is the weight the server assigns to an obstructed path.
const Blocked Weight = -1

// IsBlocked reports whether w marks a blocked path.
func (w Weight) IsBlocked() bool { return w == Blocked }

// Status is the outcome of driving a path.
type Status string

const (
	// Free means the robot reached another vertex.
	Free Status = "free"
	// StatusBlocked means the robot hit an obstacle and returned to its start vertex.
	StatusBlocked Status = "blocked"
)

// ParseStatus accepts "free", "blocked" and the locomotion alias "normal".
func ParseStatus(s string) (Status, error) {
	switch s {
	case string(Free), "normal":
		return Free, nil
	case string(StatusBlocked):
		return StatusBlocked, nil
	}

	return "", fmt.Errorf("%w: %q", ErrBadStatus, s)
}

// Endpoint is one end of a path: a vertex together with the direction the path leaves it.
type Endpoint struct {
	Coord Coordinate
	Dir   Direction
}

// String renders the endpoint as "(x,y)/DIR".
func (e Endpoint) String() string {
	return e.Coord.String() + "/" + e.Dir.String()
}

// Edge is the record stored under (vertex, direction): where leaving the
// vertex in that direction ends up and at what cost.
type Edge struct {
	Target    Coordinate
	TargetDir Direction
	Weight    Weight
}

// Report is one path as the mothership states it: the corrected drive
// of the robot or a path it unveils.
type Report struct {
	Start  Endpoint
	End    Endpoint
	Weight Weight
	Status Status
}

// Step is one departure of a route: leave From heading Dir.
type Step struct {
	From Coordinate
	Dir  Direction
}

// Route is an ordered list of departures from a start vertex to a target
// vertex. The final arrival vertex is not listed. A nil Route means no
// route; an empty non-nil Route means start and target coincide.
type Route []Step

// First returns the first departure direction, or false for an empty route.
func (r Route) First() (Direction, bool) {
	if len(r) == 0 {
		return 0, false
	}

	return r[0].Dir, true
}
