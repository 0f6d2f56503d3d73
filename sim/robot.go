package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaczynskimat/robolab/planet"
)

// Robot errors.
var (
	// ErrNoLine is returned when the robot is asked to drive where no path leaves.
	ErrNoLine = errors.New("sim: no line in that direction")

	// ErrPose is returned when the caller's idea of the heading differs from the robot's.
	ErrPose = errors.New("sim: heading mismatch")
)

// Robot drives on the ground truth. It starts on the line leading to the
// start vertex, so the first FollowLine only arrives there.
type Robot struct {
	p       *Planet
	pose    planet.Endpoint // vertex and current heading
	arrived bool
	drives  int
}

// NewRobot places a robot in front of the start vertex of p.
func NewRobot(p *Planet) *Robot {
	return &Robot{p: p, pose: p.Start}
}

// Pose returns the current vertex and heading.
func (r *Robot) Pose() planet.Endpoint { return r.pose }

// Drives returns how many paths were driven, bounces included.
func (r *Robot) Drives() int { return r.drives }

// FollowLine drives along the heading to the next vertex. A blocked path
// sends the robot back to where it started, now facing the other way.
func (r *Robot) FollowLine(ctx context.Context) (planet.Status, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !r.arrived {
		r.arrived = true
		return planet.Free, nil
	}

	edge, ok := r.p.Truth.Edge(r.pose.Coord, r.pose.Dir)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoLine, r.pose)
	}
	r.drives++
	if edge.Weight.IsBlocked() {
		r.pose.Dir = r.pose.Dir.Opposite()
		return planet.StatusBlocked, nil
	}
	r.pose = planet.Endpoint{Coord: edge.Target, Dir: edge.TargetDir.Opposite()}

	return planet.Free, nil
}

// Scan lists the directions with a line at the current vertex, turning
// clockwise from orientation. Blocked paths have a line too.
func (r *Robot) Scan(ctx context.Context, orientation planet.Direction) ([]planet.Direction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if orientation != r.pose.Dir {
		return nil, fmt.Errorf("%w: scan facing %s, robot faces %s", ErrPose, orientation, r.pose.Dir)
	}

	var out []planet.Direction
	for i := 0; i < len(planet.Directions); i++ {
		d := (orientation + planet.Direction(90*i)) % 360
		if _, ok := r.p.Truth.Edge(r.pose.Coord, d); ok {
			out = append(out, d)
		}
	}

	return out, nil
}

// Turn rotates the robot on the spot.
func (r *Robot) Turn(ctx context.Context, from, to planet.Direction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if from != r.pose.Dir {
		return fmt.Errorf("%w: turn from %s, robot faces %s", ErrPose, from, r.pose.Dir)
	}
	if !to.Valid() {
		return fmt.Errorf("sim: turn: %w", planet.ErrBadDirection)
	}
	r.pose.Dir = to

	return nil
}

// Odometry reports the robot's true arrival, as perfect odometry would.
type Odometry struct {
	r *Robot
}

// NewOdometry returns odometry for r.
func NewOdometry(r *Robot) *Odometry { return &Odometry{r: r} }

// Estimate returns the endpoint the robot arrived through after leaving
// start. The arrival side is opposite to the current heading.
func (o *Odometry) Estimate(ctx context.Context, start planet.Endpoint) (planet.Endpoint, error) {
	if err := ctx.Err(); err != nil {
		return planet.Endpoint{}, err
	}

	return planet.Endpoint{Coord: o.r.pose.Coord, Dir: o.r.pose.Dir.Opposite()}, nil
}
