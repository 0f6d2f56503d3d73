package mission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kaczynskimat/robolab/engine"
	"github.com/kaczynskimat/robolab/mothership"
	"github.com/kaczynskimat/robolab/planet"
)

// Robot is the locomotion side of the explorer.
type Robot interface {
	// FollowLine drives to the next vertex and reports whether the path was
	// free or blocked. A blocked path ends where it started.
	FollowLine(ctx context.Context) (planet.Status, error)
	// Scan lists the directions with a line at the current vertex.
	Scan(ctx context.Context, orientation planet.Direction) ([]planet.Direction, error)
	// Turn rotates on the spot.
	Turn(ctx context.Context, from, to planet.Direction) error
}

// Odometry estimates the arrival endpoint of a free drive.
type Odometry interface {
	Estimate(ctx context.Context, start planet.Endpoint) (planet.Endpoint, error)
}

// Mothership is the server conversation, one Round per request.
type Mothership interface {
	Ready(ctx context.Context) (mothership.Round, error)
	SelectPath(ctx context.Context, at planet.Endpoint) (mothership.Round, error)
	Path(ctx context.Context, start, end planet.Endpoint, status planet.Status) (mothership.Round, error)
	TargetReached(ctx context.Context, message string) (mothership.Round, error)
	ExplorationCompleted(ctx context.Context, message string) (mothership.Round, error)
}

// ErrStepLimit is returned when the mission drove MaxSteps paths without
// finishing.
var ErrStepLimit = errors.New("mission: step limit reached")

// Reason tells why a mission ended.
type Reason string

const (
	TargetReached        Reason = "target reached"
	ExplorationCompleted Reason = "exploration completed"
	ServerDone           Reason = "server ended the run"
)

// Result summarises a finished mission.
type Result struct {
	Reason   Reason
	Planet   string
	Position planet.Coordinate
	Target   *planet.Coordinate
	Steps    int
	Cost     planet.Weight // sum of the weights of driven free paths
	Message  string        // final message from the server
}

// DefaultMaxSteps bounds a mission that would otherwise never end.
const DefaultMaxSteps = 1000

// Mission runs the exploration loop for one robot.
type Mission struct {
	robot    Robot
	odo      Odometry
	ms       Mothership
	eng      *engine.Engine
	logger   *slog.Logger
	maxSteps int

	// loop state
	pos    planet.Endpoint // vertex and orientation
	target *planet.Coordinate
	res    Result
}

// Option configures a Mission.
type Option func(*Mission)

// WithLogger sets the logger for the mission and its engine.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mission) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMaxSteps overrides DefaultMaxSteps. Zero removes the bound; negative
// values are ignored.
func WithMaxSteps(n int) Option {
	return func(m *Mission) {
		if n >= 0 {
			m.maxSteps = n
		}
	}
}

// New wires a mission. The engine starts empty.
func New(r Robot, o Odometry, ms Mothership, opts ...Option) *Mission {
	m := &Mission{
		robot:    r,
		odo:      o,
		ms:       ms,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.eng = engine.New(engine.WithLogger(m.logger))

	return m
}

// Engine exposes the map engine, e.g. to print the explored planet.
func (m *Mission) Engine() *engine.Engine { return m.eng }

// Run drives until the target is reached, nothing is left to explore or
// the server ends the run.
//
// Behavior:
//  1. Follow the line onto the start vertex, announce ready, scan.
//  2. Loop: choose a direction, let the server override it, drive, report
//     the path, ingest the server's correction and unveiled paths, and
//     choose again.
//  3. Announce targetReached or explorationCompleted.
func (m *Mission) Run(ctx context.Context) (Result, error) {
	// 1) Arrive at the start vertex.
	if _, err := m.robot.FollowLine(ctx); err != nil {
		return m.res, fmt.Errorf("mission: approach start: %w", err)
	}
	round, err := m.ms.Ready(ctx)
	if err != nil {
		return m.res, fmt.Errorf("mission: ready: %w", err)
	}
	if round.Start == nil {
		return m.res, fmt.Errorf("mission: ready: %w", mothership.ErrNoAnswer)
	}
	m.pos = *round.Start
	m.res.Planet = round.Planet
	m.logger.Info("mission: started", "planet", round.Planet, "start", m.pos.String())
	if round.Done {
		return m.serverDone(round), nil
	}

	if err := m.arrive(ctx, nil, round); err != nil {
		return m.res, err
	}
	dir, ok := m.eng.NextDirection(m.target, m.pos.Coord)

	// 2) Explore.
	for !m.onTarget() && ok {
		if m.maxSteps > 0 && m.res.Steps >= m.maxSteps {
			return m.res, fmt.Errorf("%w: %d", ErrStepLimit, m.maxSteps)
		}

		done, err := m.step(ctx, dir)
		if err != nil {
			return m.res, err
		}
		if done {
			return m.res, nil
		}
		dir, ok = m.eng.NextDirection(m.target, m.pos.Coord)
	}

	// 3) Announce.
	return m.finish(ctx)
}

// step drives one path in dir and ingests everything the server says about
// it. It reports true when the server ended the run.
func (m *Mission) step(ctx context.Context, dir planet.Direction) (bool, error) {
	sel, err := m.ms.SelectPath(ctx, planet.Endpoint{Coord: m.pos.Coord, Dir: dir})
	if err != nil {
		return false, fmt.Errorf("mission: pathSelect: %w", err)
	}
	if sel.Done {
		m.absorbTarget(sel)
		m.serverDone(sel)
		return true, nil
	}
	if sel.Forced != nil {
		m.logger.Info("mission: server forced direction", "at", m.pos.Coord.String(), "want", dir.String(), "forced", sel.Forced.String())
		dir = *sel.Forced
	}
	m.absorbTarget(sel)

	if err := m.robot.Turn(ctx, m.pos.Dir, dir); err != nil {
		return false, fmt.Errorf("mission: turn: %w", err)
	}
	status, err := m.robot.FollowLine(ctx)
	if err != nil {
		return false, fmt.Errorf("mission: follow line: %w", err)
	}

	start := planet.Endpoint{Coord: m.pos.Coord, Dir: dir}
	estimate := start
	if status != planet.StatusBlocked {
		if estimate, err = m.odo.Estimate(ctx, start); err != nil {
			return false, fmt.Errorf("mission: odometry: %w", err)
		}
	}

	round, err := m.ms.Path(ctx, start, estimate, status)
	if err != nil {
		return false, fmt.Errorf("mission: path: %w", err)
	}
	if round.Path == nil {
		return false, fmt.Errorf("mission: path: %w", mothership.ErrNoAnswer)
	}
	driven := *round.Path
	if err := m.eng.AddPath(driven.Start, driven.End, driven.Weight); err != nil {
		return false, fmt.Errorf("mission: record driven path: %w", err)
	}
	m.res.Steps++
	if !driven.Weight.IsBlocked() {
		m.res.Cost += driven.Weight
	}
	m.pos = planet.Endpoint{Coord: driven.End.Coord, Dir: driven.End.Dir.Opposite()}
	m.logger.Debug("mission: drove", "from", driven.Start.String(), "to", driven.End.String(), "weight", int64(driven.Weight))

	if round.Done {
		m.absorbTarget(round)
		m.serverDone(round)
		return true, nil
	}

	return false, m.arrive(ctx, &driven, round)
}

// arrive updates the bookkeeping for the current vertex: scan on the first
// visit, close the driven path, ingest unveiled paths.
func (m *Mission) arrive(ctx context.Context, driven *planet.Report, round mothership.Round) error {
	m.absorbTarget(round)
	m.res.Position = m.pos.Coord

	if !m.eng.IsVisited(m.pos.Coord) {
		scanned, err := m.robot.Scan(ctx, m.pos.Dir)
		if err != nil {
			return fmt.Errorf("mission: scan: %w", err)
		}
		if err := m.eng.RecordScan(m.pos.Coord, scanned); err != nil {
			return fmt.Errorf("mission: scan %s: %w", m.pos.Coord, err)
		}
	}
	if driven != nil {
		if err := m.eng.RemoveDrivenPaths(driven.Start, driven.End); err != nil {
			return fmt.Errorf("mission: close driven path: %w", err)
		}
	}
	if err := m.eng.HandleUnveiledPaths(round.Unveiled); err != nil {
		return fmt.Errorf("mission: unveiled paths: %w", err)
	}
	m.eng.PruneKnown(m.pos.Coord)

	return nil
}

// serverDone ends the run at the current position on the server's word.
func (m *Mission) serverDone(r mothership.Round) Result {
	m.res.Reason = ServerDone
	m.res.Position, m.res.Message = m.pos.Coord, r.Message
	m.logger.Info("mission: server ended the run", "message", r.Message, "at", m.pos.Coord.String())

	return m.res
}

func (m *Mission) absorbTarget(r mothership.Round) {
	if r.Target == nil {
		return
	}
	t := *r.Target
	m.target, m.res.Target = &t, &t
	m.logger.Info("mission: target assigned", "target", t.String())
}

func (m *Mission) onTarget() bool {
	return m.target != nil && *m.target == m.pos.Coord
}

func (m *Mission) finish(ctx context.Context) (Result, error) {
	var (
		round mothership.Round
		err   error
	)
	if m.onTarget() {
		m.res.Reason = TargetReached
		round, err = m.ms.TargetReached(ctx, fmt.Sprintf("reached %s", m.pos.Coord))
	} else {
		m.res.Reason = ExplorationCompleted
		round, err = m.ms.ExplorationCompleted(ctx, fmt.Sprintf("explored %d vertices", len(m.eng.Paths())))
	}
	if err != nil {
		return m.res, fmt.Errorf("mission: announce %s: %w", m.res.Reason, err)
	}
	m.res.Message = round.Message
	for _, note := range round.Debug {
		m.logger.Warn("mission: server note", "note", note)
	}
	m.logger.Info("mission: finished", "reason", string(m.res.Reason), "steps", m.res.Steps, "at", m.res.Position.String())

	return m.res, nil
}
