package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kaczynskimat/robolab/mothership"
	"github.com/kaczynskimat/robolab/planet"
)

// Mothership answers like the server would for the ground truth: it
// corrects driven paths, unveils paths, assigns the target and confirms
// the final announcement.
type Mothership struct {
	p      *Planet
	logger *slog.Logger

	pos        planet.Coordinate
	known      map[planet.Endpoint]bool
	drives     int
	targetSent bool
	used       []bool // per override
}

// Option configures a Mothership.
type Option func(*Mothership)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mothership) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMothership returns a server for p.
func NewMothership(p *Planet, opts ...Option) *Mothership {
	m := &Mothership{
		p:      p,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		known:  make(map[planet.Endpoint]bool),
		used:   make([]bool, len(p.overrides)),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Ready announces the planet and the start pose.
func (m *Mothership) Ready(ctx context.Context) (mothership.Round, error) {
	if err := ctx.Err(); err != nil {
		return mothership.Round{}, err
	}
	start := m.p.Start
	m.pos = start.Coord
	r := mothership.Round{Planet: m.p.Name, Start: &start}
	m.maybeTarget(&r)
	m.logger.Debug("sim: ready", "planet", m.p.Name, "start", start.String())

	return r, nil
}

// SelectPath applies the first unused override for the vertex, if any.
func (m *Mothership) SelectPath(ctx context.Context, at planet.Endpoint) (mothership.Round, error) {
	if err := ctx.Err(); err != nil {
		return mothership.Round{}, err
	}
	var r mothership.Round
	for i, o := range m.p.overrides {
		if m.used[i] || o.at != at.Coord {
			continue
		}
		m.used[i] = true
		if o.dir != at.Dir {
			d := o.dir
			r.Forced = &d
			m.logger.Debug("sim: direction overridden", "at", at.Coord.String(), "want", at.Dir.String(), "forced", d.String())
		}
		break
	}

	return r, nil
}

// Path replaces the robot's estimate with the ground truth and unveils the
// paths bound to the arrival vertex.
func (m *Mothership) Path(ctx context.Context, start, end planet.Endpoint, status planet.Status) (mothership.Round, error) {
	if err := ctx.Err(); err != nil {
		return mothership.Round{}, err
	}
	edge, ok := m.p.Truth.Edge(start.Coord, start.Dir)
	if !ok {
		return mothership.Round{Debug: []string{"error: no path at " + start.String()}},
			fmt.Errorf("%w: no path leaves %s", mothership.ErrNoAnswer, start)
	}

	rep := planet.Report{Start: start, End: start, Weight: planet.Blocked, Status: planet.StatusBlocked}
	if !edge.Weight.IsBlocked() {
		rep.End = planet.Endpoint{Coord: edge.Target, Dir: edge.TargetDir}
		rep.Weight, rep.Status = edge.Weight, planet.Free
	}
	r := mothership.Round{Path: &rep}
	if rep.End != end || rep.Status != status {
		r.Debug = append(r.Debug, fmt.Sprintf("notice: path corrected to %s", rep.End))
	}

	m.known[rep.Start], m.known[rep.End] = true, true
	m.pos = rep.End.Coord
	m.drives++

	for _, tp := range m.p.unveil[m.pos] {
		if m.known[tp.from] && m.known[tp.to] {
			continue
		}
		m.known[tp.from], m.known[tp.to] = true, true
		status := planet.Free
		if tp.weight.IsBlocked() {
			status = planet.StatusBlocked
		}
		r.Unveiled = append(r.Unveiled, planet.Report{Start: tp.from, End: tp.to, Weight: tp.weight, Status: status})
	}
	m.maybeTarget(&r)

	return r, nil
}

// TargetReached confirms the arrival when the robot really is on the target.
func (m *Mothership) TargetReached(ctx context.Context, message string) (mothership.Round, error) {
	if err := ctx.Err(); err != nil {
		return mothership.Round{}, err
	}
	if m.p.Target == nil || !m.targetSent || m.pos != m.p.Target.At {
		return mothership.Round{Debug: []string{"error: not on the target: " + message}}, nil
	}

	return mothership.Round{Done: true, Message: "Target reached"}, nil
}

// ExplorationCompleted always ends the run. Paths that were not reported
// from both ends are counted on the debug channel; a blocked path driven
// from one side only counts.
func (m *Mothership) ExplorationCompleted(ctx context.Context, message string) (mothership.Round, error) {
	if err := ctx.Err(); err != nil {
		return mothership.Round{}, err
	}
	r := mothership.Round{Done: true, Message: "Exploration completed"}
	missing := 0
	for _, tp := range m.p.paths {
		if !m.known[tp.from] || !m.known[tp.to] {
			missing++
		}
	}
	if missing > 0 {
		r.Debug = append(r.Debug, fmt.Sprintf("notice: %d of %d paths not fully reported", missing, m.p.PathCount()))
	}
	m.logger.Debug("sim: exploration completed", "message", message, "missing", missing)

	return r, nil
}

// Drives returns the number of confirmed paths.
func (m *Mothership) Drives() int { return m.drives }

func (m *Mothership) maybeTarget(r *mothership.Round) {
	if m.p.Target == nil || m.targetSent || m.drives < m.p.Target.After {
		return
	}
	m.targetSent = true
	at := m.p.Target.At
	r.Target = &at
}
