package mothership

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/kaczynskimat/robolab/planet"
)

// ErrNoAnswer is returned when the server stayed silent about something a
// request needs an answer to (the planet after ready, the corrected path
// after path).
var ErrNoAnswer = errors.New("mothership: no answer")

// DefaultQuietPeriod is how long a Session waits for further server
// messages after the last one.
const DefaultQuietPeriod = 3 * time.Second

// Round is everything the server said in reply to one client request.
type Round struct {
	Planet   string             // set by a planet message
	Start    *planet.Endpoint   // start vertex and orientation from the planet message
	Path     *planet.Report     // server-corrected driven path
	Unveiled []planet.Report    // pathUnveiled, in arrival order
	Target   *planet.Coordinate // last target message
	Forced   *planet.Direction  // pathSelect override
	Done     bool
	Message  string   // text of the done message
	Debug    []string // debug channel notes
}

// merge folds a later round into r.
func (r *Round) merge(o Round) {
	if o.Planet != "" {
		r.Planet, r.Start = o.Planet, o.Start
	}
	if o.Path != nil {
		r.Path = o.Path
	}
	r.Unveiled = append(r.Unveiled, o.Unveiled...)
	if o.Target != nil {
		r.Target = o.Target
	}
	if o.Forced != nil {
		r.Forced = o.Forced
	}
	if o.Done {
		r.Done, r.Message = true, o.Message
	}
	r.Debug = append(r.Debug, o.Debug...)
}

// Session speaks the request/response protocol on top of a Transport:
// every request is published, then server messages are gathered until the
// quiet period passes without a new one.
type Session struct {
	t          Transport
	group      string
	planetName string
	quiet      time.Duration
	logger     *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithQuietPeriod overrides DefaultQuietPeriod. Non-positive values are ignored.
func WithQuietPeriod(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.quiet = d
		}
	}
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession binds a Session to a group on an open transport.
func NewSession(t Transport, group string, opts ...SessionOption) *Session {
	s := &Session{
		t:      t,
		group:  group,
		quiet:  DefaultQuietPeriod,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// PlanetName returns the planet announced after Ready, or "".
func (s *Session) PlanetName() string { return s.planetName }

// Open subscribes to the group channel. It must be called before any
// request.
func (s *Session) Open(ctx context.Context) error {
	return s.t.Subscribe(ctx, ExplorerTopic(s.group))
}

// TestPlanet asks the server to serve the named test planet on the next
// ready. The server does not answer.
func (s *Session) TestPlanet(ctx context.Context, name string) error {
	return s.publish(ctx, ExplorerTopic(s.group), TypeTestPlanet, TestPlanetPayload{PlanetName: name})
}

// Ready announces the robot on its first vertex and subscribes to the
// planet channel the server names.
func (s *Session) Ready(ctx context.Context) (Round, error) {
	r, err := s.request(ctx, ExplorerTopic(s.group), TypeReady, nil)
	if err != nil {
		return r, err
	}
	if r.Start == nil {
		return r, fmt.Errorf("%w: ready got no planet", ErrNoAnswer)
	}
	s.planetName = r.Planet
	if err := s.t.Subscribe(ctx, PlanetTopic(s.planetName, s.group)); err != nil {
		return r, err
	}
	s.logger.Info("mothership: planet assigned", "planet", r.Planet, "start", r.Start.String())

	return r, nil
}

// SelectPath tells the server which direction the robot will take at. The
// round carries a Forced direction when the server overrides it.
func (s *Session) SelectPath(ctx context.Context, at planet.Endpoint) (Round, error) {
	return s.request(ctx, s.planetTopic(), TypePathSelect, NewSelectPayload(at))
}

// Path reports a driven path as estimated by the robot. The round carries
// the server's correction in Path.
func (s *Session) Path(ctx context.Context, start, end planet.Endpoint, status planet.Status) (Round, error) {
	r, err := s.request(ctx, s.planetTopic(), TypePath, NewPathPayload(start, end, status))
	if err != nil {
		return r, err
	}
	if r.Path == nil {
		return r, fmt.Errorf("%w: path %s -> %s not confirmed", ErrNoAnswer, start, end)
	}

	return r, nil
}

// TargetReached announces arrival at the assigned target.
func (s *Session) TargetReached(ctx context.Context, message string) (Round, error) {
	return s.request(ctx, ExplorerTopic(s.group), TypeTargetReached, MessagePayload{Message: message})
}

// ExplorationCompleted announces that nothing reachable is left to explore.
func (s *Session) ExplorationCompleted(ctx context.Context, message string) (Round, error) {
	return s.request(ctx, ExplorerTopic(s.group), TypeExplorationCompleted, MessagePayload{Message: message})
}

func (s *Session) planetTopic() string {
	return PlanetTopic(s.planetName, s.group)
}

func (s *Session) publish(ctx context.Context, topic, typ string, payload any) error {
	data, err := Encode(FromClient, typ, payload)
	if err != nil {
		return err
	}

	return s.t.Publish(ctx, topic, data)
}

func (s *Session) request(ctx context.Context, topic, typ string, payload any) (Round, error) {
	if err := s.publish(ctx, topic, typ, payload); err != nil {
		return Round{}, err
	}

	return s.gather(ctx)
}

// gather collects server messages until the quiet period passes without
// one. Echoes of client messages and undecodable messages do not extend
// the wait.
func (s *Session) gather(ctx context.Context) (Round, error) {
	var round Round
	timer := time.NewTimer(s.quiet)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return round, ctx.Err()
		case <-timer.C:
			return round, nil
		case m, ok := <-s.t.Messages():
			if !ok {
				return round, fmt.Errorf("%w: transport closed", ErrNotConnected)
			}
			env, err := Decode(m.Payload)
			if err != nil {
				s.logger.Warn("mothership: dropping message", "topic", m.Topic, "err", err)
				continue
			}
			if env.From == FromClient {
				continue
			}
			part, err := s.interpret(env)
			if err != nil {
				s.logger.Warn("mothership: dropping message", "topic", m.Topic, "type", env.Type, "err", err)
				continue
			}
			round.merge(part)
			timer.Reset(s.quiet)
		}
	}
}

// interpret turns one server or debug envelope into a partial Round.
func (s *Session) interpret(env Envelope) (Round, error) {
	var r Round
	if env.From == FromDebug {
		var p MessagePayload
		s.unpackMessage(env, &p)
		note := env.Type + ": " + p.Message
		if env.Type == "error" {
			s.logger.Warn("mothership: server reports error", "message", p.Message)
		} else {
			s.logger.Debug("mothership: debug", "note", note)
		}
		r.Debug = []string{note}

		return r, nil
	}

	switch env.Type {
	case TypePlanet:
		var p PlanetPayload
		if err := env.Unpack(&p); err != nil {
			return r, err
		}
		start, err := p.Start()
		if err != nil {
			return r, err
		}
		r.Planet, r.Start = p.PlanetName, &start

	case TypePath:
		var p PathPayload
		if err := env.Unpack(&p); err != nil {
			return r, err
		}
		rep, err := p.Report()
		if err != nil {
			return r, err
		}
		r.Path = &rep

	case TypePathUnveiled:
		var p PathPayload
		if err := env.Unpack(&p); err != nil {
			return r, err
		}
		rep, err := p.Report()
		if err != nil {
			return r, err
		}
		r.Unveiled = []planet.Report{rep}

	case TypePathSelect:
		var p SelectPayload
		if err := env.Unpack(&p); err != nil {
			return r, err
		}
		d, err := p.Direction()
		if err != nil {
			return r, err
		}
		r.Forced = &d

	case TypeTarget:
		var p TargetPayload
		if err := env.Unpack(&p); err != nil {
			return r, err
		}
		c := p.Coordinate()
		r.Target = &c

	case TypeDone:
		var p MessagePayload
		s.unpackMessage(env, &p)
		r.Done, r.Message = true, p.Message

	default:
		return r, fmt.Errorf("%w: unknown type %q", ErrMalformed, env.Type)
	}

	return r, nil
}

// unpackMessage reads an optional message payload. Without a payload p
// stays empty; a malformed one is logged and otherwise ignored.
func (s *Session) unpackMessage(env Envelope, p *MessagePayload) {
	if len(env.Payload) == 0 {
		return
	}
	if err := env.Unpack(p); err != nil {
		s.logger.Debug("mothership: ignoring message payload", "from", env.From, "type", env.Type, "err", err)
	}
}
