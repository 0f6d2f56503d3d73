package mothership

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/kaczynskimat/robolab/planet"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Senders as they appear in the envelope "from" field.
const (
	FromClient = "client"
	FromServer = "server"
	FromDebug  = "debug"
)

// Message types.
const (
	TypeReady                = "ready"
	TypeTestPlanet           = "testPlanet"
	TypePlanet               = "planet"
	TypePath                 = "path"
	TypePathSelect           = "pathSelect"
	TypePathUnveiled         = "pathUnveiled"
	TypeTarget               = "target"
	TypeTargetReached        = "targetReached"
	TypeExplorationCompleted = "explorationCompleted"
	TypeDone                 = "done"
)

// ErrMalformed is returned for envelopes and payloads that cannot be
// decoded or carry values outside the protocol.
var ErrMalformed = errors.New("mothership: malformed message")

// Envelope is the outer JSON object of every message.
type Envelope struct {
	From    string              `json:"from"`
	Type    string              `json:"type"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

// PlanetPayload answers a ready message.
type PlanetPayload struct {
	PlanetName       string `json:"planetName"`
	StartX           int    `json:"startX"`
	StartY           int    `json:"startY"`
	StartOrientation int    `json:"startOrientation"`
}

// PathPayload is used by path (both ways) and pathUnveiled. The client
// leaves PathWeight out; the server always sets it.
type PathPayload struct {
	StartX         int    `json:"startX"`
	StartY         int    `json:"startY"`
	StartDirection int    `json:"startDirection"`
	EndX           int    `json:"endX"`
	EndY           int    `json:"endY"`
	EndDirection   int    `json:"endDirection"`
	PathStatus     string `json:"pathStatus"`
	PathWeight     int64  `json:"pathWeight,omitempty"`
}

// SelectPayload carries the direction the client wants to take at a vertex
// and, in the server's answer, the direction it has to take instead.
type SelectPayload struct {
	StartX         int `json:"startX"`
	StartY         int `json:"startY"`
	StartDirection int `json:"startDirection"`
}

// TargetPayload assigns a target vertex.
type TargetPayload struct {
	TargetX int `json:"targetX"`
	TargetY int `json:"targetY"`
}

// MessagePayload is the free text of targetReached, explorationCompleted,
// done and debug messages.
type MessagePayload struct {
	Message string `json:"message"`
}

// TestPlanetPayload asks the server to load a named test planet.
type TestPlanetPayload struct {
	PlanetName string `json:"planetName"`
}

// Encode builds a complete message. A nil payload is omitted.
func Encode(from, typ string, payload any) ([]byte, error) {
	env := Envelope{From: from, Type: typ}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("mothership: encode %s payload: %w", typ, err)
		}
		env.Payload = raw
	}

	return json.Marshal(env)
}

// Decode parses the envelope of a message; the payload stays raw until
// Unpack is called.
func Decode(data []byte) (Envelope, error) {
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("%w: empty message", ErrMalformed)
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.From == "" || env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing from or type", ErrMalformed)
	}

	return env, nil
}

// Unpack decodes the payload into v.
func (e Envelope) Unpack(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%w: %s without payload", ErrMalformed, e.Type)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrMalformed, e.Type, err)
	}

	return nil
}

// Start returns the start pose announced by the planet message.
func (p PlanetPayload) Start() (planet.Endpoint, error) {
	d, err := planet.ParseDirection(p.StartOrientation)
	if err != nil {
		return planet.Endpoint{}, fmt.Errorf("%w: startOrientation: %v", ErrMalformed, err)
	}

	return planet.Endpoint{Coord: planet.Coordinate{X: p.StartX, Y: p.StartY}, Dir: d}, nil
}

// NewPathPayload is the client side of a path message.
func NewPathPayload(start, end planet.Endpoint, status planet.Status) PathPayload {
	return PathPayload{
		StartX:         start.Coord.X,
		StartY:         start.Coord.Y,
		StartDirection: int(start.Dir),
		EndX:           end.Coord.X,
		EndY:           end.Coord.Y,
		EndDirection:   int(end.Dir),
		PathStatus:     string(status),
	}
}

// Report converts a server path or pathUnveiled payload into the form the
// engine ingests. Only structural checks happen here; weights are checked
// by the engine.
func (p PathPayload) Report() (planet.Report, error) {
	sd, err := planet.ParseDirection(p.StartDirection)
	if err != nil {
		return planet.Report{}, fmt.Errorf("%w: startDirection: %v", ErrMalformed, err)
	}
	ed, err := planet.ParseDirection(p.EndDirection)
	if err != nil {
		return planet.Report{}, fmt.Errorf("%w: endDirection: %v", ErrMalformed, err)
	}
	status, err := planet.ParseStatus(p.PathStatus)
	if err != nil {
		return planet.Report{}, fmt.Errorf("%w: pathStatus: %v", ErrMalformed, err)
	}

	return planet.Report{
		Start:  planet.Endpoint{Coord: planet.Coordinate{X: p.StartX, Y: p.StartY}, Dir: sd},
		End:    planet.Endpoint{Coord: planet.Coordinate{X: p.EndX, Y: p.EndY}, Dir: ed},
		Weight: planet.Weight(p.PathWeight),
		Status: status,
	}, nil
}

// NewSelectPayload is the client side of a pathSelect message.
func NewSelectPayload(at planet.Endpoint) SelectPayload {
	return SelectPayload{StartX: at.Coord.X, StartY: at.Coord.Y, StartDirection: int(at.Dir)}
}

// Direction returns the direction the server forces.
func (p SelectPayload) Direction() (planet.Direction, error) {
	d, err := planet.ParseDirection(p.StartDirection)
	if err != nil {
		return 0, fmt.Errorf("%w: startDirection: %v", ErrMalformed, err)
	}

	return d, nil
}

// Coordinate returns the assigned target.
func (p TargetPayload) Coordinate() planet.Coordinate {
	return planet.Coordinate{X: p.TargetX, Y: p.TargetY}
}
