package sim

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kaczynskimat/robolab/planet"
)

// ErrBadPlanet is returned for planet files that do not describe a usable
// ground truth.
var ErrBadPlanet = errors.New("sim: bad planet")

// Planet is the ground truth of a simulated run.
type Planet struct {
	Name   string
	Start  planet.Endpoint // start vertex and initial heading
	Target *TargetRule
	Truth  *planet.Map

	unveil    map[planet.Coordinate][]truthPath
	overrides []override
	paths     []truthPath
}

// TargetRule sends At as target once the robot has driven After paths.
// After == 0 sends it together with the planet.
type TargetRule struct {
	At    planet.Coordinate
	After int
}

type truthPath struct {
	from, to planet.Endpoint
	weight   planet.Weight
}

type override struct {
	at  planet.Coordinate
	dir planet.Direction
}

// file is the YAML layout.
type file struct {
	Name  string `yaml:"name"`
	Start struct {
		X           int      `yaml:"x"`
		Y           int      `yaml:"y"`
		Orientation dirValue `yaml:"orientation"`
	} `yaml:"start"`
	Target *struct {
		X     int `yaml:"x"`
		Y     int `yaml:"y"`
		After int `yaml:"after"`
	} `yaml:"target"`
	Paths []struct {
		From     endpointValue `yaml:"from"`
		To       endpointValue `yaml:"to"`
		Weight   int64         `yaml:"weight"`
		UnveilAt []struct {
			X int `yaml:"x"`
			Y int `yaml:"y"`
		} `yaml:"unveil_at"`
	} `yaml:"paths"`
	Overrides []struct {
		X   int      `yaml:"x"`
		Y   int      `yaml:"y"`
		Dir dirValue `yaml:"dir"`
	} `yaml:"overrides"`
}

type endpointValue struct {
	X   int      `yaml:"x"`
	Y   int      `yaml:"y"`
	Dir dirValue `yaml:"dir"`
}

func (e endpointValue) endpoint() planet.Endpoint {
	return planet.Endpoint{Coord: planet.Coordinate{X: e.X, Y: e.Y}, Dir: planet.Direction(e.Dir)}
}

// dirValue accepts degrees (0, 90, 180, 270) or a name (north, n, ...).
type dirValue planet.Direction

func (d *dirValue) UnmarshalYAML(node *yaml.Node) error {
	v := strings.ToLower(strings.TrimSpace(node.Value))
	switch v {
	case "n", "north":
		*d = dirValue(planet.North)
		return nil
	case "e", "east":
		*d = dirValue(planet.East)
		return nil
	case "s", "south":
		*d = dirValue(planet.South)
		return nil
	case "w", "west":
		*d = dirValue(planet.West)
		return nil
	}
	deg, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("line %d: direction %q: %w", node.Line, node.Value, planet.ErrBadDirection)
	}
	pd, err := planet.ParseDirection(deg)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = dirValue(pd)

	return nil
}

// LoadPlanet reads a planet file.
func LoadPlanet(path string) (*Planet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: read planet: %w", err)
	}

	return ParsePlanet(data)
}

// ParsePlanet decodes and validates a planet description.
func ParsePlanet(data []byte) (*Planet, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPlanet, err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrBadPlanet)
	}
	if len(f.Paths) == 0 {
		return nil, fmt.Errorf("%w: no paths", ErrBadPlanet)
	}

	p := &Planet{
		Name:   f.Name,
		Start:  planet.Endpoint{Coord: planet.Coordinate{X: f.Start.X, Y: f.Start.Y}, Dir: planet.Direction(f.Start.Orientation)},
		Truth:  planet.NewMap(),
		unveil: make(map[planet.Coordinate][]truthPath),
	}

	for i, raw := range f.Paths {
		tp := truthPath{from: raw.From.endpoint(), to: raw.To.endpoint(), weight: planet.Weight(raw.Weight)}
		if tp.weight < planet.Blocked {
			return nil, fmt.Errorf("%w: path %d: weight %d", ErrBadPlanet, i, raw.Weight)
		}
		if err := p.Truth.AddPath(tp.from, tp.to, tp.weight); err != nil {
			return nil, fmt.Errorf("%w: path %d: %w", ErrBadPlanet, i, err)
		}
		p.paths = append(p.paths, tp)
		for _, at := range raw.UnveilAt {
			c := planet.Coordinate{X: at.X, Y: at.Y}
			p.unveil[c] = append(p.unveil[c], tp)
		}
	}
	if conflicts := p.Truth.Conflicts(); len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %s is described twice", ErrBadPlanet, conflicts[0].At)
	}
	if !p.Truth.HasVertex(p.Start.Coord) {
		return nil, fmt.Errorf("%w: start %s has no paths", ErrBadPlanet, p.Start.Coord)
	}

	if f.Target != nil {
		p.Target = &TargetRule{At: planet.Coordinate{X: f.Target.X, Y: f.Target.Y}, After: f.Target.After}
		if !p.Truth.HasVertex(p.Target.At) {
			return nil, fmt.Errorf("%w: target %s has no paths", ErrBadPlanet, p.Target.At)
		}
	}
	for _, o := range f.Overrides {
		p.overrides = append(p.overrides, override{at: planet.Coordinate{X: o.X, Y: o.Y}, dir: planet.Direction(o.Dir)})
	}

	return p, nil
}

// PathCount returns the number of paths in the ground truth.
func (p *Planet) PathCount() int { return len(p.paths) }
