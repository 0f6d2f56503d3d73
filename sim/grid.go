package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kaczynskimat/robolab/planet"
)

// ErrGridSize is returned for grids smaller than 1×1.
var ErrGridSize = errors.New("sim: grid needs at least one column and one row")

// gridConfig holds the tunables of Grid.
type gridConfig struct {
	seed       int64
	minW, maxW int64
	blocked    float64
}

// GridOption configures Grid.
type GridOption func(*gridConfig)

// WithSeed fixes the random source; equal seeds give equal planets.
func WithSeed(seed int64) GridOption {
	return func(c *gridConfig) { c.seed = seed }
}

// WithWeights draws every free weight uniformly from [min, max].
// Ranges with min < 1 or max < min are ignored.
func WithWeights(min, max int64) GridOption {
	return func(c *gridConfig) {
		if min >= 1 && max >= min {
			c.minW, c.maxW = min, max
		}
	}
}

// WithBlockedRatio blocks each path with probability p in [0, 1).
func WithBlockedRatio(p float64) GridOption {
	return func(c *gridConfig) {
		if p >= 0 && p < 1 {
			c.blocked = p
		}
	}
}

// Grid builds a cols×rows orthogonal planet with its start at (0,0)
// facing north.
//
// Determinism:
//   - Vertices are visited in row-major order (y asc, then x asc).
//   - For each vertex the East path is emitted before the North path.
//   - Weights and blocks are drawn in that order from the seeded source.
func Grid(cols, rows int, opts ...GridOption) (*Planet, error) {
	// 1) Validate.
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridSize, cols, rows)
	}
	if cols == 1 && rows == 1 {
		return nil, fmt.Errorf("%w: a single vertex has no paths", ErrGridSize)
	}
	cfg := gridConfig{seed: 1, minW: 1, maxW: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	rng := rand.New(rand.NewSource(cfg.seed))

	p := &Planet{
		Name:   fmt.Sprintf("Grid%dx%d-%d", cols, rows, cfg.seed),
		Start:  planet.Endpoint{Coord: planet.Coordinate{}, Dir: planet.North},
		Truth:  planet.NewMap(),
		unveil: make(map[planet.Coordinate][]truthPath),
	}

	// 2) Emit East and North neighbours.
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			here := planet.Coordinate{X: x, Y: y}
			if x+1 < cols {
				p.addGridPath(rng, cfg,
					planet.Endpoint{Coord: here, Dir: planet.East},
					planet.Endpoint{Coord: planet.Coordinate{X: x + 1, Y: y}, Dir: planet.West})
			}
			if y+1 < rows {
				p.addGridPath(rng, cfg,
					planet.Endpoint{Coord: here, Dir: planet.North},
					planet.Endpoint{Coord: planet.Coordinate{X: x, Y: y + 1}, Dir: planet.South})
			}
		}
	}

	return p, nil
}

func (p *Planet) addGridPath(rng *rand.Rand, cfg gridConfig, from, to planet.Endpoint) {
	w := planet.Weight(cfg.minW)
	if cfg.maxW > cfg.minW {
		w += planet.Weight(rng.Int63n(cfg.maxW - cfg.minW + 1))
	}
	if cfg.blocked > 0 && rng.Float64() < cfg.blocked {
		w = planet.Blocked
	}
	// Endpoints are distinct and never repeated, so AddPath cannot fail.
	_ = p.Truth.AddPath(from, to, w)
	p.paths = append(p.paths, truthPath{from: from, to: to, weight: w})
}
