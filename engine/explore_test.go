package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaczynskimat/robolab/engine"
	"github.com/kaczynskimat/robolab/internal/fixture"
	"github.com/kaczynskimat/robolab/planet"
)

var (
	c = fixture.C
	e = fixture.E
)

// sampleEngine loads the reference planet and marks every vertex visited
// with nothing left to explore.
func sampleEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.New()
	for _, p := range fixture.SamplePaths() {
		require.NoError(t, eng.AddPath(p.From, p.To, p.Weight))
	}
	for v := range eng.Paths() {
		require.NoError(t, eng.RecordScan(v, nil))
	}

	return eng
}

func TestIntelligentExplore_LocalDirectionFirst(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.RecordScan(c(0, 0), []planet.Direction{planet.West, planet.North, planet.East}))

	d, ok := eng.IntelligentExplore(c(0, 0))
	require.True(t, ok)
	assert.Equal(t, planet.West, d, "first scanned direction is tried first")
}

func TestIntelligentExplore_Exhausted(t *testing.T) {
	eng := sampleEngine(t)
	for _, v := range []planet.Coordinate{c(0, 0), c(2, 1), c(3, 3)} {
		_, ok := eng.IntelligentExplore(v)
		assert.False(t, ok, "fully explored planet at %s", v)
	}
}

func TestIntelligentExplore_EmptyEngine(t *testing.T) {
	_, ok := engine.New().IntelligentExplore(c(0, 0))
	assert.False(t, ok)
}

func TestIntelligentExplore_NearestVisitedCandidate(t *testing.T) {
	eng := sampleEngine(t)
	// From (0,0): (1,2) costs 5, (3,3) costs 12.
	setPending(t, eng, c(3, 3), planet.North)
	setPending(t, eng, c(1, 2), planet.North)

	d, ok := eng.IntelligentExplore(c(0, 0))
	require.True(t, ok)
	route, err := eng.ShortestPath(c(0, 0), c(1, 2))
	require.NoError(t, err)
	assert.Equal(t, route[0].Dir, d)
}

func TestIntelligentExplore_UnvisitedCandidate(t *testing.T) {
	eng := sampleEngine(t)
	require.NoError(t, eng.HandleUnveiledPaths([]planet.Report{{
		Start:  e(3, 1, planet.North),
		End:    e(3, 2, planet.South),
		Weight: 2,
		Status: planet.Free,
	}}))
	require.Equal(t, []planet.Coordinate{c(3, 2)}, eng.Unvisited())

	d, ok := eng.IntelligentExplore(c(2, 0))
	require.True(t, ok)
	assert.Equal(t, planet.North, d, "(2,0) -> (2,1) -> (3,1) -> (3,2)")
}

func TestIntelligentExplore_UnreachableCandidateSkipped(t *testing.T) {
	eng := sampleEngine(t)
	require.NoError(t, eng.HandleUnveiledPaths([]planet.Report{{
		Start:  e(8, 8, planet.North),
		End:    e(8, 9, planet.South),
		Weight: 1,
		Status: planet.Free,
	}}))

	_, ok := eng.IntelligentExplore(c(0, 0))
	assert.False(t, ok, "a frontier on a disconnected island is not a direction")
}

func TestIntelligentExplore_EqualCostPrefersSmallerCoordinate(t *testing.T) {
	// From (1,1) both (1,0) and (1,2) are one vertical step (weight 1) away.
	eng := sampleEngine(t)
	setPending(t, eng, c(1, 2), planet.East)
	setPending(t, eng, c(1, 0), planet.South)

	for i := 0; i < 20; i++ {
		d, ok := eng.IntelligentExplore(c(1, 1))
		require.True(t, ok)
		assert.Equal(t, planet.South, d, "(1,0) sorts before (1,2)")
	}
}

func TestIntelligentExplore_BlockedRouteAvoided(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.AddPath(e(0, 0, planet.East), e(1, 0, planet.West), planet.Blocked))
	require.NoError(t, eng.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 1))
	require.NoError(t, eng.AddPath(e(0, 1, planet.East), e(1, 1, planet.West), 1))
	require.NoError(t, eng.AddPath(e(1, 1, planet.South), e(1, 0, planet.North), 1))
	require.NoError(t, eng.RecordScan(c(0, 0), nil))
	require.NoError(t, eng.RecordScan(c(0, 1), nil))
	require.NoError(t, eng.RecordScan(c(1, 1), nil))
	require.NoError(t, eng.RecordScan(c(1, 0), []planet.Direction{planet.East}))

	d, ok := eng.IntelligentExplore(c(0, 0))
	require.True(t, ok)
	assert.Equal(t, planet.North, d)
}

func TestNextDirection_TargetReachable(t *testing.T) {
	eng := sampleEngine(t)
	target := c(3, 1)
	d, ok := eng.NextDirection(&target, c(0, 0))
	require.True(t, ok)
	assert.Equal(t, planet.North, d)
}

func TestNextDirection_TargetUnreachableFallsBack(t *testing.T) {
	eng := sampleEngine(t)
	setPending(t, eng, c(0, 1), planet.West)

	target := c(9, 9)
	d, ok := eng.NextDirection(&target, c(0, 0))
	require.True(t, ok)
	assert.Equal(t, planet.North, d, "heads for the pending vertex (0,1)")

	d, ok = eng.NextDirection(nil, c(0, 1))
	require.True(t, ok)
	assert.Equal(t, planet.West, d)
}

func TestNextDirection_AtTargetExplores(t *testing.T) {
	eng := sampleEngine(t)
	target := c(0, 0)
	_, ok := eng.NextDirection(&target, c(0, 0))
	assert.False(t, ok, "empty route to target and nothing left to explore")
}

// setPending overwrites the unexplored list of an already visited vertex.
func setPending(t *testing.T, eng *engine.Engine, at planet.Coordinate, dirs ...planet.Direction) {
	t.Helper()
	require.True(t, eng.IsVisited(at))
	engine.SetPending(eng, at, dirs)
}
