package planet_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaczynskimat/robolab/internal/fixture"
	"github.com/kaczynskimat/robolab/planet"
)

var (
	c = fixture.C
	e = fixture.E
)

func TestMap_EmptyPlanet(t *testing.T) {
	m := planet.NewMap()
	assert.Empty(t, m.Paths())
	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Vertices())
}

func TestMap_Integrity(t *testing.T) {
	m := fixture.SampleMap()

	want := planet.Snapshot{
		c(0, 0): {
			planet.East:  {Target: c(1, 0), TargetDir: planet.West, Weight: 3},
			planet.North: {Target: c(0, 1), TargetDir: planet.South, Weight: 1},
		},
		c(0, 1): {
			planet.South: {Target: c(0, 0), TargetDir: planet.North, Weight: 1},
			planet.North: {Target: c(0, 2), TargetDir: planet.South, Weight: 1},
			planet.East:  {Target: c(1, 1), TargetDir: planet.West, Weight: 3},
		},
		c(1, 0): {
			planet.West:  {Target: c(0, 0), TargetDir: planet.East, Weight: 3},
			planet.East:  {Target: c(2, 0), TargetDir: planet.West, Weight: 3},
			planet.North: {Target: c(1, 1), TargetDir: planet.South, Weight: 1},
		},
		c(1, 1): {
			planet.West:  {Target: c(0, 1), TargetDir: planet.East, Weight: 3},
			planet.East:  {Target: c(2, 1), TargetDir: planet.West, Weight: 3},
			planet.South: {Target: c(1, 0), TargetDir: planet.North, Weight: 1},
			planet.North: {Target: c(1, 2), TargetDir: planet.South, Weight: 1},
		},
		c(2, 0): {
			planet.West:  {Target: c(1, 0), TargetDir: planet.East, Weight: 3},
			planet.North: {Target: c(2, 1), TargetDir: planet.South, Weight: 1},
		},
		c(0, 2): {
			planet.East:  {Target: c(1, 2), TargetDir: planet.West, Weight: 3},
			planet.South: {Target: c(0, 1), TargetDir: planet.North, Weight: 1},
		},
		c(1, 2): {
			planet.West:  {Target: c(0, 2), TargetDir: planet.East, Weight: 3},
			planet.South: {Target: c(1, 1), TargetDir: planet.North, Weight: 1},
			planet.East:  {Target: c(2, 2), TargetDir: planet.West, Weight: 3},
		},
		c(2, 1): {
			planet.West:  {Target: c(1, 1), TargetDir: planet.East, Weight: 3},
			planet.East:  {Target: c(3, 1), TargetDir: planet.West, Weight: 3},
			planet.South: {Target: c(2, 0), TargetDir: planet.North, Weight: 1},
			planet.North: {Target: c(2, 2), TargetDir: planet.South, Weight: 1},
		},
		c(3, 1): {
			planet.West: {Target: c(2, 1), TargetDir: planet.East, Weight: 3},
		},
		c(2, 2): {
			planet.South: {Target: c(2, 1), TargetDir: planet.North, Weight: 1},
			planet.West:  {Target: c(1, 2), TargetDir: planet.East, Weight: 3},
			planet.North: {Target: c(2, 3), TargetDir: planet.South, Weight: 1},
		},
		c(2, 3): {
			planet.South: {Target: c(2, 2), TargetDir: planet.North, Weight: 1},
			planet.East:  {Target: c(3, 3), TargetDir: planet.West, Weight: 3},
		},
		c(3, 3): {
			planet.West: {Target: c(2, 3), TargetDir: planet.East, Weight: 3},
		},
	}
	assert.Equal(t, want, m.Paths())
}

func TestMap_Symmetry(t *testing.T) {
	m := fixture.SampleMap()
	require.NoError(t, m.AddPath(e(3, 3, planet.North), e(3, 3, planet.East), planet.Blocked))
	require.NoError(t, m.AddPath(e(0, 2, planet.West), e(0, 2, planet.North), 2))

	snap := m.Paths()
	require.NoError(t, snap.Symmetric())

	for _, p := range fixture.SamplePaths() {
		fwd, ok := m.Edge(p.From.Coord, p.From.Dir)
		require.True(t, ok)
		back, ok := m.Edge(p.To.Coord, p.To.Dir)
		require.True(t, ok)
		assert.Equal(t, p.Weight, fwd.Weight)
		assert.Equal(t, fwd.Weight, back.Weight)
		assert.Equal(t, p.To.Coord, fwd.Target)
		assert.Equal(t, p.From.Coord, back.Target)
	}
}

func TestMap_SelfLoop(t *testing.T) {
	m := planet.NewMap()
	require.NoError(t, m.AddPath(e(0, 3, planet.North), e(0, 3, planet.West), 1))

	assert.Equal(t, []planet.Direction{planet.North, planet.West}, m.Egress(c(0, 3)))
	got, ok := m.Edge(c(0, 3), planet.West)
	require.True(t, ok)
	assert.Equal(t, planet.Edge{Target: c(0, 3), TargetDir: planet.North, Weight: 1}, got)
}

func TestMap_RejectsZeroWeight(t *testing.T) {
	m := planet.NewMap()
	err := m.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 0)
	assert.ErrorIs(t, err, planet.ErrZeroWeight)
	assert.Empty(t, m.Paths(), "a rejected path must not be written")
}

func TestMap_RejectsBadDirection(t *testing.T) {
	m := planet.NewMap()
	err := m.AddPath(e(0, 0, planet.Direction(45)), e(0, 1, planet.South), 2)
	assert.ErrorIs(t, err, planet.ErrBadDirection)
	assert.Equal(t, 0, m.Len())
}

func TestMap_BlockedWeightAccepted(t *testing.T) {
	m := planet.NewMap()
	require.NoError(t, m.AddPath(e(0, 0, planet.West), e(0, 0, planet.West), planet.Blocked))
	got, ok := m.Edge(c(0, 0), planet.West)
	require.True(t, ok)
	assert.True(t, got.Weight.IsBlocked())
}

func TestMap_OverwriteLastWriteWins(t *testing.T) {
	var buf bytes.Buffer
	m := planet.NewMap(planet.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	require.NoError(t, m.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 1))
	// Identical re-insert is not a conflict.
	require.NoError(t, m.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 1))
	assert.Empty(t, m.Conflicts())
	assert.Empty(t, buf.String())

	require.NoError(t, m.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 4))
	got, _ := m.Edge(c(0, 1), planet.South)
	assert.Equal(t, planet.Weight(4), got.Weight)

	conflicts := m.Conflicts()
	require.Len(t, conflicts, 2, "both directed records changed")
	assert.Equal(t, e(0, 0, planet.North), conflicts[0].At)
	assert.Equal(t, planet.Weight(1), conflicts[0].Old.Weight)
	assert.Equal(t, planet.Weight(4), conflicts[0].New.Weight)
	assert.Contains(t, buf.String(), "path record overwritten")
}

func TestMap_PathsIsDetached(t *testing.T) {
	m := fixture.SampleMap()
	snap := m.Paths()
	snap[c(0, 0)][planet.North] = planet.Edge{Target: c(9, 9), Weight: 99}
	delete(snap, c(1, 1))

	got, ok := m.Edge(c(0, 0), planet.North)
	require.True(t, ok)
	assert.Equal(t, c(0, 1), got.Target)
	assert.True(t, m.HasVertex(c(1, 1)))
}

func TestMap_VerticesAndEgressSorted(t *testing.T) {
	m := fixture.SampleMap()
	vs := m.Vertices()
	require.Len(t, vs, 12)
	for i := 1; i < len(vs); i++ {
		assert.True(t, vs[i-1].Less(vs[i]), "%s before %s", vs[i-1], vs[i])
	}
	assert.Equal(t,
		[]planet.Direction{planet.North, planet.East, planet.South, planet.West},
		m.Egress(c(1, 1)))
	assert.Empty(t, m.Egress(c(7, 7)))
}

func TestMap_Cost(t *testing.T) {
	m := fixture.SampleMap()
	w, err := m.Cost(planet.Route{{From: c(0, 0), Dir: planet.North}, {From: c(0, 1), Dir: planet.East}})
	require.NoError(t, err)
	assert.Equal(t, planet.Weight(4), w)

	w, err = m.Cost(planet.Route{})
	require.NoError(t, err)
	assert.Equal(t, planet.Weight(0), w)

	_, err = m.Cost(planet.Route{{From: c(3, 3), Dir: planet.North}})
	assert.ErrorIs(t, err, planet.ErrInconsistent)
}

func TestSnapshot_SymmetricDetectsBrokenCopy(t *testing.T) {
	snap := fixture.SampleMap().Paths()
	delete(snap[c(3, 3)], planet.West)
	assert.ErrorIs(t, snap.Symmetric(), planet.ErrInconsistent)
}

func TestSnapshot_String(t *testing.T) {
	m := planet.NewMap()
	require.NoError(t, m.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 1))
	assert.Equal(t,
		"(0,0): NORTH->(0,1)/SOUTH(1)\n(0,1): SOUTH->(0,0)/NORTH(1)\n",
		m.Paths().String())
}
