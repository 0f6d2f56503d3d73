package engine_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaczynskimat/robolab/dijkstra"
	"github.com/kaczynskimat/robolab/engine"
	"github.com/kaczynskimat/robolab/planet"
)

func TestNew_Empty(t *testing.T) {
	eng := engine.New(engine.WithLogger(nil))
	assert.Empty(t, eng.Paths())
	assert.Empty(t, eng.Visited())
	assert.Empty(t, eng.Unvisited())
	assert.Empty(t, eng.Conflicts())

	_, err := eng.ShortestPath(c(0, 0), c(1, 1))
	assert.ErrorIs(t, err, dijkstra.ErrNoRoute)
}

func TestShortestPath_DelegatesToSearch(t *testing.T) {
	eng := sampleEngine(t)
	route, err := eng.ShortestPath(c(0, 0), c(3, 1))
	require.NoError(t, err)
	assert.Equal(t, planet.Route{
		{From: c(0, 0), Dir: planet.North},
		{From: c(0, 1), Dir: planet.East},
		{From: c(1, 1), Dir: planet.East},
		{From: c(2, 1), Dir: planet.East},
	}, route)
}

func TestVisited_IsDetached(t *testing.T) {
	eng := engine.New()
	require.NoError(t, eng.RecordScan(c(0, 0), []planet.Direction{planet.North}))

	v := eng.Visited()
	v[c(0, 0)][0] = planet.South
	v[c(9, 9)] = nil

	dirs, _ := eng.Unexplored(c(0, 0))
	assert.Equal(t, []planet.Direction{planet.North}, dirs)
	assert.False(t, eng.IsVisited(c(9, 9)))

	u := eng.Unvisited()
	_ = append(u, c(1, 1))
	assert.Empty(t, eng.Unvisited())
}

func TestUnexplored_Unknown(t *testing.T) {
	dirs, ok := engine.New().Unexplored(c(0, 0))
	assert.False(t, ok)
	assert.Nil(t, dirs)
}

func TestConflicts_LoggedThroughEngineLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := engine.New(engine.WithLogger(logger))

	require.NoError(t, eng.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 1))
	require.NoError(t, eng.AddPath(e(0, 0, planet.North), e(0, 1, planet.South), 5))

	require.Len(t, eng.Conflicts(), 2)
	assert.Contains(t, buf.String(), "path record overwritten")
}
