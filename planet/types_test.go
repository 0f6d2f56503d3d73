package planet_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaczynskimat/robolab/planet"
)

func TestDirection_Opposite(t *testing.T) {
	cases := map[planet.Direction]planet.Direction{
		planet.North: planet.South,
		planet.East:  planet.West,
		planet.South: planet.North,
		planet.West:  planet.East,
	}
	for d, want := range cases {
		assert.Equal(t, want, d.Opposite(), d.String())
	}
}

func TestParseDirection(t *testing.T) {
	d, err := planet.ParseDirection(270)
	require.NoError(t, err)
	assert.Equal(t, planet.West, d)

	_, err = planet.ParseDirection(360)
	assert.ErrorIs(t, err, planet.ErrBadDirection)
	assert.Equal(t, "Direction(45)", planet.Direction(45).String())
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]planet.Status{
		"free":    planet.Free,
		"normal":  planet.Free,
		"blocked": planet.StatusBlocked,
	} {
		got, err := planet.ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := planet.ParseStatus("lost")
	assert.ErrorIs(t, err, planet.ErrBadStatus)
}

func TestCoordinate_Less(t *testing.T) {
	assert.True(t, planet.Coordinate{X: 0, Y: 5}.Less(planet.Coordinate{X: 1, Y: 0}))
	assert.True(t, planet.Coordinate{X: 1, Y: 0}.Less(planet.Coordinate{X: 1, Y: 1}))
	assert.False(t, planet.Coordinate{X: 1, Y: 1}.Less(planet.Coordinate{X: 1, Y: 1}))
	assert.Equal(t, "(-1,2)", planet.Coordinate{X: -1, Y: 2}.String())
}

func TestRoute_First(t *testing.T) {
	_, ok := planet.Route{}.First()
	assert.False(t, ok)
	_, ok = planet.Route(nil).First()
	assert.False(t, ok)

	d, ok := planet.Route{{Dir: planet.East}, {Dir: planet.North}}.First()
	assert.True(t, ok)
	assert.Equal(t, planet.East, d)
}
