package sphereproj_test

import (
	"testing"

	"github.com/passbi/routestat/internal/geo"
	"github.com/passbi/routestat/internal/sphereproj"
	"github.com/stretchr/testify/assert"
)

func TestProjectionBounds(t *testing.T) {
	points := []geo.Coordinates{
		{Latitude: 55.611087, Longitude: 37.20829},
		{Latitude: 55.595884, Longitude: 37.209755},
		{Latitude: 55.632761, Longitude: 37.333324},
	}
	const w, h, pad = 600, 400, 30

	proj := sphereproj.New(points, w, h, pad)
	for _, pt := range points {
		p := proj.Project(pt)
		assert.True(t, p.X >= pad-1e-6 && p.X <= w-pad+1e-6)
		assert.True(t, p.Y >= pad-1e-6 && p.Y <= h-pad+1e-6)
	}
}

func TestEmptyInput(t *testing.T) {
	proj := sphereproj.New(nil, 600, 400, 30)
	p := proj.Project(geo.Coordinates{Latitude: 1, Longitude: 1})
	assert.Equal(t, 30.0, p.X)
	assert.Equal(t, 30.0, p.Y)
}

func TestDegenerateSinglePoint(t *testing.T) {
	points := []geo.Coordinates{{Latitude: 10, Longitude: 20}}
	proj := sphereproj.New(points, 600, 400, 30)
	p := proj.Project(points[0])
	assert.Equal(t, 30.0, p.X)
	assert.Equal(t, 30.0, p.Y)
}
