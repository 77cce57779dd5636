package geo_test

import (
	"math"
	"testing"

	"github.com/passbi/routestat/internal/geo"
	"github.com/stretchr/testify/assert"
)

func TestDistance_Coincident(t *testing.T) {
	a := geo.Coordinates{Latitude: 55.611087, Longitude: 37.20829}
	assert.Equal(t, 0.0, geo.Distance(a, a))
}

func TestDistance_WithinEpsilon(t *testing.T) {
	a := geo.Coordinates{Latitude: 55.611087, Longitude: 37.20829}
	b := geo.Coordinates{Latitude: 55.611087 + 1e-9, Longitude: 37.20829 - 1e-9}
	assert.Equal(t, 0.0, geo.Distance(a, b))
}

func TestDistance_KnownPair(t *testing.T) {
	a := geo.Coordinates{Latitude: 55.611087, Longitude: 37.20829}
	b := geo.Coordinates{Latitude: 55.595884, Longitude: 37.209755}

	got := geo.Distance(a, b)
	assert.InDelta(t, 1693.4, got, 1.0)
}

func TestDistance_Symmetric(t *testing.T) {
	a := geo.Coordinates{Latitude: 10, Longitude: 20}
	b := geo.Coordinates{Latitude: -5, Longitude: 100}
	assert.True(t, math.Abs(geo.Distance(a, b)-geo.Distance(b, a)) < 1e-6)
}
