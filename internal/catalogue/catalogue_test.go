package catalogue_test

import (
	"testing"

	"github.com/passbi/routestat/internal/catalogue"
	"github.com/passbi/routestat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAB(t *testing.T) *catalogue.Catalogue {
	t.Helper()
	c := catalogue.New()

	a := models.Stop{Name: "A", Latitude: 55.611087, Longitude: 37.20829, Distances: map[string]int{"B": 3900}}
	b := models.Stop{Name: "B", Latitude: 55.595884, Longitude: 37.209755}

	c.AddStop(a)
	c.AddStop(b)
	c.AddDistances(a)
	c.AddDistances(b)

	return c
}

func TestRoundtripCurvature(t *testing.T) {
	c := buildAB(t)
	bus := models.Bus{Name: "256", Stops: []string{"A", "B", "A"}, IsRoundtrip: true}
	c.AddBus(bus)

	stats, err := c.Stats(&bus)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.StopCount)
	assert.Equal(t, 2, stats.UniqueStopCount)
	assert.Equal(t, 7800.0, stats.RouteLength)
	assert.InDelta(t, 4.60575, stats.Curvature, 1e-3)
}

func TestLinearLineCurvature(t *testing.T) {
	c := buildAB(t)
	bus := models.Bus{Name: "751", Stops: []string{"A", "B"}, IsRoundtrip: false}
	c.AddBus(bus)

	stats, err := c.Stats(&bus)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.StopCount)
	assert.Equal(t, 2, stats.UniqueStopCount)
	assert.Equal(t, 7800.0, stats.RouteLength)
	assert.InDelta(t, 2.30288, stats.Curvature, 1e-3)
}

func TestStopLookup(t *testing.T) {
	c := buildAB(t)
	c.AddBus(models.Bus{Name: "256", Stops: []string{"A", "B", "A"}, IsRoundtrip: true})
	c.AddBus(models.Bus{Name: "751", Stops: []string{"A", "B"}, IsRoundtrip: false})
	c.AddStop(models.Stop{Name: "C", Latitude: 1, Longitude: 1})

	assert.Equal(t, []string{"256", "751"}, c.BusesOf("A"))
	assert.Equal(t, []string{}, c.BusesOf("C"))

	_, err := c.Stop("D")
	assert.ErrorIs(t, err, catalogue.ErrNotFound)
}

func TestDistanceSymmetryFallback(t *testing.T) {
	c := catalogue.New()
	a := models.Stop{Name: "A", Distances: map[string]int{"B": 42}}
	b := models.Stop{Name: "B"}
	c.AddStop(a)
	c.AddStop(b)
	c.AddDistances(a)
	c.AddDistances(b)

	d, err := c.Distance("B", "A")
	require.NoError(t, err)
	assert.Equal(t, 42, d)
}

func TestVertexDensity(t *testing.T) {
	c := catalogue.New()
	names := []string{"A", "B", "C", "D"}
	for _, n := range names {
		c.AddStop(models.Stop{Name: n})
	}

	seen := make(map[int]bool)
	for _, n := range names {
		v, ok := c.VertexOf(n)
		require.True(t, ok)
		seen[v] = true
	}
	assert.Equal(t, len(names), len(seen))
	for v := range seen {
		assert.True(t, v >= 0 && v < c.StopCount())
	}
}

func TestMissingDistanceIsFatalKind(t *testing.T) {
	c := catalogue.New()
	c.AddStop(models.Stop{Name: "A"})
	c.AddStop(models.Stop{Name: "B"})

	_, err := c.Distance("A", "B")
	assert.ErrorIs(t, err, catalogue.ErrMissingDistance)
}
