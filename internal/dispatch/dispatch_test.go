package dispatch_test

import (
	"testing"

	"github.com/passbi/routestat/internal/catalogue"
	"github.com/passbi/routestat/internal/dispatch"
	"github.com/passbi/routestat/internal/models"
	"github.com/passbi/routestat/internal/routing"
	"github.com/passbi/routestat/internal/svg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFixture(t *testing.T) (*catalogue.Catalogue, *routing.Engine) {
	t.Helper()
	cat := catalogue.New()
	cat.AddStop(models.Stop{Name: "A", Latitude: 55.611087, Longitude: 37.20829, Distances: map[string]int{"B": 3900}})
	cat.AddStop(models.Stop{Name: "B", Latitude: 55.595884, Longitude: 37.209755, Distances: map[string]int{"A": 3900}})
	cat.AddStop(models.Stop{Name: "C", Latitude: 55.0, Longitude: 37.0})
	cat.AddDistances(models.Stop{Name: "A", Distances: map[string]int{"B": 3900}})
	cat.AddDistances(models.Stop{Name: "B", Distances: map[string]int{"A": 3900}})
	cat.AddBus(models.Bus{Name: "256", Stops: []string{"A", "B", "A"}, IsRoundtrip: true})

	engine, err := routing.Build(cat, models.RoutingSettings{BusWaitTime: 6, BusVelocity: 40})
	require.NoError(t, err)
	return cat, engine
}

func testSettings() models.RenderSettings {
	return models.RenderSettings{
		Width: 200, Height: 200, Padding: 10,
		LineWidth: 5, StopRadius: 3,
		BusLabelFontSize: 10, StopLabelFontSize: 10,
		UnderlayerColor: svg.NamedColor("white"),
		ColorPalette:    []svg.Color{svg.NamedColor("green")},
	}
}

func TestDispatchBusFoundAndNotFound(t *testing.T) {
	cat, engine := buildFixture(t)
	d := dispatch.New(cat, engine, testSettings())

	responses, err := d.Dispatch([]models.StatRequest{
		{ID: 1, Kind: models.StatRequestBus, Name: "256"},
		{ID: 2, Kind: models.StatRequestBus, Name: "999"},
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.Equal(t, models.ResponseBus, responses[0].Kind)
	assert.Equal(t, 3, responses[0].Bus.StopCount)
	assert.Equal(t, models.ResponseNotFound, responses[1].Kind)
	assert.Equal(t, 2, responses[1].RequestID)
}

func TestDispatchStopFoundEmptyAndNotFound(t *testing.T) {
	cat, engine := buildFixture(t)
	d := dispatch.New(cat, engine, testSettings())

	responses, err := d.Dispatch([]models.StatRequest{
		{ID: 1, Kind: models.StatRequestStop, Name: "A"},
		{ID: 2, Kind: models.StatRequestStop, Name: "C"},
		{ID: 3, Kind: models.StatRequestStop, Name: "Nowhere"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"256"}, responses[0].StopBuses)
	assert.Equal(t, models.ResponseStop, responses[1].Kind)
	assert.Empty(t, responses[1].StopBuses)
	assert.Equal(t, models.ResponseNotFound, responses[2].Kind)
}

func TestDispatchRoute(t *testing.T) {
	cat, engine := buildFixture(t)
	d := dispatch.New(cat, engine, testSettings())

	responses, err := d.Dispatch([]models.StatRequest{
		{ID: 1, Kind: models.StatRequestRoute, From: "A", To: "B"},
		{ID: 2, Kind: models.StatRequestRoute, From: "A", To: "C"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ResponseRoute, responses[0].Kind)
	assert.InDelta(t, 11.85, responses[0].Route.TotalTime, 1e-9)
	assert.Equal(t, models.ResponseNotFound, responses[1].Kind)
}

func TestDispatchMapRendersDocument(t *testing.T) {
	cat, engine := buildFixture(t)
	d := dispatch.New(cat, engine, testSettings())

	responses, err := d.Dispatch([]models.StatRequest{{ID: 1, Kind: models.StatRequestMap}})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseMap, responses[0].Kind)
	assert.Contains(t, responses[0].MapDocument, "<svg")
}

func TestDispatchPreservesRequestOrder(t *testing.T) {
	cat, engine := buildFixture(t)
	d := dispatch.New(cat, engine, testSettings())

	responses, err := d.Dispatch([]models.StatRequest{
		{ID: 5, Kind: models.StatRequestBus, Name: "256"},
		{ID: 3, Kind: models.StatRequestStop, Name: "A"},
		{ID: 9, Kind: models.StatRequestRoute, From: "A", To: "A"},
	})
	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Equal(t, []int{5, 3, 9}, []int{responses[0].RequestID, responses[1].RequestID, responses[2].RequestID})
	assert.Equal(t, 0.0, responses[2].Route.TotalTime)
}
