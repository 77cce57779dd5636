package docio_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/passbi/routestat/internal/docio"
	"github.com/passbi/routestat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInput = `{
  "base_requests": [
    {"type": "Stop", "name": "A", "latitude": 55.611087, "longitude": 37.20829, "road_distances": {"B": 3900}},
    {"type": "Stop", "name": "B", "latitude": 55.595884, "longitude": 37.209755, "road_distances": {"A": 3900}},
    {"type": "Bus", "name": "256", "stops": ["A", "B", "A"], "is_roundtrip": true}
  ],
  "stat_requests": [
    {"id": 1, "type": "Bus", "name": "256"},
    {"id": 2, "type": "Stop", "name": "A"},
    {"id": 3, "type": "Route", "from": "A", "to": "B"},
    {"id": 4, "type": "Map"}
  ],
  "render_settings": {
    "width": 600, "height": 400, "padding": 30,
    "line_width": 14, "stop_radius": 5,
    "bus_label_font_size": 20, "bus_label_offset": [7, 15],
    "stop_label_font_size": 18, "stop_label_offset": [7, -3],
    "underlayer_color": [255, 255, 255, 0.85],
    "underlayer_width": 3,
    "color_palette": ["green", [255, 160, 0]]
  },
  "routing_settings": {"bus_wait_time": 6, "bus_velocity": 40}
}`

func TestDecodeFullDocument(t *testing.T) {
	doc, err := docio.Decode(strings.NewReader(sampleInput))
	require.NoError(t, err)

	require.Len(t, doc.Stops, 2)
	assert.Equal(t, "A", doc.Stops[0].Name)
	assert.Equal(t, 3900, doc.Stops[0].Distances["B"])

	require.Len(t, doc.Buses, 1)
	assert.Equal(t, []string{"A", "B", "A"}, doc.Buses[0].Stops)
	assert.True(t, doc.Buses[0].IsRoundtrip)

	require.Len(t, doc.StatRequests, 4)
	assert.Equal(t, models.StatRequestBus, doc.StatRequests[0].Kind)
	assert.Equal(t, models.StatRequestRoute, doc.StatRequests[2].Kind)
	assert.Equal(t, "A", doc.StatRequests[2].From)

	assert.Equal(t, 600.0, doc.RenderSettings.Width)
	assert.Equal(t, 7.0, doc.RenderSettings.BusLabelOffset.X)
	assert.True(t, doc.RenderSettings.UnderlayerColor.IsSet())
	assert.Len(t, doc.RenderSettings.ColorPalette, 2)

	assert.Equal(t, 6, doc.RoutingSettings.BusWaitTime)
	assert.Equal(t, 40.0, doc.RoutingSettings.BusVelocity)
}

func TestDecodeAbsentSectionsYieldEmpty(t *testing.T) {
	doc, err := docio.Decode(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Stops)
	assert.Empty(t, doc.Buses)
	assert.Empty(t, doc.StatRequests)
}

func TestEncodeNotFound(t *testing.T) {
	var buf bytes.Buffer
	err := docio.Encode(&buf, []models.Response{{RequestID: 42, Kind: models.ResponseNotFound}})
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, float64(42), decoded[0]["request_id"])
	assert.Equal(t, "not found", decoded[0]["error_message"])
}

func TestEncodeRoutePreservesOrderAndTime(t *testing.T) {
	var buf bytes.Buffer
	resp := models.Response{
		RequestID: 3,
		Kind:      models.ResponseRoute,
		Route: models.RouteResult{
			TotalTime: 11.85,
			Items: []models.RouteItem{
				{Type: models.ItemWait, StopName: "A", Time: 6},
				{Type: models.ItemBus, BusName: "256", SpanCount: 1, Time: 5.85},
			},
		},
	}
	require.NoError(t, docio.Encode(&buf, []models.Response{resp}))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	items := decoded[0]["items"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, "Wait", items[0].(map[string]interface{})["type"])
	assert.Equal(t, "Bus", items[1].(map[string]interface{})["type"])
	assert.Equal(t, 11.85, decoded[0]["total_time"])
}

func TestEncodeStopEmptyBusesIsArrayNotNull(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, docio.Encode(&buf, []models.Response{{RequestID: 1, Kind: models.ResponseStop, StopBuses: nil}}))
	assert.Contains(t, buf.String(), `"buses": []`)
}
