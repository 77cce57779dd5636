// Package docio is the external parser/serializer: it decodes the input
// JSON document (base_requests, stat_requests, render_settings,
// routing_settings) into plain models records, and encodes the response
// list back to JSON. Nothing outside this package knows about the wire
// format.
//
// Grounded on the original json_reader.h/.cpp's document-level decode
// (stat_requests dispatch by "type", request_id echoing, color encoding)
// and on the teacher's (passbi_core) internal/api/handlers.go json-tag
// style, using encoding/json directly as the teacher does — the pack
// carries no third-party JSON codec to prefer over it.
package docio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/passbi/routestat/internal/models"
	"github.com/passbi/routestat/internal/svg"
)

// Document is the decoded form of the full input document.
type Document struct {
	Stops           []models.Stop
	Buses           []models.Bus
	StatRequests    []models.StatRequest
	RenderSettings  models.RenderSettings
	RoutingSettings models.RoutingSettings
}

type wireDocument struct {
	BaseRequests    []json.RawMessage `json:"base_requests"`
	StatRequests    []wireStatRequest `json:"stat_requests"`
	RenderSettings  *wireRenderSettings `json:"render_settings"`
	RoutingSettings *wireRoutingSettings `json:"routing_settings"`
}

type wireBaseRequest struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	RoadDistances map[string]int `json:"road_distances"`
	Stops         []string       `json:"stops"`
	IsRoundtrip   bool           `json:"is_roundtrip"`
}

type wireStatRequest struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

type wireRenderSettings struct {
	Width             float64   `json:"width"`
	Height            float64   `json:"height"`
	Padding           float64   `json:"padding"`
	LineWidth         float64   `json:"line_width"`
	StopRadius        float64   `json:"stop_radius"`
	BusLabelFontSize  int       `json:"bus_label_font_size"`
	BusLabelOffset    [2]float64 `json:"bus_label_offset"`
	StopLabelFontSize int       `json:"stop_label_font_size"`
	StopLabelOffset   [2]float64 `json:"stop_label_offset"`
	UnderlayerColor   svg.Color `json:"underlayer_color"`
	UnderlayerWidth   float64   `json:"underlayer_width"`
	ColorPalette      []svg.Color `json:"color_palette"`
}

type wireRoutingSettings struct {
	BusWaitTime int     `json:"bus_wait_time"`
	BusVelocity float64 `json:"bus_velocity"`
}

// Decode reads and parses the full input document from r.
func Decode(r io.Reader) (Document, error) {
	var wire wireDocument
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return Document{}, fmt.Errorf("decode input document: %w", err)
	}

	doc := Document{}

	for i, raw := range wire.BaseRequests {
		var base wireBaseRequest
		if err := json.Unmarshal(raw, &base); err != nil {
			return Document{}, fmt.Errorf("base_requests[%d]: %w", i, err)
		}
		switch base.Type {
		case "Stop":
			doc.Stops = append(doc.Stops, models.Stop{
				Name:      base.Name,
				Latitude:  base.Latitude,
				Longitude: base.Longitude,
				Distances: base.RoadDistances,
			})
		case "Bus":
			doc.Buses = append(doc.Buses, models.Bus{
				Name:        base.Name,
				Stops:       base.Stops,
				IsRoundtrip: base.IsRoundtrip,
			})
		default:
			return Document{}, fmt.Errorf("base_requests[%d]: unknown type %q", i, base.Type)
		}
	}

	for i, req := range wire.StatRequests {
		kind, err := decodeStatKind(req.Type)
		if err != nil {
			return Document{}, fmt.Errorf("stat_requests[%d]: %w", i, err)
		}
		doc.StatRequests = append(doc.StatRequests, models.StatRequest{
			ID:   req.ID,
			Kind: kind,
			Name: req.Name,
			From: req.From,
			To:   req.To,
		})
	}

	if wire.RenderSettings != nil {
		doc.RenderSettings = models.RenderSettings{
			Width:             wire.RenderSettings.Width,
			Height:            wire.RenderSettings.Height,
			Padding:           wire.RenderSettings.Padding,
			LineWidth:         wire.RenderSettings.LineWidth,
			StopRadius:        wire.RenderSettings.StopRadius,
			BusLabelFontSize:  wire.RenderSettings.BusLabelFontSize,
			BusLabelOffset:    models.Offset{X: wire.RenderSettings.BusLabelOffset[0], Y: wire.RenderSettings.BusLabelOffset[1]},
			StopLabelFontSize: wire.RenderSettings.StopLabelFontSize,
			StopLabelOffset:   models.Offset{X: wire.RenderSettings.StopLabelOffset[0], Y: wire.RenderSettings.StopLabelOffset[1]},
			UnderlayerColor:   wire.RenderSettings.UnderlayerColor,
			UnderlayerWidth:   wire.RenderSettings.UnderlayerWidth,
			ColorPalette:      wire.RenderSettings.ColorPalette,
		}
	}

	if wire.RoutingSettings != nil {
		doc.RoutingSettings = models.RoutingSettings{
			BusWaitTime: wire.RoutingSettings.BusWaitTime,
			BusVelocity: wire.RoutingSettings.BusVelocity,
		}
	}

	return doc, nil
}

func decodeStatKind(t string) (models.StatRequestKind, error) {
	switch t {
	case "Bus":
		return models.StatRequestBus, nil
	case "Stop":
		return models.StatRequestStop, nil
	case "Map":
		return models.StatRequestMap, nil
	case "Route":
		return models.StatRequestRoute, nil
	default:
		return 0, fmt.Errorf("unknown stat request type %q", t)
	}
}

type wireRouteItem struct {
	Type      string  `json:"type"`
	StopName  string  `json:"stop_name,omitempty"`
	BusName   string  `json:"bus_name,omitempty"`
	SpanCount int     `json:"span_count,omitempty"`
	Time      float64 `json:"time"`
}

// Encode writes the response list to w as the output JSON document, in
// request order, per spec.md §6. Each response is encoded as a map holding
// exactly the keys its kind's response shape defines, per spec.md §6's
// per-type response table.
func Encode(w io.Writer, responses []models.Response) error {
	wire := make([]map[string]interface{}, len(responses))
	for i, resp := range responses {
		wire[i] = encodeResponse(resp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(wire)
}

func encodeResponse(resp models.Response) map[string]interface{} {
	out := map[string]interface{}{"request_id": resp.RequestID}

	switch resp.Kind {
	case models.ResponseBus:
		out["curvature"] = resp.Bus.Curvature
		out["route_length"] = resp.Bus.RouteLength
		out["stop_count"] = resp.Bus.StopCount
		out["unique_stop_count"] = resp.Bus.UniqueStopCount
	case models.ResponseStop:
		buses := append([]string(nil), resp.StopBuses...)
		sort.Strings(buses)
		if buses == nil {
			buses = []string{}
		}
		out["buses"] = buses
	case models.ResponseMap:
		out["map"] = resp.MapDocument
	case models.ResponseRoute:
		out["total_time"] = resp.Route.TotalTime
		items := make([]wireRouteItem, len(resp.Route.Items))
		for i, item := range resp.Route.Items {
			items[i] = encodeRouteItem(item)
		}
		out["items"] = items
	case models.ResponseNotFound:
		out["error_message"] = "not found"
	}

	return out
}

func encodeRouteItem(item models.RouteItem) wireRouteItem {
	switch item.Type {
	case models.ItemWait:
		return wireRouteItem{Type: "Wait", StopName: item.StopName, Time: item.Time}
	default:
		return wireRouteItem{Type: "Bus", BusName: item.BusName, SpanCount: item.SpanCount, Time: item.Time}
	}
}
