// Package models holds the plain data records shared across the catalogue,
// routing, rendering and dispatch packages. Nothing in this package knows
// how records were parsed or how responses will be serialized.
package models

import "github.com/passbi/routestat/internal/svg"

// Stop is a geographic point that may be served by buses.
type Stop struct {
	Name      string
	Latitude  float64
	Longitude float64
	// Distances maps neighbor stop name to the road distance in meters from
	// this stop to that neighbor. Only directions actually declared on the
	// input stop are present; the reverse falls back at lookup time.
	Distances map[string]int
}

// Bus is a named ordered traversal over stops. Stops may repeat.
type Bus struct {
	Name        string
	Stops       []string
	IsRoundtrip bool
}

// RoutingSettings configures the routing engine. BusVelocity is in km/h as
// supplied by the input document; the engine converts it to meters/minute.
type RoutingSettings struct {
	BusWaitTime int     // minutes, paid once per boarding
	BusVelocity float64 // km/h
}

// RouteItemType distinguishes the two kinds of leg in a decomposed route.
type RouteItemType int

const (
	ItemWait RouteItemType = iota
	ItemBus
)

// RouteItem is one leg of an itinerary: a Wait at a stop, or a Bus ride
// spanning one or more stops.
type RouteItem struct {
	Type      RouteItemType
	StopName  string  // set when Type == ItemWait
	BusName   string  // set when Type == ItemBus
	SpanCount int     // set when Type == ItemBus
	Time      float64 // minutes
}

// RouteResult is the outcome of a successful build-route query.
type RouteResult struct {
	TotalTime float64
	Items     []RouteItem
}

// Offset is a 2D (dx, dy) text offset in render settings.
type Offset struct {
	X, Y float64
}

// RenderSettings configures the map renderer; per spec.md §4.5/§6. Colors
// reuse internal/svg.Color directly since that package has no dependency on
// this one.
type RenderSettings struct {
	Width, Height     float64
	Padding           float64
	LineWidth         float64
	StopRadius        float64
	BusLabelFontSize  int
	BusLabelOffset    Offset
	StopLabelFontSize int
	StopLabelOffset   Offset
	UnderlayerColor   svg.Color
	UnderlayerWidth   float64
	ColorPalette      []svg.Color
}

// BusStats are the derived statistics for a single bus line.
type BusStats struct {
	StopCount       int
	UniqueStopCount int
	RouteLength     float64
	Curvature       float64
}

// StatRequestKind distinguishes the four query shapes spec.md §6 defines.
type StatRequestKind int

const (
	StatRequestBus StatRequestKind = iota
	StatRequestStop
	StatRequestMap
	StatRequestRoute
)

// StatRequest is one parsed stat_requests entry. Only the fields relevant to
// Kind are populated.
type StatRequest struct {
	ID   int
	Kind StatRequestKind
	Name string // Bus/Stop
	From string // Route
	To   string // Route
}

// ResponseKind tags which field of Response is populated, per spec.md §9's
// "polymorphic query responses" design note.
type ResponseKind int

const (
	ResponseBus ResponseKind = iota
	ResponseStop
	ResponseMap
	ResponseRoute
	ResponseNotFound
)

// Response is the tagged-variant outcome of dispatching one StatRequest.
type Response struct {
	RequestID int
	Kind      ResponseKind

	Bus         BusStats    // valid when Kind == ResponseBus
	StopBuses   []string    // valid when Kind == ResponseStop
	MapDocument string      // valid when Kind == ResponseMap
	Route       RouteResult // valid when Kind == ResponseRoute
}

// GTFS records, used only by internal/gtfsimport to seed a catalogue from a
// real-world feed instead of (or in addition to) the input document's
// base_requests.

// GTFSStop represents a stop from stops.txt
type GTFSStop struct {
	StopID   string
	StopName string
	Lat      float64
	Lon      float64
}

// GTFSRoute represents a route from routes.txt
type GTFSRoute struct {
	RouteID   string
	ShortName string
	LongName  string
}

// GTFSTrip represents a trip from trips.txt
type GTFSTrip struct {
	RouteID string
	TripID  string
}

// GTFSStopTime represents a stop time from stop_times.txt
type GTFSStopTime struct {
	TripID       string
	StopID       string
	StopSequence int
}
