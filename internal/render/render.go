// Package render draws a transport catalogue as an svg.Document: route
// polylines, bus-name labels, stop circles and stop-name labels, in that
// fixed z-order.
//
// Grounded line-for-line on the original request_handler.cpp's RenderMap
// (layer ordering, color-index cycling, non-roundtrip reverse-path and
// same-first-last-stop handling) and map_renderer.cpp (RenderBusPolyline /
// RenderBusName / RenderBusStopsCycle / RenderStopName attribute sets),
// ported from the teacher's (passbi_core) chained-builder conventions onto
// internal/svg's Go fluent setters.
package render

import (
	"sort"

	"github.com/passbi/routestat/internal/catalogue"
	"github.com/passbi/routestat/internal/geo"
	"github.com/passbi/routestat/internal/models"
	"github.com/passbi/routestat/internal/sphereproj"
	"github.com/passbi/routestat/internal/svg"
)

// Map renders cat's network under settings and returns the completed
// document. Stops served by no bus are excluded from both projection and
// drawing, per spec.md §4.5.
func Map(cat *catalogue.Catalogue, settings models.RenderSettings) *svg.Document {
	doc := svg.NewDocument()

	servedStops := servedStopNames(cat)
	projector := buildProjector(cat, servedStops, settings)
	buses := cat.BusNames()

	renderPolylines(doc, cat, buses, projector, settings)
	renderBusNames(doc, cat, buses, projector, settings)
	renderStopCircles(doc, cat, servedStops, projector, settings)
	renderStopNames(doc, cat, servedStops, projector, settings)

	return doc
}

// servedStopNames returns the sorted names of stops served by at least one
// bus.
func servedStopNames(cat *catalogue.Catalogue) []string {
	names := cat.StopNames()
	sort.Strings(names)

	served := make([]string, 0, len(names))
	for _, name := range names {
		if len(cat.BusesOf(name)) > 0 {
			served = append(served, name)
		}
	}
	return served
}

func buildProjector(cat *catalogue.Catalogue, servedStops []string, settings models.RenderSettings) *sphereproj.Projector {
	points := make([]geo.Coordinates, 0, len(servedStops))
	for _, name := range servedStops {
		stop, _ := cat.Stop(name)
		points = append(points, toCoord(stop))
	}
	return sphereproj.New(points, settings.Width, settings.Height, settings.Padding)
}

func renderPolylines(doc *svg.Document, cat *catalogue.Catalogue, buses []string, proj *sphereproj.Projector, settings models.RenderSettings) {
	paletteSize := len(settings.ColorPalette)
	colorIdx := 0

	for _, busName := range buses {
		bus, _ := cat.Bus(busName)

		polyline := svg.NewPolyline().
			SetFillColor(svg.NoneColor).
			SetStrokeColor(settings.ColorPalette[colorIdx]).
			SetStrokeWidth(settings.LineWidth).
			SetStrokeLineCap(svg.CapRound).
			SetStrokeLineJoin(svg.JoinRound)

		for _, stopName := range bus.Stops {
			stop, _ := cat.Stop(stopName)
			polyline.AddPoint(proj.Project(toCoord(stop)))
		}
		if !bus.IsRoundtrip {
			for i := len(bus.Stops) - 2; i >= 0; i-- {
				stop, _ := cat.Stop(bus.Stops[i])
				polyline.AddPoint(proj.Project(toCoord(stop)))
			}
		}

		doc.Add(polyline)
		colorIdx = advance(colorIdx, paletteSize)
	}
}

func renderBusNames(doc *svg.Document, cat *catalogue.Catalogue, buses []string, proj *sphereproj.Projector, settings models.RenderSettings) {
	paletteSize := len(settings.ColorPalette)
	colorIdx := 0

	for _, busName := range buses {
		bus, _ := cat.Bus(busName)

		firstStop, _ := cat.Stop(bus.Stops[0])
		addBusLabel(doc, proj.Project(toCoord(firstStop)), bus.Name, settings.ColorPalette[colorIdx], settings)

		lastStop := bus.Stops[len(bus.Stops)-1]
		if !bus.IsRoundtrip && lastStop != bus.Stops[0] {
			stop, _ := cat.Stop(lastStop)
			addBusLabel(doc, proj.Project(toCoord(stop)), bus.Name, settings.ColorPalette[colorIdx], settings)
		}

		colorIdx = advance(colorIdx, paletteSize)
	}
}

func addBusLabel(doc *svg.Document, pos svg.Point, name string, color svg.Color, settings models.RenderSettings) {
	offset := svg.Point{X: settings.BusLabelOffset.X, Y: settings.BusLabelOffset.Y}

	underlayer := svg.NewText().
		SetPosition(pos).
		SetOffset(offset).
		SetFontSize(settings.BusLabelFontSize).
		SetFontFamily("Verdana").
		SetFontWeight("bold").
		SetData(name).
		SetFillColor(settings.UnderlayerColor).
		SetStrokeColor(settings.UnderlayerColor).
		SetStrokeWidth(settings.UnderlayerWidth).
		SetStrokeLineCap(svg.CapRound).
		SetStrokeLineJoin(svg.JoinRound)
	doc.Add(underlayer)

	nameText := svg.NewText().
		SetPosition(pos).
		SetOffset(offset).
		SetFontSize(settings.BusLabelFontSize).
		SetFontFamily("Verdana").
		SetFontWeight("bold").
		SetData(name).
		SetFillColor(color)
	doc.Add(nameText)
}

func renderStopCircles(doc *svg.Document, cat *catalogue.Catalogue, servedStops []string, proj *sphereproj.Projector, settings models.RenderSettings) {
	for _, name := range servedStops {
		stop, _ := cat.Stop(name)
		circle := svg.NewCircle().
			SetCenter(proj.Project(toCoord(stop))).
			SetRadius(settings.StopRadius).
			SetFillColor(svg.NamedColor("white"))
		doc.Add(circle)
	}
}

func renderStopNames(doc *svg.Document, cat *catalogue.Catalogue, servedStops []string, proj *sphereproj.Projector, settings models.RenderSettings) {
	offset := svg.Point{X: settings.StopLabelOffset.X, Y: settings.StopLabelOffset.Y}

	for _, name := range servedStops {
		stop, _ := cat.Stop(name)
		pos := proj.Project(toCoord(stop))

		underlayer := svg.NewText().
			SetPosition(pos).
			SetOffset(offset).
			SetFontSize(settings.StopLabelFontSize).
			SetFontFamily("Verdana").
			SetData(name).
			SetFillColor(settings.UnderlayerColor).
			SetStrokeColor(settings.UnderlayerColor).
			SetStrokeWidth(settings.UnderlayerWidth).
			SetStrokeLineCap(svg.CapRound).
			SetStrokeLineJoin(svg.JoinRound)
		doc.Add(underlayer)

		title := svg.NewText().
			SetPosition(pos).
			SetOffset(offset).
			SetFontSize(settings.StopLabelFontSize).
			SetFontFamily("Verdana").
			SetData(name).
			SetFillColor(svg.NamedColor("black"))
		doc.Add(title)
	}
}

func advance(idx, paletteSize int) int {
	idx++
	if idx == paletteSize {
		idx = 0
	}
	return idx
}

func toCoord(stop *models.Stop) geo.Coordinates {
	return geo.Coordinates{Latitude: stop.Latitude, Longitude: stop.Longitude}
}
