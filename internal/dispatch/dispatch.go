// Package dispatch turns a sequence of parsed stat requests into tagged
// responses, in request order, consulting the catalogue, routing engine and
// map renderer as each request's kind requires.
//
// Grounded on the original request_handler.h/.cpp's RequestHandler
// (GetBusStat / GetBusesByStop / RenderMap dispatch), generalized from its
// four ad-hoc accessor methods into the single Dispatch entry point spec.md
// §4.6 describes, returning models.Response's tagged variant per spec.md
// §9's design note instead of the original's separate per-kind result
// structs.
package dispatch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/passbi/routestat/internal/catalogue"
	"github.com/passbi/routestat/internal/models"
	"github.com/passbi/routestat/internal/render"
	"github.com/passbi/routestat/internal/rendercache"
	"github.com/passbi/routestat/internal/routing"
)

// Dispatcher answers stat requests against a built catalogue, routing
// engine and render settings. It holds no mutable state of its own: the
// network it serves never changes for the lifetime of a process.
type Dispatcher struct {
	catalogue      *catalogue.Catalogue
	engine         *routing.Engine
	renderSettings models.RenderSettings
	mapCacheKey    string
}

// New returns a Dispatcher over an already-built catalogue and routing
// engine. If rendercache is enabled (ROUTESTAT_RENDER_CACHE=1), the
// rendered map document is cached under a key derived from the served
// network and render settings, since both are fixed for the process's
// lifetime.
func New(cat *catalogue.Catalogue, engine *routing.Engine, renderSettings models.RenderSettings) *Dispatcher {
	return &Dispatcher{
		catalogue:      cat,
		engine:         engine,
		renderSettings: renderSettings,
		mapCacheKey:    rendercache.MapKey(networkSignature(cat, renderSettings)),
	}
}

// networkSignature hashes the stops (names and coordinates), the buses
// (names, stop sequences and roundtrip flags) and the render settings into a
// short, deterministic string identifying this network+rendering, so
// unrelated processes whose maps would render differently never collide in
// a shared cache.
func networkSignature(cat *catalogue.Catalogue, settings models.RenderSettings) string {
	stops := append([]string(nil), cat.StopNames()...)
	buses := append([]string(nil), cat.BusNames()...)
	sort.Strings(stops)
	sort.Strings(buses)

	h := sha256.New()
	fmt.Fprintf(h, "%v|%v|%+v", stops, buses, settings)
	for _, name := range stops {
		stop, _ := cat.Stop(name)
		fmt.Fprintf(h, "|%s@%v,%v", name, stop.Latitude, stop.Longitude)
	}
	for _, name := range buses {
		bus, _ := cat.Bus(name)
		fmt.Fprintf(h, "|%s:%v:%t", name, bus.Stops, bus.IsRoundtrip)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Dispatch answers every request in requests, in order, and returns the
// matching responses. Per-query failures (unknown bus/stop/route) are
// surfaced as NotFound responses, per spec.md §4.6; a non-nil error return
// is always catalogue.ErrMissingDistance, a fatal data-integrity error that
// aborts the remaining requests (spec.md §7).
func (d *Dispatcher) Dispatch(requests []models.StatRequest) ([]models.Response, error) {
	responses := make([]models.Response, 0, len(requests))
	for _, req := range requests {
		resp, err := d.answer(req)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (d *Dispatcher) answer(req models.StatRequest) (models.Response, error) {
	switch req.Kind {
	case models.StatRequestBus:
		return d.answerBus(req)
	case models.StatRequestStop:
		return d.answerStop(req), nil
	case models.StatRequestMap:
		return d.answerMap(req), nil
	case models.StatRequestRoute:
		return d.answerRoute(req), nil
	default:
		return notFound(req.ID), nil
	}
}

func (d *Dispatcher) answerBus(req models.StatRequest) (models.Response, error) {
	bus, err := d.catalogue.Bus(req.Name)
	if errors.Is(err, catalogue.ErrNotFound) {
		return notFound(req.ID), nil
	}

	stats, err := d.catalogue.Stats(bus)
	if err != nil {
		return models.Response{}, err
	}

	return models.Response{RequestID: req.ID, Kind: models.ResponseBus, Bus: stats}, nil
}

func (d *Dispatcher) answerStop(req models.StatRequest) models.Response {
	if _, err := d.catalogue.Stop(req.Name); errors.Is(err, catalogue.ErrNotFound) {
		return notFound(req.ID)
	}

	return models.Response{RequestID: req.ID, Kind: models.ResponseStop, StopBuses: d.catalogue.BusesOf(req.Name)}
}

func (d *Dispatcher) answerMap(req models.StatRequest) models.Response {
	if rendercache.Enabled() {
		if document := d.cachedMap(); document != "" {
			return models.Response{RequestID: req.ID, Kind: models.ResponseMap, MapDocument: document}
		}
	}

	doc := render.Map(d.catalogue, d.renderSettings)
	document := doc.Render()

	if rendercache.Enabled() {
		d.cacheMap(document)
	}

	return models.Response{RequestID: req.ID, Kind: models.ResponseMap, MapDocument: document}
}

func (d *Dispatcher) cachedMap() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	document, err := rendercache.GetMap(ctx, d.mapCacheKey)
	if err != nil {
		log.Printf("dispatch: render cache lookup failed: %v", err)
		return ""
	}
	if document == nil {
		return ""
	}
	return *document
}

func (d *Dispatcher) cacheMap(document string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rendercache.SetMap(ctx, d.mapCacheKey, document, rendercache.LoadConfigFromEnv().TTL); err != nil {
		log.Printf("dispatch: render cache store failed: %v", err)
	}
}

func (d *Dispatcher) answerRoute(req models.StatRequest) models.Response {
	result, ok, err := d.engine.BuildRoute(req.From, req.To)
	if err != nil || !ok {
		return notFound(req.ID)
	}
	return models.Response{RequestID: req.ID, Kind: models.ResponseRoute, Route: result}
}

func notFound(id int) models.Response {
	return models.Response{RequestID: id, Kind: models.ResponseNotFound}
}
