// Package routing lifts a transport catalogue into a routegraph.Graph under
// a fixed wait time and bus velocity, and answers fastest-route queries over
// it.
//
// Grounded on the original transport_router.h/.cpp's Transport_router
// (CreateGraph / BuildRoute): every ordered stop pair on a bus becomes a
// candidate wait-then-ride edge, accumulated incrementally along the bus's
// stop sequence and collapsed to the shortest candidate per vertex pair.
// Edge weights and shortest-path search are delegated to internal/routegraph
// instead of the original's custom graph::Router, reusing the teacher's
// (passbi_core) internal/routing/astar.go heap idiom one layer down.
package routing

import (
	"fmt"
	"sort"

	"github.com/passbi/routestat/internal/catalogue"
	"github.com/passbi/routestat/internal/models"
	"github.com/passbi/routestat/internal/routegraph"
)

// metersPerKmh converts a km/h velocity to meters/minute.
const metersPerKmh = 1000.0 / 60.0

// edgeInfo is the per-edge metadata needed to decompose a shortest walk back
// into Wait/Bus itinerary legs; it is not used by the search itself.
type edgeInfo struct {
	busName   string
	fromStop  string
	spanCount int
	rideTime  float64 // minutes, excludes the boarding wait
}

// Engine is a routegraph.Graph built from a catalogue's buses, plus its
// precomputed shortest-path index and the bookkeeping needed to turn a
// winning walk back into rider-facing itinerary legs.
type Engine struct {
	catalogue *catalogue.Catalogue
	graph     *routegraph.Graph
	index     *routegraph.ShortestPathIndex
	edgeInfo  map[routegraph.EdgeID]edgeInfo
	waitTime  float64
}

type vertexPair struct {
	a, b int
}

type candidate struct {
	edgeInfo
	distance int
}

// Build constructs the routing graph for every bus in cat under settings and
// runs the shortest-path precomputation.
func Build(cat *catalogue.Catalogue, settings models.RoutingSettings) (*Engine, error) {
	e := &Engine{
		catalogue: cat,
		graph:     routegraph.New(cat.StopCount()),
		edgeInfo:  make(map[routegraph.EdgeID]edgeInfo),
		waitTime:  float64(settings.BusWaitTime),
	}

	velocity := settings.BusVelocity * metersPerKmh

	for _, busName := range cat.BusNames() {
		bus, err := cat.Bus(busName)
		if err != nil {
			return nil, err
		}
		if err := e.addBus(bus, velocity); err != nil {
			return nil, err
		}
	}

	e.index = routegraph.BuildShortestPathIndex(e.graph)
	return e, nil
}

// addBus adds every wait-then-ride edge bus contributes to the graph. The
// accumulator and candidate map are fresh per bus: parallel edges are only
// collapsed among spans of the SAME bus, never across buses, per spec.md's
// resolution of the original's ambiguous scoping.
func (e *Engine) addBus(bus *models.Bus, velocity float64) error {
	stops := bus.Stops
	n := len(stops)
	if n < 2 {
		return nil
	}

	accumulated := make(map[vertexPair]int)
	candidates := make(map[vertexPair]candidate)

	for i := 0; i < n-1; i++ {
		vFrom, _ := e.catalogue.VertexOf(stops[i])
		accumulated[vertexPair{vFrom, vFrom}] = 0

		for j := i + 1; j < n; j++ {
			prev, cur := stops[j-1], stops[j]
			vPrev, _ := e.catalogue.VertexOf(prev)
			vCur, _ := e.catalogue.VertexOf(cur)

			fwd, err := e.catalogue.Distance(prev, cur)
			if err != nil {
				return fmt.Errorf("bus %q: %w", bus.Name, err)
			}
			fwdDist := accumulated[vertexPair{vFrom, vPrev}] + fwd
			accumulated[vertexPair{vFrom, vCur}] = fwdDist
			considerCandidate(candidates, vertexPair{vFrom, vCur}, candidate{
				edgeInfo: edgeInfo{
					busName:   bus.Name,
					fromStop:  stops[i],
					spanCount: j - i,
					rideTime:  float64(fwdDist) / velocity,
				},
				distance: fwdDist,
			})

			if !bus.IsRoundtrip {
				rev, err := e.catalogue.Distance(cur, prev)
				if err != nil {
					return fmt.Errorf("bus %q: %w", bus.Name, err)
				}
				revDist := accumulated[vertexPair{vPrev, vFrom}] + rev
				accumulated[vertexPair{vCur, vFrom}] = revDist
				considerCandidate(candidates, vertexPair{vCur, vFrom}, candidate{
					edgeInfo: edgeInfo{
						busName:   bus.Name,
						fromStop:  stops[j],
						spanCount: j - i,
						rideTime:  float64(revDist) / velocity,
					},
					distance: revDist,
				})
			}
		}
	}

	e.flush(candidates)
	return nil
}

// considerCandidate keeps the shortest-distance candidate for a vertex pair;
// on a tie the first one seen is kept.
func considerCandidate(candidates map[vertexPair]candidate, key vertexPair, cand candidate) {
	existing, ok := candidates[key]
	if !ok || cand.distance < existing.distance {
		candidates[key] = cand
	}
}

// flush adds every surviving candidate edge to the graph, in a deterministic
// order so edge ids don't depend on map iteration.
func (e *Engine) flush(candidates map[vertexPair]candidate) {
	pairs := make([]vertexPair, 0, len(candidates))
	for pair := range candidates {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	for _, pair := range pairs {
		cand := candidates[pair]
		id := e.graph.AddEdge(routegraph.VertexID(pair.a), routegraph.VertexID(pair.b), cand.rideTime+e.waitTime)
		e.edgeInfo[id] = cand.edgeInfo
	}
}

// BuildRoute returns the fastest itinerary from fromStop to toStop. ok is
// false when both stops are known to the catalogue but no route connects
// them; err is non-nil only when a stop name is unknown.
func (e *Engine) BuildRoute(fromStop, toStop string) (models.RouteResult, bool, error) {
	vFrom, ok := e.catalogue.VertexOf(fromStop)
	if !ok {
		return models.RouteResult{}, false, fmt.Errorf("stop %q: %w", fromStop, catalogue.ErrNotFound)
	}
	vTo, ok := e.catalogue.VertexOf(toStop)
	if !ok {
		return models.RouteResult{}, false, fmt.Errorf("stop %q: %w", toStop, catalogue.ErrNotFound)
	}

	totalTime, edges, found := e.index.Route(routegraph.VertexID(vFrom), routegraph.VertexID(vTo))
	if !found {
		return models.RouteResult{}, false, nil
	}

	items := make([]models.RouteItem, 0, 2*len(edges))
	for _, edgeID := range edges {
		info := e.edgeInfo[edgeID]
		items = append(items,
			models.RouteItem{Type: models.ItemWait, StopName: info.fromStop, Time: e.waitTime},
			models.RouteItem{Type: models.ItemBus, BusName: info.busName, SpanCount: info.spanCount, Time: info.rideTime},
		)
	}

	return models.RouteResult{TotalTime: totalTime, Items: items}, true, nil
}
