// Package catalogue is the in-memory transport catalogue: stop and bus
// records, name indexes, the stop→buses index, the asymmetric road-distance
// table, and the dense vertex-id assignment consumed by internal/routing.
//
// Grounded on the original transport_catalogue.h/.cpp (TransportCatalogue),
// generalized to Go maps and ported to the teacher's (passbi_core) error-
// wrapping and accessor-method style (internal/graph/memory.go's GetNode/
// GetEdges read-only accessors).
package catalogue

import (
	"errors"
	"fmt"
	"sort"

	"github.com/passbi/routestat/internal/geo"
	"github.com/passbi/routestat/internal/models"
)

// ErrNotFound is returned by Stop, Bus and Distance lookups that miss. It
// never terminates a run — callers turn it into a "not found" response.
var ErrNotFound = errors.New("not found")

// ErrMissingDistance is a fatal data-integrity error: a bus references a
// stop pair for which neither direction has a declared road distance.
var ErrMissingDistance = errors.New("missing distance for stop pair")

// Catalogue is populated once (stops, then distances, then buses) and is
// read-only for the remainder of the process.
type Catalogue struct {
	stops       map[string]*models.Stop
	buses       map[string]*models.Bus
	stopOrder   []string // insertion order, for dense vertex ids
	vertexOf    map[string]int
	busesOfStop map[string]map[string]struct{}
	distances   map[distKey]int
}

type distKey struct {
	from, to string
}

// New returns an empty catalogue ready for the three-phase build described
// in spec.md §3 (AddStop*, AddDistances*, AddBus*).
func New() *Catalogue {
	return &Catalogue{
		stops:       make(map[string]*models.Stop),
		buses:       make(map[string]*models.Bus),
		vertexOf:    make(map[string]int),
		busesOfStop: make(map[string]map[string]struct{}),
		distances:   make(map[distKey]int),
	}
}

// AddStop inserts the stop record and assigns it the next vertex id. Calling
// AddStop twice for the same name is a no-op for the second call's vertex
// assignment (the first insertion wins), matching the append-only contract
// of spec.md §3.
func (c *Catalogue) AddStop(stop models.Stop) {
	if _, exists := c.stops[stop.Name]; exists {
		return
	}
	s := stop
	c.stops[stop.Name] = &s
	c.vertexOf[stop.Name] = len(c.stopOrder)
	c.stopOrder = append(c.stopOrder, stop.Name)
}

// AddDistances records the road distances declared on stop.Distances. Must
// run after every referenced stop has been added via AddStop.
func (c *Catalogue) AddDistances(stop models.Stop) {
	for neighbor, meters := range stop.Distances {
		c.distances[distKey{stop.Name, neighbor}] = meters
	}
}

// AddBus inserts the bus record and indexes it against every stop it
// serves. Must run after every stop it references has been added.
func (c *Catalogue) AddBus(bus models.Bus) {
	b := bus
	c.buses[bus.Name] = &b

	for _, stopName := range bus.Stops {
		set, ok := c.busesOfStop[stopName]
		if !ok {
			set = make(map[string]struct{})
			c.busesOfStop[stopName] = set
		}
		set[bus.Name] = struct{}{}
	}
}

// Stop returns the stop record by name, or ErrNotFound.
func (c *Catalogue) Stop(name string) (*models.Stop, error) {
	s, ok := c.stops[name]
	if !ok {
		return nil, fmt.Errorf("stop %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// Bus returns the bus record by name, or ErrNotFound.
func (c *Catalogue) Bus(name string) (*models.Bus, error) {
	b, ok := c.buses[name]
	if !ok {
		return nil, fmt.Errorf("bus %q: %w", name, ErrNotFound)
	}
	return b, nil
}

// BusesOf returns the sorted set of bus names serving stop. A stop known to
// the catalogue but served by nothing returns an empty, non-nil slice.
func (c *Catalogue) BusesOf(stopName string) []string {
	set := c.busesOfStop[stopName]
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Distance returns the road distance from `from` to `to` in meters, falling
// back to the reverse direction when only it was declared. Fails with
// ErrMissingDistance when neither direction is present.
func (c *Catalogue) Distance(from, to string) (int, error) {
	if d, ok := c.distances[distKey{from, to}]; ok {
		return d, nil
	}
	if d, ok := c.distances[distKey{to, from}]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%s -> %s: %w", from, to, ErrMissingDistance)
}

// VertexOf returns the dense vertex id assigned to stopName, in [0,
// StopCount()). The id is stable for the process lifetime.
func (c *Catalogue) VertexOf(stopName string) (int, bool) {
	v, ok := c.vertexOf[stopName]
	return v, ok
}

// StopCount returns the number of distinct stops added to the catalogue.
func (c *Catalogue) StopCount() int {
	return len(c.stopOrder)
}

// StopNames returns every stop name in insertion (vertex-id) order.
func (c *Catalogue) StopNames() []string {
	out := make([]string, len(c.stopOrder))
	copy(out, c.stopOrder)
	return out
}

// BusNames returns every bus name, sorted lexicographically.
func (c *Catalogue) BusNames() []string {
	names := make([]string, 0, len(c.buses))
	for name := range c.buses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats computes the derived statistics for bus, per spec.md §4.1.
func (c *Catalogue) Stats(bus *models.Bus) (models.BusStats, error) {
	var stats models.BusStats

	if bus.IsRoundtrip {
		stats.StopCount = len(bus.Stops)
	} else {
		stats.StopCount = 2*len(bus.Stops) - 1
	}

	unique := make(map[string]struct{}, len(bus.Stops))
	for _, s := range bus.Stops {
		unique[s] = struct{}{}
	}
	stats.UniqueStopCount = len(unique)

	roadLength, err := c.roadLength(bus)
	if err != nil {
		return models.BusStats{}, err
	}
	stats.RouteLength = roadLength

	geoLength, err := c.geoLength(bus)
	if err != nil {
		return models.BusStats{}, err
	}

	stats.Curvature = curvature(roadLength, geoLength)

	return stats, nil
}

func (c *Catalogue) roadLength(bus *models.Bus) (float64, error) {
	var total float64
	for i := 0; i+1 < len(bus.Stops); i++ {
		d, err := c.Distance(bus.Stops[i], bus.Stops[i+1])
		if err != nil {
			return 0, err
		}
		total += float64(d)
		if !bus.IsRoundtrip {
			rev, err := c.Distance(bus.Stops[i+1], bus.Stops[i])
			if err != nil {
				return 0, err
			}
			total += float64(rev)
		}
	}
	return total, nil
}

func (c *Catalogue) geoLength(bus *models.Bus) (float64, error) {
	var total float64
	for i := 0; i+1 < len(bus.Stops); i++ {
		from, err := c.Stop(bus.Stops[i])
		if err != nil {
			return 0, err
		}
		to, err := c.Stop(bus.Stops[i+1])
		if err != nil {
			return 0, err
		}
		total += geo.Distance(
			geo.Coordinates{Latitude: from.Latitude, Longitude: from.Longitude},
			geo.Coordinates{Latitude: to.Latitude, Longitude: to.Longitude},
		)
	}
	if !bus.IsRoundtrip {
		total *= 2
	}
	return total, nil
}

const curvatureEpsilon = 1e-6

// curvature is 0 whenever geoLength is (near) zero or the ratio is NaN,
// per spec.md §7's numerics rules.
func curvature(roadLength, geoLength float64) float64 {
	if geoLength < curvatureEpsilon && geoLength > -curvatureEpsilon {
		return 0
	}
	ratio := roadLength / geoLength
	if ratio != ratio { // NaN check without importing math for one use
		return 0
	}
	return ratio
}
