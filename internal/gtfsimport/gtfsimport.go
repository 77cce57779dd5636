// Package gtfsimport seeds a transport catalogue's base requests from a
// real-world GTFS feed instead of (or in addition to) an input document's
// base_requests: stops.txt becomes Stop records, and each route's first
// trip's stop sequence becomes a Bus record, with road distances
// approximated from great-circle distance between consecutive stops.
//
// Adapted from the teacher's (passbi_core) internal/gtfs/parser.go (zip
// extraction, CSV column-map parsing) and internal/gtfs/normalize.go
// (haversineDistance, stop validation), generalized to this domain's Stop/
// Bus shape instead of passbi_core's graph-node/edge persistence layer.
// TransitMode inference and pgx-backed deduplication are dropped: this
// package has no mode concept and no database to deduplicate against.
package gtfsimport

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/passbi/routestat/internal/geo"
	"github.com/passbi/routestat/internal/models"
)

// Feed is the subset of a GTFS feed this package parses.
type Feed struct {
	Stops     []models.GTFSStop
	Routes    []models.GTFSRoute
	Trips     []models.GTFSTrip
	StopTimes []models.GTFSStopTime
}

// LoadZip extracts and parses a GTFS zip archive's required files:
// stops.txt, routes.txt, trips.txt, stop_times.txt.
func LoadZip(zipPath string) (*Feed, error) {
	tempDir, err := os.MkdirTemp("", "routestat-gtfs-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := extractZip(zipPath, tempDir); err != nil {
		return nil, fmt.Errorf("extract zip: %w", err)
	}

	stops, err := parseStops(filepath.Join(tempDir, "stops.txt"))
	if err != nil {
		return nil, fmt.Errorf("parse stops.txt: %w", err)
	}
	routes, err := parseRoutes(filepath.Join(tempDir, "routes.txt"))
	if err != nil {
		return nil, fmt.Errorf("parse routes.txt: %w", err)
	}
	trips, err := parseTrips(filepath.Join(tempDir, "trips.txt"))
	if err != nil {
		return nil, fmt.Errorf("parse trips.txt: %w", err)
	}
	stopTimes, err := parseStopTimes(filepath.Join(tempDir, "stop_times.txt"))
	if err != nil {
		return nil, fmt.Errorf("parse stop_times.txt: %w", err)
	}

	return &Feed{Stops: stops, Routes: routes, Trips: trips, StopTimes: stopTimes}, nil
}

// BaseRequests turns the feed into the catalogue's stop and bus base
// requests. Each route contributes one bus, built from its first trip's
// stop sequence (ordered by stop_sequence); a route with no trip, or whose
// first trip visits fewer than two known stops, is skipped. Road distances
// are the great-circle distance between consecutive stops on that
// sequence — an approximation, since GTFS carries no road-distance field.
func (f *Feed) BaseRequests() ([]models.Stop, []models.Bus) {
	stopByID := make(map[string]models.GTFSStop, len(f.Stops))
	for _, s := range f.Stops {
		stopByID[s.StopID] = s
	}

	stopTimesByTrip := make(map[string][]models.GTFSStopTime)
	for _, st := range f.StopTimes {
		stopTimesByTrip[st.TripID] = append(stopTimesByTrip[st.TripID], st)
	}
	for tripID, seq := range stopTimesByTrip {
		sort.Slice(seq, func(i, j int) bool { return seq[i].StopSequence < seq[j].StopSequence })
		stopTimesByTrip[tripID] = seq
	}

	firstTripOfRoute := make(map[string]string)
	for _, trip := range f.Trips {
		if _, seen := firstTripOfRoute[trip.RouteID]; !seen {
			firstTripOfRoute[trip.RouteID] = trip.TripID
		}
	}

	distances := make(map[string]map[string]int)
	usedStopIDs := make(map[string]struct{})
	buses := make([]models.Bus, 0, len(f.Routes))

	for _, route := range f.Routes {
		tripID, ok := firstTripOfRoute[route.RouteID]
		if !ok {
			continue
		}

		seq := stopTimesByTrip[tripID]
		names := make([]string, 0, len(seq))
		known := make([]models.GTFSStop, 0, len(seq))
		for _, st := range seq {
			stop, ok := stopByID[st.StopID]
			if !ok {
				continue
			}
			names = append(names, stop.StopName)
			known = append(known, stop)
			usedStopIDs[st.StopID] = struct{}{}
		}
		if len(names) < 2 {
			continue
		}

		for i := 0; i+1 < len(known); i++ {
			from, to := known[i], known[i+1]
			meters := int(math.Round(geo.Distance(
				geo.Coordinates{Latitude: from.Lat, Longitude: from.Lon},
				geo.Coordinates{Latitude: to.Lat, Longitude: to.Lon},
			)))
			if distances[from.StopName] == nil {
				distances[from.StopName] = make(map[string]int)
			}
			distances[from.StopName][to.StopName] = meters
		}

		name := route.ShortName
		if name == "" {
			name = route.LongName
		}
		buses = append(buses, models.Bus{
			Name:        name,
			Stops:       names,
			IsRoundtrip: names[0] == names[len(names)-1],
		})
	}

	stops := make([]models.Stop, 0, len(usedStopIDs))
	for stopID := range usedStopIDs {
		stop := stopByID[stopID]
		stops = append(stops, models.Stop{
			Name:      stop.StopName,
			Latitude:  stop.Lat,
			Longitude: stop.Lon,
			Distances: distances[stop.StopName],
		})
	}
	sort.Slice(stops, func(i, j int) bool { return stops[i].Name < stops[j].Name })

	return stops, buses
}

func parseStops(path string) ([]models.GTFSStop, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, colMap, err := readCSV(file)
	if err != nil {
		return nil, err
	}

	var stops []models.GTFSStop
	for _, row := range rows {
		stopID := field(row, colMap, "stop_id")
		latStr := field(row, colMap, "stop_lat")
		lonStr := field(row, colMap, "stop_lon")
		if stopID == "" || latStr == "" || lonStr == "" {
			continue
		}

		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			continue
		}
		if !validCoordinate(lat, lon) {
			continue
		}

		stops = append(stops, models.GTFSStop{
			StopID:   stopID,
			StopName: field(row, colMap, "stop_name"),
			Lat:      lat,
			Lon:      lon,
		})
	}
	return stops, nil
}

func parseRoutes(path string) ([]models.GTFSRoute, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, colMap, err := readCSV(file)
	if err != nil {
		return nil, err
	}

	var routes []models.GTFSRoute
	for _, row := range rows {
		routeID := field(row, colMap, "route_id")
		if routeID == "" {
			continue
		}
		routes = append(routes, models.GTFSRoute{
			RouteID:   routeID,
			ShortName: field(row, colMap, "route_short_name"),
			LongName:  field(row, colMap, "route_long_name"),
		})
	}
	return routes, nil
}

func parseTrips(path string) ([]models.GTFSTrip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, colMap, err := readCSV(file)
	if err != nil {
		return nil, err
	}

	var trips []models.GTFSTrip
	for _, row := range rows {
		tripID := field(row, colMap, "trip_id")
		routeID := field(row, colMap, "route_id")
		if tripID == "" || routeID == "" {
			continue
		}
		trips = append(trips, models.GTFSTrip{RouteID: routeID, TripID: tripID})
	}
	return trips, nil
}

func parseStopTimes(path string) ([]models.GTFSStopTime, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, colMap, err := readCSV(file)
	if err != nil {
		return nil, err
	}

	var stopTimes []models.GTFSStopTime
	for _, row := range rows {
		tripID := field(row, colMap, "trip_id")
		stopID := field(row, colMap, "stop_id")
		seqStr := field(row, colMap, "stop_sequence")
		if tripID == "" || stopID == "" || seqStr == "" {
			continue
		}
		seq, err := strconv.Atoi(seqStr)
		if err != nil {
			continue
		}
		stopTimes = append(stopTimes, models.GTFSStopTime{TripID: tripID, StopID: stopID, StopSequence: seq})
	}
	return stopTimes, nil
}

// validCoordinate rejects out-of-range and null-island coordinates, per the
// teacher's ValidateAndCleanStops.
func validCoordinate(lat, lon float64) bool {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return false
	}
	return !(lat == 0 && lon == 0)
}

func readCSV(r io.Reader) (rows [][]string, colMap map[string]int, err error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	colMap = make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}

	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	return rows, colMap, nil
}

func field(row []string, colMap map[string]int, name string) string {
	if idx, ok := colMap[name]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return err
		}

		destPath := filepath.Join(destDir, filepath.Base(file.Name))
		outFile, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		rc.Close()
		outFile.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
