// Command routestat reads an input document from standard input, builds the
// transport catalogue, routing engine and map renderer, dispatches every
// stat request, and writes the response document to standard output.
//
// Grounded on the original main.cpp's three-phase ingest/build/serve run
// loop, wearing the teacher's (passbi_core) cmd/importer and
// cmd/rebuild-graph flag-parsing and log.Fatalf conventions for its CLI
// surface instead of a database-backed batch job.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/passbi/routestat/internal/catalogue"
	"github.com/passbi/routestat/internal/config"
	"github.com/passbi/routestat/internal/dispatch"
	"github.com/passbi/routestat/internal/docio"
	"github.com/passbi/routestat/internal/gtfsimport"
	"github.com/passbi/routestat/internal/models"
	"github.com/passbi/routestat/internal/opsserver"
	"github.com/passbi/routestat/internal/routing"
)

func main() {
	gtfsPath := flag.String("gtfs", "", "optional path to a GTFS zip feed to seed the catalogue from, in addition to base_requests")
	serve := flag.Bool("serve", false, "start the optional ops HTTP server instead of processing stdin once")
	addr := flag.String("addr", ":8080", "listen address for -serve")
	flag.Parse()

	doc, err := docio.Decode(os.Stdin)
	if err != nil {
		log.Fatalf("routestat: %v", err)
	}

	if *gtfsPath != "" {
		feed, err := gtfsimport.LoadZip(*gtfsPath)
		if err != nil {
			log.Fatalf("routestat: gtfs import: %v", err)
		}
		stops, buses := feed.BaseRequests()
		doc.Stops = append(doc.Stops, stops...)
		doc.Buses = append(doc.Buses, buses...)
	}

	cat, err := buildCatalogue(doc)
	if err != nil {
		log.Fatalf("routestat: %v", err)
	}

	if err := config.ValidateRenderSettings(doc.RenderSettings, len(cat.BusNames())); err != nil {
		log.Fatalf("routestat: %v", err)
	}
	if err := config.ValidateRoutingSettings(doc.RoutingSettings); err != nil {
		log.Fatalf("routestat: %v", err)
	}

	engine, err := routing.Build(cat, doc.RoutingSettings)
	if err != nil {
		log.Fatalf("routestat: %v", err)
	}

	disp := dispatch.New(cat, engine, doc.RenderSettings)

	if *serve {
		server := opsserver.New(disp)
		log.Printf("routestat: ops server listening on %s", *addr)
		if err := server.ListenAndServe(*addr); err != nil {
			log.Fatalf("routestat: ops server: %v", err)
		}
		return
	}

	responses, err := disp.Dispatch(doc.StatRequests)
	if err != nil {
		log.Fatalf("routestat: %v", err)
	}

	if err := docio.Encode(os.Stdout, responses); err != nil {
		log.Fatalf("routestat: %v", err)
	}
}

// buildCatalogue runs the three-phase catalogue build (stops, then
// distances, then buses), per spec.md §3.
func buildCatalogue(doc docio.Document) (*catalogue.Catalogue, error) {
	cat := catalogue.New()

	for _, stop := range doc.Stops {
		cat.AddStop(stop)
	}
	for _, stop := range doc.Stops {
		cat.AddDistances(stop)
	}
	for _, bus := range doc.Buses {
		if err := validateBusStops(cat, bus); err != nil {
			return nil, err
		}
		cat.AddBus(bus)
	}

	return cat, nil
}

func validateBusStops(cat *catalogue.Catalogue, bus models.Bus) error {
	for _, name := range bus.Stops {
		if _, err := cat.Stop(name); err != nil {
			return fmt.Errorf("bus %q: %w", bus.Name, err)
		}
	}
	return nil
}
