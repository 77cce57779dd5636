package gtfsimport_test

import (
	"testing"

	"github.com/passbi/routestat/internal/gtfsimport"
	"github.com/passbi/routestat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeed() *gtfsimport.Feed {
	return &gtfsimport.Feed{
		Stops: []models.GTFSStop{
			{StopID: "s1", StopName: "A", Lat: 55.611087, Lon: 37.20829},
			{StopID: "s2", StopName: "B", Lat: 55.595884, Lon: 37.209755},
			{StopID: "s3", StopName: "Unused", Lat: 1, Lon: 1},
		},
		Routes: []models.GTFSRoute{{RouteID: "r1", ShortName: "256"}},
		Trips:  []models.GTFSTrip{{RouteID: "r1", TripID: "t1"}},
		StopTimes: []models.GTFSStopTime{
			{TripID: "t1", StopID: "s2", StopSequence: 2},
			{TripID: "t1", StopID: "s1", StopSequence: 1},
		},
	}
}

func TestBaseRequestsBuildsSortedSequence(t *testing.T) {
	stops, buses := sampleFeed().BaseRequests()

	require.Len(t, buses, 1)
	assert.Equal(t, "256", buses[0].Name)
	assert.Equal(t, []string{"A", "B"}, buses[0].Stops)
	assert.False(t, buses[0].IsRoundtrip)

	require.Len(t, stops, 2)
	assert.Equal(t, "A", stops[0].Name)
	assert.Equal(t, "B", stops[1].Name)
	assert.Greater(t, stops[0].Distances["B"], 0)
}

func TestBaseRequestsSkipsRoutesWithoutTrips(t *testing.T) {
	feed := sampleFeed()
	feed.Routes = append(feed.Routes, models.GTFSRoute{RouteID: "orphan", ShortName: "999"})

	_, buses := feed.BaseRequests()
	require.Len(t, buses, 1)
	assert.Equal(t, "256", buses[0].Name)
}

func TestBaseRequestsDetectsRoundtrip(t *testing.T) {
	feed := sampleFeed()
	feed.StopTimes = append(feed.StopTimes, models.GTFSStopTime{TripID: "t1", StopID: "s1", StopSequence: 3})

	_, buses := feed.BaseRequests()
	require.Len(t, buses, 1)
	assert.Equal(t, []string{"A", "B", "A"}, buses[0].Stops)
	assert.True(t, buses[0].IsRoundtrip)
}
