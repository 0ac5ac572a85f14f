package tripenricher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeprep/domain/business/rushwindow"
	"bikeprep/domain/entities/trip"
)

func newTrip(startedAt time.Time, duration time.Duration, start [2]float64, end [2]float64) *trip.TripData {
	return &trip.TripData{
		StartedAt:    startedAt,
		EndedAt:      startedAt.Add(duration),
		StartLat:     start[0],
		StartLng:     start[1],
		EndLat:       end[0],
		EndLng:       end[1],
		MemberCasual: trip.MemberType,
	}
}

func TestEnrichTrip(t *testing.T) {
	enricher := NewTripEnricher("test", rushwindow.DefaultClassifier())
	tripData := newTrip(
		time.Date(2021, time.September, 1, 8, 0, 0, 0, time.UTC),
		10*time.Minute,
		[2]float64{40.0, -74.0},
		[2]float64{40.0, -74.0},
	)

	enricher.EnrichTrip(tripData)

	assert.Equal(t, 10*time.Minute, tripData.TripTime)
	assert.Equal(t, 10.0, tripData.GetTripTimeMinutes())
	assert.Equal(t, 2, tripData.Weekday) // wednesday
	assert.Equal(t, rushwindow.AmRush, tripData.Rush)
	assert.Equal(t, 0.0, tripData.Distance)
}

func TestEnrichKeepsAllTripsAndOrder(t *testing.T) {
	enricher := NewTripEnricher("test", rushwindow.DefaultClassifier())
	sunday := time.Date(2021, time.September, 5, 17, 0, 0, 0, time.UTC)
	friday := time.Date(2021, time.September, 3, 17, 0, 0, 0, time.UTC)

	trips := []*trip.TripData{
		newTrip(sunday, 5*time.Minute, [2]float64{40.70, -74.00}, [2]float64{40.75, -73.98}),
		newTrip(friday, 30*time.Minute, [2]float64{40.70, -74.00}, [2]float64{40.70, -74.00}),
		newTrip(friday.Add(-12*time.Hour), 90*time.Second, [2]float64{40.80, -73.95}, [2]float64{40.70, -74.01}),
	}

	summary := enricher.Enrich(trips)

	require.Len(t, trips, 3)
	assert.Equal(t, 3, summary.Trips)
	assert.Equal(t, sunday, trips[0].StartedAt)
	assert.Equal(t, rushwindow.NotRush, trips[0].Rush)
	assert.Equal(t, 6, trips[0].Weekday)
	assert.Equal(t, rushwindow.PmRush, trips[1].Rush)
	assert.Equal(t, 4, trips[1].Weekday)
	assert.Equal(t, rushwindow.NotRush, trips[2].Rush)
	assert.Equal(t, 1.5, trips[2].GetTripTimeMinutes())

	assert.Equal(t, 0.0, summary.MinDistance)
	assert.Equal(t, trips[2].Distance, summary.MaxDistance)
	assert.Equal(t, 2, summary.RushCounter[rushwindow.NotRush])
	assert.Equal(t, 1, summary.RushCounter[rushwindow.PmRush])
}

func TestEnrichEmpty(t *testing.T) {
	enricher := NewTripEnricher("test", rushwindow.DefaultClassifier())

	summary := enricher.Enrich(nil)

	assert.Equal(t, 0, summary.Trips)
	assert.Empty(t, summary.RushCounter)
}
