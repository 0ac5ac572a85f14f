package tripenricher

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"bikeprep/domain/business/geodistance"
	"bikeprep/domain/business/rushwindow"
	"bikeprep/domain/entities/trip"
)

const stageName = "trip-enricher"

// EnrichmentSummary diagnostics of an enrichment
type EnrichmentSummary struct {
	Trips       int                         `json:"trips"`
	MaxDistance float64                     `json:"max_distance_km"`
	MinDistance float64                     `json:"min_distance_km"`
	RushCounter map[rushwindow.Category]int `json:"rush_counter"`
}

type TripEnricher struct {
	runID      string
	classifier rushwindow.Classifier
}

func NewTripEnricher(runID string, classifier rushwindow.Classifier) *TripEnricher {
	return &TripEnricher{
		runID:      runID,
		classifier: classifier,
	}
}

func (te *TripEnricher) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[stage: %s][runID: %s][method: %s][status: ERROR] %s: %s", stageName, te.runID, method, message, err.Error())
	}
	return fmt.Sprintf("[stage: %s][runID: %s][method: %s][status: OK] %s", stageName, te.runID, method, message)
}

// Enrich sets the trip time, weekday, rush category and distance of each trip. Trips are
// modified in place and none of them is filtered
func (te *TripEnricher) Enrich(trips []*trip.TripData) EnrichmentSummary {
	summary := EnrichmentSummary{
		Trips:       len(trips),
		RushCounter: make(map[rushwindow.Category]int),
	}

	for idx := range trips {
		te.EnrichTrip(trips[idx])

		distance := trips[idx].Distance
		if idx == 0 || distance > summary.MaxDistance {
			summary.MaxDistance = distance
		}
		if idx == 0 || distance < summary.MinDistance {
			summary.MinDistance = distance
		}
		summary.RushCounter[trips[idx].Rush] += 1
	}

	log.Debug(te.getLogMessage("Enrich", fmt.Sprintf("Max Distance: %v km - Min Distance: %v km", summary.MaxDistance, summary.MinDistance), nil))
	log.Info(te.getLogMessage("Enrich", fmt.Sprintf("%v trips enriched, rush categories: %v", summary.Trips, summary.RushCounter), nil))
	return summary
}

// EnrichTrip sets the derived fields of a single trip
func (te *TripEnricher) EnrichTrip(tripData *trip.TripData) {
	tripData.TripTime = tripData.EndedAt.Sub(tripData.StartedAt)
	tripData.Weekday = rushwindow.WeekdayOf(tripData.StartedAt)
	tripData.Rush = te.classifier.Classify(tripData.StartedAt, tripData.Weekday)
	tripData.Distance = geodistance.Distance(tripData.GetStartCoordinates(), tripData.GetEndCoordinates())
}
