package featurebuilder

import (
	"bikeprep/domain/business/rushwindow"
	"bikeprep/domain/entities/feature"
	"bikeprep/domain/entities/trip"
	"bikeprep/domain/entities/weather"
)

// PrecipitationThreshold a day is considered rainy or snowy if the total precipitation is greater than this value
const PrecipitationThreshold = 0.1

// Indicators binary variables of a row used by the regression model
type Indicators struct {
	Membership         int
	TotalPrecipitation *float64
	Precipitation      int
	Rush               int
}

// Build returns one FeatureData per merged row, in the same order
func Build(merged []*feature.MergedData) []*feature.FeatureData {
	features := make([]*feature.FeatureData, 0, len(merged))
	for _, row := range merged {
		features = append(features, BuildRow(row))
	}
	return features
}

// BuildRow derives the indicators of a merged row and drops the columns that are not needed downstream:
// rideable type, raw precipitation and snowfall, and the metadata of the weather station
func BuildRow(row *feature.MergedData) *feature.FeatureData {
	tripData := row.Trip
	indicators := ComputeIndicators(tripData.MemberCasual, tripData.Rush, row.Weather)

	featureData := &feature.FeatureData{
		RideID:                 tripData.RideID,
		StartedAt:              tripData.StartedAt,
		EndedAt:                tripData.EndedAt,
		StartStationName:       tripData.StartStationName,
		StartStationID:         tripData.StartStationID,
		EndStationName:         tripData.EndStationName,
		EndStationID:           tripData.EndStationID,
		StartLat:               tripData.StartLat,
		StartLng:               tripData.StartLng,
		EndLat:                 tripData.EndLat,
		EndLng:                 tripData.EndLng,
		MemberCasual:           tripData.MemberCasual,
		Date:                   tripData.GetDate(),
		TripTimeMinutes:        tripData.GetTripTimeMinutes(),
		Weekday:                tripData.Weekday,
		Rush:                   tripData.Rush,
		Distance:               tripData.Distance,
		MembershipIndicator:    indicators.Membership,
		TotalPrecipitation:     indicators.TotalPrecipitation,
		PrecipitationIndicator: indicators.Precipitation,
		RushIndicator:          indicators.Rush,
	}

	if row.Weather != nil {
		featureData.TMax = row.Weather.TMax
		featureData.TMin = row.Weather.TMin
	}
	return featureData
}

// ComputeIndicators returns the indicators for a rider type, a rush category and the weather of the day.
// weatherData can be nil, in that case the total precipitation is unknown and the precipitation indicator is 0
func ComputeIndicators(memberCasual string, rush rushwindow.Category, weatherData *weather.WeatherData) Indicators {
	indicators := Indicators{
		Membership: boolToInt(memberCasual == trip.MemberType),
		Rush:       boolToInt(rush != rushwindow.NotRush),
	}

	if weatherData != nil {
		indicators.TotalPrecipitation = sum(weatherData.Precipitation, weatherData.Snowfall)
	}
	indicators.Precipitation = PrecipitationIndicator(indicators.TotalPrecipitation)
	return indicators
}

// PrecipitationIndicator returns 1 if totalPrecipitation > PrecipitationThreshold. Unknown values return 0
func PrecipitationIndicator(totalPrecipitation *float64) int {
	if totalPrecipitation == nil {
		return 0
	}
	return boolToInt(*totalPrecipitation > PrecipitationThreshold)
}

// sum returns a + b, or nil if any of them is nil
func sum(a *float64, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	total := *a + *b
	return &total
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
