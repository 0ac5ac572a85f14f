package feature

import (
	"time"

	"bikeprep/domain/business/rushwindow"
	"bikeprep/domain/entities/trip"
	"bikeprep/domain/entities/weather"
)

// MergedData a trip with the weather of the date in which it ends. Weather is nil when there
// is no weather data for that date
type MergedData struct {
	Trip    *trip.TripData       `json:"trip"`
	Weather *weather.WeatherData `json:"weather"`
}

// FeatureData row of the output table. It keeps the trip columns except the rideable type, the
// temperatures of the day and the indicators used by the regression model.
// + MembershipIndicator: 1 if the rider is a member, 0 otherwise
// + TotalPrecipitation: precipitation + snowfall, nil if any of them is missing
// + PrecipitationIndicator: 1 if TotalPrecipitation > 0.1
// + RushIndicator: 0 if the trip is not in rush hour, 1 otherwise
type FeatureData struct {
	RideID                 string              `json:"ride_id"`
	StartedAt              time.Time           `json:"started_at"`
	EndedAt                time.Time           `json:"ended_at"`
	StartStationName       string              `json:"start_station_name"`
	StartStationID         string              `json:"start_station_id"`
	EndStationName         string              `json:"end_station_name"`
	EndStationID           string              `json:"end_station_id"`
	StartLat               float64             `json:"start_lat"`
	StartLng               float64             `json:"start_lng"`
	EndLat                 float64             `json:"end_lat"`
	EndLng                 float64             `json:"end_lng"`
	MemberCasual           string              `json:"member_casual"`
	Date                   time.Time           `json:"date"`
	TripTimeMinutes        float64             `json:"trip_time_minutes"`
	Weekday                int                 `json:"weekday"`
	Rush                   rushwindow.Category `json:"rush"`
	Distance               float64             `json:"distance_km"`
	TMax                   *float64            `json:"tmax"`
	TMin                   *float64            `json:"tmin"`
	MembershipIndicator    int                 `json:"membership_ind"`
	TotalPrecipitation     *float64            `json:"total_precip"`
	PrecipitationIndicator int                 `json:"precip_ind"`
	RushIndicator          int                 `json:"rush_ind"`
}
