package trip

import (
	"time"

	"bikeprep/domain/business/rushwindow"
	"bikeprep/utils"

	"github.com/umahmood/haversine"
)

const (
	MemberType = "member"
	CasualType = "casual"
)

// TripData struct that contains the data of a ride
// + RideID: ID of the ride, optional
// + RideableType: type of bike. It is not part of the output
// + StartedAt: timestamp in which the trip begins
// + EndedAt: timestamp in which the trip ends, never before StartedAt
// + StartStationName, StartStationID, EndStationName, EndStationID: stations of the trip
// + StartLat, StartLng, EndLat, EndLng: coordinates in degrees
// + MemberCasual: member or casual
//
// The following fields are set by the trip enricher:
// + TripTime: EndedAt - StartedAt
// + Weekday: day of the week of StartedAt, 0=Monday...6=Sunday
// + Rush: rush hour category of StartedAt
// + Distance: distance in km between the start and end coordinates
type TripData struct {
	RideID           string              `json:"ride_id"`
	RideableType     string              `json:"rideable_type"`
	StartedAt        time.Time           `json:"started_at"`
	EndedAt          time.Time           `json:"ended_at"`
	StartStationName string              `json:"start_station_name"`
	StartStationID   string              `json:"start_station_id"`
	EndStationName   string              `json:"end_station_name"`
	EndStationID     string              `json:"end_station_id"`
	StartLat         float64             `json:"start_lat" validate:"gte=-90,lte=90"`
	StartLng         float64             `json:"start_lng" validate:"gte=-180,lte=180"`
	EndLat           float64             `json:"end_lat" validate:"gte=-90,lte=90"`
	EndLng           float64             `json:"end_lng" validate:"gte=-180,lte=180"`
	MemberCasual     string              `json:"member_casual" validate:"oneof=member casual"`
	TripTime         time.Duration       `json:"trip_time"`
	Weekday          int                 `json:"weekday"`
	Rush             rushwindow.Category `json:"rush"`
	Distance         float64             `json:"distance"`
}

func (td *TripData) GetStartCoordinates() haversine.Coord {
	return haversine.Coord{Lat: td.StartLat, Lon: td.StartLng}
}

func (td *TripData) GetEndCoordinates() haversine.Coord {
	return haversine.Coord{Lat: td.EndLat, Lon: td.EndLng}
}

// GetTripTimeMinutes returns the duration of the trip in minutes
func (td *TripData) GetTripTimeMinutes() float64 {
	return td.TripTime.Seconds() / 60
}

func (td *TripData) IsMember() bool {
	return td.MemberCasual == MemberType
}

// GetDate returns the calendar date of the trip, which is the date in which it ends. It is the
// key used to join trips with weather data
func (td *TripData) GetDate() time.Time {
	return utils.DateOf(td.EndedAt)
}
