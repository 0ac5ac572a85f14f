package weather

import "time"

// WeatherData struct that contains the daily observations of a weather station.
// Measurements are nil when the station did not report them.
type WeatherData struct {
	Date          time.Time `json:"date"`
	Station       string    `json:"station"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Precipitation *float64  `json:"precipitation"`
	Snowfall      *float64  `json:"snowfall"`
	TMax          *float64  `json:"tmax"`
	TMin          *float64  `json:"tmin"`
}
