package datejoiner

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"bikeprep/domain/entities/feature"
	"bikeprep/domain/entities/trip"
	"bikeprep/domain/entities/weather"
	dataErrors "bikeprep/domain/errors"
	"bikeprep/utils"
)

const joinerType = "date-joiner"

// JoinSummary diagnostics of a merge
type JoinSummary struct {
	Trips             int `json:"trips"`
	WeatherRecords    int `json:"weather_records"`
	DuplicatedDates   int `json:"duplicated_dates"`
	TripsWithWeather  int `json:"trips_with_weather"`
	TripsWithoutMatch int `json:"trips_without_match"`
}

type DateJoiner struct {
	runID string
}

func NewDateJoiner(runID string) *DateJoiner {
	return &DateJoiner{
		runID: runID,
	}
}

func (dj *DateJoiner) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[joiner: %s][runID: %s][method: %s][status: ERROR] %s: %s", joinerType, dj.runID, method, message, err.Error())
	}
	return fmt.Sprintf("[joiner: %s][runID: %s][method: %s][status: OK] %s", joinerType, dj.runID, method, message)
}

// Merge joins the trips with the weather of the date in which each trip ends. The flow of this function is:
// 1. Deduplicate weather data by date, the first record of each date is kept
// 2. Left join trips with weather data by date. Trips without weather keep a nil Weather
// 3. Check that the amount of rows after the join is the amount of trips. If not, a MergeIntegrityError is returned
// The order of the trips is preserved
func (dj *DateJoiner) Merge(trips []*trip.TripData, weatherData []*weather.WeatherData) ([]*feature.MergedData, JoinSummary, error) {
	uniqueWeather := Deduplicate(weatherData)
	summary := JoinSummary{
		Trips:           len(trips),
		WeatherRecords:  len(weatherData),
		DuplicatedDates: len(weatherData) - len(uniqueWeather),
	}
	if summary.DuplicatedDates > 0 {
		log.Warn(dj.getLogMessage("Merge", fmt.Sprintf("%v weather records dropped because of duplicated dates", summary.DuplicatedDates), nil))
	}

	merged := LeftJoin(trips, uniqueWeather)

	err := CheckIntegrity(len(trips), merged)
	if err != nil {
		log.Error(dj.getLogMessage("Merge", "merge changed the amount of trips", err))
		return nil, summary, err
	}

	for _, row := range merged {
		if row.Weather != nil {
			summary.TripsWithWeather += 1
		}
	}
	summary.TripsWithoutMatch = summary.Trips - summary.TripsWithWeather

	log.Info(dj.getLogMessage("Merge", fmt.Sprintf("merge successful: %v trips, %v without weather", summary.Trips, summary.TripsWithoutMatch), nil))
	return merged, summary, nil
}

// Deduplicate returns the weather data with one record per date. The first record of each date is kept
// and the order is preserved
func Deduplicate(weatherData []*weather.WeatherData) []*weather.WeatherData {
	dateSet := make(utils.DateSet)
	var unique []*weather.WeatherData
	for _, record := range weatherData {
		if dateSet.Contains(record.Date) {
			continue
		}
		dateSet.Add(record.Date)
		unique = append(unique, record)
	}
	return unique
}

// LeftJoin joins each trip with every weather record of its date. If the weather data has more than one
// record for a date, the trips of that date are repeated, so weather data must be deduplicated first
func LeftJoin(trips []*trip.TripData, weatherData []*weather.WeatherData) []*feature.MergedData {
	weatherByDate := make(map[string][]*weather.WeatherData)
	for _, record := range weatherData {
		key := utils.DateKey(record.Date)
		weatherByDate[key] = append(weatherByDate[key], record)
	}

	merged := make([]*feature.MergedData, 0, len(trips))
	for _, tripData := range trips {
		matches, ok := weatherByDate[utils.DateKey(tripData.GetDate())]
		if !ok {
			merged = append(merged, &feature.MergedData{Trip: tripData})
			continue
		}

		for _, record := range matches {
			merged = append(merged, &feature.MergedData{Trip: tripData, Weather: record})
		}
	}
	return merged
}

// CheckIntegrity returns a MergeIntegrityError if the merge did not keep the amount of trips
func CheckIntegrity(preMergeTrips int, merged []*feature.MergedData) error {
	if len(merged) != preMergeTrips {
		return &dataErrors.MergeIntegrityError{Expected: preMergeTrips, Got: len(merged)}
	}
	return nil
}
