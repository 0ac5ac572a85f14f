package weatherselector

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"bikeprep/domain/entities/weather"
	"bikeprep/utils"
	"bikeprep/workers/daterange"
)

const stageName = "weather-selector"

// Selection result of selecting weather data
// + Records: weather records of the target station inside the date range
// + DatesInRange: amount of distinct dates inside the range, before filtering by station
// + StationNames: distinct station names inside the range, in order of appearance
type Selection struct {
	Records      []*weather.WeatherData `json:"records"`
	DatesInRange int                    `json:"dates_in_range"`
	StationNames []string               `json:"station_names"`
}

type WeatherSelector struct {
	runID       string
	stationName string
}

// NewWeatherSelector returns a selector that keeps the data reported by the station with the
// given name. The comparison is exact and case-sensitive
func NewWeatherSelector(runID string, stationName string) *WeatherSelector {
	return &WeatherSelector{
		runID:       runID,
		stationName: stationName,
	}
}

func (ws *WeatherSelector) getLogMessage(method string, message string) string {
	return fmt.Sprintf("[stage: %s][runID: %s][method: %s][status: OK] %s", stageName, ws.runID, method, message)
}

// Select returns the weather data inside dateRange reported by the target station. Only the
// columns used by the pipeline are kept. If no record matches the result is empty, that is
// not an error
func (ws *WeatherSelector) Select(records []*weather.WeatherData, dateRange daterange.DateRange) Selection {
	dateSet := make(utils.DateSet)
	stationSet := make(map[string]bool)
	var stationNames []string
	var selected []*weather.WeatherData

	for _, record := range records {
		if !dateRange.Contains(record.Date) {
			continue
		}

		dateSet.Add(record.Date)
		if !stationSet[record.Name] {
			stationSet[record.Name] = true
			stationNames = append(stationNames, record.Name)
		}

		if ws.isValid(record) {
			selected = append(selected, project(record))
		}
	}

	log.Debug(ws.getLogMessage("Select", fmt.Sprintf("date range %s, number of dates: %v, unique locations: %v", dateRange, len(dateSet), stationNames)))
	if len(selected) == 0 {
		log.Warn(ws.getLogMessage("Select", fmt.Sprintf("no weather data found for station %q, trips will have no weather", ws.stationName)))
	} else {
		log.Info(ws.getLogMessage("Select", fmt.Sprintf("%v weather records selected for station %q", len(selected), ws.stationName)))
	}

	return Selection{
		Records:      selected,
		DatesInRange: len(dateSet),
		StationNames: stationNames,
	}
}

// isValid returns true if the record was reported by the target station
func (ws *WeatherSelector) isValid(record *weather.WeatherData) bool {
	return record.Name == ws.stationName
}

// project returns a copy of the record with the calendar date and the fixed set of columns
func project(record *weather.WeatherData) *weather.WeatherData {
	return &weather.WeatherData{
		Date:          utils.DateOf(record.Date),
		Station:       record.Station,
		Name:          record.Name,
		Latitude:      record.Latitude,
		Longitude:     record.Longitude,
		Precipitation: record.Precipitation,
		Snowfall:      record.Snowfall,
		TMax:          record.TMax,
		TMin:          record.TMin,
	}
}
