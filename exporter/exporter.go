package exporter

import (
	"fmt"
	"strconv"
	"time"

	"bikeprep/domain/entities/feature"
	"bikeprep/utils"
)

const (
	exporterType = "exporter"

	FormatCSV = "csv"
	FormatSQL = "sql"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	DefaultTable = "prepared_trips"

	timestampLayout = "2006-01-02 15:04:05.999999"

	// contextCheckInterval amount of rows written between checks of the context
	contextCheckInterval = 10000
)

// SupportedDrivers sql drivers registered by this package
var SupportedDrivers = []string{DriverSQLite, DriverPostgres}

// OutputColumns columns of the output table, in order
var OutputColumns = []string{
	"ride_id",
	"started_at",
	"ended_at",
	"start_station_name",
	"start_station_id",
	"end_station_name",
	"end_station_id",
	"start_lat",
	"start_lng",
	"end_lat",
	"end_lng",
	"member_casual",
	"date",
	"trip_time_minutes",
	"weekday",
	"rush",
	"distance_km",
	"tmax",
	"tmin",
	"membership_ind",
	"total_precip",
	"precip_ind",
	"rush_ind",
}

func getLogMessage(exporterName string, runID string, method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[%s: %s][runID: %s][method: %s][status: ERROR] %s: %s", exporterType, exporterName, runID, method, message, err.Error())
	}
	return fmt.Sprintf("[%s: %s][runID: %s][method: %s][status: OK] %s", exporterType, exporterName, runID, method, message)
}

// toRecord returns the cells of a row in the order of OutputColumns. Nil values are empty cells
func toRecord(featureData *feature.FeatureData) []string {
	return []string{
		featureData.RideID,
		formatTimestamp(featureData.StartedAt),
		formatTimestamp(featureData.EndedAt),
		featureData.StartStationName,
		featureData.StartStationID,
		featureData.EndStationName,
		featureData.EndStationID,
		formatFloat(featureData.StartLat),
		formatFloat(featureData.StartLng),
		formatFloat(featureData.EndLat),
		formatFloat(featureData.EndLng),
		featureData.MemberCasual,
		featureData.Date.Format(utils.DateLayout),
		formatFloat(featureData.TripTimeMinutes),
		strconv.Itoa(featureData.Weekday),
		string(featureData.Rush),
		formatFloat(featureData.Distance),
		formatOptionalFloat(featureData.TMax),
		formatOptionalFloat(featureData.TMin),
		strconv.Itoa(featureData.MembershipIndicator),
		formatOptionalFloat(featureData.TotalPrecipitation),
		strconv.Itoa(featureData.PrecipitationIndicator),
		strconv.Itoa(featureData.RushIndicator),
	}
}

func formatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return formatFloat(*value)
}
