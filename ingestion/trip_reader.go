package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"bikeprep/domain/entities/trip"
	dataErrors "bikeprep/domain/errors"
)

const (
	readerType = "trip-reader"

	startedAtColumn        = "started_at"
	endedAtColumn          = "ended_at"
	startLatColumn         = "start_lat"
	startLngColumn         = "start_lng"
	endLatColumn           = "end_lat"
	endLngColumn           = "end_lng"
	memberCasualColumn     = "member_casual"
	rideableTypeColumn     = "rideable_type"
	startStationNameColumn = "start_station_name"
	rideIDColumn           = "ride_id"
	startStationIDColumn   = "start_station_id"
	endStationNameColumn   = "end_station_name"
	endStationIDColumn     = "end_station_id"

	// contextCheckInterval amount of rows read between checks of the context
	contextCheckInterval = 10000
)

// RowPolicy what to do with a trip row that has malformed timestamps or invalid values
type RowPolicy string

const (
	// FailOnMalformedRow aborts the ingestion
	FailOnMalformedRow RowPolicy = "fail"
	// SkipMalformedRow drops the row and continues
	SkipMalformedRow RowPolicy = "skip"
)

// TripRequiredColumns columns that a trips file must have
var TripRequiredColumns = []string{
	startedAtColumn,
	endedAtColumn,
	startLatColumn,
	startLngColumn,
	endLatColumn,
	endLngColumn,
	memberCasualColumn,
	rideableTypeColumn,
	startStationNameColumn,
}

// timestampLayouts accepted layouts for trip timestamps. Fractional seconds are accepted by all of them
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ReadSummary diagnostics of a read
type ReadSummary struct {
	Rows        int `json:"rows"`
	SkippedRows int `json:"skipped_rows"`
}

type TripReader struct {
	runID    string
	policy   RowPolicy
	validate *validator.Validate
}

func NewTripReader(runID string, policy RowPolicy) *TripReader {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})

	return &TripReader{
		runID:    runID,
		policy:   policy,
		validate: validate,
	}
}

func (tr *TripReader) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[reader: %s][runID: %s][method: %s][status: ERROR] %s: %s", readerType, tr.runID, method, message, err.Error())
	}
	return fmt.Sprintf("[reader: %s][runID: %s][method: %s][status: OK] %s", readerType, tr.runID, method, message)
}

// ReadFile reads the trips of the csv file in path
func (tr *TripReader) ReadFile(ctx context.Context, path string) ([]*trip.TripData, ReadSummary, error) {
	table, closer, err := openCSV(path, TripRequiredColumns)
	if err != nil {
		log.Error(tr.getLogMessage("ReadFile", "unable to read the trips file", err))
		return nil, ReadSummary{}, err
	}
	defer closer.Close()

	return tr.readTable(ctx, table)
}

// Read reads the trips of a csv table. source is used to identify the table in errors
func (tr *TripReader) Read(ctx context.Context, r io.Reader, source string) ([]*trip.TripData, ReadSummary, error) {
	table, err := newCSVTable(r, source, TripRequiredColumns)
	if err != nil {
		return nil, ReadSummary{}, err
	}
	return tr.readTable(ctx, table)
}

func (tr *TripReader) readTable(ctx context.Context, table *csvTable) ([]*trip.TripData, ReadSummary, error) {
	var summary ReadSummary
	var trips []*trip.TripData

	for {
		if summary.Rows%contextCheckInterval == 0 && ctx.Err() != nil {
			return nil, summary, ctx.Err()
		}

		record, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, summary, err
		}
		summary.Rows += 1

		tripData, err := tr.parseTrip(table, record)
		if err != nil {
			if !isRowError(err) || tr.policy != SkipMalformedRow {
				log.Error(tr.getLogMessage("readTable", "invalid trip", err))
				return nil, summary, err
			}
			log.Warn(tr.getLogMessage("readTable", "skipping invalid trip", err))
			summary.SkippedRows += 1
			continue
		}
		trips = append(trips, tripData)
	}

	log.Info(tr.getLogMessage("readTable", fmt.Sprintf("%v trips read from %s, %v skipped", len(trips), table.source, summary.SkippedRows), nil))
	return trips, summary, nil
}

// isRowError returns true for errors that affect only one row and may be skipped depending on the RowPolicy
func isRowError(err error) bool {
	return errors.Is(err, dataErrors.ErrMalformedTimestamp) || errors.Is(err, dataErrors.ErrInvalidTripData)
}

func (tr *TripReader) parseTrip(table *csvTable, record []string) (*trip.TripData, error) {
	startedAt, err := parseTimestamp(table, record, startedAtColumn)
	if err != nil {
		return nil, err
	}

	endedAt, err := parseTimestamp(table, record, endedAtColumn)
	if err != nil {
		return nil, err
	}

	if endedAt.Before(startedAt) {
		return nil, &dataErrors.MalformedTimestampError{
			Row:    table.row,
			Column: endedAtColumn,
			Value:  table.value(record, endedAtColumn),
			Reason: fmt.Sprintf("trip ends before it starts at %s", table.value(record, startedAtColumn)),
		}
	}

	coordinates := make(map[string]float64, 4)
	for _, column := range []string{startLatColumn, startLngColumn, endLatColumn, endLngColumn} {
		value, err := strconv.ParseFloat(table.value(record, column), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d, column %s: %s", dataErrors.ErrInvalidTripData, table.row, column, err)
		}
		coordinates[column] = value
	}

	tripData := &trip.TripData{
		RideID:           table.value(record, rideIDColumn),
		RideableType:     table.value(record, rideableTypeColumn),
		StartedAt:        startedAt,
		EndedAt:          endedAt,
		StartStationName: table.value(record, startStationNameColumn),
		StartStationID:   table.value(record, startStationIDColumn),
		EndStationName:   table.value(record, endStationNameColumn),
		EndStationID:     table.value(record, endStationIDColumn),
		StartLat:         coordinates[startLatColumn],
		StartLng:         coordinates[startLngColumn],
		EndLat:           coordinates[endLatColumn],
		EndLng:           coordinates[endLngColumn],
		MemberCasual:     table.value(record, memberCasualColumn),
	}

	err = tr.validate.Struct(tripData)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldError := validationErrors[0]
			return nil, fmt.Errorf("%w: row %d, column %s: value %v does not satisfy %s", dataErrors.ErrInvalidTripData, table.row, fieldError.Field(), fieldError.Value(), fieldError.Tag())
		}
		return nil, fmt.Errorf("%w: row %d: %s", dataErrors.ErrInvalidTripData, table.row, err)
	}

	return tripData, nil
}

func parseTimestamp(table *csvTable, record []string, column string) (time.Time, error) {
	value := table.value(record, column)
	for _, layout := range timestampLayouts {
		timestamp, err := time.Parse(layout, value)
		if err == nil {
			return timestamp, nil
		}
	}

	return time.Time{}, &dataErrors.MalformedTimestampError{
		Row:    table.row,
		Column: column,
		Value:  value,
		Reason: "expected YYYY-MM-DD HH:MM:SS",
	}
}
