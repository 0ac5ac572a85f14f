package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"bikeprep/domain/entities/weather"
	"bikeprep/utils"
)

const (
	weatherReaderType = "weather-reader"

	dateColumn          = "DATE"
	stationColumn       = "STATION"
	nameColumn          = "NAME"
	latitudeColumn      = "LATITUDE"
	longitudeColumn     = "LONGITUDE"
	precipitationColumn = "PRCP"
	snowfallColumn      = "SNOW"
	tMaxColumn          = "TMAX"
	tMinColumn          = "TMIN"
)

// WeatherRequiredColumns columns that a weather file must have
var WeatherRequiredColumns = []string{
	dateColumn,
	stationColumn,
	nameColumn,
	latitudeColumn,
	longitudeColumn,
	precipitationColumn,
	snowfallColumn,
	tMaxColumn,
	tMinColumn,
}

// WeatherReader reads daily weather observations. Any invalid value aborts the read
type WeatherReader struct {
	runID string
}

func NewWeatherReader(runID string) *WeatherReader {
	return &WeatherReader{
		runID: runID,
	}
}

func (wr *WeatherReader) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[reader: %s][runID: %s][method: %s][status: ERROR] %s: %s", weatherReaderType, wr.runID, method, message, err.Error())
	}
	return fmt.Sprintf("[reader: %s][runID: %s][method: %s][status: OK] %s", weatherReaderType, wr.runID, method, message)
}

// ReadFile reads the weather data of the csv file in path
func (wr *WeatherReader) ReadFile(ctx context.Context, path string) ([]*weather.WeatherData, error) {
	table, closer, err := openCSV(path, WeatherRequiredColumns)
	if err != nil {
		log.Error(wr.getLogMessage("ReadFile", "unable to read the weather file", err))
		return nil, err
	}
	defer closer.Close()

	return wr.readTable(ctx, table)
}

// Read reads the weather data of a csv table. source is used to identify the table in errors
func (wr *WeatherReader) Read(ctx context.Context, r io.Reader, source string) ([]*weather.WeatherData, error) {
	table, err := newCSVTable(r, source, WeatherRequiredColumns)
	if err != nil {
		return nil, err
	}
	return wr.readTable(ctx, table)
}

func (wr *WeatherReader) readTable(ctx context.Context, table *csvTable) ([]*weather.WeatherData, error) {
	var records []*weather.WeatherData
	for {
		if len(records)%contextCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		record, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		weatherData, err := parseWeather(table, record)
		if err != nil {
			log.Error(wr.getLogMessage("readTable", "invalid weather data", err))
			return nil, err
		}
		records = append(records, weatherData)
	}

	log.Info(wr.getLogMessage("readTable", fmt.Sprintf("%v weather records read from %s", len(records), table.source), nil))
	return records, nil
}

func parseWeather(table *csvTable, record []string) (*weather.WeatherData, error) {
	date, err := time.Parse(utils.DateLayout, table.value(record, dateColumn))
	if err != nil {
		return nil, table.errorAt(dateColumn, err)
	}

	latitude, err := strconv.ParseFloat(table.value(record, latitudeColumn), 64)
	if err != nil {
		return nil, table.errorAt(latitudeColumn, err)
	}

	longitude, err := strconv.ParseFloat(table.value(record, longitudeColumn), 64)
	if err != nil {
		return nil, table.errorAt(longitudeColumn, err)
	}

	weatherData := &weather.WeatherData{
		Date:      date,
		Station:   table.value(record, stationColumn),
		Name:      table.value(record, nameColumn),
		Latitude:  latitude,
		Longitude: longitude,
	}

	measurements := []struct {
		column string
		target **float64
	}{
		{precipitationColumn, &weatherData.Precipitation},
		{snowfallColumn, &weatherData.Snowfall},
		{tMaxColumn, &weatherData.TMax},
		{tMinColumn, &weatherData.TMin},
	}
	for _, measurement := range measurements {
		value, err := parseOptionalFloat(table.value(record, measurement.column))
		if err != nil {
			return nil, table.errorAt(measurement.column, err)
		}
		*measurement.target = value
	}

	return weatherData, nil
}

// parseOptionalFloat returns nil for empty values
func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
