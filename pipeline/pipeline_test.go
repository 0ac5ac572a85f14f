package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeprep/domain/business/rushwindow"
	"bikeprep/domain/entities/feature"
	"bikeprep/domain/entities/trip"
	"bikeprep/domain/entities/weather"
	dataErrors "bikeprep/domain/errors"
	"bikeprep/exporter"
	"bikeprep/preprocessor/config"
	"bikeprep/queryhandlers/statistics"
)

const tripsCSV = `ride_id,rideable_type,started_at,ended_at,start_station_name,start_station_id,end_station_name,end_station_id,start_lat,start_lng,end_lat,end_lng,member_casual
A1,classic_bike,2021-09-01 08:00:00,2021-09-01 08:10:00,Station A,1,Station A,1,40.0,-74.0,40.0,-74.0,member
`

const weatherCSV = `DATE,STATION,NAME,LATITUDE,LONGITUDE,PRCP,SNOW,TMAX,TMIN
2021-09-01,USW00094789,"JFK INTERNATIONAL AIRPORT, NY US",40.6386,-73.7622,0.0,0.0,78,65
2021-09-01,USW00014732,"LAGUARDIA AIRPORT, NY US",40.7794,-73.8803,1.5,0.0,77,66
2021-09-02,USW00094789,"JFK INTERNATIONAL AIRPORT, NY US",40.6386,-73.7622,3.2,0.0,70,60
`

type fakeExporter struct {
	exported [][]*feature.FeatureData
	err      error
	closed   bool
}

func (fe *fakeExporter) Export(_ context.Context, features []*feature.FeatureData) error {
	fe.exported = append(fe.exported, features)
	return fe.err
}

func (fe *fakeExporter) Close() error {
	fe.closed = true
	return nil
}

type fakePublisher struct {
	reports []*statistics.Report
	closed  bool
}

func (fp *fakePublisher) PublishReport(_ context.Context, report *statistics.Report) error {
	fp.reports = append(fp.reports, report)
	return nil
}

func (fp *fakePublisher) Close() error {
	fp.closed = true
	return nil
}

func writeInputs(t *testing.T, trips string, weatherData string) *config.PreprocessorConfig {
	dir := t.TempDir()
	preprocessorConfig := config.Default()
	preprocessorConfig.Input.TripsPath = filepath.Join(dir, "trips.csv")
	preprocessorConfig.Input.WeatherPath = filepath.Join(dir, "weather.csv")
	preprocessorConfig.Output.Path = filepath.Join(dir, "prepared.csv")
	require.NoError(t, os.WriteFile(preprocessorConfig.Input.TripsPath, []byte(trips), 0o600))
	require.NoError(t, os.WriteFile(preprocessorConfig.Input.WeatherPath, []byte(weatherData), 0o600))
	return &preprocessorConfig
}

func TestRunSingleTrip(t *testing.T) {
	preprocessorConfig := writeInputs(t, tripsCSV, weatherCSV)
	featureExporter := &fakeExporter{}
	publisher := &fakePublisher{}
	pipeline := NewWithCollaborators("run-1", preprocessorConfig, featureExporter, publisher)

	result, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, pipeline.Close())

	require.Len(t, result.Features, 1)
	row := result.Features[0]
	assert.Equal(t, "A1", row.RideID)
	assert.Equal(t, 0.0, row.Distance)
	assert.Equal(t, 10.0, row.TripTimeMinutes)
	assert.Equal(t, 2, row.Weekday)
	assert.Equal(t, rushwindow.AmRush, row.Rush)
	assert.Equal(t, 1, row.MembershipIndicator)
	assert.Equal(t, 0, row.PrecipitationIndicator)
	assert.Equal(t, 1, row.RushIndicator)
	require.NotNil(t, row.TMax)
	assert.Equal(t, 78.0, *row.TMax)
	require.NotNil(t, row.TotalPrecipitation)
	assert.Equal(t, 0.0, *row.TotalPrecipitation)

	date := time.Date(2021, time.September, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, date, result.DateRange.MinDate)
	assert.Equal(t, date, result.DateRange.MaxDate)
	assert.Equal(t, 3, result.Weather.Records)
	assert.Equal(t, 1, result.Weather.Selected)
	assert.Equal(t, 1, result.Read.Rows)
	assert.Equal(t, 0, result.Join.TripsWithoutMatch)

	require.Len(t, featureExporter.exported, 1)
	assert.Equal(t, result.Features, featureExporter.exported[0])
	require.Len(t, publisher.reports, 1)
	assert.Equal(t, "run-1", publisher.reports[0].Metadata.GetRunID())
	assert.Equal(t, 1, publisher.reports[0].Trips)
	assert.True(t, featureExporter.closed)
	assert.True(t, publisher.closed)
}

func TestRunWritesCSV(t *testing.T) {
	preprocessorConfig := writeInputs(t, tripsCSV, weatherCSV)
	pipeline, err := New(preprocessorConfig)
	require.NoError(t, err)
	defer pipeline.Close()
	assert.NotEmpty(t, pipeline.GetRunID())

	_, err = pipeline.Run(context.Background())
	require.NoError(t, err)

	content, err := os.ReadFile(preprocessorConfig.Output.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ride_id,started_at,ended_at")
	assert.Contains(t, string(content), "A1,2021-09-01 08:00:00,2021-09-01 08:10:00")
}

func TestRunEmptyTrips(t *testing.T) {
	preprocessorConfig := writeInputs(t, "ride_id,rideable_type,started_at,ended_at,start_station_name,start_lat,start_lng,end_lat,end_lng,member_casual\n", weatherCSV)
	featureExporter := &fakeExporter{}
	pipeline := NewWithCollaborators("run-1", preprocessorConfig, featureExporter, nil)

	_, err := pipeline.Run(context.Background())

	assert.ErrorIs(t, err, dataErrors.ErrEmptyInput)
	assert.Empty(t, featureExporter.exported)
}

func TestRunMissingWeatherColumn(t *testing.T) {
	preprocessorConfig := writeInputs(t, tripsCSV, "DATE,STATION,NAME\n2021-09-01,X,Y\n")
	pipeline := NewWithCollaborators("run-1", preprocessorConfig, nil, nil)

	_, err := pipeline.Run(context.Background())

	assert.ErrorIs(t, err, dataErrors.ErrIngestion)
}

func TestRunExportError(t *testing.T) {
	preprocessorConfig := writeInputs(t, tripsCSV, weatherCSV)
	exportErr := errors.New("disk full")
	pipeline := NewWithCollaborators("run-1", preprocessorConfig, &fakeExporter{err: exportErr}, nil)

	_, err := pipeline.Run(context.Background())

	assert.ErrorIs(t, err, exportErr)
}

func TestRunCancelledContext(t *testing.T) {
	preprocessorConfig := writeInputs(t, tripsCSV, weatherCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pipeline := NewWithCollaborators("run-1", preprocessorConfig, &fakeExporter{}, nil)

	_, err := pipeline.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrepareTripWithoutWeather(t *testing.T) {
	preprocessorConfig := config.Default()
	pipeline := NewWithCollaborators("run-1", &preprocessorConfig, nil, nil)
	startedAt := time.Date(2021, time.September, 5, 10, 0, 0, 0, time.UTC)
	trips := []*trip.TripData{
		{
			StartedAt:        startedAt,
			EndedAt:          startedAt.Add(30 * time.Minute),
			StartStationName: "Station A",
			StartLat:         40.7,
			StartLng:         -74.0,
			EndLat:           40.8,
			EndLng:           -74.0,
			MemberCasual:     trip.CasualType,
		},
	}
	precipitation := 1.0
	weatherRecords := []*weather.WeatherData{
		{Date: time.Date(2021, time.September, 4, 0, 0, 0, 0, time.UTC), Name: config.DefaultStationName, Precipitation: &precipitation},
	}

	result, err := pipeline.Prepare(context.Background(), trips, weatherRecords)
	require.NoError(t, err)

	require.Len(t, result.Features, 1)
	row := result.Features[0]
	assert.Equal(t, 6, row.Weekday)
	assert.Equal(t, rushwindow.NotRush, row.Rush)
	assert.Nil(t, row.TMax)
	assert.Nil(t, row.TotalPrecipitation)
	assert.Equal(t, 0, row.PrecipitationIndicator)
	assert.Equal(t, 1, result.Join.TripsWithoutMatch)
	assert.Equal(t, 0, result.Weather.Selected)
}

func TestNewUnsupportedFormat(t *testing.T) {
	preprocessorConfig := config.Default()
	preprocessorConfig.Output.Format = "parquet"

	_, err := New(&preprocessorConfig)

	assert.Error(t, err)
}

func TestNewSQLExporter(t *testing.T) {
	preprocessorConfig := config.Default()
	preprocessorConfig.Output.Format = exporter.FormatSQL
	preprocessorConfig.Output.SQL.DSN = filepath.Join(t.TempDir(), "prepared.db")

	pipeline, err := New(&preprocessorConfig)
	require.NoError(t, err)

	assert.IsType(t, &exporter.SQLExporter{}, pipeline.exporter)
	assert.NoError(t, pipeline.Close())
}
