package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dataErrors "bikeprep/domain/errors"
)

const weatherData = `"STATION","NAME","LATITUDE","LONGITUDE","ELEVATION","DATE","AWND","PRCP","SNOW","SNWD","TMAX","TMIN"
"USW00094789","JFK INTERNATIONAL AIRPORT, NY US","40.6386","-73.7622","2.7","2021-09-01","10.51","3.24","0.0","0.0","76","66"
"USW00094789","JFK INTERNATIONAL AIRPORT, NY US","40.6386","-73.7622","2.7","2021-09-02","12.3","0.00","","0.0","73",""
`

func TestWeatherReaderRead(t *testing.T) {
	reader := NewWeatherReader("test")

	records, err := reader.Read(context.Background(), strings.NewReader(weatherData), "weather.csv")

	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, time.Date(2021, time.September, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "USW00094789", first.Station)
	assert.Equal(t, "JFK INTERNATIONAL AIRPORT, NY US", first.Name)
	assert.Equal(t, 40.6386, first.Latitude)
	assert.Equal(t, -73.7622, first.Longitude)
	require.NotNil(t, first.Precipitation)
	assert.Equal(t, 3.24, *first.Precipitation)
	assert.Equal(t, 0.0, *first.Snowfall)
	assert.Equal(t, 76.0, *first.TMax)
	assert.Equal(t, 66.0, *first.TMin)

	second := records[1]
	assert.Equal(t, 0.0, *second.Precipitation)
	assert.Nil(t, second.Snowfall)
	assert.Nil(t, second.TMin)
}

func TestWeatherReaderMissingColumn(t *testing.T) {
	reader := NewWeatherReader("test")
	data := "STATION,NAME,LATITUDE,LONGITUDE,DATE,PRCP,TMAX,TMIN\n"

	_, err := reader.Read(context.Background(), strings.NewReader(data), "weather.csv")

	require.Error(t, err)
	var ingestionErr *dataErrors.IngestionError
	require.True(t, errors.As(err, &ingestionErr))
	assert.Equal(t, "SNOW", ingestionErr.Column)
	assert.Equal(t, "weather.csv", ingestionErr.Path)
}

func TestWeatherReaderInvalidValue(t *testing.T) {
	reader := NewWeatherReader("test")
	data := "STATION,NAME,LATITUDE,LONGITUDE,DATE,PRCP,SNOW,TMAX,TMIN\n" +
		"S1,N1,40.6,-73.7,2021-09-01,0.1,0,70,60\n" +
		"S1,N1,40.6,-73.7,2021-09-02,T,0,70,60\n"

	_, err := reader.Read(context.Background(), strings.NewReader(data), "weather.csv")

	require.Error(t, err)
	assert.True(t, errors.Is(err, dataErrors.ErrIngestion))
	var ingestionErr *dataErrors.IngestionError
	require.True(t, errors.As(err, &ingestionErr))
	assert.Equal(t, 3, ingestionErr.Row)
	assert.Equal(t, "PRCP", ingestionErr.Column)
}

func TestWeatherReaderInvalidDate(t *testing.T) {
	reader := NewWeatherReader("test")
	data := "STATION,NAME,LATITUDE,LONGITUDE,DATE,PRCP,SNOW,TMAX,TMIN\n" +
		"S1,N1,40.6,-73.7,09/01/2021,0.1,0,70,60\n"

	_, err := reader.Read(context.Background(), strings.NewReader(data), "weather.csv")

	var ingestionErr *dataErrors.IngestionError
	require.True(t, errors.As(err, &ingestionErr))
	assert.Equal(t, "DATE", ingestionErr.Column)
}

func TestWeatherReaderReadFile(t *testing.T) {
	reader := NewWeatherReader("test")
	path := filepath.Join(t.TempDir(), "weather.csv")
	require.NoError(t, os.WriteFile(path, []byte(weatherData), 0o644))

	records, err := reader.ReadFile(context.Background(), path)

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestWeatherReaderEmptyFile(t *testing.T) {
	reader := NewWeatherReader("test")

	_, err := reader.Read(context.Background(), strings.NewReader(""), "weather.csv")

	require.Error(t, err)
	assert.True(t, errors.Is(err, dataErrors.ErrIngestion))
}
