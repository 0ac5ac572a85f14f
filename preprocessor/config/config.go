package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"bikeprep/communication"
	"bikeprep/domain/business/rushwindow"
	dataErrors "bikeprep/domain/errors"
	"bikeprep/exporter"
	"bikeprep/ingestion"
	"bikeprep/utils"
)

const (
	defaultConfigFilepath = "./preprocessor/config/config.yaml"
	configPathEnv         = "CONFIG_PATH"
	envPrefix             = "BIKEPREP"
	DefaultStationName    = "JFK INTERNATIONAL AIRPORT, NY US"
)

// PreprocessorConfig configuration of a run of the preprocessor. Values are read from a yaml
// file and can be overridden with env vars prefixed with BIKEPREP, e.g. BIKEPREP_INPUT_TRIPS_PATH or
// BIKEPREP_OUTPUT_FILE_PATH
type PreprocessorConfig struct {
	LogLevel   string                     `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error fatal panic"`
	Input      InputConfig                `yaml:"input" envconfig:"INPUT"`
	Output     OutputConfig               `yaml:"output" envconfig:"OUTPUT"`
	Weather    WeatherConfig              `yaml:"weather" envconfig:"WEATHER"`
	RushHours  RushHoursConfig            `yaml:"rush_hours" envconfig:"RUSH_HOURS"`
	Statistics StatisticsConfig           `yaml:"statistics" envconfig:"STATISTICS"`
	Report     communication.ReportConfig `yaml:"report" envconfig:"REPORT"`
}

type InputConfig struct {
	TripsPath          string              `yaml:"trips_path" envconfig:"TRIPS_PATH" validate:"required"`
	WeatherPath        string              `yaml:"weather_path" envconfig:"WEATHER_PATH" validate:"required"`
	MalformedRowPolicy ingestion.RowPolicy `yaml:"malformed_row_policy" envconfig:"MALFORMED_ROW_POLICY" validate:"oneof=fail skip"`
}

type OutputConfig struct {
	Path   string    `yaml:"path" envconfig:"FILE_PATH"`
	Format string    `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv sql"`
	SQL    SQLConfig `yaml:"sql" envconfig:"SQL"`
}

// SQLConfig only used when the output format is sql
type SQLConfig struct {
	Driver string `yaml:"driver" envconfig:"DRIVER"`
	DSN    string `yaml:"dsn" envconfig:"DSN"`
	Table  string `yaml:"table" envconfig:"TABLE"`
}

type WeatherConfig struct {
	StationName string `yaml:"station_name" envconfig:"STATION_NAME" validate:"required"`
}

type RushHoursConfig struct {
	AM rushwindow.Window `yaml:"am" envconfig:"AM"`
	PM rushwindow.Window `yaml:"pm" envconfig:"PM"`
}

type StatisticsConfig struct {
	TopStations int `yaml:"top_stations" envconfig:"TOP_STATIONS" validate:"gte=0"`
}

// Default returns the configuration used when a value is not set in the file nor in the env
func Default() PreprocessorConfig {
	classifier := rushwindow.DefaultClassifier()
	return PreprocessorConfig{
		LogLevel: "info",
		Input: InputConfig{
			MalformedRowPolicy: ingestion.FailOnMalformedRow,
		},
		Output: OutputConfig{
			Path:   "./data/prepared_trips.csv",
			Format: exporter.FormatCSV,
			SQL: SQLConfig{
				Driver: exporter.DriverSQLite,
				Table:  exporter.DefaultTable,
			},
		},
		Weather: WeatherConfig{
			StationName: DefaultStationName,
		},
		RushHours: RushHoursConfig{
			AM: classifier.AM,
			PM: classifier.PM,
		},
		Statistics: StatisticsConfig{
			TopStations: 10,
		},
	}
}

// LoadConfig loads the config from the file in CONFIG_PATH, or from the default path if the
// env var is not set
func LoadConfig() (*PreprocessorConfig, error) {
	configFilepath := os.Getenv(configPathEnv)
	if configFilepath == "" {
		configFilepath = defaultConfigFilepath
	}
	return LoadConfigFromFile(configFilepath)
}

func LoadConfigFromFile(configFilepath string) (*PreprocessorConfig, error) {
	configFile, err := utils.GetConfigFile(configFilepath)
	if err != nil {
		return nil, err
	}
	return Parse(configFile)
}

// Parse builds the config from the yaml content over the defaults, then applies the env
// overrides and validates the result
func Parse(content []byte) (*PreprocessorConfig, error) {
	preprocessorConfig := Default()
	err := yaml.Unmarshal(content, &preprocessorConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: error parsing preprocessor config file: %s", dataErrors.ErrInvalidConfig, err)
	}

	err = envconfig.Process(envPrefix, &preprocessorConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: error processing env vars: %s", dataErrors.ErrInvalidConfig, err)
	}

	err = preprocessorConfig.Validate()
	if err != nil {
		return nil, err
	}

	return &preprocessorConfig, nil
}

// Validate checks the field constraints and the sql settings when the output format is sql
func (pc *PreprocessorConfig) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := validate.Struct(pc)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldError := validationErrors[0]
			return fmt.Errorf("%w: field %s does not satisfy %s", dataErrors.ErrInvalidConfig, fieldError.Namespace(), fieldError.Tag())
		}
		return fmt.Errorf("%w: %s", dataErrors.ErrInvalidConfig, err)
	}

	switch pc.Output.Format {
	case exporter.FormatCSV:
		if pc.Output.Path == "" {
			return fmt.Errorf("%w: output path is required for csv format", dataErrors.ErrInvalidConfig)
		}
	case exporter.FormatSQL:
		if !utils.ContainsString(pc.Output.SQL.Driver, exporter.SupportedDrivers) {
			return fmt.Errorf("%w: unsupported sql driver %q", dataErrors.ErrInvalidConfig, pc.Output.SQL.Driver)
		}
		if pc.Output.SQL.DSN == "" {
			return fmt.Errorf("%w: sql dsn is required for sql format", dataErrors.ErrInvalidConfig)
		}
		if pc.Output.SQL.Table == "" {
			return fmt.Errorf("%w: sql table is required for sql format", dataErrors.ErrInvalidConfig)
		}
	}

	if pc.Report.Enabled() && pc.Report.Queue.Name == "" {
		return fmt.Errorf("%w: report queue name is required when rabbit_url is set", dataErrors.ErrInvalidConfig)
	}

	return nil
}

// Classifier returns the rush classifier of the configured windows
func (pc *PreprocessorConfig) Classifier() rushwindow.Classifier {
	return rushwindow.Classifier{
		AM: pc.RushHours.AM,
		PM: pc.RushHours.PM,
	}
}
