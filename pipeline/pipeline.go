package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"bikeprep/communication"
	"bikeprep/domain/entities/feature"
	"bikeprep/domain/entities/trip"
	"bikeprep/domain/entities/weather"
	"bikeprep/exporter"
	"bikeprep/ingestion"
	"bikeprep/joiners/datejoiner"
	"bikeprep/preprocessor/config"
	"bikeprep/queryhandlers/statistics"
	"bikeprep/workers/daterange"
	"bikeprep/workers/featurebuilder"
	"bikeprep/workers/tripenricher"
	"bikeprep/workers/weatherselector"
)

const stageName = "pipeline"

// FeatureExporter persists the feature table
type FeatureExporter interface {
	Export(ctx context.Context, features []*feature.FeatureData) error
	Close() error
}

// ReportPublisher sends the statistics report outside the process
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *statistics.Report) error
	Close() error
}

// Result everything produced by a run
type Result struct {
	RunID      string                         `json:"run_id"`
	Read       ingestion.ReadSummary          `json:"read"`
	DateRange  daterange.DateRange            `json:"date_range"`
	Weather    WeatherSummary                 `json:"weather"`
	Enrichment tripenricher.EnrichmentSummary `json:"enrichment"`
	Join       datejoiner.JoinSummary         `json:"join"`
	Features   []*feature.FeatureData         `json:"-"`
	Report     *statistics.Report             `json:"report"`
}

// WeatherSummary diagnostics of the weather selection
type WeatherSummary struct {
	Records      int      `json:"records"`
	DatesInRange int      `json:"dates_in_range"`
	Selected     int      `json:"selected"`
	StationNames []string `json:"station_names"`
}

type Pipeline struct {
	runID     string
	config    *config.PreprocessorConfig
	exporter  FeatureExporter
	publisher ReportPublisher
}

// New builds a pipeline with a new run ID, the exporter of the configured output format and,
// if enabled, the report publisher
func New(preprocessorConfig *config.PreprocessorConfig) (*Pipeline, error) {
	runID := uuid.New().String()

	featureExporter, err := newExporter(runID, preprocessorConfig.Output)
	if err != nil {
		return nil, err
	}

	var publisher ReportPublisher
	if preprocessorConfig.Report.Enabled() {
		reportPublisher, err := communication.NewReportPublisher(runID, preprocessorConfig.Report)
		if err != nil {
			_ = featureExporter.Close()
			return nil, fmt.Errorf("error creating report publisher: %w", err)
		}
		publisher = reportPublisher
	}

	return NewWithCollaborators(runID, preprocessorConfig, featureExporter, publisher), nil
}

// NewWithCollaborators builds a pipeline with the given exporter and publisher. Both may be nil,
// in that case the stage is skipped
func NewWithCollaborators(runID string, preprocessorConfig *config.PreprocessorConfig, featureExporter FeatureExporter, publisher ReportPublisher) *Pipeline {
	return &Pipeline{
		runID:     runID,
		config:    preprocessorConfig,
		exporter:  featureExporter,
		publisher: publisher,
	}
}

func newExporter(runID string, outputConfig config.OutputConfig) (FeatureExporter, error) {
	switch outputConfig.Format {
	case exporter.FormatSQL:
		return exporter.NewSQLExporter(runID, outputConfig.SQL.Driver, outputConfig.SQL.DSN, outputConfig.SQL.Table)
	case exporter.FormatCSV, "":
		return exporter.NewCSVExporter(runID, outputConfig.Path), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", outputConfig.Format)
	}
}

func (p *Pipeline) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[stage: %s][runID: %s][method: %s][status: ERROR] %s: %s", stageName, p.runID, method, message, err.Error())
	}
	return fmt.Sprintf("[stage: %s][runID: %s][method: %s][status: OK] %s", stageName, p.runID, method, message)
}

func (p *Pipeline) GetRunID() string {
	return p.runID
}

// Run reads the input files, prepares the feature table, exports it and publishes the report.
// The context is checked between stages
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	log.Info(p.getLogMessage("Run", "starting run", nil))

	tripReader := ingestion.NewTripReader(p.runID, p.config.Input.MalformedRowPolicy)
	trips, readSummary, err := tripReader.ReadFile(ctx, p.config.Input.TripsPath)
	if err != nil {
		log.Error(p.getLogMessage("Run", "error reading trips", err))
		return nil, err
	}

	weatherReader := ingestion.NewWeatherReader(p.runID)
	weatherRecords, err := weatherReader.ReadFile(ctx, p.config.Input.WeatherPath)
	if err != nil {
		log.Error(p.getLogMessage("Run", "error reading weather data", err))
		return nil, err
	}

	result, err := p.Prepare(ctx, trips, weatherRecords)
	if err != nil {
		return nil, err
	}
	result.Read = readSummary

	if p.exporter != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err = p.exporter.Export(ctx, result.Features)
		if err != nil {
			log.Error(p.getLogMessage("Run", "error exporting features", err))
			return nil, err
		}
	}

	if p.publisher != nil {
		err = p.publisher.PublishReport(ctx, result.Report)
		if err != nil {
			log.Error(p.getLogMessage("Run", "error publishing report", err))
			return nil, err
		}
	}

	log.Info(p.getLogMessage("Run", fmt.Sprintf("run finished: %v rows prepared", len(result.Features)), nil))
	return result, nil
}

// Prepare runs the in-memory stages over already read data:
// 1. Date range of the trips
// 2. Weather of the target station inside the date range
// 3. Trip time, weekday, rush category and distance of each trip
// 4. Left join of trips and weather by date
// 5. Indicators of each row
// 6. Grouped statistics
func (p *Pipeline) Prepare(ctx context.Context, trips []*trip.TripData, weatherRecords []*weather.WeatherData) (*Result, error) {
	result := &Result{RunID: p.runID}

	dateRange, err := daterange.Extract(trips)
	if err != nil {
		log.Error(p.getLogMessage("Prepare", "error extracting date range", err))
		return nil, err
	}
	result.DateRange = dateRange
	log.Info(p.getLogMessage("Prepare", fmt.Sprintf("trips date range: %s", dateRange), nil))

	selector := weatherselector.NewWeatherSelector(p.runID, p.config.Weather.StationName)
	selection := selector.Select(weatherRecords, dateRange)
	result.Weather = WeatherSummary{
		Records:      len(weatherRecords),
		DatesInRange: selection.DatesInRange,
		Selected:     len(selection.Records),
		StationNames: selection.StationNames,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	enricher := tripenricher.NewTripEnricher(p.runID, p.config.Classifier())
	result.Enrichment = enricher.Enrich(trips)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	joiner := datejoiner.NewDateJoiner(p.runID)
	merged, joinSummary, err := joiner.Merge(trips, selection.Records)
	result.Join = joinSummary
	if err != nil {
		return nil, err
	}

	result.Features = featurebuilder.Build(merged)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handler := statistics.NewStatisticsHandler(p.runID, p.config.Statistics.TopStations)
	result.Report = handler.Aggregate(result.Features)

	return result, nil
}

// Close releases the exporter and the publisher
func (p *Pipeline) Close() error {
	var closeErr error
	if p.exporter != nil {
		if err := p.exporter.Close(); err != nil {
			log.Error(p.getLogMessage("Close", "error closing exporter", err))
			closeErr = err
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			log.Error(p.getLogMessage("Close", "error closing report publisher", err))
			closeErr = err
		}
	}
	return closeErr
}
