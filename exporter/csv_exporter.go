package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"bikeprep/domain/entities/feature"
)

const csvExporterName = "csv"

// CSVExporter writes the feature table in a CSV file with header and without index column.
// The file is replaced if it already exists
type CSVExporter struct {
	runID string
	path  string
}

func NewCSVExporter(runID string, path string) *CSVExporter {
	return &CSVExporter{
		runID: runID,
		path:  path,
	}
}

func (ce *CSVExporter) Export(ctx context.Context, features []*feature.FeatureData) error {
	dir := filepath.Dir(ce.path)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("error creating output directory %s: %w", dir, err)
	}

	// a failed run never leaves a partial output file
	tmpFile, err := os.CreateTemp(dir, filepath.Base(ce.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("error creating output file in %s: %w", dir, err)
	}
	defer os.Remove(tmpFile.Name())

	err = WriteCSV(ctx, tmpFile, features)
	if err != nil {
		_ = tmpFile.Close()
		log.Error(getLogMessage(csvExporterName, ce.runID, "Export", "error writing CSV", err))
		return err
	}

	err = tmpFile.Close()
	if err != nil {
		return fmt.Errorf("error closing output file: %w", err)
	}

	err = os.Rename(tmpFile.Name(), ce.path)
	if err != nil {
		return fmt.Errorf("error moving output file to %s: %w", ce.path, err)
	}

	log.Info(getLogMessage(csvExporterName, ce.runID, "Export", fmt.Sprintf("%d rows written in %s", len(features), ce.path), nil))
	return nil
}

func (ce *CSVExporter) Close() error {
	return nil
}

// WriteCSV writes the header and one record per feature
func WriteCSV(ctx context.Context, w io.Writer, features []*feature.FeatureData) error {
	writer := csv.NewWriter(w)
	err := writer.Write(OutputColumns)
	if err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for idx, featureData := range features {
		if idx%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		err = writer.Write(toRecord(featureData))
		if err != nil {
			return fmt.Errorf("error writing CSV row %d: %w", idx+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
