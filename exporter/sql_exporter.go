package exporter

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"bikeprep/domain/entities/feature"
	"bikeprep/utils"
)

const sqlExporterName = "sql"

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS %s (
		ride_id            TEXT,
		started_at         TIMESTAMP NOT NULL,
		ended_at           TIMESTAMP NOT NULL,
		start_station_name TEXT,
		start_station_id   TEXT,
		end_station_name   TEXT,
		end_station_id     TEXT,
		start_lat          DOUBLE PRECISION NOT NULL,
		start_lng          DOUBLE PRECISION NOT NULL,
		end_lat            DOUBLE PRECISION NOT NULL,
		end_lng            DOUBLE PRECISION NOT NULL,
		member_casual      TEXT NOT NULL,
		date               DATE NOT NULL,
		trip_time_minutes  DOUBLE PRECISION NOT NULL,
		weekday            INTEGER NOT NULL,
		rush               TEXT NOT NULL,
		distance_km        DOUBLE PRECISION NOT NULL,
		tmax               DOUBLE PRECISION,
		tmin               DOUBLE PRECISION,
		membership_ind     INTEGER NOT NULL,
		total_precip       DOUBLE PRECISION,
		precip_ind         INTEGER NOT NULL,
		rush_ind           INTEGER NOT NULL
	)`

const insertQuery = `
	INSERT INTO %s (
		ride_id, started_at, ended_at,
		start_station_name, start_station_id, end_station_name, end_station_id,
		start_lat, start_lng, end_lat, end_lng,
		member_casual, date, trip_time_minutes, weekday, rush, distance_km,
		tmax, tmin, membership_ind, total_precip, precip_ind, rush_ind
	) VALUES (
		:ride_id, :started_at, :ended_at,
		:start_station_name, :start_station_id, :end_station_name, :end_station_id,
		:start_lat, :start_lng, :end_lat, :end_lng,
		:member_casual, :date, :trip_time_minutes, :weekday, :rush, :distance_km,
		:tmax, :tmin, :membership_ind, :total_precip, :precip_ind, :rush_ind
	)`

// featureRow a FeatureData with the column names of the output table. Nil pointers are stored as NULL
type featureRow struct {
	RideID                 string    `db:"ride_id"`
	StartedAt              time.Time `db:"started_at"`
	EndedAt                time.Time `db:"ended_at"`
	StartStationName       string    `db:"start_station_name"`
	StartStationID         string    `db:"start_station_id"`
	EndStationName         string    `db:"end_station_name"`
	EndStationID           string    `db:"end_station_id"`
	StartLat               float64   `db:"start_lat"`
	StartLng               float64   `db:"start_lng"`
	EndLat                 float64   `db:"end_lat"`
	EndLng                 float64   `db:"end_lng"`
	MemberCasual           string    `db:"member_casual"`
	Date                   time.Time `db:"date"`
	TripTimeMinutes        float64   `db:"trip_time_minutes"`
	Weekday                int       `db:"weekday"`
	Rush                   string    `db:"rush"`
	Distance               float64   `db:"distance_km"`
	TMax                   *float64  `db:"tmax"`
	TMin                   *float64  `db:"tmin"`
	MembershipIndicator    int       `db:"membership_ind"`
	TotalPrecipitation     *float64  `db:"total_precip"`
	PrecipitationIndicator int       `db:"precip_ind"`
	RushIndicator          int       `db:"rush_ind"`
}

func newFeatureRow(featureData *feature.FeatureData) featureRow {
	return featureRow{
		RideID:                 featureData.RideID,
		StartedAt:              featureData.StartedAt,
		EndedAt:                featureData.EndedAt,
		StartStationName:       featureData.StartStationName,
		StartStationID:         featureData.StartStationID,
		EndStationName:         featureData.EndStationName,
		EndStationID:           featureData.EndStationID,
		StartLat:               featureData.StartLat,
		StartLng:               featureData.StartLng,
		EndLat:                 featureData.EndLat,
		EndLng:                 featureData.EndLng,
		MemberCasual:           featureData.MemberCasual,
		Date:                   featureData.Date,
		TripTimeMinutes:        featureData.TripTimeMinutes,
		Weekday:                featureData.Weekday,
		Rush:                   string(featureData.Rush),
		Distance:               featureData.Distance,
		TMax:                   featureData.TMax,
		TMin:                   featureData.TMin,
		MembershipIndicator:    featureData.MembershipIndicator,
		TotalPrecipitation:     featureData.TotalPrecipitation,
		PrecipitationIndicator: featureData.PrecipitationIndicator,
		RushIndicator:          featureData.RushIndicator,
	}
}

// SQLExporter writes the feature table in a sqlite3 or postgres table. The table is created if
// it does not exist and its previous rows are replaced in the same transaction
type SQLExporter struct {
	runID string
	db    *sqlx.DB
	table string
}

// NewSQLExporter opens a connection to the database. driver must be one of SupportedDrivers
func NewSQLExporter(runID string, driver string, dsn string, table string) (*SQLExporter, error) {
	if !utils.ContainsString(driver, SupportedDrivers) {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening %s database: %w", driver, err)
	}

	sqlExporter, err := NewSQLExporterFromDB(runID, db, table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return sqlExporter, nil
}

func NewSQLExporterFromDB(runID string, db *sqlx.DB, table string) (*SQLExporter, error) {
	if !tableNameRegex.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	return &SQLExporter{
		runID: runID,
		db:    db,
		table: table,
	}, nil
}

func (se *SQLExporter) Export(ctx context.Context, features []*feature.FeatureData) error {
	err := se.db.PingContext(ctx)
	if err != nil {
		log.Error(getLogMessage(sqlExporterName, se.runID, "Export", "error connecting to database", err))
		return fmt.Errorf("error connecting to database: %w", err)
	}

	tx, err := se.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	err = se.replaceRows(ctx, tx, features)
	if err != nil {
		_ = tx.Rollback()
		log.Error(getLogMessage(sqlExporterName, se.runID, "Export", "error exporting rows, transaction rolled back", err))
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	log.Info(getLogMessage(sqlExporterName, se.runID, "Export", fmt.Sprintf("%d rows written in table %s", len(features), se.table), nil))
	return nil
}

func (se *SQLExporter) replaceRows(ctx context.Context, tx *sqlx.Tx, features []*feature.FeatureData) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(createTableQuery, se.table))
	if err != nil {
		return fmt.Errorf("error creating table %s: %w", se.table, err)
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", se.table))
	if err != nil {
		return fmt.Errorf("error deleting previous rows of %s: %w", se.table, err)
	}

	stmt, err := tx.PrepareNamedContext(ctx, fmt.Sprintf(insertQuery, se.table))
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	for idx, featureData := range features {
		_, err = stmt.ExecContext(ctx, newFeatureRow(featureData))
		if err != nil {
			return fmt.Errorf("error inserting row %d: %w", idx+1, err)
		}
	}

	return nil
}

func (se *SQLExporter) Close() error {
	return se.db.Close()
}
