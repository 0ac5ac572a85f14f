package errors

import (
	"errors"
	"fmt"
)

var (
	ErrIngestion          = errors.New("ingestion error")
	ErrEmptyInput         = errors.New("empty input")
	ErrMergeIntegrity     = errors.New("merge integrity error")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
	ErrInvalidTripData    = errors.New("invalid trip data")
	ErrInvalidConfig      = errors.New("invalid config")
)

// IngestionError is returned when an input file cannot be read or a required column is missing
// or holds a value that cannot be parsed. Row is 1-based and counts the header, 0 means the
// fault is not tied to a row.
type IngestionError struct {
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: file %s, row %d, column %s: %s", ErrIngestion, e.Path, e.Row, e.Column, e.Err)
	}
	if e.Column != "" {
		return fmt.Sprintf("%s: file %s, column %s: %s", ErrIngestion, e.Path, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: file %s: %s", ErrIngestion, e.Path, e.Err)
}

func (e *IngestionError) Unwrap() []error {
	return []error{ErrIngestion, e.Err}
}

// MalformedTimestampError reports a trip whose timestamps cannot be parsed or whose end is
// before its start
type MalformedTimestampError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("%s: row %d, column %s, value %q: %s", ErrMalformedTimestamp, e.Row, e.Column, e.Value, e.Reason)
}

func (e *MalformedTimestampError) Unwrap() error {
	return ErrMalformedTimestamp
}

// MergeIntegrityError means the left join changed the amount of trips, which only happens
// when the weather table has more than one record for a date
type MergeIntegrityError struct {
	Expected int
	Got      int
}

func (e *MergeIntegrityError) Error() string {
	return fmt.Sprintf("%s: expected %d rows after merge, got %d", ErrMergeIntegrity, e.Expected, e.Got)
}

func (e *MergeIntegrityError) Unwrap() error {
	return ErrMergeIntegrity
}
