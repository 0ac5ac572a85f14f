package ingestion

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	dataErrors "bikeprep/domain/errors"
)

const byteOrderMark = "\ufeff"

var errMissingColumn = errors.New("required column missing")

// csvTable reads a csv file with a header row and gives access to the columns by name
type csvTable struct {
	source  string
	reader  *csv.Reader
	columns map[string]int
	row     int
}

// openCSV opens the file in path. The returned closer must be called once the table is read
func openCSV(path string, requiredColumns []string) (*csvTable, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, &dataErrors.IngestionError{Path: path, Err: err}
	}

	table, err := newCSVTable(file, path, requiredColumns)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	return table, file, nil
}

// newCSVTable reads the header of the table and checks that every required column is present
func newCSVTable(r io.Reader, source string, requiredColumns []string) (*csvTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("file is empty")
		}
		return nil, &dataErrors.IngestionError{Path: source, Row: 1, Column: "header", Err: err}
	}

	columns := make(map[string]int, len(header))
	for idx, name := range header {
		if idx == 0 {
			name = strings.TrimPrefix(name, byteOrderMark)
		}
		columns[strings.TrimSpace(name)] = idx
	}

	for _, column := range requiredColumns {
		if _, ok := columns[column]; !ok {
			return nil, &dataErrors.IngestionError{Path: source, Column: column, Err: errMissingColumn}
		}
	}

	return &csvTable{
		source:  source,
		reader:  reader,
		columns: columns,
		row:     1,
	}, nil
}

// next returns the next record of the table. At the end of the table it returns io.EOF
func (ct *csvTable) next() ([]string, error) {
	record, err := ct.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &dataErrors.IngestionError{Path: ct.source, Row: ct.row + 1, Err: err}
	}
	ct.row += 1
	return record, nil
}

// value returns the value of column in record. Optional columns that are not in the table return ""
func (ct *csvTable) value(record []string, column string) string {
	idx, ok := ct.columns[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func (ct *csvTable) errorAt(column string, err error) error {
	return &dataErrors.IngestionError{Path: ct.source, Row: ct.row, Column: column, Err: err}
}
