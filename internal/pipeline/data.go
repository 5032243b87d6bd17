package pipeline

import (
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Row is a single dataset record. Close holds the parsed close price; every
// other column keeps its raw textual form.
type Row struct {
	Close  float64
	Fields map[string]string
}

// Dataset is the fully materialized input. It always has at least one row
// and a close column; LoadDataset enforces both.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Closes returns the close-price series in row order.
func (d *Dataset) Closes() []float64 {
	closes := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		closes[i] = row.Close
	}
	return closes
}

// closeColumn is the single required dataset column.
const closeColumn = "close"

// LoadDataset reads and validates the CSV dataset at path. Each failure
// mode maps to a distinct DataError kind; the first invalid row aborts the
// whole load.
func LoadDataset(path string) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, dataErrorf(DataNotFound, "missing input file: %s", filepath.Base(path))
		}
		return nil, dataErrorf(DataUnreadable, "input file is not readable: %s", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, dataErrorf(DataUnreadable, "input file is not readable: %s", filepath.Base(path))
	}
	defer f.Close()

	if info.Size() == 0 {
		return nil, dataErrorf(DataEmpty, "empty input file")
	}

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, dataErrorf(DataNoHeader, "input file has no header row")
	}

	closeIdx := -1
	for i, col := range header {
		if strings.TrimSpace(col) == closeColumn {
			closeIdx = i
			break
		}
	}
	if closeIdx < 0 {
		return nil, dataErrorf(DataMissingColumn, "missing required columns in dataset: [%s]", closeColumn)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, dataErrorf(DataInvalidValue, "invalid csv format: %v", err)
		}

		row, err := parseRow(header, record, closeIdx, len(rows)+1)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, dataErrorf(DataNoRows, "no data rows in input file")
	}

	return &Dataset{Columns: header, Rows: rows}, nil
}

func parseRow(header, record []string, closeIdx, rowNo int) (Row, error) {
	if closeIdx >= len(record) {
		return Row{}, dataErrorf(DataInvalidValue,
			"invalid csv format: row %d has no %s value", rowNo, closeColumn)
	}

	closeVal, err := strconv.ParseFloat(strings.TrimSpace(record[closeIdx]), 64)
	if err != nil {
		return Row{}, dataErrorf(DataInvalidValue,
			"invalid csv format: non-numeric %s value at row %d", closeColumn, rowNo)
	}

	fields := make(map[string]string, len(header))
	for i, col := range header {
		if i == closeIdx || i >= len(record) {
			continue
		}
		fields[col] = record[i]
	}
	return Row{Close: closeVal, Fields: fields}, nil
}
