package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// dateLayouts are tried in order when parsing the date column from CSV.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// FromCSV reads an observation table from a CSV file. The header row names
// the columns; dateColumn is parsed as a date, every other column as float.
func FromCSV(path, dateColumn string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f, dateColumn)
}

// ReadCSV reads an observation table from CSV-formatted data.
func ReadCSV(r io.Reader, dateColumn string) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read csv header: %w", err)
	}

	dateIdx := -1
	for i, name := range header {
		if name == dateColumn {
			dateIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("dataset: csv has no %q column", dateColumn)
	}

	var dates []time.Time
	columns := make(map[string][]float64)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: read csv row %d: %w", row, err)
		}
		for i, field := range record {
			if i == dateIdx {
				d, err := parseDate(field)
				if err != nil {
					return nil, fmt.Errorf("dataset: row %d: %w", row, err)
				}
				dates = append(dates, d)
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: row %d column %q: %w", row, header[i], err)
			}
			columns[header[i]] = append(columns[header[i]], v)
		}
	}

	return New(dates, columns)
}

// WriteCSV writes the table to path with the date column first, formatted
// as 2006-01-02.
func (t *Table) WriteCSV(path, dateColumn string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	header := append([]string{dateColumn}, t.names...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("dataset: write csv header: %w", err)
	}
	for row := 0; row < t.Len(); row++ {
		record := make([]string, 0, len(header))
		record = append(record, t.dates[row].Format("2006-01-02"))
		for _, name := range t.names {
			record = append(record, strconv.FormatFloat(t.columns[name][row], 'f', -1, 64))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("dataset: write csv row %d: %w", row, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("dataset: flush csv: %w", err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
