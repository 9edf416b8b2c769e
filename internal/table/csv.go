package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultNullMarkers are the field values read as null, matching what
// spreadsheet and dataframe tooling treats as missing.
var DefaultNullMarkers = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// ReadOptions controls CSV loading.
type ReadOptions struct {
	// NullMarkers lists exact field values read as null. Nil means DefaultNullMarkers.
	NullMarkers []string
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// ReadCSVFile loads a CSV file with a header row.
func ReadCSVFile(path string, opts ReadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV loads CSV data with a header row. Every non-null field becomes a
// text cell; short rows are padded with nulls, long rows are an error.
// Duplicate header names get a ".N" suffix.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	markers := opts.NullMarkers
	if markers == nil {
		markers = DefaultNullMarkers
	}
	nulls := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		nulls[m] = struct{}{}
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	names := dedupeHeader(header)

	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = &Column{Name: name}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++
		if len(record) > len(cols) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", line, len(record), len(cols))
		}
		for i, col := range cols {
			if i >= len(record) {
				col.Cells = append(col.Cells, Null())
				continue
			}
			if _, isNull := nulls[record[i]]; isNull {
				col.Cells = append(col.Cells, Null())
				continue
			}
			col.Cells = append(col.Cells, Text(record[i]))
		}
	}

	return New(cols...)
}

func dedupeHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		candidate := name
		for n := seen[name]; ; n++ {
			if _, dup := seen[candidate]; !dup {
				break
			}
			candidate = fmt.Sprintf("%s.%d", name, n+1)
			seen[name] = n + 1
		}
		seen[candidate] = 0
		out[i] = candidate
	}
	return out
}
