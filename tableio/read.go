// Package tableio reads tables from JSON, CSV and XLSX files.
package tableio

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"timeless/pivot"
)

// ErrUnsupportedFormat indicates a file extension with no reader.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// Options controls how files are read.
type Options struct {
	// Sheet is the XLSX sheet to read. Empty selects the first sheet.
	Sheet string
}

// ReadFile reads the table stored at path, choosing the format from the
// file extension.
func ReadFile(path string, opts Options) (*pivot.Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadJSON(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		return ReadXLSX(f, opts.Sheet)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// ReadJSON decodes a table in its JSON encoding.
func ReadJSON(r io.Reader) (*pivot.Table, error) {
	var t pivot.Table
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding table: %w", err)
	}
	return &t, nil
}

// ReadCSV reads a header row of field names followed by data rows.
func ReadCSV(r io.Reader) (*pivot.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return fromRows(records), nil
}

// ReadXLSX reads a sheet laid out like a CSV file.
func ReadXLSX(f *excelize.File, sheet string) (*pivot.Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return fromRows(rows), nil
}

// fromRows builds a table from a header row and string cells. Short rows are
// padded with nil.
func fromRows(rows [][]string) *pivot.Table {
	if len(rows) == 0 {
		return pivot.NewTable()
	}
	header := rows[0]
	fields := make([]pivot.Field, len(header))
	for i, name := range header {
		fields[i] = pivot.Field{Name: strings.TrimSpace(name), Values: make([]any, 0, len(rows)-1)}
	}
	for _, row := range rows[1:] {
		for i := range fields {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			fields[i].Values = append(fields[i].Values, parseCell(cell))
		}
	}
	return pivot.NewTable(fields...)
}

func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
