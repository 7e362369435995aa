package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data line of an uploaded file keyed by normalized column
// name. A key is present only when the file has that column.
type Row map[string]string

// normalizeHeader lower-cases, trims and underscores a column name so
// "Candidate Name" and "candidate_name" address the same field.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}

// ReadRows parses an uploaded CSV or XLSX file into rows of named
// string fields. Any read or format problem fails the whole call; there
// are no partial results.
func ReadRows(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xls":
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file format: upload CSV or Excel")
	}
}

func readCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded below

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV file: %w", err)
	}
	return toRows(records), nil
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error reading Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("error reading Excel file: no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading Excel file: %w", err)
	}
	return toRows(records), nil
}

func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = normalizeHeader(h)
	}

	// Empty rows are kept: they fail validation like any other bad row,
	// and dropping them would shift row numbers in the report.
	var rows []Row
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			val := ""
			if i < len(record) {
				val = strings.TrimSpace(record[i])
			}
			row[h] = val
		}
		rows = append(rows, row)
	}
	return rows
}
