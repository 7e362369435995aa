package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"talenttrack/internal/candidate"
)

// exportColumns is the stored field order; export is a plain dump with
// no value transformation.
var exportColumns = []string{
	"candidate_id", "candidate_name", "skills", "phone", "email",
	"location", "available_time", "status", "notes", "created_at", "updated_at",
}

func exportRow(c *candidate.Candidate) []string {
	return []string{
		c.ID, c.Name, c.Skills, c.Phone, c.Email,
		c.Location, c.AvailableTime, c.Status, c.Notes,
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// WriteCSV serializes all records to CSV, one row per candidate.
func WriteCSV(w io.Writer, candidates []*candidate.Candidate) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportColumns); err != nil {
		return err
	}
	for _, c := range candidates {
		if err := writer.Write(exportRow(c)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX serializes all records to a single-sheet workbook.
func WriteXLSX(w io.Writer, candidates []*candidate.Candidate) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, c := range candidates {
		values := exportRow(c)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SampleCSV returns a template upload with the expected columns and two
// example rows, phone digits separate from the country code.
func SampleCSV() []byte {
	return []byte(`candidate_name,skills,phone,email,location,available_time,status,notes,country_code
John Doe,"Python, SQL",1234567890,john@example.com,Bangalore,9AM-6PM,New,Sample note 1,+91
Jane Smith,"Java, Spring Boot",2234567890,jane@example.com,New York,10AM-7PM,In Progress,Sample note 2,+1
`)
}
