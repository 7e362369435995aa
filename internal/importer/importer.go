package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"talenttrack/internal/candidate"
)

// maxReportedErrors caps the error strings carried in an import summary;
// TotalErrors still counts everything.
const maxReportedErrors = 10

// Importer runs uploaded rows through validation and the upsert engine.
type Importer struct {
	engine             *candidate.Engine
	defaultCountryCode string
}

func New(engine *candidate.Engine, defaultCountryCode string) *Importer {
	return &Importer{engine: engine, defaultCountryCode: defaultCountryCode}
}

// RowPreview is the validation verdict for one data row. RowNumber is
// offset by the header line, so the first data row is row 2.
type RowPreview struct {
	RowNumber int     `json:"row_number"`
	Status    string  `json:"status"` // "valid" or "invalid"
	Error     *string `json:"error"`
}

// Summary aggregates a bulk import.
type Summary struct {
	Inserted    int      `json:"inserted"`
	Updated     int      `json:"updated"`
	Skipped     int      `json:"skipped"`
	Errors      []string `json:"errors"`
	TotalErrors int      `json:"total_errors"`
}

// rowToInput maps a normalized file row onto a raw candidate. The
// configured country code fills in only when the file has no
// country_code column at all; a present-but-empty cell still fails
// required validation. A phone already carrying a known +code prefix
// (as exported files do) is split back apart.
func (imp *Importer) rowToInput(row Row) candidate.Input {
	in := candidate.Input{
		Name:          row["candidate_name"],
		Skills:        row["skills"],
		Phone:         row["phone"],
		CountryCode:   row["country_code"],
		Email:         row["email"],
		Location:      row["location"],
		AvailableTime: row["available_time"],
		Status:        row["status"],
		Notes:         row["notes"],
	}

	if _, present := row["country_code"]; !present {
		in.CountryCode = imp.defaultCountryCode
	}

	if strings.HasPrefix(in.Phone, "+") {
		if code, digits, ok := candidate.SplitCallingCode(in.Phone); ok {
			in.CountryCode = code
			in.Phone = digits
		}
	}

	return in
}

// Preview validates every row without touching the store.
func (imp *Importer) Preview(filename string, r io.Reader) ([]RowPreview, error) {
	rows, err := ReadRows(filename, r)
	if err != nil {
		return nil, err
	}

	results := make([]RowPreview, 0, len(rows))
	for i, row := range rows {
		preview := RowPreview{RowNumber: i + 2, Status: "valid"}
		if _, err := candidate.Validate(imp.rowToInput(row)); err != nil {
			reason := err.Error()
			preview.Status = "invalid"
			preview.Error = &reason
		}
		results = append(results, preview)
	}
	return results, nil
}

// Import runs every row through validation and the upsert engine,
// tallying the outcome. A failing row never aborts the batch.
func (imp *Importer) Import(ctx context.Context, filename string, r io.Reader) (*Summary, error) {
	rows, err := ReadRows(filename, r)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Errors: []string{}}
	addError := func(rowNumber int, reason string) {
		summary.TotalErrors++
		if len(summary.Errors) < maxReportedErrors {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: %s", rowNumber, reason))
		}
	}

	for i, row := range rows {
		rowNumber := i + 2

		rec, err := candidate.Validate(imp.rowToInput(row))
		if err != nil {
			summary.Skipped++
			addError(rowNumber, err.Error())
			continue
		}

		result, err := imp.engine.Upsert(ctx, rec)
		if err != nil {
			summary.Skipped++
			addError(rowNumber, err.Error())
			continue
		}

		switch result.Outcome {
		case candidate.OutcomeInserted:
			summary.Inserted++
		case candidate.OutcomeUpdated:
			summary.Updated++
		}
	}

	return summary, nil
}
