package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talenttrack/internal/candidate"
	"talenttrack/internal/storage"
)

const sampleHeader = "candidate_name,skills,phone,email,location,available_time,status,notes,country_code\n"

func newTestImporter(t *testing.T) (*Importer, *storage.DB) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.InitSchema(context.Background()))
	return New(candidate.NewEngine(db), "+91"), db
}

func TestReadRowsNormalizesHeaders(t *testing.T) {
	csv := "Candidate Name, EMAIL ,Phone,Available Time\nJohn,j@x.com,123,9-5\n"
	rows, err := ReadRows("upload.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "John", rows[0]["candidate_name"])
	assert.Equal(t, "j@x.com", rows[0]["email"])
	assert.Equal(t, "123", rows[0]["phone"])
	assert.Equal(t, "9-5", rows[0]["available_time"])
}

func TestReadRowsUnsupportedFormat(t *testing.T) {
	_, err := ReadRows("upload.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestReadRowsShortRowsPadded(t *testing.T) {
	csv := "candidate_name,email,phone\nJohn\n"
	rows, err := ReadRows("upload.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0]["email"])
}

func TestPreview(t *testing.T) {
	imp, _ := newTestImporter(t)

	csv := sampleHeader +
		"John Doe,Go,1234567890,john@example.com,Bangalore,9-5,New,,+91\n" +
		"Jane Smith,Java,2345678901,not-an-email,NYC,9-5,New,,+1\n" +
		"No Status,Go,81234567,ns@example.com,SG,9-5,,,+65\n"

	previews, err := imp.Preview("candidates.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, previews, 3)

	assert.Equal(t, 2, previews[0].RowNumber)
	assert.Equal(t, "valid", previews[0].Status)
	assert.Nil(t, previews[0].Error)

	assert.Equal(t, 3, previews[1].RowNumber)
	assert.Equal(t, "invalid", previews[1].Status)
	require.NotNil(t, previews[1].Error)
	assert.Equal(t, "Invalid email format.", *previews[1].Error)

	assert.Equal(t, 4, previews[2].RowNumber)
	assert.Equal(t, "invalid", previews[2].Status)
	require.NotNil(t, previews[2].Error)
	assert.Equal(t, "Status is required.", *previews[2].Error)
}

func TestPreviewDoesNotMutate(t *testing.T) {
	imp, db := newTestImporter(t)

	csv := sampleHeader + "John Doe,Go,1234567890,john@example.com,,,New,,+91\n"
	_, err := imp.Preview("candidates.csv", strings.NewReader(csv))
	require.NoError(t, err)

	all, err := db.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportTalliesAndReportsRowNumbers(t *testing.T) {
	imp, _ := newTestImporter(t)

	// Row 3 of the data (file row 4) has a bad email.
	csv := sampleHeader +
		"A One,Go,1000000001,a1@example.com,,,New,,+91\n" +
		"A Two,Go,1000000002,a2@example.com,,,New,,+91\n" +
		"A Three,Go,1000000003,bad-email,,,New,,+91\n" +
		"A Four,Go,1000000004,a4@example.com,,,New,,+91\n" +
		"A Five,Go,1000000005,a5@example.com,,,New,,+91\n"

	summary, err := imp.Import(context.Background(), "candidates.csv", strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Inserted)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.TotalErrors)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Row 4")
	assert.Contains(t, summary.Errors[0], "Invalid email format.")
}

func TestImportRejectsRecentDuplicates(t *testing.T) {
	imp, _ := newTestImporter(t)
	csv := sampleHeader + "John Doe,Go,1234567890,john@example.com,,,New,,+91\n"

	first, err := imp.Import(context.Background(), "candidates.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)

	second, err := imp.Import(context.Background(), "candidates.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 1, second.Skipped)
	require.Len(t, second.Errors, 1)
	assert.Contains(t, second.Errors[0], "cannot add candidate")
}

func TestImportErrorCap(t *testing.T) {
	imp, _ := newTestImporter(t)

	var b strings.Builder
	b.WriteString(sampleHeader)
	for i := 0; i < 15; i++ {
		b.WriteString("Bad Row,Go,123,bad-email,,,New,,+91\n")
	}

	summary, err := imp.Import(context.Background(), "candidates.csv", strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 15, summary.Skipped)
	assert.Equal(t, 15, summary.TotalErrors)
	assert.Len(t, summary.Errors, 10)
}

func TestImportDefaultCountryCode(t *testing.T) {
	imp, db := newTestImporter(t)

	// No country_code column at all: the configured default applies.
	csv := "candidate_name,phone,email,status\nJohn Doe,1234567890,john@example.com,New\n"
	summary, err := imp.Import(context.Background(), "candidates.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Inserted)

	all, err := db.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "+911234567890", all[0].Phone)
}

func TestImportEmptyCountryCodeCellFails(t *testing.T) {
	imp, _ := newTestImporter(t)

	// Column present but cell empty: required validation still applies.
	csv := sampleHeader + "John Doe,Go,1234567890,john@example.com,,,New,,\n"
	summary, err := imp.Import(context.Background(), "candidates.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Country Code is required.")
}

func TestExportImportRoundTrip(t *testing.T) {
	imp, db := newTestImporter(t)
	ctx := context.Background()

	// Records old enough that the re-add threshold has elapsed.
	created := time.Now().UTC().AddDate(0, 0, -120)
	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	phones := []string{"+911000000001", "+12000000002", "+971300000003"}
	for i := range emails {
		require.NoError(t, db.Insert(ctx, &candidate.Candidate{
			ID:        uuid.New().String(),
			Name:      "Candidate " + emails[i],
			Phone:     phones[i],
			Email:     emails[i],
			Status:    candidate.StatusNew,
			CreatedAt: created,
			UpdatedAt: created,
		}))
	}

	var buf bytes.Buffer
	all, err := db.List(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(&buf, all))

	summary, err := imp.Import(ctx, "exported_candidates.csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 3, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.TotalErrors)

	// Same records, same identifiers, created_at untouched.
	after, err := db.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, after, 3)
	for _, c := range after {
		assert.True(t, c.CreatedAt.Equal(created.Truncate(time.Second)))
		assert.True(t, c.UpdatedAt.After(c.CreatedAt))
	}
}

func TestExportXLSXRoundTrip(t *testing.T) {
	imp, db := newTestImporter(t)
	ctx := context.Background()

	created := time.Now().UTC().AddDate(0, 0, -120)
	require.NoError(t, db.Insert(ctx, &candidate.Candidate{
		ID:        uuid.New().String(),
		Name:      "Sheet Candidate",
		Phone:     "+911234567890",
		Email:     "sheet@example.com",
		Status:    candidate.StatusInProgress,
		CreatedAt: created,
		UpdatedAt: created,
	}))

	all, err := db.List(ctx, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, all))

	summary, err := imp.Import(ctx, "exported_candidates.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 0, summary.Skipped)
}

func TestSampleCSVImportsCleanly(t *testing.T) {
	imp, _ := newTestImporter(t)

	summary, err := imp.Import(context.Background(), "sample_candidates.csv", bytes.NewReader(SampleCSV()))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Skipped)
}
