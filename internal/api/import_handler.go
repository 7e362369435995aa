package api

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"

	"talenttrack/internal/importer"
)

const maxUploadBytes = 10 << 20 // 10MB

func (a *API) uploadedFile(w http.ResponseWriter, r *http.Request) (multipart.File, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or invalid (max 10MB)")
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file uploaded")
		return nil, "", false
	}
	return file, header.Filename, true
}

// ImportHandler ingests an uploaded CSV/XLSX file
// @Summary Bulk import candidates
// @Description Validates and upserts every row of the uploaded file; per-row failures never abort the batch
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} importer.Summary
// @Failure 400 {object} map[string]string
// @Router /import [post]
func (a *API) ImportHandler(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := a.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	summary, err := a.importer.Import(r.Context(), filename, file)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("import failed: %v", err))
		return
	}

	log.Printf("import %s: %d inserted, %d updated, %d skipped (%d errors)",
		filename, summary.Inserted, summary.Updated, summary.Skipped, summary.TotalErrors)
	respondJSON(w, http.StatusOK, summary)
}

// PreviewHandler validates an uploaded file without importing it
// @Summary Preview an import file
// @Description Runs validation only and reports each row as valid or invalid, without touching the store
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {array} importer.RowPreview
// @Failure 400 {object} map[string]string
// @Router /import/preview [post]
func (a *API) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	file, filename, ok := a.uploadedFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	rows, err := a.importer.Preview(filename, file)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("preview failed: %v", err))
		return
	}
	if rows == nil {
		rows = []importer.RowPreview{}
	}
	respondJSON(w, http.StatusOK, rows)
}

// SampleHandler serves the CSV template for bulk uploads
// @Summary Download sample CSV
// @Tags import
// @Produce text/csv
// @Success 200 {string} string
// @Router /import/sample [get]
func (a *API) SampleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sample_candidates.csv"`)
	if _, err := w.Write(importer.SampleCSV()); err != nil {
		log.Printf("write sample csv: %v", err)
	}
}

// ExportHandler streams all stored candidates as a tabular file
// @Summary Export candidates
// @Description Dumps every stored record, unmodified, as CSV or XLSX
// @Tags export
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /export [get]
func (a *API) ExportHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		respondError(w, http.StatusBadRequest, "unsupported export format: use csv or xlsx")
		return
	}

	candidates, err := a.db.List(r.Context(), nil)
	if err != nil {
		log.Printf("export: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var writeErr error
	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="exported_candidates.csv"`)
		writeErr = importer.WriteCSV(w, candidates)
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="exported_candidates.xlsx"`)
		writeErr = importer.WriteXLSX(w, candidates)
	}
	if writeErr != nil {
		// Headers are out the door already; all we can do is log.
		log.Printf("export %s: %v", format, writeErr)
	}
}
