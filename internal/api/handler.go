package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"talenttrack/internal/candidate"
	"talenttrack/internal/config"
	"talenttrack/internal/importer"
	"talenttrack/internal/storage"
)

type API struct {
	db                 *storage.DB
	engine             *candidate.Engine
	importer           *importer.Importer
	defaultCountryCode string
}

func NewAPI(db *storage.DB, cfg *config.Config) *API {
	engine := candidate.NewEngine(db)
	return &API{
		db:                 db,
		engine:             engine,
		importer:           importer.New(engine, cfg.DefaultCountryCode),
		defaultCountryCode: cfg.DefaultCountryCode,
	}
}

// UpsertResponse reports the outcome of an add/update call.
type UpsertResponse struct {
	CandidateID string `json:"candidate_id"`
	Outcome     string `json:"outcome"`
	Warning     string `json:"warning,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// AddCandidateHandler validates a submitted candidate and runs it
// through the upsert engine
// @Summary Add or re-add a candidate
// @Description Validates the candidate and inserts it, or updates the matching record when the re-add threshold has passed
// @Tags candidates
// @Accept json
// @Produce json
// @Param candidate body candidate.Input true "Raw candidate fields"
// @Success 200 {object} api.UpsertResponse
// @Success 201 {object} api.UpsertResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /candidates [post]
func (a *API) AddCandidateHandler(w http.ResponseWriter, r *http.Request) {
	var in candidate.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(in.CountryCode) == "" {
		in.CountryCode = a.defaultCountryCode
	}

	rec, err := candidate.Validate(in)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.engine.Upsert(r.Context(), rec)
	if err != nil {
		switch {
		case errors.Is(err, candidate.ErrWithinThreshold):
			respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, storage.ErrDuplicate):
			respondError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("upsert failed: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to save candidate")
		}
		return
	}

	status := http.StatusOK
	if result.Outcome == candidate.OutcomeInserted {
		status = http.StatusCreated
	}
	respondJSON(w, status, UpsertResponse{
		CandidateID: result.ID,
		Outcome:     string(result.Outcome),
		Warning:     result.Warning,
	})
}

// ListCandidatesHandler lists stored candidates with optional filters
// @Summary List candidates
// @Description List candidates, optionally filtered by name, location, skill or status
// @Tags candidates
// @Produce json
// @Param name query string false "Name contains"
// @Param location query string false "Location contains"
// @Param skill query string false "Skills contain"
// @Param status query string false "Exact status"
// @Success 200 {array} candidate.Candidate
// @Failure 500 {object} map[string]string
// @Router /candidates [get]
func (a *API) ListCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	criteria := &storage.Criteria{
		Name:     r.URL.Query().Get("name"),
		Location: r.URL.Query().Get("location"),
		Skill:    r.URL.Query().Get("skill"),
		Status:   r.URL.Query().Get("status"),
	}

	candidates, err := a.db.List(r.Context(), criteria)
	if err != nil {
		log.Printf("list candidates: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	if candidates == nil {
		candidates = []*candidate.Candidate{}
	}
	respondJSON(w, http.StatusOK, candidates)
}

// GetCandidateHandler fetches one candidate by identifier
// @Summary Get candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} candidate.Candidate
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [get]
func (a *API) GetCandidateHandler(w http.ResponseWriter, r *http.Request) {
	c, err := a.db.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "candidate not found")
		return
	}
	if err != nil {
		log.Printf("get candidate: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// UpdateCandidateHandler edits a chosen record in place. Unlike the add
// path this bypasses the re-add threshold: the operator picked the
// record by id. The identifier and created_at never change.
// @Summary Update candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param candidate body candidate.Input true "Raw candidate fields"
// @Success 200 {object} candidate.Candidate
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /candidates/{id} [put]
func (a *API) UpdateCandidateHandler(w http.ResponseWriter, r *http.Request) {
	existing, err := a.db.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "candidate not found")
		return
	}
	if err != nil {
		log.Printf("get candidate: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	var in candidate.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(in.CountryCode) == "" {
		in.CountryCode = a.defaultCountryCode
	}

	rec, err := candidate.Validate(in)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec.ID = existing.ID
	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = time.Now().UTC()

	if err := a.db.Update(r.Context(), &rec); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			respondError(w, http.StatusConflict, "another candidate already uses this email or phone")
			return
		}
		log.Printf("update candidate: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	respondJSON(w, http.StatusOK, &rec)
}

// DeleteCandidateHandler removes a record
// @Summary Delete candidate
// @Tags candidates
// @Param id path string true "Candidate ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /candidates/{id} [delete]
func (a *API) DeleteCandidateHandler(w http.ResponseWriter, r *http.Request) {
	err := a.db.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "candidate not found")
		return
	}
	if err != nil {
		log.Printf("delete candidate: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
