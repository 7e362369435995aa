package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Candidate CRUD
	mux.HandleFunc("POST /api/candidates", a.AddCandidateHandler)
	mux.HandleFunc("GET /api/candidates", a.ListCandidatesHandler)
	mux.HandleFunc("GET /api/candidates/{id}", a.GetCandidateHandler)
	mux.HandleFunc("PUT /api/candidates/{id}", a.UpdateCandidateHandler)
	mux.HandleFunc("DELETE /api/candidates/{id}", a.DeleteCandidateHandler)

	// Bulk import / export
	mux.HandleFunc("POST /api/import", a.ImportHandler)
	mux.HandleFunc("POST /api/import/preview", a.PreviewHandler)
	mux.HandleFunc("GET /api/import/sample", a.SampleHandler)
	mux.HandleFunc("GET /api/export", a.ExportHandler)

	return mux
}
