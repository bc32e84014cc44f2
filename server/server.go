// Package server exposes the transformation pipeline over HTTP for host
// dashboards that keep their data client-side but want server-side
// transforms. It owns no persistence: every request carries its rows.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vizkit-org/vizkit/engine"
	"github.com/vizkit-org/vizkit/layout"
	"github.com/vizkit-org/vizkit/schema"
)

// maxBodyBytes caps request payloads (rows travel in the body).
const maxBodyBytes = 32 * 1024 * 1024

// NewRouter builds the HTTP handler with logging, recovery and CORS.
func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", handleHealth)
	r.Post("/api/transform", handleTransform)
	r.Post("/api/suggest", handleSuggest)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// transformRequest is one chart's full transformation input.
type transformRequest struct {
	Dataset   engine.Dataset     `json:"dataset"`
	Chart     engine.ChartConfig `json:"chart"`
	Container layout.Container   `json:"container"`
}

func handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if !decode(w, r, &req) {
		return
	}

	plan := engine.Run(req.Dataset, req.Chart, req.Container)
	writeJSON(w, http.StatusOK, plan)
}

// suggestRequest asks for the system-suggested mapping for a chart type.
type suggestRequest struct {
	Dataset   engine.Dataset   `json:"dataset"`
	ChartType engine.ChartType `json:"chartType"`
}

type suggestResponse struct {
	Columns []schema.Column     `json:"columns"`
	Mapping engine.FieldMapping `json:"mapping"`
}

func handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !decode(w, r, &req) {
		return
	}

	columns := schema.AnalyzeColumns(req.Dataset)
	writeJSON(w, http.StatusOK, suggestResponse{
		Columns: columns,
		Mapping: schema.SuggestMapping(columns, req.ChartType),
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("vizkit: failed to encode response: %v", err)
	}
}
