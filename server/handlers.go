package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/metrics"
	"github.com/c360studio/semdoc/queue"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

// ---------------------------------------------------------------------------
// Health
// ---------------------------------------------------------------------------

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "semdoc",
		Version: s.version,
	})
}

// ---------------------------------------------------------------------------
// Document submission
// ---------------------------------------------------------------------------

// SubmitRequest is the request body for POST /api/documents.
type SubmitRequest struct {
	// Content is the raw document text to process.
	Content string `json:"content"`
	// Name optionally pins a stable document name so re-submission of
	// revised content updates the same graph node.
	Name string `json:"name,omitempty"`
	// Source records where the document came from (defaults to "api").
	Source string `json:"source,omitempty"`
}

// SubmitResponse is the response body for POST /api/documents.
type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
	DocumentID   string `json:"document_id"`
	Status       string `json:"status"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		http.Error(w, "Document submission is not enabled on this server", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Field 'content' is required", http.StatusBadRequest)
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	sub := queue.NewSubmission(req.Content, req.Name, source)
	if err := s.publisher.Publish(r.Context(), sub); err != nil {
		s.logger.Error("failed to queue submission", "document_id", sub.DocumentID, "error", err)
		http.Error(w, "Failed to queue document for processing", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, SubmitResponse{
		SubmissionID: sub.ID,
		DocumentID:   sub.DocumentID,
		Status:       "queued",
	})
}

// ---------------------------------------------------------------------------
// Concept queries
// ---------------------------------------------------------------------------

// RelatedDocument is one row of a related-documents response.
type RelatedDocument struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Domain     string `json:"domain,omitempty"`
}

// RelatedDocumentsResponse is the response body for
// GET /api/concepts/{concept}/documents. Query failures degrade to an
// empty result with the error attached rather than an HTTP error.
type RelatedDocumentsResponse struct {
	Concept   string            `json:"concept"`
	Documents []RelatedDocument `json:"documents"`
	Count     int               `json:"count"`
	ElapsedMS float64           `json:"elapsed_ms"`
	Error     string            `json:"error,omitempty"`
}

func (s *Server) handleRelatedDocuments(w http.ResponseWriter, r *http.Request) {
	concept := r.PathValue("concept")

	res, err := s.store.Query(r.Context(), graph.Query{
		Kind:    graph.QueryDocumentsForConcept,
		Concept: concept,
		Limit:   parseLimit(r, graph.DefaultLimit),
	})
	metrics.QueryDuration.WithLabelValues(string(graph.QueryDocumentsForConcept)).Observe(res.Elapsed.Seconds())

	resp := RelatedDocumentsResponse{
		Concept:   concept,
		Documents: make([]RelatedDocument, 0),
		ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
	}
	if err != nil {
		s.logger.Error("related documents query failed", "concept", concept, "error", err)
		resp.Error = err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	for _, b := range res.Bindings {
		resp.Documents = append(resp.Documents, RelatedDocument{
			ID:         strings.TrimPrefix(b["doc"], semdoc.DocumentNamespace),
			Title:      b["title"],
			Confidence: b["confidence"],
			Domain:     b["domain"],
		})
	}
	resp.Count = len(resp.Documents)
	writeJSON(w, http.StatusOK, resp)
}

// CoOccurringConcept is one row of a co-occurring concepts response.
type CoOccurringConcept struct {
	Concept   string `json:"concept"`
	Frequency int    `json:"frequency"`
}

// CoOccurringResponse is the response body for
// GET /api/concepts/{concept}/co-occurring.
type CoOccurringResponse struct {
	Concept   string               `json:"concept"`
	Related   []CoOccurringConcept `json:"related"`
	Count     int                  `json:"count"`
	ElapsedMS float64              `json:"elapsed_ms"`
	Error     string               `json:"error,omitempty"`
}

func (s *Server) handleCoOccurring(w http.ResponseWriter, r *http.Request) {
	concept := r.PathValue("concept")

	res, err := s.store.Query(r.Context(), graph.Query{
		Kind:    graph.QueryCoOccurring,
		Concept: concept,
		Limit:   parseLimit(r, graph.DefaultLimit),
	})
	metrics.QueryDuration.WithLabelValues(string(graph.QueryCoOccurring)).Observe(res.Elapsed.Seconds())

	resp := CoOccurringResponse{
		Concept:   concept,
		Related:   make([]CoOccurringConcept, 0),
		ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
	}
	if err != nil {
		s.logger.Error("co-occurring query failed", "concept", concept, "error", err)
		resp.Error = err.Error()
		writeJSON(w, http.StatusOK, resp)
		return
	}

	for _, b := range res.Bindings {
		freq, _ := strconv.Atoi(b["frequency"])
		resp.Related = append(resp.Related, CoOccurringConcept{
			Concept:   b["related_concept"],
			Frequency: freq,
		})
	}
	resp.Count = len(resp.Related)
	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Document export
// ---------------------------------------------------------------------------

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	turtle, ok, err := s.store.ExportSubgraph(r.Context(), id)
	if err != nil {
		s.logger.Error("subgraph export failed", "document_id", id, "error", err)
		http.Error(w, "Export failed", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, fmt.Sprintf("Document %q not found", id), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/turtle; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, turtle); err != nil {
		s.logger.Error("failed to write export response", "error", err)
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// StatsResponse is the response body for GET /api/stats.
type StatsResponse struct {
	Graph   *graph.Stats `json:"graph"`
	Version string       `json:"version"`
	Error   string       `json:"error,omitempty"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	resp := StatsResponse{Graph: stats, Version: s.version}
	if err != nil {
		s.logger.Warn("stats query degraded", "error", err)
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
