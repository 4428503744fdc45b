package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
)

// analysisRequest is the POST /api/analyses body.
type analysisRequest struct {
	InputDir    string `json:"input_dir"`
	Persona     string `json:"persona"`
	JobToBeDone string `json:"job_to_be_done"`
}

func (s *Server) handleSubmitAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Persona) == "" {
		jsonError(w, "persona is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.JobToBeDone) == "" {
		jsonError(w, "job_to_be_done is required", http.StatusBadRequest)
		return
	}
	if req.InputDir == "" {
		req.InputDir = s.cfg.InputDir
	}

	run := pipeline.NewRun(req.InputDir, req.Persona, req.JobToBeDone)
	if err := s.orchestrator.Submit(run); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"run_id": run.ID,
		"status": pipeline.StatusQueued,
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	run := s.orchestrator.Get(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run.Snapshot())
}

// handleAnalysisReport renders the Markdown digest of a completed run as an
// HTML page.
func (s *Server) handleAnalysisReport(w http.ResponseWriter, r *http.Request) {
	run := s.orchestrator.Get(chi.URLParam(r, "runID"))
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}

	snap := run.Snapshot()
	if snap.Status != pipeline.StatusCompleted || snap.Result == nil {
		jsonError(w, fmt.Sprintf("run is %s, report not available", snap.Status), http.StatusConflict)
		return
	}

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(report.Markdown(snap.Result.Report)), &body); err != nil {
		jsonError(w, "render report: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><title>docsift report %s</title></head>\n<body>\n", snap.ID)
	w.Write(body.Bytes())
	w.Write([]byte("\n</body>\n</html>\n"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"documents":   s.orchestrator.Stats().Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
