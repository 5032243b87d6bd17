// Package handlers contains the HTTP handlers for the run API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jwlim/signalpipe/internal/history"
	"github.com/jwlim/signalpipe/internal/pipeline"
	"github.com/jwlim/signalpipe/pkg/logger"
)

// RunsHandler serves pipeline runs and their history.
type RunsHandler struct {
	pipe     *pipeline.Pipeline
	recorder *history.Recorder
	logger   *logger.Logger
}

// NewRunsHandler creates a runs handler.
func NewRunsHandler(pipe *pipeline.Pipeline, recorder *history.Recorder, log *logger.Logger) *RunsHandler {
	return &RunsHandler{pipe: pipe, recorder: recorder, logger: log}
}

// runRequest is the body of POST /api/runs.
type runRequest struct {
	Input  string `json:"input"`
	Config string `json:"config"`
}

// CreateRun triggers a synchronous pipeline run.
// POST /api/runs
func (h *RunsHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Input == "" || req.Config == "" {
		respondError(w, http.StatusBadRequest, "input and config are required")
		return
	}

	startedAt := time.Now()
	report, runErr := h.pipe.Run(r.Context(), pipeline.RunRequest{
		InputPath:  req.Input,
		ConfigPath: req.Config,
	})

	if _, err := h.recorder.Record(r.Context(), startedAt, report); err != nil {
		h.logger.WithError(err).Error("Failed to record run")
	}

	// A failed run is still a completed request; the error report is the
	// payload.
	status := http.StatusOK
	if runErr != nil {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, report.Payload())
}

// GetLatest returns the most recent run record.
// GET /api/runs/latest
func (h *RunsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.recorder.Store().Latest()
	if !ok {
		respondError(w, http.StatusNotFound, "no runs recorded")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// ListRuns returns recent run records, most recent first.
// GET /api/runs?limit=N
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, h.recorder.Store().List(limit))
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
