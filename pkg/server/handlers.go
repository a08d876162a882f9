package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/graphmining/leiden-engine/pkg/leiden"
)

// Handlers exposes the job API over HTTP.
type Handlers struct {
	jobs *JobService
}

func NewHandlers(jobs *JobService) *Handlers {
	return &Handlers{jobs: jobs}
}

// SubmitJob handles POST /api/v1/jobs.
func (h *Handlers) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	job, err := h.jobs.Submit(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, leiden.ErrInvalidParameter) || errors.Is(err, leiden.ErrMalformedGraph) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeSuccess(w, http.StatusAccepted, job)
}

// GetJob handles GET /api/v1/jobs/{jobId}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	job, err := h.jobs.Get(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeSuccess(w, http.StatusOK, job)
}

// CancelJob handles DELETE /api/v1/jobs/{jobId}.
func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]

	if err := h.jobs.Cancel(jobID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{"job_id": jobID, "status": "cancellation_requested"})
}

// Health handles GET /api/v1/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "healthy", "service": "leiden-engine"})
}

func writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, APIResponse{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		log.Error().Int("status", status).Msg(strings.TrimSpace(message))
	}
	writeJSON(w, status, APIResponse{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
