package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	JobManager *JobManager
	StartTime  time.Time
	Version    string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(jm *JobManager, version string) *Handlers {
	return &Handlers{JobManager: jm, StartTime: time.Now(), Version: version}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(APIError); ok {
		writeJSON(w, apiErr.Code, apiErr)
		return
	}
	writeJSON(w, http.StatusInternalServerError, APIError{Code: 500, Message: "internal server error", Details: err.Error()})
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "healthy",
		Version:    h.Version,
		Uptime:     time.Since(h.StartTime).Round(time.Second).String(),
		ActiveJobs: h.JobManager.ActiveJobCount(),
	})
}

// CreateLoad handles POST /v1/loads.
func (h *Handlers) CreateLoad(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, APIError{Code: 400, Message: "failed to read request body"})
		return
	}
	defer r.Body.Close()

	var req LoadRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, APIError{Code: 400, Message: "invalid JSON", Details: err.Error()})
		return
	}

	job, err := h.JobManager.CreateJob(&req)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.JobManager.StartJob(job.ID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, LoadResponse{JobID: job.ID, Status: job.GetStatus(), CreatedAt: job.CreatedAt})
}

// ListLoads handles GET /v1/loads.
func (h *Handlers) ListLoads(w http.ResponseWriter, r *http.Request) {
	jobs := h.JobManager.ListJobs()
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })

	summaries := make([]JobSummary, len(jobs))
	for i, job := range jobs {
		summaries[i] = job.ToSummary()
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetLoad handles GET /v1/loads/{id}.
func (h *Handlers) GetLoad(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	job, err := h.JobManager.GetJob(jobID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job.ToDetails())
}

// StopLoad handles POST /v1/loads/{id}/stop.
func (h *Handlers) StopLoad(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if err := h.JobManager.StopJob(jobID); err != nil {
		writeError(w, err)
		return
	}
	job, _ := h.JobManager.GetJob(jobID)
	writeJSON(w, http.StatusOK, map[string]any{"jobId": jobID, "status": job.GetStatus()})
}
