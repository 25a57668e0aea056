package api

import (
	"time"

	"scrollreveal/internal/engine"
	"scrollreveal/internal/scrollconfig"
)

// JobStatus represents the current state of a load job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusStopped   JobStatus = "stopped"
	JobStatusError     JobStatus = "error"
)

// LoadRequest is the request body for POST /v1/loads: a target URL plus a
// Configuration overlay (spec.md §6's "options is a subset of Configuration
// with library defaults filled in" applied over the wire).
type LoadRequest struct {
	URL    string                     `json:"url"`
	Config scrollconfig.Configuration `json:"config,omitempty"`
}

// LoadResponse is returned when a load job is created.
type LoadResponse struct {
	JobID     string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobSummary provides a brief overview of a job for listing.
type JobSummary struct {
	JobID     string    `json:"jobId"`
	URL       string    `json:"url"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobDetails provides full information about a job, including its final
// stats once the run has finished.
type JobDetails struct {
	JobID       string        `json:"jobId"`
	URL         string        `json:"url"`
	Status      JobStatus     `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	StartedAt   *time.Time    `json:"startedAt,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	Stats       *engine.Stats `json:"stats,omitempty"`
	Errors      []string      `json:"errors,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// APIError is a standardized error response, also usable as a Go error.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e APIError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// SSEEvent is a Server-Sent Event, mirroring scrolllog.CrawlerEvent over the
// wire.
type SSEEvent struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// HealthResponse is the /health response body.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	ActiveJobs int    `json:"activeJobs"`
}
