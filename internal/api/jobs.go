package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/engine"
	"scrollreveal/internal/orchestrator"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
)

// LoadJob represents a single load_page job with its state.
type LoadJob struct {
	ID           string
	URL          string
	Orchestrator *orchestrator.Orchestrator
	Emitter      *SSEEmitter
	Config       scrollconfig.Configuration
	Status       JobStatus
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Stats        *engine.Stats
	Errors       []string
	Error        error
	cancel       context.CancelFunc
	mu           sync.Mutex
}

// GetStatus returns the current job status (thread-safe).
func (j *LoadJob) GetStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.Status
}

// SetStatus updates the job status (thread-safe).
func (j *LoadJob) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
}

// ToSummary converts job to a summary view.
func (j *LoadJob) ToSummary() JobSummary {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSummary{JobID: j.ID, URL: j.URL, Status: j.Status, CreatedAt: j.CreatedAt}
}

// ToDetails converts job to a detailed view.
func (j *LoadJob) ToDetails() JobDetails {
	j.mu.Lock()
	defer j.mu.Unlock()

	details := JobDetails{
		JobID:       j.ID,
		URL:         j.URL,
		Status:      j.Status,
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
		Stats:       j.Stats,
		Errors:      j.Errors,
	}
	if j.Error != nil {
		details.Error = j.Error.Error()
	}
	return details
}

// JobManager manages multiple concurrent load jobs, one Orchestrator each.
type JobManager struct {
	jobs          map[string]*LoadJob
	maxConcurrent int
	newAdapter    func() browser.Adapter
	verbose       bool
	mu            sync.RWMutex
}

// NewJobManager creates a new job manager. newAdapter builds a fresh Adapter
// per job, exactly as the root scrollreveal package's runner does. verbose
// gates each job's Logger at Debug level.
func NewJobManager(maxConcurrent int, newAdapter func() browser.Adapter, verbose bool) *JobManager {
	return &JobManager{
		jobs:          make(map[string]*LoadJob),
		maxConcurrent: maxConcurrent,
		newAdapter:    newAdapter,
		verbose:       verbose,
	}
}

// CreateJob creates a new pending load job from the request.
func (m *JobManager) CreateJob(req *LoadRequest) (*LoadJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req.URL == "" {
		return nil, APIError{Code: 400, Message: "url is required"}
	}

	active := 0
	for _, job := range m.jobs {
		if job.GetStatus() == JobStatusRunning || job.GetStatus() == JobStatusPending {
			active++
		}
	}
	if active >= m.maxConcurrent {
		return nil, APIError{Code: 429, Message: "too many active jobs", Details: fmt.Sprintf("maximum %d concurrent jobs allowed", m.maxConcurrent)}
	}

	cfg := scrollconfig.Defaults()
	scrollconfig.Overlay(&cfg, req.Config)

	jobID := uuid.New().String()[:8]
	job := &LoadJob{
		ID:        jobID,
		URL:       req.URL,
		Emitter:   NewSSEEmitter(),
		Config:    cfg,
		Status:    JobStatusPending,
		CreatedAt: time.Now(),
	}
	m.jobs[jobID] = job
	return job, nil
}

// StartJob starts a pending job in the background.
func (m *JobManager) StartJob(jobID string) error {
	m.mu.RLock()
	job, exists := m.jobs[jobID]
	m.mu.RUnlock()
	if !exists {
		return APIError{Code: 404, Message: "job not found"}
	}

	job.mu.Lock()
	if job.Status != JobStatusPending {
		job.mu.Unlock()
		return APIError{Code: 400, Message: "job already started"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	job.cancel = cancel

	jobLog := scrolllog.New(m.verbose, job.Emitter)
	o := orchestrator.New(m.newAdapter, jobLog)
	job.Orchestrator = o
	job.Status = JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	job.mu.Unlock()

	go func() {
		res, err := o.Run(ctx, job.URL, job.Config)

		job.mu.Lock()
		stats := res.Stats
		job.Stats = &stats
		job.Errors = res.Errors
		now := time.Now()
		job.CompletedAt = &now
		switch {
		case err != nil:
			job.Status = JobStatusError
			job.Error = err
		case !res.Success:
			job.Status = JobStatusError
		case job.Status == JobStatusStopped:
			// already marked stopped by StopJob
		default:
			job.Status = JobStatusCompleted
		}
		job.mu.Unlock()

		job.Emitter.Close()
	}()

	return nil
}

// GetJob returns a job by ID.
func (m *JobManager) GetJob(jobID string) (*LoadJob, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, exists := m.jobs[jobID]
	if !exists {
		return nil, APIError{Code: 404, Message: "job not found"}
	}
	return job, nil
}

// ListJobs returns all jobs.
func (m *JobManager) ListJobs() []*LoadJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*LoadJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// StopJob stops a running job by cancelling its run and calling the
// library's Stop() so the Engine exits at its next iteration boundary.
func (m *JobManager) StopJob(jobID string) error {
	m.mu.RLock()
	job, exists := m.jobs[jobID]
	m.mu.RUnlock()
	if !exists {
		return APIError{Code: 404, Message: "job not found"}
	}

	job.mu.Lock()
	defer job.mu.Unlock()

	if job.Status != JobStatusRunning && job.Status != JobStatusPending {
		return APIError{Code: 400, Message: "job is not active"}
	}

	if job.Orchestrator != nil {
		job.Orchestrator.Stop()
	}
	if job.cancel != nil {
		job.cancel()
	}
	job.Status = JobStatusStopped
	return nil
}

// ActiveJobCount returns the number of active (pending or running) jobs.
func (m *JobManager) ActiveJobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, job := range m.jobs {
		status := job.GetStatus()
		if status == JobStatusRunning || status == JobStatusPending {
			count++
		}
	}
	return count
}

// Shutdown stops every job and closes their emitters.
func (m *JobManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.jobs {
		job.mu.Lock()
		if job.Orchestrator != nil {
			job.Orchestrator.Stop()
		}
		if job.cancel != nil {
			job.cancel()
		}
		job.Emitter.Close()
		job.mu.Unlock()
	}
}
