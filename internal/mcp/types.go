// Package mcp exposes load_page as MCP (Model Context Protocol) tools for
// LLM agents, adapted from the teacher's internal/mcp server/tools pattern
// onto scrollreveal's api.JobManager (SPEC_FULL.md §8.5).
package mcp

import "time"

// LoadInput is the input for the scroll_load tool.
type LoadInput struct {
	URL                string   `json:"url" jsonschema:"required,description=Target URL to load and scroll"`
	ItemSelector       string   `json:"itemSelector,omitempty" jsonschema:"description=CSS selector for one repeating content item, used to detect progress"`
	MaxScrollAttempts  int      `json:"maxScrollAttempts,omitempty" jsonschema:"description=Maximum scroll iterations (default: 50)"`
	MaxDurationSeconds int      `json:"maxDurationSeconds,omitempty" jsonschema:"description=Overall time budget in seconds (default: 120)"`
	ProgressTimeout    int      `json:"progressTimeout,omitempty" jsonschema:"description=Consecutive no-progress iterations before stopping (default: 5)"`
	DetectionMethod    string   `json:"detectionMethod,omitempty" jsonschema:"enum=itemCount,enum=scrollHeight,enum=sentinel,description=How to detect new content"`
	SentinelSelector   string   `json:"sentinelSelector,omitempty" jsonschema:"description=CSS selector of a sentinel element (detectionMethod=sentinel)"`
	LoadMoreSelectors  []string `json:"loadMoreSelectors,omitempty" jsonschema:"description=CSS selectors tried, in order, for a 'load more' button"`
	Headless           *bool    `json:"headless,omitempty" jsonschema:"description=Run the browser headless (default: true)"`
}

// JobIDInput is input for tools that operate on a specific job.
type JobIDInput struct {
	JobID string `json:"jobId" jsonschema:"required,description=Job ID returned from scroll_load"`
}

// WaitInput is input for the scroll_wait tool.
type WaitInput struct {
	JobID          string `json:"jobId" jsonschema:"required,description=Job ID to wait for"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty" jsonschema:"description=Maximum seconds to wait (default: 300)"`
	PollInterval   int    `json:"pollIntervalMs,omitempty" jsonschema:"description=Polling interval in milliseconds (default: 2000)"`
}

// LoadOutput is the response from scroll_load.
type LoadOutput struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// JobSummary provides a brief overview of a job.
type JobSummary struct {
	JobID     string    `json:"jobId"`
	URL       string    `json:"url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobListOutput is the response from scroll_list.
type JobListOutput struct {
	Jobs  []JobSummary `json:"jobs"`
	Total int          `json:"total"`
}

// Stats mirrors engine.Stats over the wire.
type Stats struct {
	ScrollAttempts     int     `json:"scrollAttempts"`
	MaxScrollAttempts  int     `json:"maxScrollAttempts"`
	DurationSeconds    float64 `json:"durationSeconds"`
	MaxDurationSeconds int     `json:"maxDurationSeconds"`
	FinalItemCount     int     `json:"finalItemCount"`
	FinalScrollHeight  int     `json:"finalScrollHeight"`
	LoadMoreClicks     int     `json:"loadMoreClicks"`
	DetectionMethod    string  `json:"detectionMethod"`
	StoppedReason      string  `json:"stoppedReason"`
}

// JobDetailsOutput is the response from scroll_status.
type JobDetailsOutput struct {
	JobID       string     `json:"jobId"`
	URL         string     `json:"url"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Stats       *Stats     `json:"stats,omitempty"`
	Errors      []string   `json:"errors,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// StatusOutput is a generic status response.
type StatusOutput struct {
	JobID   string `json:"jobId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WaitOutput is the response from scroll_wait.
type WaitOutput struct {
	JobID         string `json:"jobId"`
	Status        string `json:"status"`
	Stats         *Stats `json:"stats,omitempty"`
	Error         string `json:"error,omitempty"`
	WaitedSeconds int    `json:"waitedSeconds"`
}
