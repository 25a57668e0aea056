package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"scrollreveal/internal/api"
	"scrollreveal/internal/engine"
	"scrollreveal/internal/scrollconfig"
)

// handleLoad handles the scroll_load tool.
func (s *Server) handleLoad(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	url, ok := args["url"].(string)
	if !ok || url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	cfg := scrollconfig.Configuration{}
	if v, ok := args["itemSelector"].(string); ok {
		cfg.ItemSelector = v
	}
	if v, ok := args["maxScrollAttempts"].(float64); ok {
		cfg.MaxScrollAttempts = int(v)
	}
	if v, ok := args["maxDurationSeconds"].(float64); ok {
		cfg.MaxDurationSeconds = int(v)
	}
	if v, ok := args["progressTimeout"].(float64); ok {
		cfg.ProgressTimeout = int(v)
	}
	if v, ok := args["detectionMethod"].(string); ok {
		cfg.DetectionMethod = scrollconfig.DetectionMethod(v)
	}
	if v, ok := args["sentinelSelector"].(string); ok {
		cfg.SentinelSelector = v
	}
	if raw, ok := args["loadMoreSelectors"].([]interface{}); ok {
		selectors := make([]string, 0, len(raw))
		for _, item := range raw {
			if sel, ok := item.(string); ok {
				selectors = append(selectors, sel)
			}
		}
		cfg.LoadMoreSelectors = selectors
	}
	if v, ok := args["headless"].(bool); ok {
		cfg.Headless = &v
	}

	job, err := s.jobManager.CreateJob(&api.LoadRequest{URL: url, Config: cfg})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.jobManager.StartJob(job.ID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output := LoadOutput{
		JobID:   job.ID,
		Status:  string(job.GetStatus()),
		Message: fmt.Sprintf("load job started for %s", url),
	}
	return resultJSON(output)
}

// handleList handles the scroll_list tool.
func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs := s.jobManager.ListJobs()

	summaries := make([]JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summary := job.ToSummary()
		summaries = append(summaries, JobSummary{
			JobID:     summary.JobID,
			URL:       summary.URL,
			Status:    string(summary.Status),
			CreatedAt: summary.CreatedAt,
		})
	}

	return resultJSON(JobListOutput{Jobs: summaries, Total: len(summaries)})
}

// handleStatus handles the scroll_status tool.
func (s *Server) handleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := req.RequireString("jobId")
	if err != nil {
		return mcp.NewToolResultError("jobId is required"), nil
	}

	job, err := s.jobManager.GetJob(jobID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	details := job.ToDetails()
	output := JobDetailsOutput{
		JobID:       details.JobID,
		URL:         details.URL,
		Status:      string(details.Status),
		CreatedAt:   details.CreatedAt,
		StartedAt:   details.StartedAt,
		CompletedAt: details.CompletedAt,
		Stats:       convertStats(details.Stats),
		Errors:      details.Errors,
		Error:       details.Error,
	}
	return resultJSON(output)
}

// handleStop handles the scroll_stop tool.
func (s *Server) handleStop(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := req.RequireString("jobId")
	if err != nil {
		return mcp.NewToolResultError("jobId is required"), nil
	}

	if err := s.jobManager.StopJob(jobID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return resultJSON(StatusOutput{JobID: jobID, Status: "stopped", Message: "job stopped successfully"})
}

// handleWait handles the scroll_wait tool.
func (s *Server) handleWait(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID, err := req.RequireString("jobId")
	if err != nil {
		return mcp.NewToolResultError("jobId is required"), nil
	}

	timeoutSeconds := 300
	if v, ok := req.GetArguments()["timeoutSeconds"].(float64); ok {
		timeoutSeconds = int(v)
	}
	pollIntervalMs := 2000
	if v, ok := req.GetArguments()["pollIntervalMs"].(float64); ok {
		pollIntervalMs = int(v)
	}

	pollInterval := time.Duration(pollIntervalMs) * time.Millisecond
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	startTime := time.Now()

	for {
		job, err := s.jobManager.GetJob(jobID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		status := job.GetStatus()
		if isTerminalStatus(status) {
			details := job.ToDetails()
			output := WaitOutput{
				JobID:         jobID,
				Status:        string(status),
				Stats:         convertStats(details.Stats),
				WaitedSeconds: int(time.Since(startTime).Seconds()),
			}
			if details.Error != "" {
				output.Error = details.Error
			}
			return resultJSON(output)
		}

		if time.Now().After(deadline) {
			return resultJSON(WaitOutput{
				JobID:         jobID,
				Status:        string(status),
				Error:         "timeout waiting for job completion",
				WaitedSeconds: int(time.Since(startTime).Seconds()),
			})
		}

		select {
		case <-ctx.Done():
			return resultJSON(WaitOutput{
				JobID:         jobID,
				Status:        string(status),
				Error:         "wait cancelled",
				WaitedSeconds: int(time.Since(startTime).Seconds()),
			})
		case <-time.After(pollInterval):
		}
	}
}

// isTerminalStatus reports whether a job status is terminal.
func isTerminalStatus(status api.JobStatus) bool {
	return status == api.JobStatusCompleted || status == api.JobStatusStopped || status == api.JobStatusError
}

// convertStats converts engine.Stats to the wire Stats shape.
func convertStats(st *engine.Stats) *Stats {
	if st == nil {
		return nil
	}
	return &Stats{
		ScrollAttempts:     st.ScrollAttempts,
		MaxScrollAttempts:  st.MaxScrollAttempts,
		DurationSeconds:    st.DurationSeconds,
		MaxDurationSeconds: st.MaxDurationSeconds,
		FinalItemCount:     st.FinalItemCount,
		FinalScrollHeight:  st.FinalScrollHeight,
		LoadMoreClicks:     st.LoadMoreClicks,
		DetectionMethod:    string(st.DetectionMethod),
		StoppedReason:      st.StoppedReason,
	}
}

// resultJSON creates a JSON tool result.
func resultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
