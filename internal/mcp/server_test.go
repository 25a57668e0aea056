package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"scrollreveal/internal/api"
)

func createCallToolRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func getResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	textContent, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result content is not TextContent: %T", result.Content[0])
	}
	return textContent.Text
}

func TestNewServer(t *testing.T) {
	s := NewServer(5)
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
	if s.jobManager == nil {
		t.Error("jobManager is nil")
	}
	if s.mcpServer == nil {
		t.Error("mcpServer is nil")
	}
}

func TestHandleListEmpty(t *testing.T) {
	s := NewServer(5)
	defer s.Shutdown()

	result, err := s.handleList(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleList returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("handleList returned error result: %v", result)
	}

	var output JobListOutput
	if err := json.Unmarshal([]byte(getResultText(t, result)), &output); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if output.Total != 0 {
		t.Errorf("expected 0 jobs, got %d", output.Total)
	}
}

func TestHandleLoadMissingURL(t *testing.T) {
	s := NewServer(5)
	defer s.Shutdown()

	result, err := s.handleLoad(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handleLoad returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing url")
	}
}

func TestHandleStatusNotFound(t *testing.T) {
	s := NewServer(5)
	defer s.Shutdown()

	req := createCallToolRequest(map[string]interface{}{"jobId": "nonexistent"})
	result, err := s.handleStatus(context.Background(), req)
	if err != nil {
		t.Fatalf("handleStatus returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for nonexistent job")
	}
}

func TestHandleStopNotFound(t *testing.T) {
	s := NewServer(5)
	defer s.Shutdown()

	req := createCallToolRequest(map[string]interface{}{"jobId": "nonexistent"})
	result, err := s.handleStop(context.Background(), req)
	if err != nil {
		t.Fatalf("handleStop returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for nonexistent job")
	}
}

func TestHandleWaitNotFound(t *testing.T) {
	s := NewServer(5)
	defer s.Shutdown()

	req := createCallToolRequest(map[string]interface{}{
		"jobId":          "nonexistent",
		"timeoutSeconds": float64(1),
	})
	result, err := s.handleWait(context.Background(), req)
	if err != nil {
		t.Fatalf("handleWait returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for nonexistent job")
	}
}

func TestConvertStatsNil(t *testing.T) {
	if convertStats(nil) != nil {
		t.Error("expected nil output for nil input")
	}
}

func TestIsTerminalStatus(t *testing.T) {
	tests := []struct {
		status   api.JobStatus
		expected bool
	}{
		{api.JobStatusCompleted, true},
		{api.JobStatusStopped, true},
		{api.JobStatusError, true},
		{api.JobStatusRunning, false},
		{api.JobStatusPending, false},
	}

	for _, tc := range tests {
		if got := isTerminalStatus(tc.status); got != tc.expected {
			t.Errorf("isTerminalStatus(%s) = %v, want %v", tc.status, got, tc.expected)
		}
	}
}
