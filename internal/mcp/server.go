package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scrollreveal/internal/api"
	"scrollreveal/internal/browser"
)

// Server wraps the MCP server around a scrollreveal api.JobManager.
type Server struct {
	mcpServer  *server.MCPServer
	jobManager *api.JobManager
}

// NewServer creates a new MCP server for scrollreveal. maxJobs bounds how
// many loads may run concurrently, mirroring api.JobManager's own limit.
func NewServer(maxJobs int) *Server {
	newAdapter := func() browser.Adapter { return browser.NewChromedpAdapter() }
	jobManager := api.NewJobManager(maxJobs, newAdapter, false)

	mcpServer := server.NewMCPServer(
		"scrollreveal",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s := &Server{mcpServer: mcpServer, jobManager: jobManager}
	s.registerTools()
	return s
}

// registerTools adds the scroll_load/scroll_list/scroll_status/scroll_stop/
// scroll_wait tools to the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("scroll_load",
			mcp.WithDescription("Load a URL in a headless browser and simulate scrolling until lazily-loaded content stops appearing. Returns immediately with a job ID; poll scroll_status or call scroll_wait for the result."),
			mcp.WithString("url", mcp.Required(), mcp.Description("Target URL to load and scroll")),
			mcp.WithString("itemSelector", mcp.Description("CSS selector for one repeating content item, used to detect progress")),
			mcp.WithNumber("maxScrollAttempts", mcp.Description("Maximum scroll iterations (default: 50)")),
			mcp.WithNumber("maxDurationSeconds", mcp.Description("Overall time budget in seconds (default: 120)")),
			mcp.WithNumber("progressTimeout", mcp.Description("Consecutive no-progress iterations before stopping (default: 5)")),
			mcp.WithString("detectionMethod", mcp.Description("How to detect new content"), mcp.Enum("itemCount", "scrollHeight", "sentinel")),
			mcp.WithString("sentinelSelector", mcp.Description("CSS selector of a sentinel element (detectionMethod=sentinel)")),
			mcp.WithArray("loadMoreSelectors", mcp.Description("CSS selectors tried, in order, for a 'load more' button")),
			mcp.WithBoolean("headless", mcp.Description("Run the browser headless (default: true)")),
		),
		s.handleLoad,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("scroll_list",
			mcp.WithDescription("List all load jobs with their current status"),
		),
		s.handleList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("scroll_status",
			mcp.WithDescription("Get detailed status and, once finished, the load statistics for a job"),
			mcp.WithString("jobId", mcp.Required(), mcp.Description("Job ID returned from scroll_load")),
		),
		s.handleStatus,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("scroll_stop",
			mcp.WithDescription("Stop a running load job"),
			mcp.WithString("jobId", mcp.Required(), mcp.Description("Job ID to stop")),
		),
		s.handleStop,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("scroll_wait",
			mcp.WithDescription("Wait for a load job to finish, returning its final statistics. Polls every 2 seconds by default."),
			mcp.WithString("jobId", mcp.Required(), mcp.Description("Job ID to wait for")),
			mcp.WithNumber("timeoutSeconds", mcp.Description("Maximum seconds to wait (default: 300)")),
			mcp.WithNumber("pollIntervalMs", mcp.Description("Polling interval in milliseconds (default: 2000)")),
		),
		s.handleWait,
	)
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// Shutdown stops every in-flight job.
func (s *Server) Shutdown() {
	s.jobManager.Shutdown()
}

// GetJobManager exposes the job manager, for tests.
func (s *Server) GetJobManager() *api.JobManager {
	return s.jobManager
}
