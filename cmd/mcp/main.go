// Command scrollreveal-mcp runs scrollreveal as an MCP (Model Context
// Protocol) server, letting LLM agents drive scroll-loads as a tool.
//
// Usage:
//
//	scrollreveal-mcp [flags]
//
// Flags:
//
//	-max-jobs int
//	      Maximum concurrent load jobs (default 5)
//
// Configuration in Claude Code (~/.claude/mcp.json):
//
//	{
//	  "mcpServers": {
//	    "scrollreveal": {
//	      "command": "/path/to/scrollreveal-mcp",
//	      "args": ["--max-jobs", "5"]
//	    }
//	  }
//	}
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scrollreveal/internal/mcp"
)

func main() {
	maxJobs := flag.Int("max-jobs", 5, "Maximum concurrent load jobs")
	flag.Parse()

	server := mcp.NewServer(*maxJobs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		server.Shutdown()
		os.Exit(0)
	}()

	if err := server.Serve(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
