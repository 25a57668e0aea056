package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"scrollreveal/internal/browser"
)

// Server is the HTTP surface wrapping a JobManager (SPEC_FULL.md §4, §8.4).
type Server struct {
	httpServer *http.Server
	jobManager *JobManager
	config     *ServerConfig
}

// NewServer creates a new API server. newAdapter builds a fresh Adapter per
// job; production callers pass browser.NewChromedpAdapter. verbose gates
// each job's Debug-level logging.
func NewServer(config *ServerConfig, newAdapter func() browser.Adapter, verbose bool) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	jobManager := NewJobManager(config.MaxConcurrentJobs, newAdapter, verbose)
	handlers := NewHandlers(jobManager, "1.0.0")
	router := NewRouter(handlers, config)

	httpServer := &http.Server{
		Addr:         config.Address(),
		Handler:      router,
		ReadTimeout:  time.Duration(config.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(config.IdleTimeout) * time.Second,
	}

	return &Server{httpServer: httpServer, jobManager: jobManager, config: config}, nil
}

// Start starts the HTTP server; it blocks until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("scrollreveal API starting on %s", s.config.Address())
	if s.config.HasAuth() {
		log.Printf("API key authentication enabled")
	}
	log.Printf("max concurrent jobs: %d", s.config.MaxConcurrentJobs)

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server, stopping all active jobs first.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("shutting down scrollreveal API...")
	s.jobManager.Shutdown()
	return s.httpServer.Shutdown(ctx)
}

// JobManager returns the server's job manager.
func (s *Server) JobManager() *JobManager { return s.jobManager }

// Address returns the server's address.
func (s *Server) Address() string { return s.config.Address() }
