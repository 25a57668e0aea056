// Command scrollreveal-api exposes load_page as an HTTP job surface
// (SPEC_FULL.md §8.4), adapted from the teacher's cmd/api/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"scrollreveal/internal/api"
	"scrollreveal/internal/browser"
)

func main() {
	config := api.DefaultServerConfig()

	flag.StringVar(&config.Host, "host", config.Host, "host address to bind to")
	flag.IntVar(&config.Port, "port", config.Port, "port to listen on")
	flag.IntVar(&config.MaxConcurrentJobs, "max-concurrent", config.MaxConcurrentJobs, "maximum concurrent load jobs")
	flag.StringVar(&config.APIKey, "api-key", config.APIKey, "API key for authentication (optional)")

	var corsOrigins string
	flag.StringVar(&corsOrigins, "cors-origins", "", "comma-separated list of allowed CORS origins")

	flag.IntVar(&config.ReadTimeout, "read-timeout", config.ReadTimeout, "read timeout in seconds")
	flag.IntVar(&config.WriteTimeout, "write-timeout", config.WriteTimeout, "write timeout in seconds")
	flag.IntVar(&config.IdleTimeout, "idle-timeout", config.IdleTimeout, "idle timeout in seconds")

	var verbose bool
	flag.BoolVar(&verbose, "verbose", false, "enable verbose per-job logging")

	flag.Parse()

	if corsOrigins != "" {
		config.CORSOrigins = strings.Split(corsOrigins, ",")
		for i, origin := range config.CORSOrigins {
			config.CORSOrigins[i] = strings.TrimSpace(origin)
		}
	}
	config.LoadFromEnv()

	newAdapter := func() browser.Adapter { return browser.NewChromedpAdapter() }

	server, err := api.NewServer(config, newAdapter, verbose)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-shutdown:
		fmt.Println()
		log.Printf("received signal %v, shutting down...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}

	log.Println("server stopped")
}
