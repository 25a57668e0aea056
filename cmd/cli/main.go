// Command scrollreveal-cli is the CLI collaborator specified in spec.md
// §6: not part of the core, but specified for compatibility. Flag parsing
// style and signal handling follow the teacher's cmd/cli/main.go and
// signal.go; it drives the orchestrator directly (rather than through the
// root library wrapper) so --verbose/--quiet can control the Logger it
// injects, the same way the teacher's CLI constructs its own Crawler.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/orchestrator"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
)

func main() {
	var (
		configPath      string
		outputPath      string
		selector        string
		headless        bool
		maxScrolls      int
		timeoutSeconds  int
		progressTimeout int
		detection       string
		loadMoreCSV     string
		verbose         bool
		quiet           bool
	)

	flag.StringVar(&configPath, "config", "", "load config file (JSON/YAML)")
	flag.StringVar(&outputPath, "output", "", "write final HTML to PATH")
	flag.StringVar(&selector, "selector", "", "override item_selector")
	flag.BoolVar(&headless, "headless", true, "run browser headless")
	flag.IntVar(&maxScrolls, "max-scrolls", 0, "override max_scroll_attempts (0 = use config/default)")
	flag.IntVar(&timeoutSeconds, "timeout", 0, "override max_duration_seconds (0 = use config/default)")
	flag.IntVar(&progressTimeout, "progress-timeout", 0, "override progress_timeout (0 = use config/default)")
	flag.StringVar(&detection, "detection", "", "itemCount/scrollHeight/sentinel")
	flag.StringVar(&loadMoreCSV, "load-more", "", "comma-separated load_more_selectors")
	flag.BoolVar(&verbose, "verbose", false, "enable verbose logging")
	flag.BoolVar(&quiet, "quiet", false, "suppress non-error logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: scrollreveal-cli [flags] URL")
		flag.Usage()
		os.Exit(1)
	}
	url := flag.Arg(0)

	cfg := scrollconfig.Defaults()
	if configPath != "" {
		loaded, err := scrollconfig.LoadFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	if selector != "" {
		cfg.ItemSelector = selector
	}
	cfg.Headless = &headless
	if maxScrolls > 0 {
		cfg.MaxScrollAttempts = maxScrolls
	}
	if timeoutSeconds > 0 {
		cfg.MaxDurationSeconds = timeoutSeconds
	}
	if progressTimeout > 0 {
		cfg.ProgressTimeout = progressTimeout
	}
	if detection != "" {
		cfg.DetectionMethod = scrollconfig.DetectionMethod(detection)
	}
	if loadMoreCSV != "" {
		selectors := strings.Split(loadMoreCSV, ",")
		for i, s := range selectors {
			selectors[i] = strings.TrimSpace(s)
		}
		cfg.LoadMoreSelectors = selectors
	}

	logger := scrolllog.New(verbose, nil)
	if quiet {
		// The Logger writes through the standard log package; run errors
		// still reach stderr through the prints below.
		log.SetOutput(io.Discard)
		logger = scrolllog.New(false, nil)
	}

	o := orchestrator.New(func() browser.Adapter { return browser.NewChromedpAdapter() }, logger)

	ctx, cancel := setupSignalHandler(o)
	defer cancel()

	res, err := o.Run(ctx, url, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scrollreveal: %v\n", err)
		os.Exit(1)
	}
	if !res.Success {
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		os.Exit(1)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(res.HTML), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "scrollreveal: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(res.HTML)
	}
	fmt.Fprintf(os.Stderr, "scroll_attempts=%d load_more_clicks=%d duration_seconds=%.1f stopped_reason=%q\n",
		res.Stats.ScrollAttempts, res.Stats.LoadMoreClicks, res.Stats.DurationSeconds, res.Stats.StoppedReason)
}

// setupSignalHandler creates a context cancelled on SIGINT/SIGTERM, which
// also calls o.Stop() so an in-flight load exits gracefully instead of
// being killed mid-operation.
func setupSignalHandler(o *orchestrator.Orchestrator) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			fmt.Fprintf(os.Stderr, "\nreceived signal: %s, stopping...\n", sig)
			o.Stop()
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
