// Package scrollreveal drives a headless browser through an adaptive
// sequence of scroll/wait/click/observe steps until a page's lazily-loaded
// content stops revealing more, then returns the fully materialized HTML
// plus load statistics (spec.md §1). This file is the public library
// surface (spec.md §6); everything else lives under internal/.
package scrollreveal

import (
	"context"
	"fmt"
	"sync"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/engine"
	"scrollreveal/internal/orchestrator"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
)

// Stats re-exports the Engine's final statistics block.
type Stats = engine.Stats

// Result is load_page/load_with_options' return shape (spec.md §6).
type Result struct {
	Success bool
	HTML    string
	Stats   Stats
	Errors  []string
}

// Options is a subset of Configuration; zero-valued fields are filled from
// scrollconfig.Defaults() by LoadWithOptions.
type Options = scrollconfig.Configuration

var (
	runnerMu sync.Mutex
	current  *orchestrator.Orchestrator
)

// newAdapter is overridable by tests; production code always drives a real
// chromedp browser.
var newAdapter = func() browser.Adapter { return browser.NewChromedpAdapter() }

// LoadPage loads url with the configuration read from configPath (JSON or
// YAML, per spec.md §6's config-file schema) and returns once the page has
// finished revealing its content or a fatal error occurs.
func LoadPage(ctx context.Context, url, configPath string) (Result, error) {
	cfg, err := scrollconfig.LoadFile(configPath)
	if err != nil {
		return Result{}, fmt.Errorf("scrollreveal: %w", err)
	}
	return run(ctx, url, cfg)
}

// LoadWithOptions loads url with opts layered over library defaults.
func LoadWithOptions(ctx context.Context, url string, opts Options) (Result, error) {
	cfg := scrollconfig.Defaults()
	scrollconfig.Overlay(&cfg, opts)
	return run(ctx, url, cfg)
}

func run(ctx context.Context, url string, cfg scrollconfig.Configuration) (Result, error) {
	o := orchestrator.New(newAdapter, scrolllog.New(false, nil))

	runnerMu.Lock()
	current = o
	runnerMu.Unlock()

	res, err := o.Run(ctx, url, cfg)

	runnerMu.Lock()
	if current == o {
		current = nil
	}
	runnerMu.Unlock()

	return Result{Success: res.Success, HTML: res.HTML, Stats: res.Stats, Errors: res.Errors}, err
}

// Stop cancels the currently running load, if any (spec.md §6). It is safe
// to call even when no load is in progress.
func Stop() {
	runnerMu.Lock()
	o := current
	runnerMu.Unlock()
	if o != nil {
		o.Stop()
	}
}
