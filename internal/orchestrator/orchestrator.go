// Package orchestrator implements the thin supervisor described in spec.md
// §4.6: build the adapter, validate config, navigate, wait for initial
// content, run the Engine, and guarantee teardown. Grounded on the shape of
// the teacher's Crawler.Start (internal/crawler/crawler.go) minus the
// crawl-wide state/link-frontier machinery that is out of scope here.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/engine"
	"scrollreveal/internal/politeness"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrollerr"
	"scrollreveal/internal/scrolllog"
)

// initialContentWait is the fixed window spent waiting for item_selector to
// appear after navigation (spec.md §4.6).
const initialContentWait = 10 * time.Second

// Result is the Orchestrator's return shape: load_page/load_with_options'
// {success, html, stats, errors} (spec.md §6).
type Result struct {
	Success bool
	HTML    string
	Stats   engine.Stats
	Errors  []string
}

// Orchestrator runs one load_page invocation end to end. It holds the
// currently running Engine (if any) so Stop can reach it.
type Orchestrator struct {
	newAdapter func() browser.Adapter
	log        *scrolllog.Logger

	mu     sync.Mutex
	engine *engine.Engine
}

// New constructs an Orchestrator. newAdapter builds a fresh, un-initialized
// Adapter for each Run call (e.g. browser.NewChromedpAdapter).
func New(newAdapter func() browser.Adapter, log *scrolllog.Logger) *Orchestrator {
	return &Orchestrator{newAdapter: newAdapter, log: log}
}

// Stop cancels the currently running Engine, if any. Safe to call even when
// no run is in progress.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	e := o.engine
	o.mu.Unlock()
	if e != nil {
		e.Stop()
	}
}

// Run validates cfg, opens and navigates the adapter, waits for initial
// content, drives the Engine to completion, and always closes the adapter
// (spec.md §4.6, §5 "scoped acquisition pattern").
func (o *Orchestrator) Run(ctx context.Context, url string, cfg scrollconfig.Configuration) (Result, error) {
	if err := scrollconfig.Validate(&cfg); err != nil {
		return Result{}, scrollerr.NewInvalidConfig(err)
	}

	adapter := o.newAdapter()
	defer func() {
		if err := adapter.Close(); err != nil {
			o.log.Warn("orchestrator: adapter close: %v", err)
		}
	}()
	if err := adapter.Init(cfg); err != nil {
		return Result{}, err
	}

	if cfg.RespectRobotsTxt {
		politeness.Check(ctx, url, cfg.UserAgent, o.log)
	}

	if err := adapter.NavigateTo(ctx, url); err != nil {
		return Result{}, scrollerr.NewNavigationFailure(err)
	}

	var warnings []string
	if cfg.ItemSelector != "" {
		waitCtx, cancel := context.WithTimeout(ctx, initialContentWait)
		found, err := adapter.WaitForElement(waitCtx, cfg.ItemSelector, initialContentWait)
		cancel()
		if err != nil {
			return Result{}, err
		}
		if !found {
			w := scrollerr.NewInitialContentMissing(cfg.ItemSelector)
			o.log.Warn("%s", w.Error())
			warnings = append(warnings, w.Error())
		}
	}

	e := engine.New(adapter, &cfg, o.log)
	o.mu.Lock()
	o.engine = e
	o.mu.Unlock()

	res := e.Run(ctx)

	o.mu.Lock()
	o.engine = nil
	o.mu.Unlock()

	if !res.Success {
		errs := warnings
		if res.Err != nil {
			errs = append(errs, res.Err.Error())
		}
		return Result{Success: false, HTML: res.HTML, Stats: res.Stats, Errors: errs}, res.Err
	}
	return Result{Success: true, HTML: res.HTML, Stats: res.Stats, Errors: warnings}, nil
}
