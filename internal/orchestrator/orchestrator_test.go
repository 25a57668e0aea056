package orchestrator

import (
	"context"
	"errors"
	"testing"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/faketest"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
)

func baseConfig() scrollconfig.Configuration {
	cfg := scrollconfig.Defaults()
	cfg.ItemSelector = ".card"
	cfg.ScrollStrategy = scrollconfig.StrategySimple
	cfg.ScrollAmount = scrollconfig.Range{Min: 100, Max: 100}
	cfg.WaitAfterScroll = scrollconfig.Range{Min: 0, Max: 0}
	cfg.LoadMoreClickDelay = scrollconfig.Range{Min: 0, Max: 0}
	cfg.WaitForContent = 1
	cfg.MaxScrollAttempts = 2
	cfg.ProgressTimeout = 1
	return cfg
}

func TestRunSucceedsAndClosesAdapter(t *testing.T) {
	var fake *faketest.Adapter
	o := New(func() browser.Adapter {
		fake = faketest.New()
		fake.Exists[".card"] = true
		return fake
	}, scrolllog.New(false, nil))

	res, err := o.Run(context.Background(), "https://example.test/list", baseConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success {
		t.Error("expected Success=true")
	}
	if !fake.Closed {
		t.Error("expected adapter Close to be called exactly once (testable property 4)")
	}
}

func TestRunInvalidConfigNeverBuildsAdapter(t *testing.T) {
	built := false
	o := New(func() browser.Adapter {
		built = true
		return faketest.New()
	}, scrolllog.New(false, nil))

	cfg := baseConfig()
	cfg.MaxDurationSeconds = 0 // invalid: must be positive

	_, err := o.Run(context.Background(), "https://example.test/", cfg)
	if err == nil {
		t.Fatal("expected an InvalidConfig error")
	}
	if built {
		t.Error("Engine must never run when config validation fails")
	}
}

func TestRunMissingItemSelectorIsWarningNotFailure(t *testing.T) {
	var fake *faketest.Adapter
	o := New(func() browser.Adapter {
		fake = faketest.New()
		// .card never appears.
		return fake
	}, scrolllog.New(false, nil))

	res, err := o.Run(context.Background(), "https://example.test/", baseConfig())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success {
		t.Error("a missing item_selector must not fail the run (spec.md S6)")
	}
	if len(res.Errors) == 0 {
		t.Error("expected an InitialContentMissing warning recorded in Errors")
	}
	if !fake.Closed {
		t.Error("expected adapter Close to be called even when a warning was recorded")
	}
}

func TestRunClosesAdapterOnNavigationFailure(t *testing.T) {
	var fake *faketest.Adapter
	o := New(func() browser.Adapter {
		fake = faketest.New()
		fake.NavigateErr = errors.New("dns lookup failed")
		return fake
	}, scrolllog.New(false, nil))

	_, err := o.Run(context.Background(), "https://example.test/", baseConfig())
	if err == nil {
		t.Fatal("expected a NavigationFailure error")
	}
	if !fake.Closed {
		t.Error("expected adapter Close even when navigation fails")
	}
}

func TestStopWithNoActiveRunIsNoop(t *testing.T) {
	o := New(func() browser.Adapter { return faketest.New() }, scrolllog.New(false, nil))
	o.Stop() // must not panic
}
