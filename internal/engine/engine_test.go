package engine

import (
	"context"
	"errors"
	"sync"
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
	cfg.ScrollAmount = scrollconfig.Range{Min: 300, Max: 300}
	cfg.WaitAfterScroll = scrollconfig.Range{Min: 0, Max: 0}
	cfg.LoadMoreClickDelay = scrollconfig.Range{Min: 0, Max: 0}
	cfg.WaitForContent = 1
	cfg.MaxDurationSeconds = 3600
	cfg.MaxLoadMoreClicks = 0
	return cfg
}

// TestScrollAttemptsStopAfterNoProgress mirrors spec.md S1: cards start at
// 10, grow by 5 for three scrolls, then flatline; progress_timeout=2 should
// stop at attempt 5 with final_item_count=25.
func TestScrollAttemptsStopAfterNoProgress(t *testing.T) {
	a := faketest.New()
	a.ItemCount = 10
	scrolls := 0
	a.OnScrollBy = func(px int) {
		scrolls++
		if scrolls <= 3 {
			a.ItemCount += 5
		}
	}

	cfg := baseConfig()
	cfg.MaxScrollAttempts = 5
	cfg.ProgressTimeout = 2

	e := New(a, &cfg, scrolllog.New(false, nil))
	res := e.Run(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got error %v", res.Err)
	}
	if res.Stats.ScrollAttempts != 5 {
		t.Errorf("ScrollAttempts = %d, want 5", res.Stats.ScrollAttempts)
	}
	if res.Stats.FinalItemCount != 25 {
		t.Errorf("FinalItemCount = %d, want 25", res.Stats.FinalItemCount)
	}
	if res.Stats.StoppedReason != "No progress detected" {
		t.Errorf("StoppedReason = %q", res.Stats.StoppedReason)
	}
	if res.HTML == "" {
		t.Error("expected non-empty HTML on success (testable property 6)")
	}
}

// TestSentinelStopsScan mirrors spec.md S2: after 4 scrolls the sentinel
// becomes visible and the run stops with the sentinel reason.
func TestSentinelStopsScan(t *testing.T) {
	a := faketest.New()
	scrolls := 0
	a.OnScrollBy = func(px int) {
		scrolls++
		if scrolls == 4 {
			a.Visible[".end-marker"] = true
		}
	}

	cfg := baseConfig()
	cfg.DetectionMethod = scrollconfig.DetectionSentinel
	cfg.SentinelSelector = ".end-marker"
	cfg.MaxScrollAttempts = 50
	cfg.ProgressTimeout = 1000

	e := New(a, &cfg, scrolllog.New(false, nil))
	res := e.Run(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got error %v", res.Err)
	}
	if res.Stats.ScrollAttempts != 4 {
		t.Errorf("ScrollAttempts = %d, want 4", res.Stats.ScrollAttempts)
	}
	if res.Stats.StoppedReason != "End of content sentinel detected" {
		t.Errorf("StoppedReason = %q", res.Stats.StoppedReason)
	}
}

// TestMaxScrollAttemptsZeroReturnsImmediately covers testable property 10.
func TestMaxScrollAttemptsZeroReturnsImmediately(t *testing.T) {
	a := faketest.New()
	cfg := baseConfig()
	cfg.MaxScrollAttempts = 0

	e := New(a, &cfg, scrolllog.New(false, nil))
	res := e.Run(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got error %v", res.Err)
	}
	if res.Stats.ScrollAttempts != 0 {
		t.Errorf("ScrollAttempts = %d, want 0", res.Stats.ScrollAttempts)
	}
}

// TestProgressTimeoutOneStopsAfterSingleFlatIteration covers property 11.
func TestProgressTimeoutOneStopsAfterSingleFlatIteration(t *testing.T) {
	a := faketest.New()
	cfg := baseConfig()
	cfg.MaxScrollAttempts = 10
	cfg.ProgressTimeout = 1

	e := New(a, &cfg, scrolllog.New(false, nil))
	res := e.Run(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got error %v", res.Err)
	}
	if res.Stats.ScrollAttempts != 1 {
		t.Errorf("ScrollAttempts = %d, want 1", res.Stats.ScrollAttempts)
	}
}

// TestMaxDurationStopsRun mirrors spec.md S4. It uses RealSleep so wall-clock
// time genuinely advances past max_duration_seconds without a long test.
func TestMaxDurationStopsRun(t *testing.T) {
	a := faketest.New()
	a.RealSleep = true
	a.OnScrollBy = func(px int) {
		// content never settles -- keep growing so progress_timeout never trips.
		a.ItemCount++
	}

	cfg := baseConfig()
	cfg.MaxScrollAttempts = 1_000_000
	cfg.ProgressTimeout = 1_000_000
	cfg.MaxDurationSeconds = 1
	cfg.WaitForContent = 120

	e := New(a, &cfg, scrolllog.New(false, nil))
	res := e.Run(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got error %v", res.Err)
	}
	if res.Stats.StoppedReason != "Maximum duration reached" {
		t.Errorf("StoppedReason = %q", res.Stats.StoppedReason)
	}
	if res.Stats.ScrollAttempts < 1 {
		t.Errorf("ScrollAttempts = %d, want >= 1", res.Stats.ScrollAttempts)
	}
}

// TestExternalStopReturnsWithinOneIteration covers testable property 7 / S5.
func TestExternalStopReturnsWithinOneIteration(t *testing.T) {
	a := faketest.New()
	cfg := baseConfig()
	cfg.MaxScrollAttempts = 1_000_000
	cfg.ProgressTimeout = 1_000_000

	e := New(a, &cfg, scrolllog.New(false, nil))

	var once sync.Once
	a.OnScrollBy = func(px int) {
		once.Do(func() {
			e.Stop()
		})
	}

	res := e.Run(context.Background())
	if !res.Success {
		t.Fatalf("expected graceful success on external stop, got error %v", res.Err)
	}
	if res.Stats.StoppedReason != "external stop" {
		t.Errorf("StoppedReason = %q", res.Stats.StoppedReason)
	}
	if res.Stats.ScrollAttempts > 2 {
		t.Errorf("ScrollAttempts = %d, expected stop within ~1 iteration", res.Stats.ScrollAttempts)
	}
}

// TestMaxLoadMoreClicksZero covers testable property 12.
func TestMaxLoadMoreClicksZero(t *testing.T) {
	a := faketest.New()
	a.Exists[".lm"] = true
	a.Visible[".lm"] = true
	a.ClickResults[".lm"] = true

	cfg := baseConfig()
	cfg.LoadMoreSelectors = []string{".lm"}
	cfg.MaxLoadMoreClicks = 0
	cfg.MaxScrollAttempts = 2
	cfg.ProgressTimeout = 1000

	e := New(a, &cfg, scrolllog.New(false, nil))
	res := e.Run(context.Background())

	if !res.Success {
		t.Fatalf("expected success, got error %v", res.Err)
	}
	if res.Stats.LoadMoreClicks != 0 {
		t.Errorf("LoadMoreClicks = %d, want 0", res.Stats.LoadMoreClicks)
	}
}

// TestAdapterErrorFailsRun ensures an AdapterError from inside the loop
// aborts with success=false and no HTML snapshot.
func TestAdapterErrorFailsRun(t *testing.T) {
	a := faketest.New()
	a.ScrollErr = browser.NewAdapterError("scroll_by", errors.New("connection lost"))

	cfg := baseConfig()
	cfg.MaxScrollAttempts = 5

	e := New(a, &cfg, scrolllog.New(false, nil))
	res := e.Run(context.Background())

	if res.Success {
		t.Fatal("expected failure when ScrollBy returns an AdapterError")
	}
	if res.HTML != "" {
		t.Error("expected no HTML snapshot on failure")
	}
	if res.Err == nil {
		t.Error("expected a non-nil Err on failure")
	}
}
