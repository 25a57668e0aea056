package scrollreveal

import (
	"context"
	"testing"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/faketest"
	"scrollreveal/internal/scrollconfig"
)

// withFakeAdapter swaps the package's adapter factory for the duration of a
// test, restoring the real chromedp one afterward.
func withFakeAdapter(t *testing.T, build func() *faketest.Adapter) {
	t.Helper()
	original := newAdapter
	newAdapter = func() browser.Adapter { return build() }
	t.Cleanup(func() { newAdapter = original })
}

func TestLoadWithOptionsEndToEnd(t *testing.T) {
	withFakeAdapter(t, func() *faketest.Adapter {
		a := faketest.New()
		a.Exists[".card"] = true
		a.ItemCount = 10
		a.OnScrollBy = func(px int) { a.ItemCount += 5 }
		return a
	})

	opts := Options{
		ItemSelector:      ".card",
		ScrollStrategy:    scrollconfig.StrategySimple,
		ScrollAmount:      scrollconfig.Range{Min: 100, Max: 100},
		WaitAfterScroll:   scrollconfig.Range{Min: 0, Max: 0},
		MaxScrollAttempts: 2,
		ProgressTimeout:   1000,
	}

	res, err := LoadWithOptions(context.Background(), "https://example.test/list", opts)
	if err != nil {
		t.Fatalf("LoadWithOptions: %v", err)
	}
	if !res.Success {
		t.Error("expected Success=true")
	}
	if res.HTML == "" {
		t.Error("expected non-empty HTML")
	}
	if res.Stats.ScrollAttempts != 2 {
		t.Errorf("ScrollAttempts = %d, want 2", res.Stats.ScrollAttempts)
	}
}

func TestStopWithNoRunInFlightIsSafe(t *testing.T) {
	Stop() // must not panic even with nothing running
}
