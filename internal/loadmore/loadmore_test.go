package loadmore

import (
	"context"
	"testing"

	"scrollreveal/internal/faketest"
	"scrollreveal/internal/humanbehavior"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
)

func baseConfig() scrollconfig.Configuration {
	cfg := scrollconfig.Defaults()
	cfg.LoadMoreSelectors = []string{".load-more-btn"}
	cfg.MaxLoadMoreClicks = 3
	return cfg
}

func newHandler(a *faketest.Adapter, cfg *scrollconfig.Configuration) *Handler {
	return New(a, cfg, humanbehavior.New(), scrolllog.New(false, nil))
}

func TestCheckAndClickClicksFirstViableSelector(t *testing.T) {
	a := faketest.New()
	a.Exists[".load-more-btn"] = true
	a.Visible[".load-more-btn"] = true
	a.ClickResults[".load-more-btn"] = true

	cfg := baseConfig()
	h := newHandler(a, &cfg)

	res, err := h.CheckAndClick(context.Background())
	if err != nil {
		t.Fatalf("CheckAndClick: %v", err)
	}
	if !res.Clicked || res.Selector != ".load-more-btn" {
		t.Errorf("got %+v, want a click on .load-more-btn", res)
	}
	if h.ClickCount() != 1 {
		t.Errorf("ClickCount() = %d, want 1", h.ClickCount())
	}
}

func TestCheckAndClickSkipsDisabledButton(t *testing.T) {
	a := faketest.New()
	a.Exists[".load-more-btn"] = true
	a.Visible[".load-more-btn"] = true
	a.Disabled[".load-more-btn"] = true

	cfg := baseConfig()
	h := newHandler(a, &cfg)

	res, err := h.CheckAndClick(context.Background())
	if err != nil {
		t.Fatalf("CheckAndClick: %v", err)
	}
	if res.Clicked {
		t.Error("expected no click when the only candidate is disabled")
	}
}

func TestCheckAndClickStopsAtBudget(t *testing.T) {
	a := faketest.New()
	a.Exists[".load-more-btn"] = true
	a.Visible[".load-more-btn"] = true
	a.ClickResults[".load-more-btn"] = true

	cfg := baseConfig()
	cfg.MaxLoadMoreClicks = 1
	h := newHandler(a, &cfg)

	if _, err := h.CheckAndClick(context.Background()); err != nil {
		t.Fatal(err)
	}
	res, err := h.CheckAndClick(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Clicked {
		t.Error("expected the second click to be refused once the budget is exhausted")
	}
	if res.Reason != "budget exhausted" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestCheckAndClickFallsBackToStrategyChainWithoutSelectors(t *testing.T) {
	a := faketest.New()
	cfg := baseConfig()
	cfg.LoadMoreSelectors = nil
	h := newHandler(a, &cfg)

	const attrSelector = `.load-more`
	a.Exists[attrSelector] = true
	a.Visible[attrSelector] = true
	a.ClickResults[attrSelector] = true

	res, err := h.CheckAndClick(context.Background())
	if err != nil {
		t.Fatalf("CheckAndClick: %v", err)
	}
	if !res.Clicked || res.Selector != attrSelector {
		t.Errorf("got %+v, want a click on %s via the attribute strategy", res, attrSelector)
	}
}

func TestCheckAndClickFallsBackToTextVocabulary(t *testing.T) {
	a := faketest.New()
	cfg := baseConfig()
	cfg.LoadMoreSelectors = nil
	h := newHandler(a, &cfg)

	a.EvaluateScriptResult = "candidate-0-2"
	marker := `[data-scrollreveal-candidate="candidate-0-2"]`
	a.Exists[marker] = true
	a.Visible[marker] = true
	a.ClickResults[marker] = true

	res, err := h.CheckAndClick(context.Background())
	if err != nil {
		t.Fatalf("CheckAndClick: %v", err)
	}
	if !res.Clicked || res.Selector != marker {
		t.Errorf("got %+v, want a click on the text-vocabulary match", res)
	}
}

func TestCheckAndClickNoCandidateIsNotAnError(t *testing.T) {
	a := faketest.New()
	cfg := baseConfig()
	h := newHandler(a, &cfg)

	res, err := h.CheckAndClick(context.Background())
	if err != nil {
		t.Fatalf("CheckAndClick: %v", err)
	}
	if res.Clicked {
		t.Error("expected no click when no configured selector is viable")
	}
}
