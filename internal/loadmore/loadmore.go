// Package loadmore implements the Load-More Handler (spec.md §4.4): it
// detects and clicks "load more"-style controls using a ranked set of
// matching strategies, and tracks a click budget. Grounded on the teacher's
// ClickPagination (internal/crawler/pagination.go) — existence, disabled,
// and visibility checks before a click, a pre-click hesitation delay, and a
// post-click settle wait — generalized from single-selector pagination to
// spec.md's priority list plus an optional strategy chain.
package loadmore

import (
	"context"
	"time"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/humanbehavior"
	"scrollreveal/internal/scrollconfig"
	"scrollreveal/internal/scrolllog"
)

// Result is check_and_click()'s return shape (spec.md §4.4).
type Result struct {
	Clicked  bool
	Selector string
	Reason   string
}

// Handler is the stateful Load-More Handler, owned exclusively by one
// Engine instance for the lifetime of one run.
type Handler struct {
	adapter browser.Adapter
	cfg     *scrollconfig.Configuration
	helpers *humanbehavior.Helpers
	log     *scrolllog.Logger

	clickCount          int
	lastClickedSelector string
}

// New constructs a Handler. cfg must already be Validate()d.
func New(adapter browser.Adapter, cfg *scrollconfig.Configuration, helpers *humanbehavior.Helpers, log *scrolllog.Logger) *Handler {
	return &Handler{adapter: adapter, cfg: cfg, helpers: helpers, log: log}
}

// Reset clears click_count/last_clicked_selector at the start of a run.
func (h *Handler) Reset() {
	h.clickCount = 0
	h.lastClickedSelector = ""
}

// ClickCount is the cumulative number of successful clicks this run.
func (h *Handler) ClickCount() int { return h.clickCount }

// CheckAndClick runs spec.md §4.4's algorithm: budget check, candidate
// selection from the priority list (or the strategy chain if none is
// configured), scroll-into-view, hesitation waits, click, and a fixed
// content-settle wait.
func (h *Handler) CheckAndClick(ctx context.Context) (Result, error) {
	if h.clickCount >= h.cfg.MaxLoadMoreClicks {
		return Result{Reason: "budget exhausted"}, nil
	}

	selector, err := h.findCandidate(ctx)
	if err != nil {
		return Result{}, err
	}
	if selector == "" {
		return Result{}, nil
	}

	if err := h.adapter.ScrollIntoView(ctx, selector); err != nil {
		return Result{}, err
	}
	if err := h.adapter.WaitFor(ctx, time.Duration(h.helpers.RandomInRange(200, 500))*time.Millisecond); err != nil {
		return Result{}, err
	}
	delay := h.helpers.WaitTime(h.cfg.WaitAfterScroll, h.cfg.LoadMoreClickDelay, humanbehavior.WaitLoadMore)
	if err := h.adapter.WaitFor(ctx, time.Duration(delay)*time.Millisecond); err != nil {
		return Result{}, err
	}

	clicked, err := h.adapter.Click(ctx, selector)
	if err != nil {
		return Result{}, err
	}
	if !clicked {
		return Result{Selector: selector, Reason: "click failed"}, nil
	}

	if err := h.adapter.WaitFor(ctx, time.Duration(h.cfg.WaitForContent)*time.Millisecond); err != nil {
		return Result{}, err
	}

	h.clickCount++
	h.lastClickedSelector = selector
	h.log.Debug("load-more click %d/%d on %q", h.clickCount, h.cfg.MaxLoadMoreClicks, selector)
	return Result{Clicked: true, Selector: selector}, nil
}

// findCandidate walks cfg.LoadMoreSelectors in priority order, returning the
// first visible+enabled match. If the list is empty, it falls back to the
// optional strategy chain (spec.md §4.4 "Optional button-detection
// strategies").
func (h *Handler) findCandidate(ctx context.Context) (string, error) {
	if len(h.cfg.LoadMoreSelectors) == 0 {
		return h.findByStrategyChain(ctx)
	}
	for _, selector := range h.cfg.LoadMoreSelectors {
		ok, err := h.isViableCandidate(ctx, selector)
		if err != nil {
			return "", err
		}
		if ok {
			return selector, nil
		}
	}
	return "", nil
}

// textVocabulary lists the case-insensitive button text the generic
// strategy looks for, in priority order (spec.md §4.4 optional strategies).
var textVocabulary = []string{
	"load more", "show more", "view more", "see more", "more results",
	"load additional", "show additional", "next page", "see all", "view all",
}

// attributeCandidates lists the selector shapes the strategy chain probes
// when no explicit loadMoreSelectors are configured: ARIA labels, common CSS
// class conventions, and data attributes, each checked in turn against
// existence/visibility/disabled state exactly like a configured selector.
var attributeCandidates = []string{
	`[aria-label="Load more"]`,
	`[aria-label="Show more"]`,
	`.load-more`,
	`.show-more`,
	`.btn-load-more`,
	`[data-testid="load-more"]`,
	`[data-action="load-more"]`,
	`button[data-load-more]`,
}

// findByStrategyChain implements the fallback chain used when an operator
// hasn't supplied loadMoreSelectors, in spec.md §4.4 priority order: a fixed
// text vocabulary, then ARIA-label/class/data-attribute conventions, then a
// generic whole-word "more" scan.
func (h *Handler) findByStrategyChain(ctx context.Context) (string, error) {
	if selector, err := h.findByTextVocabulary(ctx); err != nil || selector != "" {
		return selector, err
	}

	for _, selector := range attributeCandidates {
		ok, err := h.isViableCandidate(ctx, selector)
		if err != nil {
			return "", err
		}
		if ok {
			return selector, nil
		}
	}

	return h.findByGenericMoreText(ctx)
}

// findByTextVocabulary asks the page for the first button/link/role=button
// element whose trimmed, lower-cased text matches textVocabulary, returning
// a selector built from a data attribute the script stamps onto the match
// so a later ElementExists/Click by that same selector hits the same node.
func (h *Handler) findByTextVocabulary(ctx context.Context) (string, error) {
	result, err := h.adapter.EvaluateScript(ctx, findByTextScript)
	if err != nil {
		return "", err
	}
	marker, ok := result.(string)
	if !ok || marker == "" {
		return "", nil
	}
	selector := `[data-scrollreveal-candidate="` + marker + `"]`
	viable, err := h.isViableCandidate(ctx, selector)
	if err != nil || !viable {
		return "", err
	}
	return selector, nil
}

const findByTextScript = `(function() {
  var vocabulary = ["load more", "show more", "view more", "see more", "more results", "load additional", "show additional", "next page", "see all", "view all"];
  var candidates = document.querySelectorAll('button, a, [role="button"]');
  for (var v = 0; v < vocabulary.length; v++) {
    for (var i = 0; i < candidates.length; i++) {
      var el = candidates[i];
      var text = (el.textContent || "").trim().toLowerCase();
      if (text === vocabulary[v]) {
        var marker = "candidate-" + v + "-" + i;
        el.setAttribute("data-scrollreveal-candidate", marker);
        return marker;
      }
    }
  }
  return "";
})()`

// findByGenericMoreText implements spec.md §4.4 optional strategy 5: any
// button/link whose text contains "more" as a whole word, under 50
// characters, with no "@" (to avoid matching email addresses/handles).
func (h *Handler) findByGenericMoreText(ctx context.Context) (string, error) {
	result, err := h.adapter.EvaluateScript(ctx, findByGenericMoreScript)
	if err != nil {
		return "", err
	}
	marker, ok := result.(string)
	if !ok || marker == "" {
		return "", nil
	}
	selector := `[data-scrollreveal-candidate="` + marker + `"]`
	viable, err := h.isViableCandidate(ctx, selector)
	if err != nil || !viable {
		return "", err
	}
	return selector, nil
}

const findByGenericMoreScript = `(function() {
  var candidates = document.querySelectorAll('button, a, [role="button"]');
  var wordBoundary = /\bmore\b/i;
  for (var i = 0; i < candidates.length; i++) {
    var el = candidates[i];
    var text = (el.textContent || "").trim();
    if (text.length > 0 && text.length < 50 && text.indexOf("@") === -1 && wordBoundary.test(text)) {
      var marker = "generic-" + i;
      el.setAttribute("data-scrollreveal-candidate", marker);
      return marker;
    }
  }
  return "";
})()`

// isViableCandidate implements the per-selector test: exists AND visible AND
// not-disabled.
func (h *Handler) isViableCandidate(ctx context.Context, selector string) (bool, error) {
	exists, err := h.adapter.ElementExists(ctx, selector)
	if err != nil || !exists {
		return false, err
	}
	visible, err := h.adapter.IsElementVisible(ctx, selector)
	if err != nil || !visible {
		return false, err
	}
	disabled, err := h.adapter.IsElementDisabled(ctx, selector)
	if err != nil || disabled {
		return false, err
	}
	return true, nil
}
