// Package browser defines the capability interface a live browser page must
// satisfy (spec.md §4.1) and one chromedp-backed implementation of it. The
// Scroll Engine never talks to chromedp directly — only through Adapter —
// so a second implementation (WebDriver, go-rod, ...) can be substituted
// without touching internal/engine.
package browser

import (
	"context"
	"fmt"
	"time"

	"scrollreveal/internal/scrollconfig"
)

// AdapterError wraps a connectivity/protocol failure from an Adapter
// operation. "Not found" / "not visible" results are NOT AdapterErrors —
// they are normal falsy returns, per spec.md §4.1.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("adapter: %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// NewAdapterError wraps err as an AdapterError tagged with the failing
// operation name, or returns nil if err is nil.
func NewAdapterError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AdapterError{Op: op, Err: err}
}

// Adapter abstracts a live browser page. Implementations must be safe to
// call from a single goroutine at a time — the Scroll Engine is their only
// caller and never calls concurrently (spec.md §5).
type Adapter interface {
	// Init opens a browser+page configured per viewport, user agent, and
	// headless mode. Idempotent: calling it twice on an already-initialized
	// adapter is a no-op.
	Init(cfg scrollconfig.Configuration) error

	// NavigateTo navigates to url and returns once the page reaches the
	// requested readiness (network-quiescent for a short window).
	NavigateTo(ctx context.Context, url string) error

	// ScrollBy scrolls the target container by px (signed) pixels.
	ScrollBy(ctx context.Context, px int, container string) error
	// ScrollToTop scrolls the container to its top extreme.
	ScrollToTop(ctx context.Context, container string) error
	// ScrollToBottom scrolls the container to its bottom extreme.
	ScrollToBottom(ctx context.Context, container string) error
	// ScrollIntoView best-effort scrolls an element into the viewport.
	ScrollIntoView(ctx context.Context, selector string) error

	// EvaluateScript runs script in the page and returns its JS value.
	EvaluateScript(ctx context.Context, script string) (any, error)

	// Click clicks the first element matching selector. Returns false (not
	// an error) when the element does not exist or cannot be clicked.
	Click(ctx context.Context, selector string) (bool, error)

	// WaitFor sleeps at least d.
	WaitFor(ctx context.Context, d time.Duration) error
	// WaitForElement reports whether selector appears within timeout.
	WaitForElement(ctx context.Context, selector string, timeout time.Duration) (bool, error)

	// GetScrollHeight returns the container's scrollHeight in pixels, or 0
	// if the container is missing.
	GetScrollHeight(ctx context.Context, container string) (int, error)
	// GetScrollPosition returns the container's current scroll offset in
	// pixels, or 0 if missing.
	GetScrollPosition(ctx context.Context, container string) (int, error)
	// GetItemCount returns the number of elements matching selector.
	GetItemCount(ctx context.Context, selector string) (int, error)

	// ElementExists reports whether selector matches any element.
	ElementExists(ctx context.Context, selector string) (bool, error)
	// IsElementVisible reports whether the first match is visible: width>0
	// and height>0 and visibility != hidden and display != none and
	// opacity != 0 (spec.md §4.1).
	IsElementVisible(ctx context.Context, selector string) (bool, error)
	// IsElementDisabled reports whether the element is disabled via the
	// disabled property/attribute, a "disabled"/"is-disabled" class, or
	// aria-disabled="true" (spec.md §4.4 step 3).
	IsElementDisabled(ctx context.Context, selector string) (bool, error)

	// GetPageContent returns the full current HTML of the document.
	GetPageContent(ctx context.Context) (string, error)
	// GetCurrentURL returns the page's current URL.
	GetCurrentURL(ctx context.Context) (string, error)

	// Close releases the browser and page. Idempotent; any further
	// operation after Close must return AdapterError (testable property 9).
	Close() error
}
