package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"scrollreveal/internal/scrollconfig"
)

// defaultNavigationTimeout and defaultOperationTimeout are the Adapter-level
// guards spec.md §5 leaves to the implementation: 60s for navigation, 30s
// for everything else.
const (
	defaultNavigationTimeout = 60 * time.Second
	defaultOperationTimeout  = 30 * time.Second
)

// ChromedpAdapter implements Adapter over a real Chrome/Chromium instance,
// the way the teacher's BrowserFetcher drives chromedp: one exec allocator
// per Adapter, one browser context, a single tab reused for the run.
type ChromedpAdapter struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancelFunc  context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// NewChromedpAdapter constructs an uninitialized adapter; Init opens the
// browser. Matches the teacher's pattern of a cheap constructor plus a
// separate connect step.
func NewChromedpAdapter() *ChromedpAdapter {
	return &ChromedpAdapter{}
}

func (a *ChromedpAdapter) Init(cfg scrollconfig.Configuration) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.browserCtx != nil {
		return nil // idempotent
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.IsHeadless()),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.Viewport.Width, cfg.Viewport.Height),
	)
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelFunc := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		allocCancel()
		return NewAdapterError("init", fmt.Errorf("failed to start browser: %w", err))
	}

	a.allocCtx, a.allocCancel = allocCtx, allocCancel
	a.browserCtx, a.cancelFunc = browserCtx, cancelFunc
	return nil
}

func (a *ChromedpAdapter) ctxOrClosed(ctx context.Context, op string) (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.browserCtx == nil {
		return nil, NewAdapterError(op, fmt.Errorf("adapter is closed"))
	}
	return ctx, nil
}

func (a *ChromedpAdapter) NavigateTo(ctx context.Context, url string) error {
	if _, err := a.ctxOrClosed(ctx, "navigate_to"); err != nil {
		return err
	}
	navCtx, cancel := context.WithTimeout(a.browserCtx, defaultNavigationTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return NewAdapterError("navigate_to", err)
	}
	return nil
}

func (a *ChromedpAdapter) run(parent context.Context, op string, actions ...chromedp.Action) error {
	if _, err := a.ctxOrClosed(parent, op); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(a.browserCtx, defaultOperationTimeout)
	defer cancel()
	if err := chromedp.Run(opCtx, actions...); err != nil {
		return NewAdapterError(op, err)
	}
	return nil
}

func scrollTargetExpr(container string) string {
	if container == "" || container == "window" {
		return "window"
	}
	return fmt.Sprintf("document.querySelector(%q)", container)
}

func (a *ChromedpAdapter) ScrollBy(ctx context.Context, px int, container string) error {
	target := scrollTargetExpr(container)
	script := fmt.Sprintf(`(function(){ var t = %s; if (!t) return; t.scrollBy(0, %d); })()`, target, px)
	return a.run(ctx, "scroll_by", chromedp.Evaluate(script, nil))
}

func (a *ChromedpAdapter) ScrollToTop(ctx context.Context, container string) error {
	target := scrollTargetExpr(container)
	script := fmt.Sprintf(`(function(){ var t = %s; if (!t) return; t.scrollTo(0, 0); })()`, target)
	return a.run(ctx, "scroll_to_top", chromedp.Evaluate(script, nil))
}

func (a *ChromedpAdapter) ScrollToBottom(ctx context.Context, container string) error {
	target := scrollTargetExpr(container)
	heightExpr := "window"
	if container != "" && container != "window" {
		heightExpr = fmt.Sprintf("document.querySelector(%q)", container)
	}
	script := fmt.Sprintf(`(function(){
		var t = %s;
		var h = %s;
		if (!t || !h) return;
		var height = (h === window) ? document.documentElement.scrollHeight : h.scrollHeight;
		t.scrollTo(0, height);
	})()`, target, heightExpr)
	return a.run(ctx, "scroll_to_bottom", chromedp.Evaluate(script, nil))
}

func (a *ChromedpAdapter) ScrollIntoView(ctx context.Context, selector string) error {
	script := fmt.Sprintf(`(function(){
		var el = document.querySelector(%q);
		if (el) el.scrollIntoView({block: "center"});
	})()`, selector)
	return a.run(ctx, "scroll_into_view", chromedp.Evaluate(script, nil))
}

func (a *ChromedpAdapter) EvaluateScript(ctx context.Context, script string) (any, error) {
	var result any
	if err := a.run(ctx, "evaluate_script", chromedp.Evaluate(script, &result)); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *ChromedpAdapter) Click(ctx context.Context, selector string) (bool, error) {
	if _, err := a.ctxOrClosed(ctx, "click"); err != nil {
		return false, err
	}
	opCtx, cancel := context.WithTimeout(a.browserCtx, defaultOperationTimeout)
	defer cancel()

	var clicked bool
	// Click via JS dispatch rather than chromedp.Click so a missing element
	// is a normal falsy return, not an Adapter error (spec.md §4.1): a
	// native chromedp.Click errors on "node not found", which the contract
	// says must never surface as an AdapterError.
	script := fmt.Sprintf(`(function(){
		var el = document.querySelector(%q);
		if (!el) return false;
		el.click();
		return true;
	})()`, selector)
	if err := chromedp.Run(opCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, NewAdapterError("click", err)
	}
	return clicked, nil
}

func (a *ChromedpAdapter) WaitFor(ctx context.Context, d time.Duration) error {
	if _, err := a.ctxOrClosed(ctx, "wait_for"); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return NewAdapterError("wait_for", ctx.Err())
	}
}

func (a *ChromedpAdapter) WaitForElement(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	if _, err := a.ctxOrClosed(ctx, "wait_for_element"); err != nil {
		return false, err
	}
	waitCtx, cancel := context.WithTimeout(a.browserCtx, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		if waitCtx.Err() == context.DeadlineExceeded {
			return false, nil
		}
		return false, NewAdapterError("wait_for_element", err)
	}
	return true, nil
}

func (a *ChromedpAdapter) GetScrollHeight(ctx context.Context, container string) (int, error) {
	heightExpr := "document.documentElement.scrollHeight"
	if container != "" && container != "window" {
		heightExpr = fmt.Sprintf(`(function(){ var el = document.querySelector(%q); return el ? el.scrollHeight : 0; })()`, container)
	}
	var height int
	if err := a.run(ctx, "get_scroll_height", chromedp.Evaluate(heightExpr, &height)); err != nil {
		return 0, err
	}
	return height, nil
}

func (a *ChromedpAdapter) GetScrollPosition(ctx context.Context, container string) (int, error) {
	posExpr := "window.scrollY"
	if container != "" && container != "window" {
		posExpr = fmt.Sprintf(`(function(){ var el = document.querySelector(%q); return el ? el.scrollTop : 0; })()`, container)
	}
	var pos float64
	if err := a.run(ctx, "get_scroll_position", chromedp.Evaluate(posExpr, &pos)); err != nil {
		return 0, err
	}
	return int(pos), nil
}

func (a *ChromedpAdapter) GetItemCount(ctx context.Context, selector string) (int, error) {
	if selector == "" {
		return 0, nil
	}
	script := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	var count int
	if err := a.run(ctx, "get_item_count", chromedp.Evaluate(script, &count)); err != nil {
		return 0, err
	}
	return count, nil
}

func (a *ChromedpAdapter) ElementExists(ctx context.Context, selector string) (bool, error) {
	script := fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	var exists bool
	if err := a.run(ctx, "element_exists", chromedp.Evaluate(script, &exists)); err != nil {
		return false, err
	}
	return exists, nil
}

// isElementVisibleScript implements spec.md §4.1's definition exactly:
// width>0 AND height>0 AND visibility!=hidden AND display!=none AND opacity!=0.
const isElementVisibleScript = `(function(sel){
	var el = document.querySelector(sel);
	if (!el) return false;
	var style = window.getComputedStyle(el);
	if (style.display === 'none') return false;
	if (style.visibility === 'hidden') return false;
	if (style.opacity === '0') return false;
	var rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
})(%q)`

func (a *ChromedpAdapter) IsElementVisible(ctx context.Context, selector string) (bool, error) {
	script := fmt.Sprintf(isElementVisibleScript, selector)
	var visible bool
	if err := a.run(ctx, "is_element_visible", chromedp.Evaluate(script, &visible)); err != nil {
		return false, err
	}
	return visible, nil
}

// isElementDisabledScript implements spec.md §4.4 step 3's disabled test:
// el.disabled OR a disabled-ish class OR aria-disabled="true".
const isElementDisabledScript = `(function(sel){
	var el = document.querySelector(sel);
	if (!el) return true;
	if (el.disabled === true) return true;
	if (el.getAttribute('aria-disabled') === 'true') return true;
	var classes = el.className || '';
	if (typeof classes === 'string' && (classes.indexOf('disabled') !== -1 || classes.indexOf('is-disabled') !== -1)) return true;
	return false;
})(%q)`

func (a *ChromedpAdapter) IsElementDisabled(ctx context.Context, selector string) (bool, error) {
	script := fmt.Sprintf(isElementDisabledScript, selector)
	var disabled bool
	if err := a.run(ctx, "is_element_disabled", chromedp.Evaluate(script, &disabled)); err != nil {
		return false, err
	}
	return disabled, nil
}

func (a *ChromedpAdapter) GetPageContent(ctx context.Context) (string, error) {
	var html string
	if err := a.run(ctx, "get_page_content", chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (a *ChromedpAdapter) GetCurrentURL(ctx context.Context) (string, error) {
	if _, err := a.ctxOrClosed(ctx, "get_current_url"); err != nil {
		return "", err
	}
	opCtx, cancel := context.WithTimeout(a.browserCtx, defaultOperationTimeout)
	defer cancel()

	var currentURL string
	if err := chromedp.Run(opCtx, chromedp.Location(&currentURL)); err != nil {
		return "", NewAdapterError("get_current_url", err)
	}
	return currentURL, nil
}

func (a *ChromedpAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if a.cancelFunc != nil {
		a.cancelFunc()
	}
	if a.allocCancel != nil {
		a.allocCancel()
	}
	return nil
}

// interfaceCheck makes sure ChromedpAdapter satisfies Adapter at compile
// time without relying on a caller doing it implicitly.
var _ Adapter = (*ChromedpAdapter)(nil)
