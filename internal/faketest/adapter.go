// Package faketest provides a hand-written fake browser.Adapter for use in
// detector, loadmore, and engine tests, following the teacher's habit of
// hand-rolled fakes (its fake HTTP transport in browser_test.go) rather than
// a mocking framework.
package faketest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"scrollreveal/internal/browser"
	"scrollreveal/internal/scrollconfig"
)

// Adapter is a deterministic, in-memory stand-in for browser.Adapter. Tests
// configure its behavior by mutating its exported fields/maps directly;
// it records every call in Calls for assertions.
type Adapter struct {
	mu sync.Mutex

	ItemCount    int
	ScrollHeight int
	ScrollPos    int
	Visible      map[string]bool
	Exists       map[string]bool
	Disabled     map[string]bool
	ClickResults map[string]bool
	PageContent  string
	CurrentURL   string
	// EvaluateScriptResult is returned verbatim by EvaluateScript, letting a
	// test simulate the text-vocabulary lookup script's return value.
	EvaluateScriptResult any

	Closed bool
	Calls  []string

	// NavigateErr, when set, is returned by NavigateTo.
	NavigateErr error
	// ScrollErr, when set, is returned by ScrollBy/ScrollToBottom/ScrollToTop.
	ScrollErr error

	// OnScrollBy lets a test react to a scroll (e.g. grow ItemCount/ScrollHeight
	// the way a real page would after fetching more content).
	OnScrollBy func(px int)
	// OnClick lets a test react to a successful click.
	OnClick func(selector string)

	// RealSleep makes WaitFor actually sleep for d instead of returning
	// immediately, for tests that need wall-clock time to elapse (e.g. a
	// max_duration_seconds guard).
	RealSleep bool
}

// New constructs an Adapter with empty maps ready to configure.
func New() *Adapter {
	return &Adapter{
		Visible:      map[string]bool{},
		Exists:       map[string]bool{},
		Disabled:     map[string]bool{},
		ClickResults: map[string]bool{},
		PageContent:  "<html><body>fake</body></html>",
		CurrentURL:   "https://example.test/",
	}
}

func (a *Adapter) record(call string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Calls = append(a.Calls, call)
}

func (a *Adapter) Init(_ scrollconfig.Configuration) error { a.record("Init"); return nil }

func (a *Adapter) NavigateTo(_ context.Context, url string) error {
	a.record("NavigateTo:" + url)
	return a.NavigateErr
}

func (a *Adapter) ScrollBy(_ context.Context, px int, _ string) error {
	a.record(fmt.Sprintf("ScrollBy:%d", px))
	if a.ScrollErr != nil {
		return a.ScrollErr
	}
	a.mu.Lock()
	a.ScrollPos += px
	a.mu.Unlock()
	if a.OnScrollBy != nil {
		a.OnScrollBy(px)
	}
	return nil
}

func (a *Adapter) ScrollToTop(_ context.Context, _ string) error {
	a.record("ScrollToTop")
	a.ScrollPos = 0
	return a.ScrollErr
}

func (a *Adapter) ScrollToBottom(_ context.Context, _ string) error {
	a.record("ScrollToBottom")
	a.ScrollPos = a.ScrollHeight
	return a.ScrollErr
}

func (a *Adapter) ScrollIntoView(_ context.Context, selector string) error {
	a.record("ScrollIntoView:" + selector)
	return nil
}

func (a *Adapter) EvaluateScript(_ context.Context, _ string) (any, error) {
	a.record("EvaluateScript")
	return a.EvaluateScriptResult, nil
}

func (a *Adapter) Click(_ context.Context, selector string) (bool, error) {
	a.record("Click:" + selector)
	ok := a.ClickResults[selector]
	if ok && a.OnClick != nil {
		a.OnClick(selector)
	}
	return ok, nil
}

func (a *Adapter) WaitFor(_ context.Context, d time.Duration) error {
	a.record(fmt.Sprintf("WaitFor:%s", d))
	if a.RealSleep {
		time.Sleep(d)
	}
	return nil
}

func (a *Adapter) WaitForElement(_ context.Context, selector string, _ time.Duration) (bool, error) {
	a.record("WaitForElement:" + selector)
	return a.Exists[selector], nil
}

func (a *Adapter) GetScrollHeight(_ context.Context, _ string) (int, error) {
	a.record("GetScrollHeight")
	return a.ScrollHeight, nil
}

func (a *Adapter) GetScrollPosition(_ context.Context, _ string) (int, error) {
	a.record("GetScrollPosition")
	return a.ScrollPos, nil
}

func (a *Adapter) GetItemCount(_ context.Context, _ string) (int, error) {
	a.record("GetItemCount")
	return a.ItemCount, nil
}

func (a *Adapter) ElementExists(_ context.Context, selector string) (bool, error) {
	a.record("ElementExists:" + selector)
	return a.Exists[selector], nil
}

func (a *Adapter) IsElementVisible(_ context.Context, selector string) (bool, error) {
	a.record("IsElementVisible:" + selector)
	return a.Visible[selector], nil
}

func (a *Adapter) IsElementDisabled(_ context.Context, selector string) (bool, error) {
	a.record("IsElementDisabled:" + selector)
	return a.Disabled[selector], nil
}

func (a *Adapter) GetPageContent(_ context.Context) (string, error) {
	a.record("GetPageContent")
	return a.PageContent, nil
}

func (a *Adapter) GetCurrentURL(_ context.Context) (string, error) {
	a.record("GetCurrentURL")
	return a.CurrentURL, nil
}

func (a *Adapter) Close() error {
	a.record("Close")
	a.Closed = true
	return nil
}

var _ browser.Adapter = (*Adapter)(nil)
