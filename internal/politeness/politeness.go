// Package politeness implements the Orchestrator's best-effort robots.txt
// check (SPEC_FULL.md §4 domain stack). It is a scaled-down version of the
// teacher's crawl-wide getRobots/isAllowedByRobots (internal/crawler/
// crawler.go): one host, one lookup, never blocking the run.
package politeness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"

	"scrollreveal/internal/scrolllog"
)

const fetchTimeout = 5 * time.Second

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Check fetches and parses rawURL's host's /robots.txt and logs a warning if
// the path is disallowed for userAgent. It never returns an error and never
// blocks the caller beyond fetchTimeout: the user already chose to load this
// specific URL, so this is advisory only, mirroring the teacher's
// IgnoreRobots-gated, warning-oriented use of the same library.
func Check(ctx context.Context, rawURL, userAgent string, log *scrolllog.Logger) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", parsed.Scheme, parsed.Host)
	data, err := fetch(ctx, robotsURL, userAgent)
	if err != nil {
		log.Debug("politeness: could not fetch %s: %v", robotsURL, err)
		return
	}

	group := data.FindGroup(userAgent)
	if group == nil || group.Test(parsed.Path) {
		return
	}
	log.Warn("politeness: %s disallows %s for this user agent", robotsURL, parsed.Path)
}

func fetch(ctx context.Context, robotsURL, userAgent string) (*robotstxt.RobotsData, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("robots.txt returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return robotstxt.FromBytes(body)
}
