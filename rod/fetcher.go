// Package rod renders menu pages in headless Chrome so that client-side
// state and lazily rendered rows are present in the returned content.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/menuscrape"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a whole fetch, from navigation to serialization.
const DefaultFetchTimeout = 30 * time.Second

// DefaultWaitSelector matches rendered menu rows on common ordering sites.
const DefaultWaitSelector = `[data-anchor-id="MenuItem"], div[role="listitem"]`

// DefaultWaitTimeout bounds the wait for DefaultWaitSelector. Pages whose
// rows never render are still returned when it expires.
const DefaultWaitTimeout = 10 * time.Second

// Ensure Fetcher implements menuscrape.Fetcher at compile time.
var _ menuscrape.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered page content using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	fetchTimeout time.Duration
	waitSelector string
	waitTimeout  time.Duration
	renderDelay  time.Duration
	managerOpts  []ManagerOption
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single fetch.
// Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithWaitSelector sets the CSS selector waited for after the page loads.
// An empty selector disables the wait.
func WithWaitSelector(selector string, timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.waitSelector = selector
		f.waitTimeout = timeout
	}
}

// WithRenderDelay sets an extra pause before the page is serialized, for
// pages that keep rendering rows after the first ones appear.
func WithRenderDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.renderDelay = d
	}
}

// WithMaxPages sets how many pages a browser renders before it is recycled.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithMaxPagesPerBrowser(n))
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		fetchTimeout: DefaultFetchTimeout,
		waitSelector: DefaultWaitSelector,
		waitTimeout:  DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL, waits for menu rows to render and returns
// the serialized DOM.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", menuscrape.Errorf(menuscrape.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	f.waitForRows(page)

	if f.renderDelay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.renderDelay):
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	return html, nil
}

// waitForRows waits until the wait selector matches or the wait times out.
// A page without matching rows is not an error: its embedded state may
// still hold the menu.
func (f *Fetcher) waitForRows(page *rod.Page) {
	if f.waitSelector == "" || f.waitTimeout <= 0 {
		return
	}
	p := page.Timeout(f.waitTimeout)
	defer p.CancelTimeout()
	_, _ = p.Element(f.waitSelector)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
