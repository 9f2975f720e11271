package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/menuscrape"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 50

// instance is one launched browser. Retired instances stay alive until
// their last leased page is released.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	leased   int // pages handed out since launch
	inFlight int
	retired  bool
}

func (in *instance) shutdown() error {
	err := in.browser.Close()
	in.launcher.Kill()
	return err
}

// BrowserManager owns the headless browser and replaces it after a number
// of pages. Ordering pages are script heavy and Chrome's memory baseline
// keeps growing across pages even when each page is closed.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	current  *instance
	maxPages int
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPagesPerBrowser sets the number of pages a browser renders before
// it is replaced. Defaults to DefaultMaxPages.
func WithMaxPagesPerBrowser(n int) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}

	in, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = in
	return bm, nil
}

// Acquire leases the current browser for one page. The returned release
// func must be called once the page is closed. When the current browser
// has served maxPages a replacement is launched first; the old one shuts
// down after its last lease is released. If the replacement fails to
// launch, the old browser keeps serving.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, menuscrape.Errorf(menuscrape.EINVALID, "browser manager is closed")
	}

	if bm.maxPages > 0 && bm.current.leased >= bm.maxPages {
		if next, err := launch(); err == nil {
			bm.retire(bm.current)
			bm.current = next
		}
	}

	in := bm.current
	in.leased++
	in.inFlight++

	var once sync.Once
	release := func() {
		once.Do(func() {
			bm.mu.Lock()
			defer bm.mu.Unlock()
			in.inFlight--
			if in.retired && in.inFlight == 0 {
				_ = in.shutdown()
			}
		})
	}
	return in.browser, release, nil
}

// retire marks in for shutdown, shutting it down now if no page uses it.
// Must be called with mu held.
func (bm *BrowserManager) retire(in *instance) {
	in.retired = true
	if in.inFlight == 0 {
		_ = in.shutdown()
	}
}

// Close releases browser resources. Pages still open are cut off.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	bm.current.retired = true
	return bm.current.shutdown()
}

// LauncherPID returns the process ID of the current browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.current.launcher.PID()
}

// launch starts a browser. Background throttling is disabled so that pages
// rendered concurrently keep running their scripts.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}
