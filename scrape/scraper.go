package scrape

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/bloom"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default number of pages fetched at once.
const DefaultConcurrency = 3

// dedupFalsePositiveRate is the acceptable false positive rate for skipping
// repeated input URLs.
const dedupFalsePositiveRate = 0.0001

// Scraper fetches menu pages and extracts their items.
type Scraper struct {
	Fetcher     menuscrape.Fetcher
	Extractor   menuscrape.MenuExtractor
	Writers     []menuscrape.MenuWriter
	RateLimiter menuscrape.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of a scrape.
type Result struct {
	// Menus holds one menu per page that yielded items, in input order.
	Menus []*menuscrape.Menu

	// Items is the merged catalog of every page: unique by ID, in
	// first-seen order across pages.
	Items []*menuscrape.MenuItem

	Skipped int // repeated input URLs
	Failed  int
}

// ProgressEvent reports progress during a scrape.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Items     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position   int
	url        string
	hash       string
	extraction *menuscrape.Extraction
	err        error
}

// ScrapeAll scrapes every URL. Repeated URLs (ignoring fragments) are
// scraped once. A page that fails to fetch, yields no items or cannot be
// written is counted in Result.Failed and does not stop the others; only
// cancellation of ctx aborts the scrape.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	result := &Result{}

	pages := s.dedup(urls, result)
	total := len(pages)

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan pageResult, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range pages {
			g.Go(func() error {
				resultCh <- s.processURL(gctx, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	results := make([]pageResult, total)
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r
		if progress == nil {
			continue
		}
		if r.err != nil {
			progress(ProgressEvent{
				Type:      ProgressFailed,
				Completed: int(completed.Load()),
				Total:     total,
				URL:       r.url,
				Error:     r.err,
			})
			continue
		}
		progress(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
			Items:     len(r.extraction.Items),
		})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pages are written and merged in input order so the merged catalog
	// does not depend on fetch timing.
	catalog := menuscrape.NewCatalog()
	for _, r := range results {
		if r.err != nil {
			result.Failed++
			continue
		}

		menu := &menuscrape.Menu{
			URL:         r.url,
			ContentHash: r.hash,
			Items:       r.extraction.Items,
			ScrapedAt:   s.now(),
		}
		if err := s.write(ctx, menu); err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Total: total, URL: r.url, Error: err})
			}
			continue
		}

		result.Menus = append(result.Menus, menu)
		for _, item := range menu.Items {
			catalog.Add(item)
		}
	}
	result.Items = catalog.Items()

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
			Items:     len(result.Items),
		})
	}

	return result, nil
}

// dedup returns urls with repeats removed, counting them in result.Skipped.
func (s *Scraper) dedup(urls []string, result *Result) []string {
	seen := bloom.NewFilter(uint(max(len(urls), 1)), dedupFalsePositiveRate)
	pages := make([]string, 0, len(urls))
	for _, u := range urls {
		key := normalizeURL(u)
		if seen.Seen(key) {
			result.Skipped++
			continue
		}
		pages = append(pages, u)
	}
	return pages
}

// processURL fetches and extracts a single page.
func (s *Scraper) processURL(ctx context.Context, position int, rawURL string) pageResult {
	result := pageResult{position: position, url: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		result.err = menuscrape.Errorf(menuscrape.EINVALID, "invalid menu URL %q", rawURL)
		return result
	}

	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	delays := s.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	content, err := FetchWithRetry(ctx, rawURL, s.Fetcher.Fetch, nil, delays)
	if err != nil {
		result.err = fmt.Errorf("fetch %s: %w", rawURL, err)
		return result
	}

	extraction := s.Extractor.ExtractMenu(content)
	if extraction.Empty() {
		result.err = menuscrape.Errorf(menuscrape.ENOTFOUND, "no menu items found at %s", rawURL)
		return result
	}

	result.hash = ComputeHash(content)
	result.extraction = extraction
	return result
}

func (s *Scraper) write(ctx context.Context, menu *menuscrape.Menu) error {
	for _, w := range s.Writers {
		if err := w.WriteMenu(ctx, menu); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scraper) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// normalizeURL drops the fragment, which never changes the page served.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}
