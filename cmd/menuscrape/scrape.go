package main

import (
	"fmt"

	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/fs"
	"github.com/fwojciec/menuscrape/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	if deps.Scraper == nil {
		return menuscrape.Errorf(menuscrape.EINTERNAL, "scraper not configured")
	}

	if c.Concurrency > 0 {
		deps.Scraper.Concurrency = c.Concurrency
	}

	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Scraping %d pages\n", event.Total)
		case scrape.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s: %d items\n",
				event.Completed, event.Total, scrape.TruncateURL(event.URL, 80), event.Items)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		case scrape.ProgressFinished:
			// Summary printed after scrape completes
		}
	}

	result, err := deps.Scraper.ScrapeAll(deps.Ctx, c.URLs, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scraping: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scraped %d items from %d pages", len(result.Items), len(result.Menus))
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, " (%d failed)", result.Failed)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, " (%d duplicate URLs skipped)", result.Skipped)
	}
	fmt.Fprintln(deps.Stdout)

	for _, menu := range result.Menus {
		if menu.ID != "" {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", menu.ID, menu.URL)
		}
	}

	if c.Out != "" {
		name := c.Name
		if name == "" && len(c.URLs) == 1 {
			name, _ = fs.NameFromURL(c.URLs[0])
		}
		store := fs.NewJSONStore(c.Out, name)
		if err := store.WriteMenu(deps.Ctx, &menuscrape.Menu{Items: result.Items}); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %s\n", store.Path())
	}

	if len(result.Menus) == 0 && result.Failed > 0 {
		return menuscrape.Errorf(menuscrape.ENOTFOUND, "no menu items scraped")
	}

	return nil
}
