package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Menus     menuscrape.MenuService
	Extractor menuscrape.MenuExtractor
	Scraper   *scrape.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug bool `help:"Log fetches, extractions and writes to stderr"`

	Scrape  ScrapeCmd  `cmd:"" help:"Scrape menu items from one or more pages"`
	Extract ExtractCmd `cmd:"" help:"Extract menu items from saved HTML files"`
	List    ListCmd    `cmd:"" help:"List stored menus"`
	Items   ItemsCmd   `cmd:"" help:"Show the items of a stored menu"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a stored menu"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string      `arg:"" name:"url" help:"Menu page URLs"`
	Static      bool          `help:"Fetch with plain HTTP instead of a headless browser"`
	Out         string        `short:"o" type:"path" help:"Directory to export the merged items as JSON"`
	Name        string        `short:"n" help:"Export file name (default: derived from the URL, or menu_items)"`
	NoDB        bool          `name:"no-db" help:"Do not store menus in the database"`
	Concurrency int           `short:"c" default:"3" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"30s" help:"Fetch timeout per page"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Files []string `arg:"" type:"existingfile" name:"file" help:"HTML files to extract from"`
	Out   string   `short:"o" type:"path" help:"Directory to export the merged items as JSON"`
	Name  string   `short:"n" help:"Export file name (default: menu_items)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	URL   string `help:"Only show menus scraped from this URL"`
	Limit int    `short:"l" help:"Maximum number of menus to show"`
}

// ItemsCmd is the "items" subcommand.
type ItemsCmd struct {
	MenuID string `arg:"" name:"menu-id" help:"Menu ID"`
	JSON   bool   `help:"Print items as a JSON array"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	MenuID string `arg:"" name:"menu-id" help:"Menu ID"`
	Force  bool   `help:"Confirm deletion"`
}
