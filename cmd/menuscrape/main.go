package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/goquery"
	"github.com/fwojciec/menuscrape/htmltomarkdown"
	menuhttp "github.com/fwojciec/menuscrape/http"
	"github.com/fwojciec/menuscrape/re2"
	"github.com/fwojciec/menuscrape/rod"
	"github.com/fwojciec/menuscrape/scrape"
	menuslog "github.com/fwojciec/menuscrape/slog"
	"github.com/fwojciec/menuscrape/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	MenuService menuscrape.MenuService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("menuscrape"),
		kong.Description("Scrape restaurant menu items from rendered pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'menuscrape --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var logger *slog.Logger
	if cli.Debug {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	deps.Extractor = newPipeline(logger)

	needsDB := cmd != "extract" && !(cmd == "scrape" && cli.Scrape.NoDB)
	if needsDB {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set MENUSCRAPE_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.MenuService = sqlite.NewMenuService(m.DB)
		deps.Menus = m.MenuService
		if logger != nil {
			deps.Menus = menuslog.NewLoggingMenuService(m.MenuService, logger)
		}
	}

	if cmd == "scrape" {
		fetcher, closeFetcher, err := newFetcher(cli.Scrape.Static, cli.Scrape.Timeout, stderr)
		if err != nil {
			return err
		}
		defer closeFetcher()

		if logger != nil {
			fetcher = menuslog.NewLoggingFetcher(fetcher, logger)
		}

		var writers []menuscrape.MenuWriter
		if w, ok := deps.Menus.(menuscrape.MenuWriter); ok {
			writers = append(writers, w)
		}

		deps.Scraper = &scrape.Scraper{
			Fetcher:     fetcher,
			Extractor:   deps.Extractor,
			Writers:     writers,
			RateLimiter: scrape.NewDomainLimiter(scrape.DefaultRPS),
			Concurrency: cli.Scrape.Concurrency,
		}
	}

	return kongCtx.Run(deps)
}

// newPipeline wires the extractors in priority order.
func newPipeline(logger *slog.Logger) menuscrape.MenuExtractor {
	var extractor menuscrape.MenuExtractor = &scrape.Pipeline{
		Structured: goquery.NewStructuredMatcher(),
		Fallback:   re2.NewPatternExtractor(),
		Converter:  htmltomarkdown.NewConverter(),
	}
	if logger != nil {
		extractor = menuslog.NewLoggingMenuExtractor(extractor, logger)
	}
	return extractor
}

// newFetcher returns a plain HTTP fetcher for static pages, or a headless
// browser for pages that render their menu with JavaScript.
func newFetcher(static bool, timeout time.Duration, stderr io.Writer) (menuscrape.Fetcher, func() error, error) {
	if static {
		f := menuhttp.NewFetcher(menuhttp.WithTimeout(timeout))
		return f, f.Close, nil
	}

	f, err := rod.NewFetcher(rod.WithFetchTimeout(timeout))
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --static")
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return f, f.Close, nil
}

func defaultDBPath() string {
	if path := os.Getenv("MENUSCRAPE_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "menuscrape.db"
	}
	dir := filepath.Join(home, ".menuscrape")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "menuscrape.db")
}
