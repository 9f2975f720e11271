package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/menuscrape"
)

// Ensure LoggingMenuExtractor implements menuscrape.MenuExtractor.
var _ menuscrape.MenuExtractor = (*LoggingMenuExtractor)(nil)

// LoggingMenuExtractor wraps a MenuExtractor and logs the diagnostic
// counts of every extraction.
type LoggingMenuExtractor struct {
	next   menuscrape.MenuExtractor
	logger *slog.Logger
}

// NewLoggingMenuExtractor creates a new LoggingMenuExtractor.
func NewLoggingMenuExtractor(next menuscrape.MenuExtractor, logger *slog.Logger) *LoggingMenuExtractor {
	return &LoggingMenuExtractor{next: next, logger: logger}
}

// ExtractMenu delegates to the wrapped extractor and logs the outcome.
// Pages with malformed fragments or no items are logged at warn level.
func (e *LoggingMenuExtractor) ExtractMenu(content string) (result *menuscrape.Extraction) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if result.Empty() || result.Malformed > 0 {
			level = slog.LevelWarn
		}
		attrs := []any{
			"bytes", len(content),
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs,
				"items", len(result.Items),
				"structured", result.Structured,
				"fallback", result.Fallback,
				"backfilled", result.Backfilled,
				"malformed", result.Malformed,
				"dropped", result.Dropped,
			)
		}
		e.logger.Log(context.Background(), level, "extract menu", attrs...)
	}(time.Now())
	return e.next.ExtractMenu(content)
}
