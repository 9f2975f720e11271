package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/menuscrape"
)

// Ensure LoggingMenuService implements menuscrape.MenuService.
var _ menuscrape.MenuService = (*LoggingMenuService)(nil)

// Ensure LoggingMenuService implements menuscrape.MenuWriter.
var _ menuscrape.MenuWriter = (*LoggingMenuService)(nil)

// LoggingMenuService wraps a MenuService with debug logging.
type LoggingMenuService struct {
	next   menuscrape.MenuService
	logger *slog.Logger
}

// NewLoggingMenuService creates a new LoggingMenuService.
func NewLoggingMenuService(next menuscrape.MenuService, logger *slog.Logger) *LoggingMenuService {
	return &LoggingMenuService{next: next, logger: logger}
}

func (s *LoggingMenuService) CreateMenu(ctx context.Context, menu *menuscrape.Menu) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create menu",
			"url", menu.URL,
			"id", menu.ID,
			"items", len(menu.Items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateMenu(ctx, menu)
}

// WriteMenu stores the menu with CreateMenu.
func (s *LoggingMenuService) WriteMenu(ctx context.Context, menu *menuscrape.Menu) error {
	return s.CreateMenu(ctx, menu)
}

func (s *LoggingMenuService) FindMenuByID(ctx context.Context, id string) (menu *menuscrape.Menu, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find menu",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindMenuByID(ctx, id)
}

func (s *LoggingMenuService) FindMenus(ctx context.Context, filter menuscrape.MenuFilter) (menus []*menuscrape.Menu, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find menus",
			"count", len(menus),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindMenus(ctx, filter)
}

func (s *LoggingMenuService) FindMenuItems(ctx context.Context, menuID string) (items []*menuscrape.MenuItem, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find menu items",
			"menu", menuID,
			"count", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindMenuItems(ctx, menuID)
}

func (s *LoggingMenuService) DeleteMenu(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete menu",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteMenu(ctx, id)
}
