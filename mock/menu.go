package mock

import (
	"context"

	"github.com/fwojciec/menuscrape"
)

var _ menuscrape.MenuService = (*MenuService)(nil)

// MenuService is a mock implementation of menuscrape.MenuService.
type MenuService struct {
	CreateMenuFn    func(ctx context.Context, menu *menuscrape.Menu) error
	FindMenuByIDFn  func(ctx context.Context, id string) (*menuscrape.Menu, error)
	FindMenusFn     func(ctx context.Context, filter menuscrape.MenuFilter) ([]*menuscrape.Menu, error)
	FindMenuItemsFn func(ctx context.Context, menuID string) ([]*menuscrape.MenuItem, error)
	DeleteMenuFn    func(ctx context.Context, id string) error
}

func (s *MenuService) CreateMenu(ctx context.Context, menu *menuscrape.Menu) error {
	return s.CreateMenuFn(ctx, menu)
}

func (s *MenuService) FindMenuByID(ctx context.Context, id string) (*menuscrape.Menu, error) {
	return s.FindMenuByIDFn(ctx, id)
}

func (s *MenuService) FindMenus(ctx context.Context, filter menuscrape.MenuFilter) ([]*menuscrape.Menu, error) {
	return s.FindMenusFn(ctx, filter)
}

func (s *MenuService) FindMenuItems(ctx context.Context, menuID string) ([]*menuscrape.MenuItem, error) {
	return s.FindMenuItemsFn(ctx, menuID)
}

func (s *MenuService) DeleteMenu(ctx context.Context, id string) error {
	return s.DeleteMenuFn(ctx, id)
}

var _ menuscrape.MenuWriter = (*MenuWriter)(nil)

// MenuWriter is a mock implementation of menuscrape.MenuWriter.
type MenuWriter struct {
	WriteMenuFn func(ctx context.Context, menu *menuscrape.Menu) error
}

func (w *MenuWriter) WriteMenu(ctx context.Context, menu *menuscrape.Menu) error {
	return w.WriteMenuFn(ctx, menu)
}
