package menuscrape

import (
	"context"
	"time"
)

// Menu represents the items extracted from one scraped page.
type Menu struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	ContentHash string      `json:"contentHash"`
	Items       []*MenuItem `json:"items"`
	ScrapedAt   time.Time   `json:"scrapedAt"`

	// ItemCount is the number of stored items. It is set when a menu is
	// read back without its items.
	ItemCount int `json:"itemCount"`
}

// Validate returns an error if the menu contains invalid fields.
func (m *Menu) Validate() error {
	if m.URL == "" {
		return Errorf(EINVALID, "menu URL required")
	}
	for _, item := range m.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// MenuWriter persists or exports a scraped menu.
type MenuWriter interface {
	WriteMenu(ctx context.Context, menu *Menu) error
}

// MenuService represents a service for managing stored menus.
type MenuService interface {
	// CreateMenu stores a menu and its items.
	CreateMenu(ctx context.Context, menu *Menu) error

	// FindMenuByID retrieves a menu by ID, without its items.
	// Returns ENOTFOUND if menu does not exist.
	FindMenuByID(ctx context.Context, id string) (*Menu, error)

	// FindMenus retrieves menus matching the filter, without their items.
	FindMenus(ctx context.Context, filter MenuFilter) ([]*Menu, error)

	// FindMenuItems retrieves the items of a menu in page order.
	// Returns ENOTFOUND if menu does not exist.
	FindMenuItems(ctx context.Context, menuID string) ([]*MenuItem, error)

	// DeleteMenu permanently removes a menu and all its items.
	// Returns ENOTFOUND if menu does not exist.
	DeleteMenu(ctx context.Context, id string) error
}

// MenuFilter represents a filter for FindMenus.
type MenuFilter struct {
	ID  *string `json:"id"`
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
