package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/menuscrape"
	"github.com/fwojciec/menuscrape/decimal"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ menuscrape.MenuService = (*MenuService)(nil)
	_ menuscrape.MenuWriter  = (*MenuService)(nil)
)

// MenuService implements menuscrape.MenuService using SQLite.
type MenuService struct {
	db *DB
}

// NewMenuService creates a new MenuService.
func NewMenuService(db *DB) *MenuService {
	return &MenuService{db: db}
}

// CreateMenu stores a menu and its items in one transaction. The menu is
// assigned a new ID, and ScrapedAt is set when it is zero.
func (s *MenuService) CreateMenu(ctx context.Context, menu *menuscrape.Menu) error {
	if err := menu.Validate(); err != nil {
		return err
	}

	menu.ID = uuid.New().String()
	if menu.ScrapedAt.IsZero() {
		menu.ScrapedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO menus (id, url, content_hash, scraped_at)
		VALUES (?, ?, ?, ?)
	`, menu.ID, menu.URL, menu.ContentHash, menu.ScrapedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO menu_items (menu_id, item_id, position, name, price, price_amount, price_currency,
			description, image_url, rating, strategy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, item := range menu.Items {
		var amount sql.NullString
		var currency string
		if p, ok := decimal.ParsePrice(item.Price); ok {
			amount = sql.NullString{String: p.Amount.String(), Valid: true}
			currency = p.Currency
		}

		if _, err := stmt.ExecContext(ctx, menu.ID, item.ID, i, item.Name, item.Price, amount, currency,
			item.Description, item.ImageURL, item.Rating, string(item.Strategy)); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return menuscrape.Errorf(menuscrape.EINVALID, "duplicate menu item %q", item.ID)
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	menu.ItemCount = len(menu.Items)
	return nil
}

// WriteMenu implements menuscrape.MenuWriter by creating the menu.
func (s *MenuService) WriteMenu(ctx context.Context, menu *menuscrape.Menu) error {
	return s.CreateMenu(ctx, menu)
}

const menuColumns = `id, url, content_hash, scraped_at,
	(SELECT COUNT(*) FROM menu_items WHERE menu_items.menu_id = menus.id)`

// FindMenuByID retrieves a menu by ID, without its items.
func (s *MenuService) FindMenuByID(ctx context.Context, id string) (*menuscrape.Menu, error) {
	menus, err := s.FindMenus(ctx, menuscrape.MenuFilter{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(menus) == 0 {
		return nil, menuscrape.Errorf(menuscrape.ENOTFOUND, "menu not found")
	}
	return menus[0], nil
}

// FindMenus retrieves menus matching the filter, most recent first.
func (s *MenuService) FindMenus(ctx context.Context, filter menuscrape.MenuFilter) ([]*menuscrape.Menu, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + menuColumns + " FROM menus WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY scraped_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []*menuscrape.Menu
	for rows.Next() {
		var menu menuscrape.Menu
		var scrapedAt string

		if err := rows.Scan(&menu.ID, &menu.URL, &menu.ContentHash, &scrapedAt, &menu.ItemCount); err != nil {
			return nil, err
		}
		if menu.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at"); err != nil {
			return nil, err
		}

		menus = append(menus, &menu)
	}

	return menus, rows.Err()
}

// FindMenuItems retrieves the items of a menu in page order.
func (s *MenuService) FindMenuItems(ctx context.Context, menuID string) ([]*menuscrape.MenuItem, error) {
	if _, err := s.FindMenuByID(ctx, menuID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, name, price, description, image_url, rating, strategy
		FROM menu_items
		WHERE menu_id = ?
		ORDER BY position ASC
	`, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*menuscrape.MenuItem
	for rows.Next() {
		var item menuscrape.MenuItem
		var strategy string

		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Description,
			&item.ImageURL, &item.Rating, &strategy); err != nil {
			return nil, err
		}
		item.Strategy = menuscrape.Strategy(strategy)

		items = append(items, &item)
	}

	return items, rows.Err()
}

// DeleteMenu permanently removes a menu and all its items.
func (s *MenuService) DeleteMenu(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM menus WHERE id = ?", id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return menuscrape.Errorf(menuscrape.ENOTFOUND, "menu not found")
	}

	return nil
}
